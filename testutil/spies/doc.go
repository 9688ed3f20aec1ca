// Package spies provides test doubles which capture the calls of the observability interfaces
// declared in the specification package: Logger, ContextualLogger, MetricsCollector and TracingCollector.
package spies
