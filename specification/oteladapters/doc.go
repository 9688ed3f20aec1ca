// Package oteladapters provides OpenTelemetry implementations of the observability interfaces
// declared in the specification package.
//
//   - SlogBridgeLogger: Logger and ContextualLogger via the otelslog bridge, with trace correlation
//   - OTelLogger: ContextualLogger via the OpenTelemetry log API
//   - MetricsCollector: ContextualMetricsCollector via the OpenTelemetry metric API
//   - TracingCollector: TracingCollector via the OpenTelemetry trace API
//
// The adapters plug into the record stores and the observable decorator:
//
//	store, err := observable.NewRecordStore(
//	    inner,
//	    observable.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("records"))),
//	    observable.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("records"))),
//	    observable.WithContextualLogger(oteladapters.NewSlogBridgeLogger("records")),
//	)
package oteladapters
