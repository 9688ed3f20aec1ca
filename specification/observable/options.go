package observable

import (
	"github.com/AntonStoeckl/specification-filter-go/specification"
)

// Option defines a functional option for configuring RecordStore.
type Option func(*RecordStore) error

// WithStoreName sets the store label used in metrics, spans and logs.
func WithStoreName(storeName string) Option {
	return func(rs *RecordStore) error {
		if storeName == "" {
			return ErrEmptyStoreName
		}

		rs.storeName = storeName

		return nil
	}
}

// WithLogger sets the basic logger for the RecordStore.
func WithLogger(logger specification.Logger) Option {
	return func(rs *RecordStore) error {
		rs.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the RecordStore, it takes precedence over the basic logger.
func WithContextualLogger(logger specification.ContextualLogger) Option {
	return func(rs *RecordStore) error {
		rs.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the RecordStore.
// Collectors which also implement specification.ContextualMetricsCollector receive the operation context.
func WithMetrics(collector specification.MetricsCollector) Option {
	return func(rs *RecordStore) error {
		rs.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the RecordStore.
func WithTracing(collector specification.TracingCollector) Option {
	return func(rs *RecordStore) error {
		rs.tracingCollector = collector
		return nil
	}
}
