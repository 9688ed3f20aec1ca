// Package observable provides a decorator which adds metrics, tracing and logging to any specification.RecordStore.
//
// The wrapped store stays unaware of the instrumentation:
//
//	store, err := observable.NewRecordStore(
//	    boltStore,
//	    observable.WithStoreName("bolt"),
//	    observable.WithMetrics(metricsCollector),
//	    observable.WithTracing(tracingCollector),
//	    observable.WithContextualLogger(logger),
//	)
//
// Canceled and timed out operations are reported with their own status, so they don't pollute the error rate.
package observable
