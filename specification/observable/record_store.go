package observable

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/specification-filter-go/specification"
)

const (
	defaultStoreName = "records"

	operationQuery = "query"
	operationSave  = "save"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
	StatusTimeout  = "timeout"

	MetricQueryDuration   = "specification_store_query_duration_seconds"
	MetricSaveDuration    = "specification_store_save_duration_seconds"
	MetricOperationsTotal = "specification_store_operations_total"
	MetricErrorsTotal     = "specification_store_errors_total"
	MetricRecordsQueried  = "specification_store_records_queried"
	MetricRecordsSaved    = "specification_store_records_saved"

	SpanNameQuery = "recordstore.query"
	SpanNameSave  = "recordstore.save"

	LabelStore     = "store"
	LabelOperation = "operation"
	LabelStatus    = "status"

	spanAttrSpecification = "specification"
	spanAttrConsistency   = "consistency"
	spanAttrRecordCount   = "record_count"
	spanAttrDurationMS    = "duration_ms"
	spanAttrError         = "error"

	logMsgStarted   = "record store operation started"
	logMsgCompleted = "record store operation completed"
	logMsgFailed    = "record store operation failed"
	logAttrStore    = "store"
	logAttrOp       = "operation"
	logAttrStatus   = "status"
	logAttrCount    = "record_count"
	logAttrDuration = "duration_ms"
	logAttrSpec     = "specification"
	logAttrError    = "error"
)

// ErrEmptyStoreName is returned by WithStoreName for an empty name.
var ErrEmptyStoreName = errors.New("empty store name supplied")

// RecordStore decorates a specification.RecordStore with observability instrumentation.
type RecordStore struct {
	querier          specification.RecordQuerier
	saver            specification.RecordSaver
	storeName        string
	metricsCollector specification.MetricsCollector
	tracingCollector specification.TracingCollector
	contextualLogger specification.ContextualLogger
	logger           specification.Logger
}

// RecordQuerier decorates a read-only specification.RecordQuerier, e.g. a replica view, with the same
// instrumentation as RecordStore.
type RecordQuerier struct {
	rs *RecordStore
}

// NewRecordStore wraps the inner store.
func NewRecordStore(inner specification.RecordStore, options ...Option) (*RecordStore, error) {
	if inner == nil {
		return nil, specification.ErrNilRecordStore
	}

	return newRecordStore(inner, inner, options...)
}

// NewRecordQuerier wraps the inner querier, the options are the ones of RecordStore.
func NewRecordQuerier(inner specification.RecordQuerier, options ...Option) (*RecordQuerier, error) {
	if inner == nil {
		return nil, specification.ErrNilRecordStore
	}

	rs, err := newRecordStore(inner, nil, options...)
	if err != nil {
		return nil, err
	}

	return &RecordQuerier{rs: rs}, nil
}

// Query delegates to the inner querier and records the outcome.
func (rq *RecordQuerier) Query(ctx context.Context, spec specification.Specification) (specification.Records, error) {
	return rq.rs.Query(ctx, spec)
}

func newRecordStore(
	querier specification.RecordQuerier,
	saver specification.RecordSaver,
	options ...Option,
) (*RecordStore, error) {

	rs := &RecordStore{
		querier:   querier,
		saver:     saver,
		storeName: defaultStoreName,
	}

	for _, option := range options {
		if err := option(rs); err != nil {
			return nil, err
		}
	}

	return rs, nil
}

// Query delegates to the inner store and records the outcome.
func (rs *RecordStore) Query(ctx context.Context, spec specification.Specification) (specification.Records, error) {
	description := specification.Describe(spec)

	start := time.Now()
	ctx, span := rs.startSpan(ctx, SpanNameQuery, map[string]string{
		LabelStore:            rs.storeName,
		LabelOperation:        operationQuery,
		spanAttrSpecification: description,
		spanAttrConsistency:   specification.GetConsistencyLevel(ctx).String(),
	})
	rs.logDebug(ctx, logMsgStarted, logAttrStore, rs.storeName, logAttrOp, operationQuery, logAttrSpec, description)

	records, err := rs.querier.Query(ctx, spec)

	duration := time.Since(start)
	if err != nil {
		rs.recordFailure(ctx, span, operationQuery, MetricQueryDuration, duration, err)

		return records, err
	}

	rs.recordSuccess(ctx, span, operationQuery, MetricQueryDuration, duration, len(records))
	rs.recordValue(ctx, MetricRecordsQueried, float64(len(records)), operationQuery)

	return records, nil
}

// Save delegates to the inner store and records the outcome.
func (rs *RecordStore) Save(
	ctx context.Context,
	record specification.Record,
	additionalRecords ...specification.Record,
) error {

	recordCount := 1 + len(additionalRecords)

	start := time.Now()
	ctx, span := rs.startSpan(ctx, SpanNameSave, map[string]string{
		LabelStore:          rs.storeName,
		LabelOperation:      operationSave,
		spanAttrRecordCount: strconv.Itoa(recordCount),
	})
	rs.logDebug(ctx, logMsgStarted, logAttrStore, rs.storeName, logAttrOp, operationSave, logAttrCount, recordCount)

	err := rs.saver.Save(ctx, record, additionalRecords...)

	duration := time.Since(start)
	if err != nil {
		rs.recordFailure(ctx, span, operationSave, MetricSaveDuration, duration, err)

		return err
	}

	rs.recordSuccess(ctx, span, operationSave, MetricSaveDuration, duration, recordCount)
	rs.recordValue(ctx, MetricRecordsSaved, float64(recordCount), operationSave)

	return nil
}

func (rs *RecordStore) recordSuccess(
	ctx context.Context,
	span specification.SpanContext,
	operation string,
	durationMetric string,
	duration time.Duration,
	recordCount int,
) {

	rs.recordDuration(ctx, durationMetric, duration, operation, StatusSuccess)
	rs.incrementCounter(ctx, MetricOperationsTotal, operation, StatusSuccess)
	rs.finishSpan(span, StatusSuccess, map[string]string{
		spanAttrRecordCount: strconv.Itoa(recordCount),
		spanAttrDurationMS:  fmt.Sprintf("%.2f", toMilliseconds(duration)),
	})
	rs.logInfo(ctx, logMsgCompleted,
		logAttrStore, rs.storeName,
		logAttrOp, operation,
		logAttrStatus, StatusSuccess,
		logAttrCount, recordCount,
		logAttrDuration, toMilliseconds(duration),
	)
}

func (rs *RecordStore) recordFailure(
	ctx context.Context,
	span specification.SpanContext,
	operation string,
	durationMetric string,
	duration time.Duration,
	err error,
) {

	status := ClassifyError(err)

	rs.recordDuration(ctx, durationMetric, duration, operation, status)
	rs.incrementCounter(ctx, MetricOperationsTotal, operation, status)
	if status == StatusError {
		rs.incrementCounter(ctx, MetricErrorsTotal, operation, status)
	}

	rs.finishSpan(span, status, map[string]string{
		spanAttrError:      err.Error(),
		spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration)),
	})
	rs.logError(ctx, logMsgFailed,
		logAttrStore, rs.storeName,
		logAttrOp, operation,
		logAttrStatus, status,
		logAttrDuration, toMilliseconds(duration),
		logAttrError, err.Error(),
	)
}

// ClassifyError maps an operation error to a status: canceled, timeout or error.
func ClassifyError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}

/*** metrics ***/

func (rs *RecordStore) labels(operation, status string) map[string]string {
	return map[string]string{
		LabelStore:     rs.storeName,
		LabelOperation: operation,
		LabelStatus:    status,
	}
}

func (rs *RecordStore) recordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if rs.metricsCollector == nil {
		return
	}

	if contextual, ok := rs.metricsCollector.(specification.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, rs.labels(operation, status))
		return
	}

	rs.metricsCollector.RecordDuration(metric, duration, rs.labels(operation, status))
}

func (rs *RecordStore) incrementCounter(ctx context.Context, metric, operation, status string) {
	if rs.metricsCollector == nil {
		return
	}

	if contextual, ok := rs.metricsCollector.(specification.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, rs.labels(operation, status))
		return
	}

	rs.metricsCollector.IncrementCounter(metric, rs.labels(operation, status))
}

func (rs *RecordStore) recordValue(ctx context.Context, metric string, value float64, operation string) {
	if rs.metricsCollector == nil {
		return
	}

	if contextual, ok := rs.metricsCollector.(specification.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, rs.labels(operation, StatusSuccess))
		return
	}

	rs.metricsCollector.RecordValue(metric, value, rs.labels(operation, StatusSuccess))
}

/*** tracing ***/

func (rs *RecordStore) startSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, specification.SpanContext) {

	if rs.tracingCollector == nil {
		return ctx, nil
	}

	return rs.tracingCollector.StartSpan(ctx, name, attrs)
}

func (rs *RecordStore) finishSpan(span specification.SpanContext, status string, attrs map[string]string) {
	if rs.tracingCollector == nil || span == nil {
		return
	}

	rs.tracingCollector.FinishSpan(span, status, attrs)
}

/*** logging ***/

func (rs *RecordStore) logDebug(ctx context.Context, msg string, args ...any) {
	switch {
	case rs.contextualLogger != nil:
		rs.contextualLogger.DebugContext(ctx, msg, args...)
	case rs.logger != nil:
		rs.logger.Debug(msg, args...)
	}
}

func (rs *RecordStore) logInfo(ctx context.Context, msg string, args ...any) {
	switch {
	case rs.contextualLogger != nil:
		rs.contextualLogger.InfoContext(ctx, msg, args...)
	case rs.logger != nil:
		rs.logger.Info(msg, args...)
	}
}

func (rs *RecordStore) logError(ctx context.Context, msg string, args ...any) {
	switch {
	case rs.contextualLogger != nil:
		rs.contextualLogger.ErrorContext(ctx, msg, args...)
	case rs.logger != nil:
		rs.logger.Error(msg, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

var (
	_ specification.RecordStore   = (*RecordStore)(nil)
	_ specification.RecordQuerier = (*RecordQuerier)(nil)
)
