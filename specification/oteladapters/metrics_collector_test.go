package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/specification-filter-go/specification/oteladapters"
)

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics), "collecting metrics failed")

	return resourceMetrics
}

func findMetric[T any](t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) T {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if data, ok := m.Data.(T); ok && m.Name == name {
				return data
			}
		}
	}

	var zero T
	t.Fatalf("metric %s not found", name)

	return zero
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "query", "status": "success"}

	// act
	collector.RecordDuration("specification_store_query_duration_seconds", 150*time.Millisecond, labels)

	// assert
	histogram := findMetric[metricdata.Histogram[float64]](t, collect(t, reader), "specification_store_query_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	expectedAttrs := attribute.NewSet(attribute.String("operation", "query"), attribute.String("status", "success"))
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.15, dataPoint.Sum, 0.001)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "save"}

	collector.IncrementCounter("specification_store_operations_total", labels)
	collector.IncrementCounterContext(context.Background(), "specification_store_operations_total", labels)
	collector.IncrementCounter("specification_store_operations_total", labels)

	sum := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "specification_store_operations_total")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	collector, reader := givenMetricsCollector()

	collector.RecordValue("specification_store_records_queried", 7, nil)
	collector.RecordValueContext(context.Background(), "specification_store_records_queried", 3, nil)

	gauge := findMetric[metricdata.Gauge[float64]](t, collect(t, reader), "specification_store_records_queried")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 3.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_SeparatesLabelSets(t *testing.T) {
	collector, reader := givenMetricsCollector()

	collector.IncrementCounter("specification_store_errors_total", map[string]string{"store": "bolt"})
	collector.IncrementCounter("specification_store_errors_total", map[string]string{"store": "postgres"})

	sum := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "specification_store_errors_total")
	assert.Len(t, sum.DataPoints, 2)
}
