package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Pallinder/go-randomdata"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/specification-filter-go/example/catalog"
	"github.com/AntonStoeckl/specification-filter-go/specification"
	"github.com/AntonStoeckl/specification-filter-go/specification/observable"
	"github.com/AntonStoeckl/specification-filter-go/specification/oteladapters"
)

const (
	flagRate        = "rate"
	flagDuration    = "duration"
	flagQueryWeight = "query-weight"
	flagInitial     = "initial"

	defaultRate        = 30
	defaultDuration    = 10 * time.Second
	defaultQueryWeight = 80
	defaultInitial     = 1000

	// maxRate keeps the ticker interval at one microsecond or more.
	maxRate = int(time.Second / time.Microsecond)

	meterName = "github.com/AntonStoeckl/specification-filter-go/cmd/specfilter"
)

var ErrInvalidLoadConfig = errors.New("invalid load configuration")

type loadConfig struct {
	Rate        int
	Duration    time.Duration
	QueryWeight int
}

func (c loadConfig) validate() error {
	switch {
	case c.Rate <= 0 || c.Rate > maxRate:
		return errors.Join(ErrInvalidLoadConfig, fmt.Errorf("rate must be within 1..%d, got %d", maxRate, c.Rate))
	case c.Duration <= 0:
		return errors.Join(ErrInvalidLoadConfig, fmt.Errorf("duration must be positive, got %s", c.Duration))
	case c.QueryWeight < 0 || c.QueryWeight > 100:
		return errors.Join(ErrInvalidLoadConfig, fmt.Errorf("query weight must be within 0..100, got %d", c.QueryWeight))
	default:
		return nil
	}
}

type loadStats struct {
	Queries int64
	Saves   int64
	Errors  int64
	Elapsed time.Duration
}

// loadGenerator fires a mix of random queries and saves against a store at a fixed rate.
type loadGenerator struct {
	store  specification.RecordStore
	config loadConfig
	logger *slog.Logger

	wg      sync.WaitGroup
	queries atomic.Int64
	saves   atomic.Int64
	errors  atomic.Int64
}

func newLoadGenerator(store specification.RecordStore, cfg loadConfig, logger *slog.Logger) *loadGenerator {
	return &loadGenerator{store: store, config: cfg, logger: logger}
}

// Run generates load until the configured duration passed or ctx is canceled.
// It waits for in-flight operations before it returns the stats.
func (lg *loadGenerator) Run(ctx context.Context) loadStats {
	ctx, cancel := context.WithTimeout(ctx, lg.config.Duration)
	defer cancel()

	interval := time.Second / time.Duration(lg.config.Rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lg.logger.Info("load generator started", "rate", lg.config.Rate, "interval", interval, "query_weight", lg.config.QueryWeight)
	start := time.Now()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop

		case <-ticker.C:
			lg.wg.Add(1)
			go lg.executeScenario(context.WithoutCancel(ctx))
		}
	}

	lg.wg.Wait()

	stats := loadStats{
		Queries: lg.queries.Load(),
		Saves:   lg.saves.Load(),
		Errors:  lg.errors.Load(),
		Elapsed: time.Since(start),
	}

	lg.logger.Info("load generator stopped", "queries", stats.Queries, "saves", stats.Saves, "errors", stats.Errors)

	return stats
}

func (lg *loadGenerator) executeScenario(ctx context.Context) {
	defer lg.wg.Done()

	if randomdata.Number(0, 100) < lg.config.QueryWeight {
		lg.queries.Add(1)

		if _, err := lg.store.Query(specification.WithEventualConsistency(ctx), randomSpecification()); err != nil {
			lg.errors.Add(1)
		}

		return
	}

	lg.saves.Add(1)

	if err := lg.store.Save(ctx, randomProduct()); err != nil {
		lg.errors.Add(1)
	}
}

func randomSpecification() specification.Specification {
	color := randomdata.StringSample(productColors...)
	size := randomdata.StringSample(productSizes...)

	switch randomdata.Number(0, 5) {
	case 0:
		return specification.FieldEquals(catalog.FieldColor, color)
	case 1:
		return specification.FieldIn(catalog.FieldSize, size, randomdata.StringSample(productSizes...))
	case 2:
		return specification.BuildSpecification().
			Matching().
			AllPredicatesOf(specification.P(catalog.FieldColor, color), specification.P(catalog.FieldSize, size)).
			Finalize()
	case 3:
		return specification.Or(specification.FieldEquals(catalog.FieldColor, color), specification.Not(specification.FieldExists(fieldTags)))
	default:
		return specification.And(specification.FieldExists(catalog.FieldColor), specification.FieldEquals(fieldWeight, randomdata.Number(1, 1000)))
	}
}

// writeLoadReport prints the counters and the durations the store recorded into the meter provider.
func writeLoadReport(w io.Writer, stats loadStats, metrics metricdata.ResourceMetrics) error {
	if _, err := fmt.Fprintf(w, "queries: %d, saves: %d, errors: %d in %s\n",
		stats.Queries, stats.Saves, stats.Errors, stats.Elapsed.Round(time.Millisecond)); err != nil {

		return err
	}

	for _, name := range []string{observable.MetricQueryDuration, observable.MetricSaveDuration} {
		count, sum := histogramTotals(metrics, name)
		if count == 0 {
			continue
		}

		mean := time.Duration(sum / float64(count) * float64(time.Second))
		if _, err := fmt.Fprintf(w, "%s: count=%d mean=%s\n", name, count, mean.Round(time.Microsecond)); err != nil {
			return err
		}
	}

	return nil
}

func histogramTotals(metrics metricdata.ResourceMetrics, name string) (uint64, float64) {
	var count uint64
	var sum float64

	for _, scopeMetrics := range metrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			histogram, ok := m.Data.(metricdata.Histogram[float64])
			if !ok || m.Name != name {
				continue
			}

			for _, dataPoint := range histogram.DataPoints {
				count += dataPoint.Count
				sum += dataPoint.Sum
			}
		}
	}

	return count, sum
}

func newLoadCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Generate a mix of random queries and saves against a record store",
		Example: `  specfilter load --rate 100 --duration 30s
  specfilter load --store postgres --rate 50 --query-weight 90`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, handler, err := prepare(cmd, v)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			rate, _ := flags.GetInt(flagRate)
			duration, _ := flags.GetDuration(flagDuration)
			queryWeight, _ := flags.GetInt(flagQueryWeight)
			initial, _ := flags.GetInt(flagInitial)

			loadCfg := loadConfig{Rate: rate, Duration: duration, QueryWeight: queryWeight}
			if err := loadCfg.validate(); err != nil {
				return err
			}

			reader := sdkmetric.NewManualReader()
			provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			defer func() { _ = provider.Shutdown(context.WithoutCancel(cmd.Context())) }()

			store, closeStore, err := openStore(
				cmd.Context(),
				cfg,
				handler,
				randomProducts(max(initial, 0)),
				observable.WithMetrics(oteladapters.NewMetricsCollector(provider.Meter(meterName))),
			)
			if err != nil {
				return err
			}
			defer closeStore()

			stats := newLoadGenerator(store, loadCfg, slog.New(handler)).Run(cmd.Context())

			var metrics metricdata.ResourceMetrics
			if err := reader.Collect(context.WithoutCancel(cmd.Context()), &metrics); err != nil {
				return err
			}

			return writeLoadReport(cmd.OutOrStdout(), stats, metrics)
		},
	}

	cmd.Flags().Int(flagRate, defaultRate, "Operations per second")
	cmd.Flags().Duration(flagDuration, defaultDuration, "How long to generate load")
	cmd.Flags().Int(flagQueryWeight, defaultQueryWeight, "Share of queries in percent, the rest are saves")
	cmd.Flags().Int(flagInitial, defaultInitial, "Random records the memory store starts with")

	return cmd
}
