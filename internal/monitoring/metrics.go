// Package monitoring exposes Prometheus instrumentation for engine runs.
package monitoring

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bterrors "github.com/hamr-lab/hamster-backtest/internal/errors"
)

var (
	backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamster_backtests_total",
			Help: "Total number of backtest runs",
		},
		[]string{"outcome"},
	)

	backtestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hamster_backtest_duration_seconds",
			Help:    "Distribution of backtest run durations",
			Buckets: prometheus.DefBuckets,
		},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hamster_engine_errors_total",
			Help: "Total number of engine errors by category",
		},
		[]string{"category"},
	)

	rankingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hamster_momentum_rankings_total",
			Help: "Total number of momentum ranking passes",
		},
	)

	rankedInstruments = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hamster_momentum_ranked_instruments",
			Help:    "Distribution of ranked universe sizes",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)
)

func init() {
	prometheus.MustRegister(backtestsTotal)
	prometheus.MustRegister(backtestDuration)
	prometheus.MustRegister(errorsTotal)
	prometheus.MustRegister(rankingsTotal)
	prometheus.MustRegister(rankedInstruments)
}

// ObserveBacktest records the outcome and duration of one backtest run.
func ObserveBacktest(elapsed time.Duration, err error) {
	backtestDuration.Observe(elapsed.Seconds())
	if err == nil {
		backtestsTotal.WithLabelValues("ok").Inc()
		return
	}
	backtestsTotal.WithLabelValues("error").Inc()

	category := "UNKNOWN"
	var ee *bterrors.EngineError
	if errors.As(err, &ee) {
		category = string(ee.Category)
	}
	errorsTotal.WithLabelValues(category).Inc()
}

// ObserveRanking records the size of one completed ranking pass.
func ObserveRanking(ranked int) {
	rankingsTotal.Inc()
	rankedInstruments.Observe(float64(ranked))
}

// Handler returns the Prometheus metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
