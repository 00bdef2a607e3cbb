// Package momentum scores a universe of instruments by trailing 12-month
// return as of the last trading day of the prior month.
package momentum

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hamr-lab/hamster-backtest/internal/monitoring"
	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

// DefaultToleranceDays is how stale the end-of-period price may be, in
// calendar days, before the instrument is excluded.
const DefaultToleranceDays = 15

// DefaultAverageWindow is the moving-average length reported alongside each
// entry, matching the backtest engine's default trend window.
const DefaultAverageWindow = 200

// Source supplies price series and, when no explicit universe is given, the
// set of available symbols.
type Source interface {
	PriceSeries(symbol string) (types.PriceSeries, error)
	Symbols() ([]string, error)
}

// Entry is one ranked instrument. EndAverage is informational: the trailing
// moving average at the end reference date, NaN when there is not enough
// history to compute it.
type Entry struct {
	Symbol     string  `json:"symbol"`
	Return     float64 `json:"return"`
	EndPrice   float64 `json:"end_price"`
	EndAverage float64 `json:"end_average"`
	Rank       int     `json:"rank"`
}

// Ranker computes cross-sectional momentum rankings. Instruments without
// usable data at the reference dates are excluded, never reported as zero:
// the ranking is best-effort over whatever data is sufficient.
type Ranker struct {
	source    Source
	tolerance int
	window    int
	now       func() time.Time
	logger    *zap.Logger
}

// Option customizes a Ranker.
type Option func(*Ranker)

// WithTolerance sets the staleness tolerance in calendar days for the end
// reference lookup.
func WithTolerance(days int) Option {
	return func(r *Ranker) { r.tolerance = days }
}

// WithAverageWindow sets the moving-average length reported per entry.
func WithAverageWindow(window int) Option {
	return func(r *Ranker) { r.window = window }
}

// WithClock overrides the reference clock. Used by tests and by callers
// re-running historical rankings.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) { r.now = now }
}

// WithLogger attaches a logger for per-instrument exclusion diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Ranker) { r.logger = logger }
}

// NewRanker creates a momentum ranker over the given source.
func NewRanker(source Source, opts ...Option) *Ranker {
	r := &Ranker{
		source:    source,
		tolerance: DefaultToleranceDays,
		window:    DefaultAverageWindow,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReferenceDates returns the end and start reference dates for a ranking as
// of now: the last calendar day of the previous month, and that date minus
// twelve months.
func ReferenceDates(now time.Time) (endRef, startRef time.Time) {
	day := types.Day(now)
	endRef = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	startRef = endRef.AddDate(-1, 0, 0)
	return endRef, startRef
}

// Rank scores the given symbols, or the source's whole universe when the
// slice is empty, and returns the successful entries sorted descending by
// trailing return with 1-indexed ranks. Per-instrument failures exclude
// that instrument only and never abort the pass.
func (r *Ranker) Rank(symbols []string) ([]Entry, error) {
	if len(symbols) == 0 {
		var err error
		if symbols, err = r.source.Symbols(); err != nil {
			return nil, err
		}
	}
	endRef, startRef := ReferenceDates(r.now())

	entries := make([]Entry, 0, len(symbols))
	for _, symbol := range symbols {
		entry, ok := r.score(symbol, endRef, startRef)
		if ok {
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Return != entries[j].Return {
			return entries[i].Return > entries[j].Return
		}
		return entries[i].Symbol < entries[j].Symbol
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	monitoring.ObserveRanking(len(entries))
	return entries, nil
}

// score computes one instrument's trailing return. The end lookup fails on
// missing or stale data; the start lookup fails only when no observation
// exists at all, since a year-old comparison point is legitimately old.
func (r *Ranker) score(symbol string, endRef, startRef time.Time) (Entry, bool) {
	series, err := r.source.PriceSeries(symbol)
	if err != nil {
		r.logger.Debug("momentum: excluding instrument",
			zap.String("symbol", symbol), zap.Error(err))
		return Entry{}, false
	}

	end, ok := series.LatestAtOrBefore(endRef)
	if !ok || endRef.Sub(end.Date) > time.Duration(r.tolerance)*24*time.Hour {
		r.logger.Debug("momentum: end reference missing or stale",
			zap.String("symbol", symbol))
		return Entry{}, false
	}

	start, ok := series.LatestAtOrBefore(startRef)
	if !ok {
		r.logger.Debug("momentum: no start reference data",
			zap.String("symbol", symbol))
		return Entry{}, false
	}

	return Entry{
		Symbol:     symbol,
		Return:     end.Price/start.Price - 1,
		EndPrice:   end.Price,
		EndAverage: trailingAverage(series, endRef, r.window),
	}, true
}

// trailingAverage is the mean of the last window observations at or before
// the reference date, NaN when fewer exist.
func trailingAverage(series types.PriceSeries, ref time.Time, window int) float64 {
	hi := len(series)
	for hi > 0 && series[hi-1].Date.After(ref) {
		hi--
	}
	if window < 1 || hi < window {
		return math.NaN()
	}
	sum := 0.0
	for _, p := range series[hi-window : hi] {
		sum += p.Price
	}
	return sum / float64(window)
}
