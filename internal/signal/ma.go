// Package signal turns an aligned price window into trend-crossover events
// and a day-by-day invested/flat position stream.
package signal

import (
	"time"

	"github.com/hamr-lab/hamster-backtest/internal/series"
	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

// MAType selects the moving-average flavor driving the trend signal.
type MAType int

const (
	// SMA is the simple (arithmetic) moving average. Default.
	SMA MAType = iota
	// EMA is the exponential moving average with span smoothing
	// (alpha = 2 / (window + 1)).
	EMA
)

// String returns the conventional short name of the average type.
func (t MAType) String() string {
	if t == EMA {
		return "EMA"
	}
	return "SMA"
}

// Averages computes the moving average of the signal series for every row
// inside the requested range and returns the trimmed analysis window. The
// aligner guarantees at least window rows of warm-up history, so every
// returned row carries a fully defined average.
func Averages(a *series.Aligned, window int, maType MAType) *types.AlignedWindow {
	n := a.AnalysisRows()
	w := &types.AlignedWindow{
		Dates:   make([]time.Time, n),
		Signal:  make([]float64, n),
		Traded:  make([]float64, n),
		Average: make([]float64, n),
	}
	copy(w.Dates, a.Dates[a.Offset:])
	copy(w.Signal, a.Signal[a.Offset:])
	copy(w.Traded, a.Traded[a.Offset:])

	switch maType {
	case EMA:
		fillEMA(w, a, window)
	default:
		fillSMA(w, a, window)
	}
	return w
}

// fillSMA writes the trailing-window arithmetic mean, inclusive of the row
// itself, using warm-up rows from before the analysis range.
func fillSMA(w *types.AlignedWindow, a *series.Aligned, window int) {
	// Rolling sum over the buffered series, emitted only for analysis rows.
	sum := 0.0
	for i, p := range a.Signal {
		sum += p
		if i >= window {
			sum -= a.Signal[i-window]
		}
		if i >= a.Offset && i >= window-1 {
			w.Average[i-a.Offset] = sum / float64(window)
		}
	}
}

// fillEMA writes the span-smoothed exponential average, seeded at the first
// buffered observation so the analysis rows see a settled value.
func fillEMA(w *types.AlignedWindow, a *series.Aligned, window int) {
	alpha := 2.0 / (float64(window) + 1.0)
	ema := a.Signal[0]
	for i, p := range a.Signal {
		if i > 0 {
			ema = alpha*p + (1-alpha)*ema
		}
		if i >= a.Offset {
			w.Average[i-a.Offset] = ema
		}
	}
}
