// Package backtest simulates a trend-following strategy over an aligned
// price window and derives risk/return metrics from the resulting equity
// curves.
package backtest

import (
	"time"

	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

// EquityCurve is a cumulative growth multiplier series, normalized to 1.0
// at the first date of the analysis window.
type EquityCurve struct {
	Dates  []time.Time
	Values []float64
}

// Len returns the number of points on the curve.
func (c EquityCurve) Len() int {
	return len(c.Values)
}

// Final returns the last multiplier, or 1 for an empty curve.
func (c EquityCurve) Final() float64 {
	if len(c.Values) == 0 {
		return 1
	}
	return c.Values[len(c.Values)-1]
}

// Returns derives the one-day percentage-change series of the curve. The
// first element is 0 by construction; days the strategy sat flat also show
// 0 because the curve does not move.
func (c EquityCurve) Returns() []float64 {
	returns := make([]float64, len(c.Values))
	for t := 1; t < len(c.Values); t++ {
		returns[t] = c.Values[t]/c.Values[t-1] - 1
	}
	return returns
}

// Drawdowns returns the per-date decline from the running peak, as
// non-positive fractions (0 at new highs).
func (c EquityCurve) Drawdowns() []float64 {
	dd := make([]float64, len(c.Values))
	peak := 0.0
	for t, v := range c.Values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd[t] = v/peak - 1
		}
	}
	return dd
}

// StrategyCurve compounds the traded instrument's daily returns while the
// position is held. A day's return is earned only when the position was
// held at both t-1 and t: the crossover is confirmed at the close, so a
// freshly entered position cannot be credited with that same day's move.
func StrategyCurve(w *types.AlignedWindow, invested []bool) EquityCurve {
	values := make([]float64, w.Len())
	if w.Len() == 0 {
		return EquityCurve{Dates: w.Dates, Values: values}
	}
	values[0] = 1
	for t := 1; t < w.Len(); t++ {
		if invested[t] && invested[t-1] {
			values[t] = values[t-1] * (w.Traded[t] / w.Traded[t-1])
		} else {
			values[t] = values[t-1]
		}
	}
	return EquityCurve{Dates: w.Dates, Values: values}
}

// BuyHoldCurve compounds daily returns unconditionally from the first date.
func BuyHoldCurve(dates []time.Time, prices []float64) EquityCurve {
	values := make([]float64, len(prices))
	if len(prices) == 0 {
		return EquityCurve{Dates: dates, Values: values}
	}
	values[0] = 1
	for t := 1; t < len(prices); t++ {
		values[t] = values[t-1] * (prices[t] / prices[t-1])
	}
	return EquityCurve{Dates: dates, Values: values}
}
