package backtest

import "math"

// TradingDaysPerYear is the annualization base for volatility and the
// risk-adjusted ratios.
const TradingDaysPerYear = 252

// Summary bundles the performance metrics of one equity curve. Metrics that
// are undefined for the given curve (zero elapsed time, zero volatility, no
// losing days, zero drawdown) are NaN rather than errors: a strategy that
// never trades still has a valid, flat curve and a reportable summary.
type Summary struct {
	Final                float64 `json:"final_multiplier"`
	TotalReturn          float64 `json:"total_return"`
	CAGR                 float64 `json:"cagr"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	Sharpe               float64 `json:"sharpe"`
	Sortino              float64 `json:"sortino"`
	Calmar               float64 `json:"calmar"`
	TradeCount           int     `json:"trade_count"`
}

// Analyze computes the performance summary of an equity curve. tradeCount
// is taken from the signal stream, not re-derived from positions, so held
// days are never double counted.
func Analyze(curve EquityCurve, tradeCount int) Summary {
	s := Summary{
		Final:                curve.Final(),
		CAGR:                 math.NaN(),
		AnnualizedVolatility: math.NaN(),
		Sharpe:               math.NaN(),
		Sortino:              math.NaN(),
		Calmar:               math.NaN(),
		TradeCount:           tradeCount,
	}
	if curve.Len() == 0 {
		s.TotalReturn = 0
		return s
	}

	s.TotalReturn = curve.Values[curve.Len()-1]/curve.Values[0] - 1

	years := curve.Dates[curve.Len()-1].Sub(curve.Dates[0]).Hours() / 24 / 365
	if years > 0 {
		s.CAGR = math.Pow(1+s.TotalReturn, 1/years) - 1
	}

	s.MaxDrawdown = maxDrawdown(curve)

	daily := curve.Returns()
	if len(daily) > 1 {
		mean, std := meanStd(daily)
		s.AnnualizedVolatility = std * math.Sqrt(TradingDaysPerYear)
		if std > 0 {
			s.Sharpe = mean / std * math.Sqrt(TradingDaysPerYear)
		}
		var downside []float64
		for _, r := range daily {
			if r < 0 {
				downside = append(downside, r)
			}
		}
		if len(downside) > 1 {
			if _, dstd := meanStd(downside); dstd > 0 {
				s.Sortino = mean / dstd * math.Sqrt(TradingDaysPerYear)
			}
		}
	}

	if !math.IsNaN(s.CAGR) && s.MaxDrawdown > 0 {
		s.Calmar = s.CAGR / s.MaxDrawdown
	}
	return s
}

// maxDrawdown returns the largest peak-to-trough decline as a positive
// fraction in [0, 1] for any curve starting at 1 with non-negative values.
func maxDrawdown(curve EquityCurve) float64 {
	worst := 0.0
	peak := 0.0
	for _, v := range curve.Values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := 1 - v/peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// meanStd returns the mean and sample standard deviation of values.
func meanStd(values []float64) (float64, float64) {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values) - 1)
	return mean, math.Sqrt(variance)
}
