package backtest

import "time"

// MonthlyReturn is the compounded return of one calendar month.
type MonthlyReturn struct {
	Year   int
	Month  time.Month
	Return float64
}

// MonthlyReturns compounds a daily return series into per-month returns, in
// chronological order. Months touched by the window but containing only a
// single flat day still appear, with a zero return.
func MonthlyReturns(dates []time.Time, returns []float64) []MonthlyReturn {
	var out []MonthlyReturn
	for t, d := range dates {
		if n := len(out); n == 0 || out[n-1].Year != d.Year() || out[n-1].Month != d.Month() {
			out = append(out, MonthlyReturn{Year: d.Year(), Month: d.Month()})
		}
		cur := &out[len(out)-1]
		cur.Return = (1+cur.Return)*(1+returns[t]) - 1
	}
	return out
}
