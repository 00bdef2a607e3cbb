package data

import "github.com/hamr-lab/hamster-backtest/pkg/types"

// AdjustForSplits back-adjusts prices across unadjusted share splits. Any
// one-day move whose magnitude reaches the threshold and whose ratio lands
// in (0, 1) is treated as a split: every earlier price is scaled by the
// ratio so the series stays continuous. Upward jumps are left alone; a
// reverse-split ratio above 1 would need the opposite correction and the
// refresh script already handles those.
func AdjustForSplits(series types.PriceSeries, threshold float64) types.PriceSeries {
	adjusted := make(types.PriceSeries, len(series))
	copy(adjusted, series)

	for i := 1; i < len(adjusted); i++ {
		r := adjusted[i].Price/adjusted[i-1].Price - 1
		if r >= threshold || r <= -threshold {
			ratio := 1 + r
			if ratio <= 0 || ratio >= 1 {
				continue
			}
			for j := 0; j < i; j++ {
				adjusted[j].Price *= ratio
			}
		}
	}
	return adjusted
}
