package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamr-lab/hamster-backtest/internal/series"
)

var base = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// alignedFixture builds an Aligned join directly, bypassing the aligner, so
// the averaging math can be pinned against hand-computed values.
func alignedFixture(prices []float64, offset int) *series.Aligned {
	a := &series.Aligned{Offset: offset}
	for i, p := range prices {
		a.Dates = append(a.Dates, base.AddDate(0, 0, i))
		a.Signal = append(a.Signal, p)
		a.Traded = append(a.Traded, p*3)
	}
	return a
}

func TestAverages_SMA(t *testing.T) {
	a := alignedFixture([]float64{100, 100, 100, 105, 95, 90, 110}, 3)

	w := Averages(a, 3, SMA)
	require.Equal(t, 4, w.Len())

	assert.InDelta(t, (100.0+100+105)/3, w.Average[0], 1e-12)
	assert.InDelta(t, (100.0+105+95)/3, w.Average[1], 1e-12)
	assert.InDelta(t, (105.0+95+90)/3, w.Average[2], 1e-12)
	assert.InDelta(t, (95.0+90+110)/3, w.Average[3], 1e-12)

	// Prices and dates carry over untouched
	assert.Equal(t, []float64{105, 95, 90, 110}, w.Signal)
	assert.Equal(t, []float64{315, 285, 270, 330}, w.Traded)
	assert.Equal(t, base.AddDate(0, 0, 3), w.Dates[0])
}

func TestAverages_SMA_ConstantSeries(t *testing.T) {
	a := alignedFixture([]float64{50, 50, 50, 50, 50, 50}, 4)

	w := Averages(a, 4, SMA)
	require.Equal(t, 2, w.Len())
	assert.InDelta(t, 50, w.Average[0], 1e-12)
	assert.InDelta(t, 50, w.Average[1], 1e-12)
}

func TestAverages_EMA(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14}
	a := alignedFixture(prices, 3)

	w := Averages(a, 3, EMA)
	require.Equal(t, 2, w.Len())

	// Span smoothing: alpha = 2/(3+1) = 0.5, seeded at the first price.
	ema := prices[0]
	for _, p := range prices[1:4] {
		ema = 0.5*p + 0.5*ema
	}
	assert.InDelta(t, ema, w.Average[0], 1e-12)
	ema = 0.5*prices[4] + 0.5*ema
	assert.InDelta(t, ema, w.Average[1], 1e-12)
}

func TestMAType_String(t *testing.T) {
	assert.Equal(t, "SMA", SMA.String())
	assert.Equal(t, "EMA", EMA.String())
}
