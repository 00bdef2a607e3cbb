package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

func splitFixture(prices ...float64) types.PriceSeries {
	start := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, len(prices))
	for i, p := range prices {
		series[i] = types.PricePoint{Date: start.AddDate(0, 0, i), Price: p}
	}
	return series
}

func TestAdjustForSplits_FourToOne(t *testing.T) {
	// A 4:1 split shows up as a -75% day. Everything before it scales down.
	series := splitFixture(400, 408, 102, 103)

	adjusted := AdjustForSplits(series, DefaultSplitThreshold)
	require.Len(t, adjusted, 4)
	assert.InDelta(t, 100, adjusted[0].Price, 1e-9)
	assert.InDelta(t, 102, adjusted[1].Price, 1e-9)
	assert.InDelta(t, 102, adjusted[2].Price, 1e-9)
	assert.InDelta(t, 103, adjusted[3].Price, 1e-9)
}

func TestAdjustForSplits_TwoSplits(t *testing.T) {
	// Two 2:1 splits compound: the oldest prices end up at a quarter.
	series := splitFixture(400, 200, 100)

	adjusted := AdjustForSplits(series, DefaultSplitThreshold)
	assert.InDelta(t, 100, adjusted[0].Price, 1e-9)
	assert.InDelta(t, 100, adjusted[1].Price, 1e-9)
	assert.InDelta(t, 100, adjusted[2].Price, 1e-9)
}

func TestAdjustForSplits_BelowThresholdUntouched(t *testing.T) {
	series := splitFixture(100, 80, 85)

	adjusted := AdjustForSplits(series, DefaultSplitThreshold)
	assert.InDelta(t, 100, adjusted[0].Price, 1e-12)
	assert.InDelta(t, 80, adjusted[1].Price, 1e-12)
}

func TestAdjustForSplits_UpwardJumpIgnored(t *testing.T) {
	// A big rally is not a split. Only downward jumps back-adjust.
	series := splitFixture(100, 150, 160)

	adjusted := AdjustForSplits(series, DefaultSplitThreshold)
	assert.InDelta(t, 100, adjusted[0].Price, 1e-12)
	assert.InDelta(t, 150, adjusted[1].Price, 1e-12)
}

func TestAdjustForSplits_InputNotMutated(t *testing.T) {
	series := splitFixture(400, 100, 101)

	_ = AdjustForSplits(series, DefaultSplitThreshold)
	assert.InDelta(t, 400, series[0].Price, 1e-12)
}

func TestAdjustForSplits_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, AdjustForSplits(nil, DefaultSplitThreshold))

	one := splitFixture(100)
	adjusted := AdjustForSplits(one, DefaultSplitThreshold)
	require.Len(t, adjusted, 1)
	assert.InDelta(t, 100, adjusted[0].Price, 1e-12)
}
