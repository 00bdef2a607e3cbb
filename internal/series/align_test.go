package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bterrors "github.com/hamr-lab/hamster-backtest/internal/errors"
	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

// dailySeries builds n consecutive calendar-day observations starting at
// base, with prices start, start+step, start+2*step, ...
func dailySeries(base time.Time, n int, start, step float64) types.PriceSeries {
	s := make(types.PriceSeries, n)
	for i := 0; i < n; i++ {
		s[i] = types.PricePoint{Date: base.AddDate(0, 0, i), Price: start + float64(i)*step}
	}
	return s
}

var base = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAlign_InvalidRange(t *testing.T) {
	s := dailySeries(base, 10, 100, 1)

	_, err := Align(s, s, 5, base.AddDate(0, 0, 9), base.AddDate(0, 0, 2))
	require.Error(t, err)
	assert.True(t, bterrors.IsInvalidRange(err))

	// start == end is also invalid
	_, err = Align(s, s, 5, base, base)
	assert.True(t, bterrors.IsInvalidRange(err))
}

func TestAlign_InvalidWindow(t *testing.T) {
	s := dailySeries(base, 10, 100, 1)

	_, err := Align(s, s, 0, base, base.AddDate(0, 0, 9))
	require.Error(t, err)
	assert.True(t, bterrors.IsInvalidRange(err))
}

func TestAlign_NoOverlap(t *testing.T) {
	a := dailySeries(base, 10, 100, 1)
	b := dailySeries(base.AddDate(1, 0, 0), 10, 50, 1)

	_, err := Align(a, b, 3, base.AddDate(0, 0, 5), base.AddDate(0, 0, 9))
	require.Error(t, err)
	assert.True(t, bterrors.IsNoOverlap(err))
}

func TestAlign_InsufficientHistory(t *testing.T) {
	// 150 aligned rows in total can never satisfy a 200-day window.
	s := dailySeries(base, 150, 100, 1)

	_, err := Align(s, s, 200, base.AddDate(0, 0, 140), base.AddDate(0, 0, 149))
	require.Error(t, err)
	assert.True(t, bterrors.IsInsufficientHistory(err))
}

func TestAlign_InsufficientHistoryBeforeStart(t *testing.T) {
	// Plenty of rows overall, but only 4 precede the requested start.
	s := dailySeries(base, 60, 100, 1)

	_, err := Align(s, s, 10, base.AddDate(0, 0, 4), base.AddDate(0, 0, 59))
	require.Error(t, err)
	assert.True(t, bterrors.IsInsufficientHistory(err))
}

func TestAlign_TrimsToRequestedRange(t *testing.T) {
	s := dailySeries(base, 400, 100, 1)
	start := base.AddDate(0, 0, 250)
	end := base.AddDate(0, 0, 300)

	aligned, err := Align(s, s, 200, start, end)
	require.NoError(t, err)

	require.Greater(t, aligned.Offset, 0)
	assert.GreaterOrEqual(t, aligned.Offset, 200)
	assert.Equal(t, start, aligned.Dates[aligned.Offset])
	assert.Equal(t, end, aligned.Dates[len(aligned.Dates)-1])
	assert.Equal(t, 51, aligned.AnalysisRows())
}

func TestAlign_InnerJoinSkipsMissingDates(t *testing.T) {
	a := dailySeries(base, 30, 100, 1)
	// b misses every third date of a
	var b types.PriceSeries
	for i, p := range a {
		if i%3 != 0 {
			b = append(b, types.PricePoint{Date: p.Date, Price: p.Price * 2})
		}
	}

	aligned, err := Align(a, b, 5, base.AddDate(0, 0, 15), base.AddDate(0, 0, 29))
	require.NoError(t, err)

	for i, d := range aligned.Dates {
		pa, ok := a.LatestAtOrBefore(d)
		require.True(t, ok)
		assert.Equal(t, d, pa.Date)
		assert.Equal(t, aligned.Signal[i]*2, aligned.Traded[i])
	}
}

func TestAlign_NoRowsInsideRange(t *testing.T) {
	s := dailySeries(base, 100, 100, 1)

	// Range lies after the series ends but histories do overlap.
	_, err := Align(s, s, 5, base.AddDate(0, 0, 150), base.AddDate(0, 0, 160))
	require.Error(t, err)
	assert.True(t, bterrors.IsInsufficientHistory(err))
}
