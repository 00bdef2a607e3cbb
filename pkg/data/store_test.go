package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bterrors "github.com/hamr-lab/hamster-backtest/internal/errors"
)

func writeCSV(t *testing.T, dir, symbol, content string) {
	t.Helper()
	path := filepath.Join(dir, symbol+".csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_PriceSeries_HappyPath(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY", `Date,Open,High,Low,Close,Volume
2023-01-03,380,385,378,384.5,1000
2023-01-04,384,390,383,388.2,1200
2023-01-05,388,389,380,381.0,900
`)
	store := NewStore(dir)

	series, err := store.PriceSeries("SPY")
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, day(2023, 1, 3), series[0].Date)
	assert.InDelta(t, 384.5, series[0].Price, 1e-12)
	assert.InDelta(t, 381.0, series[2].Price, 1e-12)
}

func TestStore_PriceSeries_PrefersAdjClose(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY", `Date,Close,Adj Close
2023-01-03,384.5,380.1
`)
	store := NewStore(dir)

	series, err := store.PriceSeries("SPY")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.InDelta(t, 380.1, series[0].Price, 1e-12)
}

func TestStore_PriceSeries_NotFound(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.PriceSeries("MISSING")
	require.Error(t, err)
	assert.True(t, bterrors.IsNotFound(err))
}

func TestStore_PriceSeries_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "EMPTY", "")
	store := NewStore(dir)

	_, err := store.PriceSeries("EMPTY")
	require.Error(t, err)
	assert.True(t, bterrors.IsEmptySeries(err))
}

func TestStore_PriceSeries_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "BARE", "Date,Close\n")
	store := NewStore(dir)

	_, err := store.PriceSeries("BARE")
	require.Error(t, err)
	assert.True(t, bterrors.IsEmptySeries(err))
}

func TestStore_PriceSeries_SkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "DIRTY", `Date,Close
2023-01-03,100
not-a-date,101
2023-01-04,null
2023-01-05,-5
2023-01-06,104
`)
	store := NewStore(dir)

	series, err := store.PriceSeries("DIRTY")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, day(2023, 1, 3), series[0].Date)
	assert.Equal(t, day(2023, 1, 6), series[1].Date)
}

func TestStore_PriceSeries_SortsAndDedupes(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "MESSY", `Date,Close
2023-01-05,105
2023-01-03,103
2023-01-03,999
2023-01-04,104
`)
	store := NewStore(dir)

	series, err := store.PriceSeries("MESSY")
	require.NoError(t, err)
	require.Len(t, series, 3)
	require.NoError(t, series.Validate())
	// The first occurrence wins on duplicate dates.
	assert.InDelta(t, 103, series[0].Price, 1e-12)
}

func TestStore_PriceSeries_TimestampDates(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "TS", `Date,Close
2023-01-03 00:00:00,100
2023-01-04T15:30:00Z,101
`)
	store := NewStore(dir)

	series, err := store.PriceSeries("TS")
	require.NoError(t, err)
	require.Len(t, series, 2)
	// Timestamps normalize to UTC midnight.
	assert.Equal(t, day(2023, 1, 4), series[1].Date)
}

func TestStore_PriceSeries_SplitAdjustment(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPLIT", `Date,Close
2023-01-03,400
2023-01-04,404
2023-01-05,101
2023-01-06,102
`)
	store := NewStore(dir, WithSplitAdjustment(0))

	series, err := store.PriceSeries("SPLIT")
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.InDelta(t, 100, series[0].Price, 1e-9)
	assert.InDelta(t, 101, series[1].Price, 1e-9)
	assert.InDelta(t, 101, series[2].Price, 1e-9)
	assert.InDelta(t, 102, series[3].Price, 1e-9)
}

func TestStore_Symbols(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "QQQ", "Date,Close\n2023-01-03,100\n")
	writeCSV(t, dir, "AAPL", "Date,Close\n2023-01-03,100\n")
	store := NewStore(dir)

	symbols, err := store.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "QQQ"}, symbols)
}

func TestStore_CommonRange(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "LONG", `Date,Close
2020-01-02,100
2023-12-29,150
`)
	writeCSV(t, dir, "SHORT", `Date,Close
2021-06-01,50
2022-06-01,60
`)
	store := NewStore(dir)

	start, end, err := store.CommonRange("LONG", "SHORT")
	require.NoError(t, err)
	assert.Equal(t, day(2021, 6, 1), start)
	assert.Equal(t, day(2022, 6, 1), end)
}

func TestStore_CommonRange_NoOverlap(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "EARLY", `Date,Close
2010-01-04,10
2012-01-04,12
`)
	writeCSV(t, dir, "LATE", `Date,Close
2020-01-02,100
2022-01-03,120
`)
	store := NewStore(dir)

	_, _, err := store.CommonRange("EARLY", "LATE")
	require.Error(t, err)
	assert.True(t, bterrors.IsNoOverlap(err))
}
