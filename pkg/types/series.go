package types

import (
	"fmt"
	"time"
)

// PricePoint is a single daily observation of an instrument's price.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceSeries is an ordered sequence of daily prices, strictly increasing
// by date with no duplicate dates. Dates are calendar days normalized to
// UTC midnight.
type PriceSeries []PricePoint

// Validate checks the series ordering invariants.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return fmt.Errorf("price series out of order at index %d: %s >= %s",
				i, s[i-1].Date.Format("2006-01-02"), s[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// First returns the earliest observation, or false for an empty series.
func (s PriceSeries) First() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[0], true
}

// Last returns the latest observation, or false for an empty series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// LatestAtOrBefore returns the most recent observation dated at or before
// the given date, or false if the series has no observation that early.
func (s PriceSeries) LatestAtOrBefore(date time.Time) (PricePoint, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if !s[i].Date.After(date) {
			return s[i], true
		}
	}
	return PricePoint{}, false
}

// Between returns the sub-series with start <= date <= end. The returned
// slice shares backing storage with the receiver.
func (s PriceSeries) Between(start, end time.Time) PriceSeries {
	lo := 0
	for lo < len(s) && s[lo].Date.Before(start) {
		lo++
	}
	hi := len(s)
	for hi > lo && s[hi-1].Date.After(end) {
		hi--
	}
	return s[lo:hi]
}

// Day normalizes a timestamp to a UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AlignedWindow is the analysis window of a backtest run: the dates shared
// by the signal and traded series inside the requested range, each carrying
// a signal price, a traded price and a fully warmed-up moving average.
//
// The four slices are parallel and always the same length. An AlignedWindow
// is produced once per run and never mutated afterwards.
type AlignedWindow struct {
	Dates   []time.Time
	Signal  []float64
	Traded  []float64
	Average []float64
}

// Len returns the number of rows in the window.
func (w *AlignedWindow) Len() int {
	return len(w.Dates)
}
