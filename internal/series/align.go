// Package series joins the signal and traded price series of a backtest run
// onto a single date axis and enforces the warm-up history requirements of
// the moving-average window.
package series

import (
	"time"

	bterrors "github.com/hamr-lab/hamster-backtest/internal/errors"
	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

const component = "aligner"

// MinWarmupBufferDays is the minimum number of calendar days the requested
// start is extended backwards to accumulate moving-average history.
const MinWarmupBufferDays = 365

// Aligned is the inner join of the two price series over the buffered date
// range. Rows before Offset are warm-up history for the moving average;
// rows from Offset on fall inside the requested [start, end] range.
type Aligned struct {
	Dates  []time.Time
	Signal []float64
	Traded []float64
	Offset int
}

// Rows returns the total number of joined rows, warm-up included.
func (a *Aligned) Rows() int {
	return len(a.Dates)
}

// AnalysisRows returns the number of rows inside the requested range.
func (a *Aligned) AnalysisRows() int {
	return len(a.Dates) - a.Offset
}

// bufferDays sizes the warm-up buffer for a window of w trading days. Two
// calendar days per trading day always covers weekends and holidays; the
// floor keeps the buffer at a full year for small windows.
func bufferDays(w int) int {
	if d := 2 * w; d > MinWarmupBufferDays {
		return d
	}
	return MinWarmupBufferDays
}

// Align inner-joins the signal and traded series on date over the buffered
// [start-buffer, end] range and verifies that at least window aligned rows
// precede the requested start.
//
// Errors: InvalidRange when start >= end or window < 1, NoOverlap when the
// two series share no dates at all, InsufficientHistory when the warm-up
// requirement cannot be met or no aligned row falls inside [start, end].
func Align(signal, traded types.PriceSeries, window int, start, end time.Time) (*Aligned, error) {
	start, end = types.Day(start), types.Day(end)
	if !start.Before(end) {
		return nil, bterrors.New(bterrors.CategoryInvalidRange, component,
			"start date must be before end date")
	}
	if window < 1 {
		return nil, bterrors.Newf(bterrors.CategoryInvalidRange, component,
			"window length must be positive, got %d", window)
	}

	buffered := start.AddDate(0, 0, -bufferDays(window))
	a := join(signal.Between(buffered, end), traded.Between(buffered, end))

	if a.Rows() == 0 {
		if overlaps(signal, traded) {
			return nil, bterrors.New(bterrors.CategoryInsufficientHistory, component,
				"series overlap lies outside the requested range")
		}
		return nil, bterrors.New(bterrors.CategoryNoOverlap, component,
			"signal and traded series share no common dates")
	}

	for a.Offset < len(a.Dates) && a.Dates[a.Offset].Before(start) {
		a.Offset++
	}
	if a.Offset == len(a.Dates) {
		return nil, bterrors.New(bterrors.CategoryInsufficientHistory, component,
			"no aligned rows inside the requested range")
	}
	if a.Offset < window {
		return nil, bterrors.Newf(bterrors.CategoryInsufficientHistory, component,
			"need %d aligned rows before the requested start, have %d", window, a.Offset)
	}
	return a, nil
}

// join merges two date-ascending series, keeping only dates present in both.
func join(signal, traded types.PriceSeries) *Aligned {
	a := &Aligned{}
	i, j := 0, 0
	for i < len(signal) && j < len(traded) {
		ds, dt := signal[i].Date, traded[j].Date
		switch {
		case ds.Before(dt):
			i++
		case dt.Before(ds):
			j++
		default:
			a.Dates = append(a.Dates, ds)
			a.Signal = append(a.Signal, signal[i].Price)
			a.Traded = append(a.Traded, traded[j].Price)
			i++
			j++
		}
	}
	return a
}

// overlaps reports whether the two full series share at least one date.
func overlaps(signal, traded types.PriceSeries) bool {
	i, j := 0, 0
	for i < len(signal) && j < len(traded) {
		switch {
		case signal[i].Date.Before(traded[j].Date):
			i++
		case traded[j].Date.Before(signal[i].Date):
			j++
		default:
			return true
		}
	}
	return false
}
