package signal

import "github.com/hamr-lab/hamster-backtest/pkg/types"

// Event is the per-date trend signal. A signal fires only on a crossing:
// the price moving from one side of its average to the other between two
// consecutive dates, never from the absolute relation on a single day.
type Event int8

const (
	None Event = iota
	Enter
	Exit
)

// String returns a short label for the event.
func (e Event) String() string {
	switch e {
	case Enter:
		return "ENTER"
	case Exit:
		return "EXIT"
	default:
		return "NONE"
	}
}

// Crossovers emits one event per window row. The first row is always None:
// it has no predecessor inside the window, and its treatment belongs solely
// to the position tracker's initial policy.
//
// Enter fires when price closes strictly above the average after closing at
// or below it the day before; Exit is the mirror image. Exact equality on
// the crossing day never fires.
func Crossovers(w *types.AlignedWindow) []Event {
	events := make([]Event, w.Len())
	for t := 1; t < w.Len(); t++ {
		p, m := w.Signal[t], w.Average[t]
		p0, m0 := w.Signal[t-1], w.Average[t-1]
		switch {
		case p > m && p0 <= m0:
			events[t] = Enter
		case p < m && p0 >= m0:
			events[t] = Exit
		}
	}
	return events
}

// CountTrades returns the number of Enter and Exit events in the stream.
func CountTrades(events []Event) int {
	n := 0
	for _, e := range events {
		if e != None {
			n++
		}
	}
	return n
}
