package signal

import (
	"fmt"

	"github.com/hamr-lab/hamster-backtest/pkg/types"
)

// Policy decides the position on the first date of the window, where the
// crossover rule cannot apply because that date has no predecessor.
type Policy int

const (
	// StartFlat begins out of the market regardless of the day-one
	// price/average relation.
	StartFlat Policy = iota
	// StartInvested begins fully invested regardless.
	StartInvested
	// StartIfAbove begins invested iff the day-one price is strictly
	// above its average.
	StartIfAbove
)

// String returns the flag-friendly name of the policy.
func (p Policy) String() string {
	switch p {
	case StartInvested:
		return "invested"
	case StartIfAbove:
		return "auto"
	default:
		return "flat"
	}
}

// ParsePolicy converts a flag value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "flat":
		return StartFlat, nil
	case "invested":
		return StartInvested, nil
	case "auto":
		return StartIfAbove, nil
	}
	return StartFlat, fmt.Errorf("unknown initial policy %q (use flat, invested or auto)", s)
}

// Positions folds the event stream into a day-by-day invested state. The
// state changes only on Enter/Exit events and otherwise carries forward, so
// the result is a pure function of (events, policy, day-one relation).
func Positions(w *types.AlignedWindow, events []Event, policy Policy) []bool {
	invested := make([]bool, len(events))
	if len(events) == 0 {
		return invested
	}

	current := false
	switch policy {
	case StartInvested:
		current = true
	case StartIfAbove:
		current = w.Signal[0] > w.Average[0]
	}

	for t, e := range events {
		switch e {
		case Enter:
			current = true
		case Exit:
			current = false
		}
		invested[t] = current
	}
	return invested
}
