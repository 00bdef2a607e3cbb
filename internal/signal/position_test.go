package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositions_StartFlat(t *testing.T) {
	w := windowFixture(
		[]float64{105, 95, 90, 110, 112},
		[]float64{100, 100, 100, 100, 100},
	)
	events := []Event{None, Exit, None, Enter, None}

	invested := Positions(w, events, StartFlat)
	assert.Equal(t, []bool{false, false, false, true, true}, invested)
}

func TestPositions_StartInvested(t *testing.T) {
	w := windowFixture(
		[]float64{95, 96, 110, 90},
		[]float64{100, 100, 100, 100},
	)
	events := []Event{None, None, Enter, Exit}

	invested := Positions(w, events, StartInvested)
	assert.Equal(t, []bool{true, true, true, false}, invested)
}

func TestPositions_StartIfAbove(t *testing.T) {
	above := windowFixture([]float64{105, 104}, []float64{100, 100})
	assert.Equal(t, []bool{true, true}, Positions(above, []Event{None, None}, StartIfAbove))

	below := windowFixture([]float64{95, 96}, []float64{100, 100})
	assert.Equal(t, []bool{false, false}, Positions(below, []Event{None, None}, StartIfAbove))

	// Exact equality on day one counts as not above.
	equal := windowFixture([]float64{100, 101}, []float64{100, 100})
	assert.Equal(t, []bool{false, false}, Positions(equal, []Event{None, None}, StartIfAbove))
}

// TestPositions_ChangesOnlyOnEvents checks the position consistency
// property: a state flip between consecutive days implies a matching event.
func TestPositions_ChangesOnlyOnEvents(t *testing.T) {
	w := windowFixture(
		[]float64{105, 95, 90, 110, 112, 80, 85},
		[]float64{100, 100, 100, 100, 100, 100, 100},
	)
	events := []Event{None, Exit, None, Enter, None, Exit, None}

	invested := Positions(w, events, StartInvested)
	for i := 1; i < len(invested); i++ {
		if invested[i] != invested[i-1] {
			require.NotEqual(t, None, events[i])
			if invested[i] {
				assert.Equal(t, Enter, events[i])
			} else {
				assert.Equal(t, Exit, events[i])
			}
		}
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("flat")
	require.NoError(t, err)
	assert.Equal(t, StartFlat, p)

	p, err = ParsePolicy("invested")
	require.NoError(t, err)
	assert.Equal(t, StartInvested, p)

	p, err = ParsePolicy("auto")
	require.NoError(t, err)
	assert.Equal(t, StartIfAbove, p)

	_, err = ParsePolicy("bogus")
	assert.Error(t, err)
}

func TestPositions_RedundantEventsAreIdempotent(t *testing.T) {
	w := windowFixture(
		[]float64{105, 110, 112},
		[]float64{100, 100, 100},
	)
	// A second Enter while already invested holds the state.
	events := []Event{None, Enter, Enter}

	invested := Positions(w, events, StartInvested)
	assert.Equal(t, []bool{true, true, true}, invested)
}
