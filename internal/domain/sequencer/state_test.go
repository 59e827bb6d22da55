package sequencer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStateString verifies the conventional names of all ten states.
func TestStateString(t *testing.T) {
	t.Parallel()

	want := map[State]string{
		Rx:        "Rx",
		TxStep(0): "S1T",
		TxStep(1): "S2T",
		TxStep(2): "S3T",
		TxStep(3): "S4T",
		Tx:        "Tx",
		RxStep(3): "S4R",
		RxStep(2): "S3R",
		RxStep(1): "S2R",
		RxStep(0): "S1R",
	}

	for state, name := range want {
		require.True(t, state.Known())
		require.Equal(t, name, state.String())
	}

	require.False(t, TxStep(StepCount).Known())
	require.False(t, State{Kind: 9}.Known())
	require.Contains(t, State{Kind: 9}.String(), "Unknown")
}

// TestTransition_ForwardChain walks Rx to Tx with the key held and dwells elapsed.
func TestTransition_ForwardChain(t *testing.T) {
	t.Parallel()

	keyed := Event{Key: true, DwellElapsed: true}
	chain := []State{Rx, TxStep(0), TxStep(1), TxStep(2), TxStep(3), Tx}

	for i := 0; i < len(chain)-1; i++ {
		require.Equal(t, chain[i+1], Transition(chain[i], keyed), chain[i].String())
	}

	require.Equal(t, Tx, Transition(Tx, keyed))
}

// TestTransition_ReverseChain walks Tx to Rx with the key released and dwells elapsed.
func TestTransition_ReverseChain(t *testing.T) {
	t.Parallel()

	unkeyed := Event{Key: false, DwellElapsed: true}
	chain := []State{Tx, RxStep(3), RxStep(2), RxStep(1), RxStep(0), Rx}

	for i := 0; i < len(chain)-1; i++ {
		require.Equal(t, chain[i+1], Transition(chain[i], unkeyed), chain[i].String())
	}

	require.Equal(t, Rx, Transition(Rx, unkeyed))
}

// TestTransition_HoldsUntilDwellElapsed verifies timed states wait for their dwell.
func TestTransition_HoldsUntilDwellElapsed(t *testing.T) {
	t.Parallel()

	for step := uint8(0); step < StepCount; step++ {
		require.Equal(t, TxStep(step), Transition(TxStep(step), Event{Key: true}))
		require.Equal(t, RxStep(step), Transition(RxStep(step), Event{Key: false}))
	}
}

// TestTransition_Reversal verifies a key change mid-step reverses at the same index.
func TestTransition_Reversal(t *testing.T) {
	t.Parallel()

	for step := uint8(0); step < StepCount; step++ {
		for _, elapsed := range []bool{false, true} {
			next := Transition(TxStep(step), Event{Key: false, DwellElapsed: elapsed})
			require.Equal(t, RxStep(step), next)
			require.True(t, Reversal(TxStep(step), next))

			next = Transition(RxStep(step), Event{Key: true, DwellElapsed: elapsed})
			require.Equal(t, TxStep(step), next)
			require.True(t, Reversal(RxStep(step), next))
		}
	}

	require.False(t, Reversal(Tx, RxStep(3)))
	require.False(t, Reversal(RxStep(2), RxStep(1)))
}

// TestTransition_UnknownStateHolds ensures unexpected values are left unchanged.
func TestTransition_UnknownStateHolds(t *testing.T) {
	t.Parallel()

	for _, s := range []State{{Kind: 42}, TxStep(7), {Kind: KindReceive, Step: 3}} {
		require.Equal(t, s, Transition(s, Event{Key: true, DwellElapsed: true}))
		require.Equal(t, s, Transition(s, Event{}))
	}
}
