package hardware

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// testPins is a valid role map used across tests.
var testPins = Pins{
	Key:    18,
	RTS:    1,
	CTS:    2,
	Relays: [RelayCount]Pin{12, 11, 10, 9},
}

// TestBench_ReadWrite verifies pull-up defaults, writes and forced inputs.
func TestBench_ReadWrite(t *testing.T) {
	t.Parallel()

	b := NewBench()
	require.Equal(t, High, b.Read(5))

	b.Write(5, Low)
	require.Equal(t, Low, b.Read(5))
	require.Equal(t, 1, b.Writes(5))

	b.Set(6, Low)
	require.Equal(t, Low, b.Read(6))
	require.Equal(t, 0, b.Writes(6))
}

// TestInit configures inputs with pull-ups, outputs, and leaves CTS deasserted.
func TestInit(t *testing.T) {
	t.Parallel()

	b := NewBench()
	Init(b, testPins)

	mode, ok := b.Mode(testPins.Key)
	require.True(t, ok)
	require.Equal(t, InputPullUp, mode)

	mode, _ = b.Mode(testPins.RTS)
	require.Equal(t, InputPullUp, mode)

	for _, pin := range testPins.Relays {
		mode, ok = b.Mode(pin)
		require.True(t, ok)
		require.Equal(t, Output, mode)
	}

	require.Equal(t, !CTSActive, b.Read(testPins.CTS))
}

// TestPinsValidate rejects a pin shared by two roles.
func TestPinsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testPins.Validate())

	pins := testPins
	pins.Relays[2] = pins.Key

	err := pins.Validate()
	require.ErrorIs(t, err, ErrDuplicatePin)
	require.Contains(t, err.Error(), "relay 2")
}

// TestManualClock_Wraps checks the counter wraps and modular differences stay correct.
func TestManualClock_Wraps(t *testing.T) {
	t.Parallel()

	c := NewManualClock(math.MaxUint32 - 4)
	start := c.Millis()

	c.Advance(10)
	require.Equal(t, uint32(5), c.Millis())
	require.Equal(t, uint32(10), c.Millis()-start)
}

// TestSystemClock_Monotonic ensures the system clock never goes backwards.
func TestSystemClock_Monotonic(t *testing.T) {
	t.Parallel()

	c := NewSystemClock()
	a := c.Millis()
	b := c.Millis()
	require.GreaterOrEqual(t, b, a)
}
