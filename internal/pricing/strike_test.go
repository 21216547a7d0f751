package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Inverting delta to a strike and pricing at that strike must land
// back on the target delta.
func TestStrikeForDeltaRoundTrip(t *testing.T) {
	cases := []struct {
		typ   OptionType
		delta float64
	}{
		{Call, 0.25},
		{Call, 0.5},
		{Call, 0.75},
		{Put, -0.3},
		{Put, -0.5},
	}
	for _, tc := range cases {
		strike, err := StrikeForDelta(tc.typ, 100, tc.delta, 0.25, 0.5, 0.03)
		require.NoError(t, err, "%s delta=%g", tc.typ, tc.delta)
		require.Greater(t, strike, 0.0)

		g, err := Greeks(OptionQuote{Spot: 100, Strike: strike, TimeToExpiry: 0.5, Rate: 0.03, Volatility: 0.25, Type: tc.typ})
		require.NoError(t, err)
		assert.InDelta(t, tc.delta, g.ForType(tc.typ).Delta, 1e-9, "%s delta=%g strike=%g", tc.typ, tc.delta, strike)
	}
}

// Higher call delta means a lower strike.
func TestStrikeForDeltaOrdering(t *testing.T) {
	k25, err := StrikeForDelta(Call, 100, 0.25, 0.2, 1, 0.02)
	require.NoError(t, err)
	k75, err := StrikeForDelta(Call, 100, 0.75, 0.2, 1, 0.02)
	require.NoError(t, err)
	assert.Less(t, k75, k25)
}

func TestStrikeForDeltaValidation(t *testing.T) {
	_, err := StrikeForDelta(Call, 100, 1.2, 0.2, 1, 0.02)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = StrikeForDelta(Put, 100, 0.5, 0.2, 1, 0.02) // shifts to 1.5
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = StrikeForDelta(Call, 100, 0.5, 0, 1, 0.02)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = StrikeForDelta(Call, 100, 0.5, 0.2, 0, 0.02)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
