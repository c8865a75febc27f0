package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesAndNormalizes(t *testing.T) {
	m, err := New(1000, "eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", m.Currency)
	assert.Equal(t, int64(1000), m.Amount)

	_, err = New(1000, "EURO")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestArithmetic(t *testing.T) {
	a := Must(1000, "EUR")
	b := Must(300, "EUR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(700), diff.Amount)

	_, err = a.Add(Must(300, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestIsZero(t *testing.T) {
	zero, err := Must(500, "EUR").Sub(Must(500, "EUR"))
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.False(t, Must(1, "EUR").IsZero())
}
