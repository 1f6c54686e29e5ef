package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(10.50), USD)
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(10.50)))

	_, err = NewMoney(decimal.Zero, "")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(100)
	b := NewMoneyUSDFromFloat(40.25)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "140.25", sum.StringFixed())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "59.75", diff.StringFixed())

	assert.Equal(t, "300.00", a.MultiplyByInt(3).StringFixed())
	assert.Equal(t, "-100.00", a.Negate().StringFixed())
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := Zero(EUR)

	_, err := a.Add(b)
	assert.Error(t, err)
	_, err = a.Subtract(b)
	assert.Error(t, err)
	_, err = a.LessThan(b)
	assert.Error(t, err)
}

func TestMoney_PrecisionKeptUntilDisplay(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3 in decimal math
	a, err := NewMoneyUSDFromString("0.1")
	require.NoError(t, err)
	b, err := NewMoneyUSDFromString("0.2")
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.RequireFromString("0.3")))

	// Intermediate values keep full precision; only StringFixed rounds
	third := NewMoneyUSDFromFloat(10).Multiply(decimal.RequireFromString("0.333333"))
	assert.Equal(t, "3.33", third.StringFixed())
	assert.False(t, third.Amount().Equal(decimal.RequireFromString("3.33")))
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyUSDFromFloat(5)
	b := NewMoneyUSDFromFloat(7)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, a.IsPositive())
	assert.True(t, a.Negate().IsNegative())
	assert.True(t, a.Equals(NewMoneyUSDFromFloat(5)))
}
