package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(12.5), USD)
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.5)))

	_, err = NewMoney(decimal.Zero, "")
	assert.Error(t, err)
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := NewMoneyUSDFromFloat(2.5)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(12.5)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(7.5)))

	assert.True(t, a.MultiplyByInt(3).Amount().Equal(decimal.NewFromInt(30)))
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	usd := NewMoneyUSDFromFloat(1)
	eur := Zero("EUR")

	_, err := usd.Add(eur)
	assert.Error(t, err)
	_, err = usd.Subtract(eur)
	assert.Error(t, err)
	_, err = usd.GreaterThanOrEqual(eur)
	assert.Error(t, err)
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "12.50 USD", NewMoneyUSDFromFloat(12.5).String())
}
