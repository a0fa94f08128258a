package partner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	s, err := NewSupplier("medi", "Medi Compression GmbH", 21)
	require.NoError(t, err)
	assert.Equal(t, "MEDI", s.Code)
	assert.Equal(t, 21, s.LeadTimeDays)
	assert.True(t, s.IsActive())

	_, err = NewSupplier("", "x", 1)
	assert.Error(t, err)
	_, err = NewSupplier("X", "", 1)
	assert.Error(t, err)
	_, err = NewSupplier("X", "x", 0)
	assert.Error(t, err)
}

func TestSupplierDeactivate(t *testing.T) {
	s, err := NewSupplier("JZ", "Jobst", 10)
	require.NoError(t, err)
	s.Deactivate()
	assert.False(t, s.IsActive())
}

func TestPaymentDueDate(t *testing.T) {
	s, err := NewSupplier("JZ", "Jobst", 10)
	require.NoError(t, err)
	s.CreditDays = 30

	confirmed := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), s.PaymentDueDate(confirmed))
}
