package services

import (
	"testing"

	"github.com/framewave-studio/framewave-portal-api/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestComputePricing(t *testing.T) {
	tests := []struct {
		name            string
		totalPrice      int64
		percentage      int
		expectedAdvance int64
		expectedBalance int64
	}{
		{
			name:            "Even split at 50 percent",
			totalPrice:      100000,
			percentage:      50,
			expectedAdvance: 50000,
			expectedBalance: 50000,
		},
		{
			name:            "40 percent advance",
			totalPrice:      100000,
			percentage:      40,
			expectedAdvance: 40000,
			expectedBalance: 60000,
		},
		{
			name:            "60 percent advance",
			totalPrice:      100000,
			percentage:      60,
			expectedAdvance: 60000,
			expectedBalance: 40000,
		},
		{
			name:            "Rounds half up on odd totals",
			totalPrice:      99999,
			percentage:      50,
			expectedAdvance: 50000,
			expectedBalance: 49999,
		},
		{
			name:            "Rounding never loses a unit",
			totalPrice:      101,
			percentage:      40,
			expectedAdvance: 40,
			expectedBalance: 61,
		},
		{
			name:            "Small total",
			totalPrice:      1,
			percentage:      60,
			expectedAdvance: 1,
			expectedBalance: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pricing, err := ComputePricing(tt.totalPrice, tt.percentage)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedAdvance, pricing.AdvanceAmount)
			assert.Equal(t, tt.expectedBalance, pricing.BalanceAmount)

			// The split always sums back to the total
			assert.Equal(t, tt.totalPrice, pricing.AdvanceAmount+pricing.BalanceAmount)
		})
	}
}

func TestComputePricing_InvalidInputs(t *testing.T) {
	tests := []struct {
		name       string
		totalPrice int64
		percentage int
	}{
		{name: "Zero total", totalPrice: 0, percentage: 50},
		{name: "Negative total", totalPrice: -100, percentage: 50},
		{name: "Unsupported percentage", totalPrice: 100000, percentage: 55},
		{name: "Zero percentage", totalPrice: 100000, percentage: 0},
		{name: "Full percentage", totalPrice: 100000, percentage: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePricing(tt.totalPrice, tt.percentage)
			assert.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestIsAllowedAdvancePercentage(t *testing.T) {
	assert.True(t, IsAllowedAdvancePercentage(40))
	assert.True(t, IsAllowedAdvancePercentage(50))
	assert.True(t, IsAllowedAdvancePercentage(60))
	assert.False(t, IsAllowedAdvancePercentage(0))
	assert.False(t, IsAllowedAdvancePercentage(45))
	assert.False(t, IsAllowedAdvancePercentage(100))
}
