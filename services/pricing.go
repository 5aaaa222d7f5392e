package services

import (
	"fmt"

	"github.com/framewave-studio/framewave-portal-api/apperrors"
)

// Advance percentages offered on proposals
var allowedAdvancePercentages = []int{40, 50, 60}

// Pricing holds the advance/balance split of a proposal's total price.
// All amounts are integer minor currency units.
type Pricing struct {
	AdvanceAmount int64
	BalanceAmount int64
}

// ComputePricing splits totalPrice into advance and balance portions.
// The advance is rounded half-up on the minor-unit integer; the balance is
// the remainder, never rounded independently, so the two always sum to the
// total.
func ComputePricing(totalPrice int64, advancePercentage int) (Pricing, error) {
	if totalPrice <= 0 {
		return Pricing{}, apperrors.Validation("Total price must be positive", apperrors.FieldError{
			Field:   "total_price",
			Message: "must be greater than zero",
		})
	}
	if !IsAllowedAdvancePercentage(advancePercentage) {
		return Pricing{}, apperrors.Validation("Invalid advance percentage", apperrors.FieldError{
			Field:   "advance_percentage",
			Message: fmt.Sprintf("must be one of %v", allowedAdvancePercentages),
		})
	}

	// Round half-up without leaving integer arithmetic
	advance := (totalPrice*int64(advancePercentage) + 50) / 100
	return Pricing{
		AdvanceAmount: advance,
		BalanceAmount: totalPrice - advance,
	}, nil
}

// IsAllowedAdvancePercentage reports whether pct is an offered split
func IsAllowedAdvancePercentage(pct int) bool {
	for _, allowed := range allowedAdvancePercentages {
		if pct == allowed {
			return true
		}
	}
	return false
}
