package helpers

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-loyalty/internal/loyalty"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-loyalty/pkg/errors"
)

// LineIssue points at the cart line that failed validation.
type LineIssue struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Upper bounds per cart line. The request DTO enforces the same values with validator tags.
const (
	MaxLineQuantity  = 10_000
	MaxPointsPerUnit = 1_000_000
)

// ValidateCart rejects empty carts, lines the loyalty calculators cannot price, and carts whose
// points total does not fit in an int64.
func ValidateCart(cart loyalty.Cart) error {
	if len(cart) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	issues := []LineIssue{}
	for i, line := range cart {
		switch {
		case line.Quantity < 1:
			issues = append(issues, LineIssue{Index: i, Reason: "quantity must be at least 1"})
		case line.Quantity > MaxLineQuantity:
			issues = append(issues, LineIssue{Index: i, Reason: fmt.Sprintf("quantity must be at most %d", MaxLineQuantity)})
		case line.UnitPrice.IsNegative():
			issues = append(issues, LineIssue{Index: i, Reason: "unit price must not be negative"})
		case line.PointsPerUnit < 0:
			issues = append(issues, LineIssue{Index: i, Reason: "points per unit must not be negative"})
		case line.PointsPerUnit > MaxPointsPerUnit:
			issues = append(issues, LineIssue{Index: i, Reason: fmt.Sprintf("points per unit must be at most %d", MaxPointsPerUnit)})
		case line.Subtotal.Valid && line.Subtotal.Decimal.IsNegative():
			issues = append(issues, LineIssue{Index: i, Reason: "subtotal must not be negative"})
		}
	}
	if len(issues) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%d cart line(s) invalid", len(issues))).WithDetails(issues)
	}
	if _, ok := CheckedPoints(cart); !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart points total overflows")
	}
	return nil
}

// CheckedPoints sums quantity * points per unit, reporting false when any step overflows int64.
// Lines must already have non-negative quantity and points.
func CheckedPoints(cart loyalty.Cart) (int64, bool) {
	var total int64
	for _, line := range cart {
		qty := int64(line.Quantity)
		if qty != 0 && line.PointsPerUnit > math.MaxInt64/qty {
			return 0, false
		}
		points := qty * line.PointsPerUnit
		if total > math.MaxInt64-points {
			return 0, false
		}
		total += points
	}
	return total, true
}

// DeliveryFee returns the fee owed for mode. Store pickup is free.
func DeliveryFee(mode enums.DeliveryMode, homeFee decimal.Decimal) (decimal.Decimal, error) {
	switch mode {
	case enums.DeliveryModeHome:
		return homeFee, nil
	case enums.DeliveryModeStorePickup:
		return decimal.Zero, nil
	}
	return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid delivery mode %q", mode))
}
