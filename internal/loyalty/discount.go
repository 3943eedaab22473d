package loyalty

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrBelowMinimumRedemption = errors.New("requested points are below one redemption block")
	ErrNotBlockMultiple       = errors.New("requested points are not a whole number of blocks")
	ErrInsufficientPoints     = errors.New("requested points exceed the available balance")
)

var hundred = decimal.NewFromInt(100)

// DiscountQuote is the discount a point balance buys at checkout.
type DiscountQuote struct {
	Percentage     int64
	Amount         decimal.Decimal
	PointsConsumed int64
}

// IsZero reports whether the quote grants no discount.
func (q DiscountQuote) IsZero() bool {
	return q.PointsConsumed == 0
}

// ResolveDiscount converts an available balance into a discount using DefaultPolicy.
func ResolveDiscount(availablePoints int64, subtotal decimal.Decimal) DiscountQuote {
	return DefaultPolicy.ResolveDiscount(availablePoints, subtotal)
}

// ResolveDiscount spends as many whole blocks of availablePoints as the policy allows against
// subtotal. It never consumes more than availablePoints nor more than MaxBlocks blocks, and it
// does not touch the customer's balance.
func (p Policy) ResolveDiscount(availablePoints int64, subtotal decimal.Decimal) DiscountQuote {
	return p.quote(p.usableBlocks(availablePoints), subtotal)
}

// ValidateRedemption checks an explicit request to spend requestedPoints out of availablePoints.
// Blocks beyond MaxBlocks are left on the balance rather than consumed.
func (p Policy) ValidateRedemption(requestedPoints, availablePoints int64, subtotal decimal.Decimal) (DiscountQuote, error) {
	switch {
	case requestedPoints < p.BlockSize:
		return DiscountQuote{Amount: decimal.Zero}, ErrBelowMinimumRedemption
	case requestedPoints%p.BlockSize != 0:
		return DiscountQuote{Amount: decimal.Zero}, ErrNotBlockMultiple
	case requestedPoints > availablePoints:
		return DiscountQuote{Amount: decimal.Zero}, ErrInsufficientPoints
	}
	return p.quote(p.usableBlocks(requestedPoints), subtotal), nil
}

func (p Policy) quote(blocks int64, subtotal decimal.Decimal) DiscountQuote {
	percentage := blocks * p.PercentPerBlock
	return DiscountQuote{
		Percentage:     percentage,
		Amount:         subtotal.Mul(decimal.NewFromInt(percentage)).Div(hundred),
		PointsConsumed: blocks * p.BlockSize,
	}
}
