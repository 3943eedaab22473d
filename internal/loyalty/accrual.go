package loyalty

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a read-only snapshot of one shopping-cart line.
type CartLine struct {
	ProductID     uuid.UUID
	Designation   string
	UnitPrice     decimal.Decimal
	Quantity      int
	PointsPerUnit int64
	// Subtotal is the line total computed upstream (promotions, rounding). When it is not set
	// the line total falls back to UnitPrice * Quantity.
	Subtotal decimal.NullDecimal
}

// LineTotal returns the monetary total of the line.
func (l CartLine) LineTotal() decimal.Decimal {
	if l.Subtotal.Valid {
		return l.Subtotal.Decimal
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Points returns the points the line earns.
func (l CartLine) Points() int64 {
	return l.PointsPerUnit * int64(l.Quantity)
}

// Cart is an ordered sequence of lines; order only matters for display.
type Cart []CartLine

// Subtotal sums the line totals.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.LineTotal())
	}
	return total
}

// AccruedPoints returns the points a cart earns: the sum of PointsPerUnit * Quantity over every
// line, 0 for an empty cart. Inputs are not validated.
func AccruedPoints(cart Cart) int64 {
	var total int64
	for _, line := range cart {
		total += line.Points()
	}
	return total
}
