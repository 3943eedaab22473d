package loyalty

import "github.com/shopspring/decimal"

// OrderTotals is the priced breakdown of an order after redemption.
type OrderTotals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	AmountDue   decimal.Decimal
}

// PriceOrder applies the discount quote and delivery fee to the cart subtotal.
func PriceOrder(cart Cart, quote DiscountQuote, deliveryFee decimal.Decimal) OrderTotals {
	subtotal := cart.Subtotal()
	return OrderTotals{
		Subtotal:    subtotal,
		Discount:    quote.Amount,
		DeliveryFee: deliveryFee,
		AmountDue:   subtotal.Sub(quote.Amount).Add(deliveryFee),
	}
}
