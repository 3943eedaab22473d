package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-loyalty/api/validators"
	checkoutsvc "github.com/angelmondragon/packfinderz-loyalty/internal/checkout"
	"github.com/angelmondragon/packfinderz-loyalty/internal/loyalty"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/types"
)

const maxDesignationLength = 255

type cartItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	Designation   string    `json:"designation" validate:"required,max=255"`
	UnitPrice     string    `json:"unit_price" validate:"required,amount"`
	Quantity      int       `json:"quantity" validate:"min=1,max=10000"`
	PointsPerUnit int64     `json:"points_per_unit" validate:"gte=0,max=1000000"`
	Subtotal      *string   `json:"subtotal,omitempty" validate:"omitempty,amount"`
}

// toCart converts validated request lines. Amounts were checked by the "amount" tag, so parse
// failures here are unexpected.
func toCart(items []cartItemRequest) (loyalty.Cart, error) {
	cart := make(loyalty.Cart, 0, len(items))
	for _, item := range items {
		unitPrice, err := types.ParseAmount(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		line := loyalty.CartLine{
			ProductID:     item.ProductID,
			Designation:   validators.CleanLabel(item.Designation, maxDesignationLength),
			UnitPrice:     unitPrice,
			Quantity:      item.Quantity,
			PointsPerUnit: item.PointsPerUnit,
		}
		if item.Subtotal != nil {
			subtotal, err := types.ParseAmount(*item.Subtotal)
			if err != nil {
				return nil, err
			}
			line.Subtotal = decimal.NewNullDecimal(subtotal)
		}
		cart = append(cart, line)
	}
	return cart, nil
}

type discountResponse struct {
	Percentage     int64  `json:"percentage"`
	Amount         string `json:"amount"`
	PointsConsumed int64  `json:"points_consumed"`
}

func newDiscountResponse(quote loyalty.DiscountQuote) discountResponse {
	return discountResponse{
		Percentage:     quote.Percentage,
		Amount:         types.FormatAmount(quote.Amount),
		PointsConsumed: quote.PointsConsumed,
	}
}

type totalsResponse struct {
	Subtotal    string `json:"subtotal"`
	Discount    string `json:"discount"`
	DeliveryFee string `json:"delivery_fee"`
	AmountDue   string `json:"amount_due"`
}

func newTotalsResponse(totals loyalty.OrderTotals) totalsResponse {
	return totalsResponse{
		Subtotal:    types.FormatAmount(totals.Subtotal),
		Discount:    types.FormatAmount(totals.Discount),
		DeliveryFee: types.FormatAmount(totals.DeliveryFee),
		AmountDue:   types.FormatAmount(totals.AmountDue),
	}
}

type quoteResponse struct {
	CustomerID       uuid.UUID        `json:"customer_id"`
	AvailablePoints  int64            `json:"available_points"`
	PointsEarned     int64            `json:"points_earned"`
	Discount         discountResponse `json:"discount"`
	Totals           totalsResponse   `json:"totals"`
	ResultingBalance int64            `json:"resulting_balance"`
}

func newQuoteResponse(quote *checkoutsvc.Quote) quoteResponse {
	return quoteResponse{
		CustomerID:       quote.CustomerID,
		AvailablePoints:  quote.AvailablePoints,
		PointsEarned:     quote.PointsEarned,
		Discount:         newDiscountResponse(quote.Discount),
		Totals:           newTotalsResponse(quote.Totals),
		ResultingBalance: quote.ResultingBalance,
	}
}

type orderResponse struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	Subtotal        string    `json:"subtotal"`
	DiscountPercent int64     `json:"discount_percent"`
	DiscountAmount  string    `json:"discount_amount"`
	DeliveryMode    string    `json:"delivery_mode"`
	DeliveryFee     string    `json:"delivery_fee"`
	AmountDue       string    `json:"amount_due"`
	PointsEarned    int64     `json:"points_earned"`
	PointsUsed      int64     `json:"points_used"`
	CreatedAt       time.Time `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Subtotal:        types.FormatAmount(order.Subtotal),
		DiscountPercent: order.DiscountPercent,
		DiscountAmount:  types.FormatAmount(order.DiscountAmount),
		DeliveryMode:    string(order.DeliveryMode),
		DeliveryFee:     types.FormatAmount(order.DeliveryFee),
		AmountDue:       types.FormatAmount(order.AmountDue),
		PointsEarned:    order.PointsEarned,
		PointsUsed:      order.PointsUsed,
		CreatedAt:       order.CreatedAt,
	}
}

type purchaseEntryResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	Date        time.Time `json:"date"`
	ProductID   uuid.UUID `json:"product_id"`
	Designation string    `json:"designation"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

func newPurchaseEntryResponses(rows []models.PurchaseLedgerEntry) []purchaseEntryResponse {
	out := make([]purchaseEntryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, purchaseEntryResponse{
			OrderID:     row.OrderID,
			Date:        row.CreatedAt,
			ProductID:   row.ProductID,
			Designation: row.Designation,
			Quantity:    row.Quantity,
			UnitPrice:   types.FormatAmount(row.UnitPrice),
			LineTotal:   types.FormatAmount(row.LineTotal),
		})
	}
	return out
}

type pointsEntryResponse struct {
	OrderID          uuid.UUID `json:"order_id"`
	Date             time.Time `json:"date"`
	Kind             string    `json:"kind"`
	Points           int64     `json:"points"`
	ResultingBalance int64     `json:"resulting_balance"`
}

func newPointsEntryResponse(row models.PointsLedgerEntry) pointsEntryResponse {
	return pointsEntryResponse{
		OrderID:          row.OrderID,
		Date:             row.CreatedAt,
		Kind:             string(row.Kind),
		Points:           row.Points,
		ResultingBalance: row.ResultingBalance,
	}
}

func newPointsEntryResponses(rows []models.PointsLedgerEntry) []pointsEntryResponse {
	out := make([]pointsEntryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, newPointsEntryResponse(row))
	}
	return out
}

type receiptResponse struct {
	Order     orderResponse           `json:"order"`
	Purchases []purchaseEntryResponse `json:"purchases"`
	Points    *pointsEntryResponse    `json:"points_entry,omitempty"`
}

func newReceiptResponse(receipt *checkoutsvc.Receipt) receiptResponse {
	resp := receiptResponse{
		Order:     newOrderResponse(receipt.Order),
		Purchases: newPurchaseEntryResponses(receipt.Purchases),
	}
	if receipt.Points != nil {
		entry := newPointsEntryResponse(*receipt.Points)
		resp.Points = &entry
	}
	return resp
}
