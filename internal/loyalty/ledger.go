package loyalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/enums"
)

// PurchaseLedgerEntry is the history record of one purchased cart line.
type PurchaseLedgerEntry struct {
	Date        time.Time
	ProductID   uuid.UUID
	Designation string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// PointsLedgerEntry summarizes the net point transaction of one order.
type PointsLedgerEntry struct {
	Date             time.Time
	Kind             enums.PointsEntryKind
	Points           int64
	ResultingBalance int64
}

// LedgerBuilder projects finalized orders into history records stamped by its clock.
type LedgerBuilder struct {
	now func() time.Time
}

// NewLedgerBuilder returns a builder using now as its clock; nil means time.Now.
func NewLedgerBuilder(now func() time.Time) *LedgerBuilder {
	if now == nil {
		now = time.Now
	}
	return &LedgerBuilder{now: now}
}

var defaultBuilder = NewLedgerBuilder(nil)

// BuildPurchaseLedger projects cart with the wall clock.
func BuildPurchaseLedger(cart Cart) []PurchaseLedgerEntry {
	return defaultBuilder.PurchaseLedger(cart)
}

// BuildPointsLedgerEntry builds the points record with the wall clock.
func BuildPointsLedgerEntry(pointsEarned, pointsUsed, priorBalance int64) PointsLedgerEntry {
	return defaultBuilder.PointsEntry(pointsEarned, pointsUsed, priorBalance)
}

// PurchaseLedger emits one entry per cart line, in cart order, all sharing one timestamp.
func (b *LedgerBuilder) PurchaseLedger(cart Cart) []PurchaseLedgerEntry {
	at := b.now()
	entries := make([]PurchaseLedgerEntry, 0, len(cart))
	for _, line := range cart {
		entries = append(entries, PurchaseLedgerEntry{
			Date:        at,
			ProductID:   line.ProductID,
			Designation: line.Designation,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal(),
		})
	}
	return entries
}

// PointsEntry classifies the order's point movement. priorBalance must be the balance before
// any effect of this order.
func (b *LedgerBuilder) PointsEntry(pointsEarned, pointsUsed, priorBalance int64) PointsLedgerEntry {
	entry := PointsLedgerEntry{
		Date:             b.now(),
		Kind:             enums.PointsEntryKindRedemption,
		Points:           pointsUsed,
		ResultingBalance: priorBalance + pointsEarned - pointsUsed,
	}
	if pointsEarned > 0 {
		entry.Kind = enums.PointsEntryKindAccrual
		entry.Points = pointsEarned
	}
	return entry
}
