package ledger

import (
	"time"

	"github.com/angelmondragon/packfinderz-loyalty/internal/loyalty"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
)

// StoredTime normalizes timestamps to what both Postgres and SQLite round-trip exactly.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// PurchaseRows maps the purchase projection of order onto persisted rows. Positions start at 1.
func PurchaseRows(order *models.Order, entries []loyalty.PurchaseLedgerEntry) []models.PurchaseLedgerEntry {
	rows := make([]models.PurchaseLedgerEntry, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, models.PurchaseLedgerEntry{
			OrderID:     order.ID,
			CustomerID:  order.CustomerID,
			Position:    i + 1,
			ProductID:   entry.ProductID,
			Designation: entry.Designation,
			Quantity:    entry.Quantity,
			UnitPrice:   entry.UnitPrice,
			LineTotal:   entry.LineTotal,
			CreatedAt:   StoredTime(entry.Date),
		})
	}
	return rows
}

// PointsRow maps the points projection of order onto its persisted row.
func PointsRow(order *models.Order, entry loyalty.PointsLedgerEntry) *models.PointsLedgerEntry {
	return &models.PointsLedgerEntry{
		OrderID:          order.ID,
		CustomerID:       order.CustomerID,
		Kind:             entry.Kind,
		Points:           entry.Points,
		ResultingBalance: entry.ResultingBalance,
		CreatedAt:        StoredTime(entry.Date),
	}
}
