package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/enums"
)

// PointsLedgerEntry is the single points movement recorded for an order.
type PointsLedgerEntry struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID             `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_points_ledger_entries_order_id"`
	CustomerID       uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index:idx_points_ledger_customer_created,priority:1"`
	Kind             enums.PointsEntryKind `gorm:"column:kind;type:varchar(32);not null"`
	Points           int64                 `gorm:"column:points;not null"`
	ResultingBalance int64                 `gorm:"column:resulting_balance;not null"`
	CreatedAt        time.Time             `gorm:"column:created_at;not null;index:idx_points_ledger_customer_created,priority:2"`
}

func (PointsLedgerEntry) TableName() string { return "points_ledger_entries" }

func (e *PointsLedgerEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
