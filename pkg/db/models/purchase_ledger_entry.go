package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseLedgerEntry is one purchased line in a customer's history.
type PurchaseLedgerEntry struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	CustomerID  uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index:idx_purchase_ledger_customer_created,priority:1"`
	Position    int             `gorm:"column:position;not null"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Designation string          `gorm:"column:designation;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,3);not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(12,3);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;not null;index:idx_purchase_ledger_customer_created,priority:2"`
}

func (PurchaseLedgerEntry) TableName() string { return "purchase_ledger_entries" }

func (e *PurchaseLedgerEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
