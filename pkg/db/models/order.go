package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/enums"
)

// Order is the finalized checkout snapshot that ledger rows point back to.
type Order struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID      uuid.UUID          `gorm:"column:customer_id;type:uuid;not null;index"`
	Subtotal        decimal.Decimal    `gorm:"column:subtotal;type:numeric(12,3);not null"`
	DiscountPercent int64              `gorm:"column:discount_percent;not null;default:0"`
	DiscountAmount  decimal.Decimal    `gorm:"column:discount_amount;type:numeric(12,3);not null"`
	DeliveryMode    enums.DeliveryMode `gorm:"column:delivery_mode;type:varchar(32);not null"`
	DeliveryFee     decimal.Decimal    `gorm:"column:delivery_fee;type:numeric(12,3);not null"`
	AmountDue       decimal.Decimal    `gorm:"column:amount_due;type:numeric(12,3);not null"`
	PointsEarned    int64              `gorm:"column:points_earned;not null;default:0"`
	PointsUsed      int64              `gorm:"column:points_used;not null;default:0"`
	CreatedAt       time.Time          `gorm:"column:created_at;not null"`
}

func (Order) TableName() string { return "loyalty_orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
