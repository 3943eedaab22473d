package models

import (
	"time"

	"github.com/google/uuid"
)

// PointsAccount holds a customer's spendable loyalty balance.
type PointsAccount struct {
	CustomerID      uuid.UUID `gorm:"column:customer_id;type:uuid;primaryKey"`
	AvailablePoints int64     `gorm:"column:available_points;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PointsAccount) TableName() string { return "points_accounts" }
