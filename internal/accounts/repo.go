package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
)

// Repository manages persistence for customer points accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, customerID uuid.UUID) (*models.PointsAccount, error)
	LockOrCreate(ctx context.Context, customerID uuid.UUID) (*models.PointsAccount, error)
	UpdateBalance(ctx context.Context, customerID uuid.UUID, balance int64) error
	ListAfter(ctx context.Context, after uuid.UUID, limit int) ([]models.PointsAccount, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an accounts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Find returns nil without error when the customer has no account yet.
func (r *repository) Find(ctx context.Context, customerID uuid.UUID) (*models.PointsAccount, error) {
	var account models.PointsAccount
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// LockOrCreate makes sure the account row exists and reads it with a row lock. It must run
// inside a transaction for the lock to hold until commit.
func (r *repository) LockOrCreate(ctx context.Context, customerID uuid.UUID) (*models.PointsAccount, error) {
	seed := &models.PointsAccount{CustomerID: customerID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(seed).Error; err != nil {
		return nil, err
	}

	var account models.PointsAccount
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		Take(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) UpdateBalance(ctx context.Context, customerID uuid.UUID, balance int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.PointsAccount{}).
		Where("customer_id = ?", customerID).
		Update("available_points", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAfter pages accounts by customer id; pass uuid.Nil to start from the beginning.
func (r *repository) ListAfter(ctx context.Context, after uuid.UUID, limit int) ([]models.PointsAccount, error) {
	query := r.db.WithContext(ctx)
	if after != uuid.Nil {
		query = query.Where("customer_id > ?", after)
	}
	var rows []models.PointsAccount
	if err := query.
		Order("customer_id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
