package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/angelmondragon/packfinderz-loyalty/pkg/db"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/pagination"
)

// ErrPointsEntryExists is returned when an order already has its points movement recorded.
var ErrPointsEntryExists = errors.New("points entry already recorded for order")

// Repository manages persistence for finalized orders and their history rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreatePurchaseEntries(ctx context.Context, entries []models.PurchaseLedgerEntry) error
	CreatePointsEntry(ctx context.Context, entry *models.PointsLedgerEntry) error
	ListPurchases(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.PurchaseLedgerEntry, error)
	ListPoints(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.PointsLedgerEntry, error)
	LatestPointsEntry(ctx context.Context, customerID uuid.UUID) (*models.PointsLedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreatePurchaseEntries(ctx context.Context, entries []models.PurchaseLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) CreatePointsEntry(ctx context.Context, entry *models.PointsLedgerEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if dbpkg.IsUniqueViolation(err, "") {
		return ErrPointsEntryExists
	}
	return err
}

// ListPurchases returns lines newest order first, keeping cart order inside one order. The
// cursor's ID is the order id and Seq the line position.
func (r *repository) ListPurchases(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.PurchaseLedgerEntry, error) {
	query := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND order_id < ?) OR (created_at = ? AND order_id = ? AND position > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID, cursor.CreatedAt, cursor.ID, cursor.Seq,
		)
	}

	var rows []models.PurchaseLedgerEntry
	if err := query.
		Order("created_at DESC").
		Order("order_id DESC").
		Order("position ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListPoints(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.PointsLedgerEntry, error) {
	query := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.PointsLedgerEntry
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestPointsEntry returns nil without error when the customer has no points history. Checkout
// stamps each customer's rows with strictly increasing created_at, so the id tiebreak only keeps
// the query deterministic.
func (r *repository) LatestPointsEntry(ctx context.Context, customerID uuid.UUID) (*models.PointsLedgerEntry, error) {
	var entry models.PointsLedgerEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Order("id DESC").
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
