package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-loyalty/internal/loyalty"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-loyalty/pkg/errors"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/pagination"
)

type fakeRepository struct {
	pointsRows []models.PointsLedgerEntry
	listErr    error
	lastLimit  int
	lastCursor *pagination.Cursor
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return nil
}

func (f *fakeRepository) CreatePurchaseEntries(ctx context.Context, entries []models.PurchaseLedgerEntry) error {
	return nil
}

func (f *fakeRepository) CreatePointsEntry(ctx context.Context, entry *models.PointsLedgerEntry) error {
	return nil
}

func (f *fakeRepository) ListPurchases(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.PurchaseLedgerEntry, error) {
	f.lastLimit = limit
	f.lastCursor = cursor
	return nil, f.listErr
}

func (f *fakeRepository) ListPoints(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.PointsLedgerEntry, error) {
	f.lastLimit = limit
	f.lastCursor = cursor
	return f.pointsRows, f.listErr
}

func (f *fakeRepository) LatestPointsEntry(ctx context.Context, customerID uuid.UUID) (*models.PointsLedgerEntry, error) {
	return nil, nil
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestServiceListValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})
	ctx := context.Background()

	if _, err := svc.ListPurchases(ctx, uuid.Nil, pagination.Params{}); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing customer, got %v", err)
	}
	if _, err := svc.ListPoints(ctx, uuid.New(), pagination.Params{Cursor: "not-a-cursor"}); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}
}

func TestServiceListRequestsBufferedLimit(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	page, err := svc.ListPurchases(context.Background(), uuid.New(), pagination.Params{})
	if err != nil {
		t.Fatalf("ListPurchases: %v", err)
	}
	if repo.lastLimit != pagination.DefaultLimit+1 {
		t.Fatalf("expected buffered default limit, got %d", repo.lastLimit)
	}
	if page.Items == nil || page.NextCursor != "" {
		t.Fatalf("expected empty final page, got %+v", page)
	}
}

func TestServiceListPointsBuildsCursorFromLastRow(t *testing.T) {
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	rows := []models.PointsLedgerEntry{
		{ID: uuid.New(), CreatedAt: at.Add(2 * time.Minute)},
		{ID: uuid.New(), CreatedAt: at.Add(time.Minute)},
		{ID: uuid.New(), CreatedAt: at},
	}
	repo := &fakeRepository{pointsRows: rows}
	svc, _ := NewService(repo)

	page, err := svc.ListPoints(context.Background(), uuid.New(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("ListPoints: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page.Items))
	}
	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if cursor.ID != rows[1].ID || !cursor.CreatedAt.Equal(rows[1].CreatedAt) {
		t.Fatalf("cursor should reference the last returned row, got %+v", cursor)
	}

	if _, err := svc.ListPoints(context.Background(), uuid.New(), pagination.Params{Cursor: page.NextCursor}); err != nil {
		t.Fatalf("ListPoints with cursor: %v", err)
	}
	if repo.lastCursor == nil || repo.lastCursor.ID != rows[1].ID {
		t.Fatalf("cursor not forwarded to repository")
	}
}

func TestServiceListWrapsRepositoryErrors(t *testing.T) {
	svc, _ := NewService(&fakeRepository{listErr: errors.New("boom")})
	if _, err := svc.ListPoints(context.Background(), uuid.New(), pagination.Params{}); pkgerrors.CodeOf(err) != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestRowMappers(t *testing.T) {
	at := time.Date(2026, 4, 2, 9, 0, 0, 987654321, time.FixedZone("CET", 3600))
	order := &models.Order{ID: uuid.New(), CustomerID: uuid.New()}
	builder := loyalty.NewLedgerBuilder(func() time.Time { return at })

	rows := PurchaseRows(order, builder.PurchaseLedger(loyalty.Cart{{ProductID: uuid.New(), Quantity: 1}, {ProductID: uuid.New(), Quantity: 2}}))
	if len(rows) != 2 || rows[0].Position != 1 || rows[1].Position != 2 {
		t.Fatalf("unexpected positions: %+v", rows)
	}
	if rows[0].CreatedAt.Location() != time.UTC || rows[0].CreatedAt.Nanosecond() != 987654000 {
		t.Fatalf("expected UTC microsecond timestamp, got %v", rows[0].CreatedAt)
	}

	points := PointsRow(order, builder.PointsEntry(0, 2000, 2500))
	if points.OrderID != order.ID || points.CustomerID != order.CustomerID {
		t.Fatalf("points row not linked to order")
	}
	if points.Kind != enums.PointsEntryKindRedemption || points.Points != 2000 || points.ResultingBalance != 500 {
		t.Fatalf("unexpected points row %+v", points)
	}
}
