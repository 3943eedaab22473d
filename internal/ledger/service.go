package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
	pkgerrors "github.com/angelmondragon/packfinderz-loyalty/pkg/errors"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/pagination"
)

// Service defines read access to a customer's purchase and points history.
type Service interface {
	ListPurchases(ctx context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Page[models.PurchaseLedgerEntry], error)
	ListPoints(ctx context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Page[models.PointsLedgerEntry], error)
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPurchases(ctx context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Page[models.PurchaseLedgerEntry], error) {
	cursor, err := parseRequest(customerID, params)
	if err != nil {
		return pagination.Page[models.PurchaseLedgerEntry]{}, err
	}
	rows, err := s.repo.ListPurchases(ctx, customerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return pagination.Page[models.PurchaseLedgerEntry]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list purchase history")
	}
	return pagination.Trim(rows, params.Limit, func(row models.PurchaseLedgerEntry) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.OrderID, Seq: row.Position}
	}), nil
}

func (s *service) ListPoints(ctx context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Page[models.PointsLedgerEntry], error) {
	cursor, err := parseRequest(customerID, params)
	if err != nil {
		return pagination.Page[models.PointsLedgerEntry]{}, err
	}
	rows, err := s.repo.ListPoints(ctx, customerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return pagination.Page[models.PointsLedgerEntry]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list points history")
	}
	return pagination.Trim(rows, params.Limit, func(row models.PointsLedgerEntry) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	}), nil
}

func parseRequest(customerID uuid.UUID, params pagination.Params) (*pagination.Cursor, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return cursor, nil
}
