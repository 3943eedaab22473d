package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/packfinderz-loyalty/pkg/errors"
)

// Balance is the customer's spendable points snapshot.
type Balance struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	AvailablePoints int64     `json:"available_points"`
}

// Service exposes read access to points balances.
type Service interface {
	Balance(ctx context.Context, customerID uuid.UUID) (Balance, error)
}

type service struct {
	repo Repository
}

// NewService wires an accounts service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	return &service{repo: repo}, nil
}

// Balance reports zero for customers that never finalized an order.
func (s *service) Balance(ctx context.Context, customerID uuid.UUID) (Balance, error) {
	if customerID == uuid.Nil {
		return Balance{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	account, err := s.repo.Find(ctx, customerID)
	if err != nil {
		return Balance{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load points account")
	}
	balance := Balance{CustomerID: customerID}
	if account != nil {
		balance.AvailablePoints = account.AvailablePoints
	}
	return balance, nil
}
