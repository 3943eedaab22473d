package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-loyalty/internal/accounts"
	"github.com/angelmondragon/packfinderz-loyalty/internal/checkout/helpers"
	"github.com/angelmondragon/packfinderz-loyalty/internal/ledger"
	"github.com/angelmondragon/packfinderz-loyalty/internal/loyalty"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-loyalty/pkg/errors"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service prices carts against a customer's points and finalizes orders into the ledger.
type Service interface {
	Quote(ctx context.Context, input CheckoutInput) (*Quote, error)
	Finalize(ctx context.Context, input CheckoutInput) (*Receipt, error)
}

// CheckoutInput captures the cart and the redemption choices of one checkout.
type CheckoutInput struct {
	CustomerID   uuid.UUID
	Cart         loyalty.Cart
	UsePoints    bool
	PointsToUse  int64
	DeliveryMode enums.DeliveryMode
}

// Quote is the priced view of a cart before anything is persisted.
type Quote struct {
	CustomerID       uuid.UUID
	AvailablePoints  int64
	PointsEarned     int64
	Discount         loyalty.DiscountQuote
	Totals           loyalty.OrderTotals
	ResultingBalance int64
}

// Receipt is what a committed finalization wrote.
type Receipt struct {
	Order     *models.Order
	Purchases []models.PurchaseLedgerEntry
	Points    *models.PointsLedgerEntry
}

// Options tunes pricing and wires observability.
type Options struct {
	Policy          loyalty.Policy
	HomeDeliveryFee decimal.Decimal
	Now             func() time.Time
	Metrics         *metrics.CheckoutMetrics
	Logger          *logger.Logger
}

type service struct {
	tx       txRunner
	accounts accounts.Repository
	ledger   ledger.Repository
	policy   loyalty.Policy
	homeFee  decimal.Decimal
	now      func() time.Time
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
}

// NewService builds the checkout service.
func NewService(tx txRunner, accountsRepo accounts.Repository, ledgerRepo ledger.Repository, opts Options) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if accountsRepo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("loyalty policy: %w", err)
	}
	if opts.HomeDeliveryFee.IsNegative() {
		return nil, fmt.Errorf("home delivery fee must not be negative")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &service{
		tx:       tx,
		accounts: accountsRepo,
		ledger:   ledgerRepo,
		policy:   opts.Policy,
		homeFee:  opts.HomeDeliveryFee,
		now:      opts.Now,
		metrics:  opts.Metrics,
		logg:     opts.Logger,
	}, nil
}

func (s *service) Quote(ctx context.Context, input CheckoutInput) (*Quote, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	account, err := s.accounts.Find(ctx, input.CustomerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load points account")
	}
	var available int64
	if account != nil {
		available = account.AvailablePoints
	}
	return s.price(input, available)
}

func (s *service) Finalize(ctx context.Context, input CheckoutInput) (*Receipt, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	started := time.Now()
	var (
		receipt *Receipt
		quote   *Quote
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		accountsRepo := s.accounts.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		account, err := accountsRepo.LockOrCreate(ctx, input.CustomerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock points account")
		}

		quote, err = s.price(input, account.AvailablePoints)
		if err != nil {
			return err
		}

		at, err := s.entryTime(ctx, ledgerRepo, input.CustomerID)
		if err != nil {
			return err
		}
		builder := loyalty.NewLedgerBuilder(func() time.Time { return at })
		pointsEntry := builder.PointsEntry(quote.PointsEarned, quote.Discount.PointsConsumed, account.AvailablePoints)

		order := &models.Order{
			CustomerID:      input.CustomerID,
			Subtotal:        quote.Totals.Subtotal,
			DiscountPercent: quote.Discount.Percentage,
			DiscountAmount:  quote.Totals.Discount,
			DeliveryMode:    input.DeliveryMode,
			DeliveryFee:     quote.Totals.DeliveryFee,
			AmountDue:       quote.Totals.AmountDue,
			PointsEarned:    quote.PointsEarned,
			PointsUsed:      quote.Discount.PointsConsumed,
			CreatedAt:       ledger.StoredTime(at),
		}
		if err := ledgerRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		purchases := ledger.PurchaseRows(order, builder.PurchaseLedger(input.Cart))
		if err := ledgerRepo.CreatePurchaseEntries(ctx, purchases); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record purchase history")
		}

		points := ledger.PointsRow(order, pointsEntry)
		if err := ledgerRepo.CreatePointsEntry(ctx, points); err != nil {
			if errors.Is(err, ledger.ErrPointsEntryExists) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order already finalized")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record points history")
		}

		if err := accountsRepo.UpdateBalance(ctx, input.CustomerID, pointsEntry.ResultingBalance); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update points balance")
		}

		receipt = &Receipt{Order: order, Purchases: purchases, Points: points}
		return nil
	})
	if err != nil {
		s.metrics.ObserveFinalize(metrics.OutcomeFailure, time.Since(started))
		return nil, err
	}

	s.metrics.ObserveFinalize(metrics.OutcomeSuccess, time.Since(started))
	s.metrics.RecordOrder(receipt.Order.PointsEarned, receipt.Order.PointsUsed, receipt.Order.DiscountPercent)

	logCtx := s.logg.WithOrderID(s.logg.WithCustomerID(ctx, input.CustomerID.String()), receipt.Order.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"points_earned":     receipt.Order.PointsEarned,
		"points_used":       receipt.Order.PointsUsed,
		"discount_percent":  receipt.Order.DiscountPercent,
		"resulting_balance": receipt.Points.ResultingBalance,
		"line_count":        len(receipt.Purchases),
	})
	s.logg.Info(logCtx, "checkout.finalized")

	return receipt, nil
}

// entryTime stamps a new order strictly after the customer's latest points row. Finalizations for
// one customer are serialized by the account lock, so created_at alone orders their history.
func (s *service) entryTime(ctx context.Context, ledgerRepo ledger.Repository, customerID uuid.UUID) (time.Time, error) {
	at := ledger.StoredTime(s.now())
	latest, err := ledgerRepo.LatestPointsEntry(ctx, customerID)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read points history")
	}
	if latest != nil {
		if prev := ledger.StoredTime(latest.CreatedAt); !at.After(prev) {
			at = prev.Add(time.Microsecond)
		}
	}
	return at, nil
}

func (s *service) price(input CheckoutInput, available int64) (*Quote, error) {
	subtotal := input.Cart.Subtotal()
	discount := loyalty.DiscountQuote{Amount: decimal.Zero}
	if input.UsePoints {
		if input.PointsToUse == 0 {
			discount = s.policy.ResolveDiscount(available, subtotal)
		} else {
			var err error
			discount, err = s.policy.ValidateRedemption(input.PointsToUse, available, subtotal)
			if err != nil {
				return nil, redemptionError(err, input.PointsToUse, available)
			}
		}
	}

	fee, err := helpers.DeliveryFee(input.DeliveryMode, s.homeFee)
	if err != nil {
		return nil, err
	}

	earned := loyalty.AccruedPoints(input.Cart)
	if earned > math.MaxInt64-available {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points balance would overflow").
			WithDetails(map[string]int64{"available_points": available, "points_earned": earned})
	}
	return &Quote{
		CustomerID:       input.CustomerID,
		AvailablePoints:  available,
		PointsEarned:     earned,
		Discount:         discount,
		Totals:           loyalty.PriceOrder(input.Cart, discount, fee),
		ResultingBalance: available + earned - discount.PointsConsumed,
	}, nil
}

func validateInput(input CheckoutInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.PointsToUse < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "points to use must not be negative")
	}
	if !input.DeliveryMode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid delivery mode %q", input.DeliveryMode))
	}
	return helpers.ValidateCart(input.Cart)
}

func redemptionError(err error, requested, available int64) error {
	details := map[string]int64{
		"requested_points": requested,
		"available_points": available,
	}
	if errors.Is(err, loyalty.ErrInsufficientPoints) {
		return pkgerrors.Wrap(pkgerrors.CodeInsufficientPoints, err, err.Error()).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()).WithDetails(details)
}
