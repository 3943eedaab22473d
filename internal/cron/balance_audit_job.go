package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/db/models"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
)

const defaultAuditBatchSize = 500

type accountLister interface {
	ListAfter(ctx context.Context, after uuid.UUID, limit int) ([]models.PointsAccount, error)
}

type latestPointsReader interface {
	LatestPointsEntry(ctx context.Context, customerID uuid.UUID) (*models.PointsLedgerEntry, error)
}

type driftRecorder interface {
	SetBalanceDrift(accounts int)
}

type BalanceAuditJobParams struct {
	Logger    *logger.Logger
	Accounts  accountLister
	Ledger    latestPointsReader
	Metrics   driftRecorder
	BatchSize int
}

// BalanceDrift is an account whose stored balance disagrees with its points history.
type BalanceDrift struct {
	CustomerID      uuid.UUID
	AvailablePoints int64
	LedgerBalance   int64
}

// NewBalanceAuditJob builds the read-only job that compares every account's available points
// with the resulting balance of its latest points ledger entry. Accounts without history are
// expected to hold zero points.
func NewBalanceAuditJob(params BalanceAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Accounts == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultAuditBatchSize
	}
	return &balanceAuditJob{
		logg:     params.Logger,
		accounts: params.Accounts,
		ledger:   params.Ledger,
		metrics:  params.Metrics,
		batch:    batch,
	}, nil
}

type balanceAuditJob struct {
	logg     *logger.Logger
	accounts accountLister
	ledger   latestPointsReader
	metrics  driftRecorder
	batch    int
}

func (j *balanceAuditJob) Name() string { return "balance-audit" }

func (j *balanceAuditJob) Run(ctx context.Context) error {
	drifts, scanned, err := j.audit(ctx)
	if err != nil {
		return fmt.Errorf("balance audit: %w", err)
	}
	for _, drift := range drifts {
		driftCtx := j.logg.WithFields(ctx, map[string]any{
			"customer_id":      drift.CustomerID.String(),
			"available_points": drift.AvailablePoints,
			"ledger_balance":   drift.LedgerBalance,
		})
		j.logg.Warn(driftCtx, "points balance drift detected")
	}
	if j.metrics != nil {
		j.metrics.SetBalanceDrift(len(drifts))
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"accounts_scanned": scanned,
		"drifted_accounts": len(drifts),
	})
	j.logg.Info(logCtx, "balance audit complete")
	return nil
}

func (j *balanceAuditJob) audit(ctx context.Context) ([]BalanceDrift, int, error) {
	var (
		drifts  []BalanceDrift
		scanned int
		after   = uuid.Nil
	)
	for {
		page, err := j.accounts.ListAfter(ctx, after, j.batch)
		if err != nil {
			return nil, scanned, fmt.Errorf("list accounts: %w", err)
		}
		for _, account := range page {
			entry, err := j.ledger.LatestPointsEntry(ctx, account.CustomerID)
			if err != nil {
				return nil, scanned, fmt.Errorf("latest points entry for %s: %w", account.CustomerID, err)
			}
			var ledgerBalance int64
			if entry != nil {
				ledgerBalance = entry.ResultingBalance
			}
			if ledgerBalance != account.AvailablePoints {
				drifts = append(drifts, BalanceDrift{
					CustomerID:      account.CustomerID,
					AvailablePoints: account.AvailablePoints,
					LedgerBalance:   ledgerBalance,
				})
			}
			scanned++
		}
		if len(page) < j.batch {
			return drifts, scanned, nil
		}
		after = page[len(page)-1].CustomerID
	}
}
