package commands

//go:generate mockgen -destination=../../../tests/mock/commands/mock_commands.go -package=commandsmock coffee-loyalty/internal/usecase/commands LedgerCommands,ScanCommands,RedemptionCommands,AdminCommands

import (
	"context"
	"fmt"
	"time"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/pkg/clock"
	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/usecase/shared"
)

// Totals counts a customer's audit records, including any appended by the
// same transaction.
type Totals struct {
	Scans       int
	Redemptions int
}

type ScanResult struct {
	Customer       loyalty.Snapshot
	Totals         Totals
	EarnedReward   bool
	Threshold      int
	StampsToReward int
}

type RedeemResult struct {
	Customer loyalty.Snapshot
	Totals   Totals
}

// CooldownError is returned when a scan lands inside the cooldown window.
// It matches loyalty.ErrRateLimited with errors.Is.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: retry after %s", loyalty.ErrRateLimited.Error(), e.RetryAfter)
}

func (e *CooldownError) Unwrap() error {
	return loyalty.ErrRateLimited
}

// LedgerCommands owns every write to customer balances.
type LedgerCommands interface {
	GetOrCreate(ctx context.Context, customerID string) (loyalty.Snapshot, error)
	RecordScan(ctx context.Context, customerID, storeID string) (*ScanResult, error)
	Redeem(ctx context.Context, customerID, storeID string) (*RedeemResult, error)
}

type ledgerCommandsImpl struct {
	uow    shared.UnitOfWork
	policy loyalty.Policy
	clock  clock.Clock
}

func NewLedgerCommands(uow shared.UnitOfWork, policy loyalty.Policy, clk clock.Clock) LedgerCommands {
	return &ledgerCommandsImpl{uow: uow, policy: policy, clock: clk}
}

func (l *ledgerCommandsImpl) GetOrCreate(ctx context.Context, customerID string) (loyalty.Snapshot, error) {
	if customerID == "" {
		return loyalty.Snapshot{}, loyalty.ErrInvalidCustomerID
	}

	var snap loyalty.Snapshot
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Customers().Ensure(ctx, customerID); err != nil {
			return storageErr(err)
		}
		c, err := tx.Customers().Find(ctx, customerID)
		if err != nil {
			return storageErr(err)
		}
		snap = c.Snapshot()
		return nil
	})
	if err != nil {
		return loyalty.Snapshot{}, err
	}
	return snap, nil
}

func (l *ledgerCommandsImpl) RecordScan(ctx context.Context, customerID, storeID string) (*ScanResult, error) {
	if customerID == "" {
		return nil, loyalty.ErrInvalidCustomerID
	}

	var result *ScanResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := l.lockCustomer(ctx, tx, customerID)
		if err != nil {
			return err
		}

		now := l.clock.Now()
		earned, err := c.ApplyScan(l.policy, now)
		if err != nil {
			if remaining := c.CooldownRemaining(l.policy, now); remaining > 0 {
				return &CooldownError{RetryAfter: remaining}
			}
			return err
		}

		if err := tx.Customers().Save(ctx, c); err != nil {
			return storageErr(err)
		}
		if err := tx.Scans().Append(ctx, loyalty.ScanRecord{
			CustomerID: customerID,
			StoreID:    storeID,
			ScannedAt:  now,
		}); err != nil {
			return storageErr(err)
		}
		totals, err := countTotals(ctx, tx, customerID)
		if err != nil {
			return err
		}

		result = &ScanResult{
			Customer:       c.Snapshot(),
			Totals:         totals,
			EarnedReward:   earned,
			Threshold:      l.policy.Threshold(),
			StampsToReward: c.StampsToReward(l.policy),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *ledgerCommandsImpl) Redeem(ctx context.Context, customerID, storeID string) (*RedeemResult, error) {
	if customerID == "" {
		return nil, loyalty.ErrInvalidCustomerID
	}

	var result *RedeemResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := l.lockCustomer(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if err := c.Redeem(); err != nil {
			return err
		}
		if err := tx.Customers().Save(ctx, c); err != nil {
			return storageErr(err)
		}
		if err := tx.Redemptions().Append(ctx, loyalty.RedemptionRecord{
			CustomerID: customerID,
			StoreID:    storeID,
			RedeemedAt: l.clock.Now(),
		}); err != nil {
			return storageErr(err)
		}
		totals, err := countTotals(ctx, tx, customerID)
		if err != nil {
			return err
		}
		result = &RedeemResult{Customer: c.Snapshot(), Totals: totals}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockCustomer creates the customer if needed and holds its row lock for
// the rest of tx.
func (l *ledgerCommandsImpl) lockCustomer(ctx context.Context, tx shared.Tx, customerID string) (*loyalty.Customer, error) {
	if err := tx.Customers().Ensure(ctx, customerID); err != nil {
		return nil, storageErr(err)
	}
	c, err := tx.Customers().FindForUpdate(ctx, customerID)
	if err != nil {
		return nil, storageErr(err)
	}
	return c, nil
}

func countTotals(ctx context.Context, tx shared.Tx, customerID string) (Totals, error) {
	scans, err := tx.Scans().CountByCustomer(ctx, customerID)
	if err != nil {
		return Totals{}, storageErr(err)
	}
	redemptions, err := tx.Redemptions().CountByCustomer(ctx, customerID)
	if err != nil {
		return Totals{}, storageErr(err)
	}
	return Totals{Scans: scans, Redemptions: redemptions}, nil
}

func storageErr(err error) error {
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
