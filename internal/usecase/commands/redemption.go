package commands

import (
	"context"
	"errors"
	"log/slog"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/pkg/metrics"
	"coffee-loyalty/internal/usecase"
)

type RedemptionCommands interface {
	Redeem(ctx context.Context, customerID, staffPIN string) (*RedeemResult, error)
}

type redemptionCommandsImpl struct {
	gate    usecase.StaffGate
	ledger  LedgerCommands
	storeID string
	metrics *metrics.Registry
}

func NewRedemptionCommands(gate usecase.StaffGate, ledger LedgerCommands, storeID string, m *metrics.Registry) RedemptionCommands {
	return &redemptionCommandsImpl{
		gate:    gate,
		ledger:  ledger,
		storeID: storeID,
		metrics: m,
	}
}

func (r *redemptionCommandsImpl) Redeem(ctx context.Context, customerID, staffPIN string) (*RedeemResult, error) {
	if !r.gate.Authorize(staffPIN) {
		r.metrics.ObserveRedemption(metrics.RedeemForbidden)
		slog.Warn("redemption rejected: invalid staff pin", "customer_id", customerID)
		return nil, errs.ErrForbidden
	}
	if customerID == "" {
		return nil, errs.ErrCustomerIdentityRequired
	}

	result, err := r.ledger.Redeem(ctx, customerID, r.storeID)
	if err != nil {
		if errors.Is(err, loyalty.ErrNoFreeDrinks) {
			r.metrics.ObserveRedemption(metrics.RedeemNoCredit)
		} else {
			r.metrics.ObserveRedemption(metrics.RedeemFailed)
		}
		return nil, err
	}

	r.metrics.ObserveRedemption(metrics.RedeemOK)
	slog.Info("free item redeemed", "customer_id", customerID, "free_available", result.Customer.FreeAvailable)
	return result, nil
}
