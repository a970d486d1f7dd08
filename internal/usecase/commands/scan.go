package commands

import (
	"context"
	"errors"
	"log/slog"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/domain/scantoken"
	"coffee-loyalty/internal/pkg/clock"
	"coffee-loyalty/internal/pkg/metrics"
)

type ScanCommands interface {
	// DecodeAndVerify authenticates a raw QR token without touching storage.
	DecodeAndVerify(raw string) (scantoken.Token, error)
	// Scan verifies raw and, on success, records one scan for customerID.
	Scan(ctx context.Context, raw, customerID string) (*ScanResult, error)
}

type scanCommandsImpl struct {
	signer  *scantoken.Signer
	ledger  LedgerCommands
	clock   clock.Clock
	metrics *metrics.Registry
}

func NewScanCommands(signer *scantoken.Signer, ledger LedgerCommands, clk clock.Clock, m *metrics.Registry) ScanCommands {
	return &scanCommandsImpl{
		signer:  signer,
		ledger:  ledger,
		clock:   clk,
		metrics: m,
	}
}

func (s *scanCommandsImpl) DecodeAndVerify(raw string) (scantoken.Token, error) {
	tok, err := scantoken.Decode(raw)
	if err != nil {
		return scantoken.Token{}, err
	}
	if err := s.signer.Check(tok, s.clock.Now()); err != nil {
		if errors.Is(err, scantoken.ErrInvalidSignature) {
			slog.Warn("scan token signature mismatch, possible tampering",
				"store_id", tok.StoreID,
				"issued_at", tok.IssuedAt)
		}
		return scantoken.Token{}, err
	}
	return tok, nil
}

func (s *scanCommandsImpl) Scan(ctx context.Context, raw, customerID string) (*ScanResult, error) {
	tok, err := s.DecodeAndVerify(raw)
	if err != nil {
		s.metrics.ObserveScan(scanOutcome(err), false)
		return nil, err
	}

	result, err := s.ledger.RecordScan(ctx, customerID, tok.StoreID)
	if err != nil {
		s.metrics.ObserveScan(scanOutcome(err), false)
		return nil, err
	}

	s.metrics.ObserveScan(metrics.ScanCounted, result.EarnedReward)
	slog.Info("scan recorded",
		"customer_id", customerID,
		"store_id", tok.StoreID,
		"stamp_count", result.Customer.StampCount,
		"earned_reward", result.EarnedReward)
	return result, nil
}

func scanOutcome(err error) string {
	switch {
	case errors.Is(err, scantoken.ErrMalformedToken):
		return metrics.ScanMalformed
	case errors.Is(err, scantoken.ErrInvalidSignature):
		return metrics.ScanBadSig
	case errors.Is(err, scantoken.ErrExpiredToken):
		return metrics.ScanExpired
	case errors.Is(err, loyalty.ErrRateLimited):
		return metrics.ScanRateLimited
	default:
		return metrics.ScanFailed
	}
}
