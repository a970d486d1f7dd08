package queries

//go:generate mockgen -destination=../../../tests/mock/queries/mock_queries.go -package=queriesmock coffee-loyalty/internal/usecase/queries CustomerQueries

import (
	"context"
	"time"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/infra"
	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/usecase/shared"
)

var ErrCustomerNotFound = errs.New("customer not found")

// CustomerView represents read-optimized loyalty card data
type CustomerView struct {
	ID               string     `json:"id"`
	StampCount       int        `json:"stamp_count"`
	FreeAvailable    int        `json:"free_available"`
	LastScanAt       *time.Time `json:"last_scan_at,omitempty"`
	Threshold        int        `json:"threshold"`
	StampsToReward   int        `json:"stamps_to_reward"`
	TotalScans       int        `json:"total_scans"`
	TotalRedemptions int        `json:"total_redemptions"`
}

type CustomerQueries interface {
	GetCustomer(ctx context.Context, customerID string) (*CustomerView, error)
}

type customerQueriesImpl struct {
	uow    shared.UnitOfWork
	policy loyalty.Policy
}

func NewCustomerQueries(uow shared.UnitOfWork, policy loyalty.Policy) CustomerQueries {
	return &customerQueriesImpl{uow: uow, policy: policy}
}

func (q *customerQueriesImpl) GetCustomer(ctx context.Context, customerID string) (*CustomerView, error) {
	var view *CustomerView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Customers().Find(ctx, customerID)
		if err != nil {
			return err
		}
		scans, err := tx.Scans().CountByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		redemptions, err := tx.Redemptions().CountByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		view = NewCustomerView(c.Snapshot(), q.policy.Threshold()).WithTotals(scans, redemptions)
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return view, nil
}

// NewCustomerView projects a ledger snapshot for display.
func NewCustomerView(s loyalty.Snapshot, threshold int) *CustomerView {
	return &CustomerView{
		ID:             s.ID,
		StampCount:     s.StampCount,
		FreeAvailable:  s.FreeAvailable,
		LastScanAt:     s.LastScanAt,
		Threshold:      threshold,
		StampsToReward: max(threshold-s.StampCount, 0),
	}
}

func (v *CustomerView) WithTotals(scans, redemptions int) *CustomerView {
	v.TotalScans = scans
	v.TotalRedemptions = redemptions
	return v
}
