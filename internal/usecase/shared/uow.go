package shared

import (
	"context"

	"coffee-loyalty/internal/domain/loyalty"
)

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/mock_uow.go -package=sharedmock -exclude_interfaces=Tx,CustomerRepository,ScanRepository,RedemptionRepository

type UnitOfWork interface {
	// Within: Full transaction for ledger mutations; state changes and audit
	// appends commit together or not at all.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Consistent multi-table snapshot for queries
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Customers() CustomerRepository
	Scans() ScanRepository
	Redemptions() RedemptionRepository
}

type CustomerRepository interface {
	// Ensure inserts a zero-valued customer unless one with id already exists.
	Ensure(ctx context.Context, id string) error
	Find(ctx context.Context, id string) (*loyalty.Customer, error)
	// FindForUpdate loads the customer and holds a row lock until the
	// surrounding transaction ends.
	FindForUpdate(ctx context.Context, id string) (*loyalty.Customer, error)
	Save(ctx context.Context, c *loyalty.Customer) error
}

type ScanRepository interface {
	Append(ctx context.Context, rec loyalty.ScanRecord) error
	CountByCustomer(ctx context.Context, customerID string) (int, error)
}

type RedemptionRepository interface {
	Append(ctx context.Context, rec loyalty.RedemptionRecord) error
	CountByCustomer(ctx context.Context, customerID string) (int, error)
}
