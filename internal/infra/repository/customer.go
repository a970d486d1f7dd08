package repository

import (
	"context"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/infra"
	"coffee-loyalty/internal/infra/db"
	"coffee-loyalty/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	ensureCustomerSQL = `INSERT INTO customers (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`

	findCustomerSQL = `SELECT id, stamp_count, free_available, last_scan_at FROM customers WHERE id = $1`

	findCustomerForUpdateSQL = findCustomerSQL + ` FOR UPDATE`

	saveCustomerSQL = `UPDATE customers
SET stamp_count = $2, free_available = $3, last_scan_at = $4
WHERE id = $1`
)

type CustomerRepository struct {
	db db.DBTX
}

func NewCustomerRepository(db db.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Ensure(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, ensureCustomerSQL, id); err != nil {
		return infra.WrapRepoErr("failed to ensure customer", err)
	}
	return nil
}

func (r *CustomerRepository) Find(ctx context.Context, id string) (*loyalty.Customer, error) {
	return r.find(ctx, findCustomerSQL, id)
}

func (r *CustomerRepository) FindForUpdate(ctx context.Context, id string) (*loyalty.Customer, error) {
	return r.find(ctx, findCustomerForUpdateSQL, id)
}

func (r *CustomerRepository) find(ctx context.Context, query, id string) (*loyalty.Customer, error) {
	var (
		snap     loyalty.Snapshot
		stamps   int32
		free     int32
		lastScan pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&snap.ID, &stamps, &free, &lastScan)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("customer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find customer", err)
	}
	snap.StampCount = int(stamps)
	snap.FreeAvailable = int(free)
	snap.LastScanAt = pgconv.TimePtrFromPgtype(lastScan)

	c, err := loyalty.ReconstructCustomer(snap)
	if err != nil {
		return nil, infra.WrapRepoErr("stored customer is invalid", err, infra.KindDBFailure)
	}
	return c, nil
}

func (r *CustomerRepository) Save(ctx context.Context, c *loyalty.Customer) error {
	snap := c.Snapshot()
	tag, err := r.db.Exec(ctx, saveCustomerSQL,
		snap.ID,
		int32(snap.StampCount),    // #nosec G115 -- bounded by loyalty threshold
		int32(snap.FreeAvailable), // #nosec G115 -- credits stay far below int32 range
		pgconv.TimePtrToPgtype(snap.LastScanAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save customer", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("customer not found", nil, infra.KindNotFound)
	}
	return nil
}
