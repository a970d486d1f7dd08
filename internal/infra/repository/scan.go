package repository

import (
	"context"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/infra"
	"coffee-loyalty/internal/infra/db"
	"coffee-loyalty/internal/pkg/pgconv"
)

const (
	appendScanSQL = `INSERT INTO scans (customer_id, store_id, scanned_at) VALUES ($1, $2, $3)`

	countScansSQL = `SELECT count(*) FROM scans WHERE customer_id = $1`
)

type ScanRepository struct {
	db db.DBTX
}

func NewScanRepository(db db.DBTX) *ScanRepository {
	return &ScanRepository{db: db}
}

func (r *ScanRepository) Append(ctx context.Context, rec loyalty.ScanRecord) error {
	_, err := r.db.Exec(ctx, appendScanSQL, rec.CustomerID, rec.StoreID, pgconv.TimeToPgtype(rec.ScannedAt))
	if err != nil {
		return infra.WrapRepoErr("failed to append scan", err)
	}
	return nil
}

func (r *ScanRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	return countRows(ctx, r.db, countScansSQL, customerID, "failed to count scans")
}

func countRows(ctx context.Context, conn db.DBTX, query, customerID, msg string) (int, error) {
	var n int64
	if err := conn.QueryRow(ctx, query, customerID).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr(msg, err, infra.KindDBFailure)
	}
	return int(n), nil
}
