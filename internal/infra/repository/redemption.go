package repository

import (
	"context"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/infra"
	"coffee-loyalty/internal/infra/db"
	"coffee-loyalty/internal/pkg/pgconv"
)

const (
	appendRedemptionSQL = `INSERT INTO redemptions (customer_id, store_id, redeemed_at) VALUES ($1, $2, $3)`

	countRedemptionsSQL = `SELECT count(*) FROM redemptions WHERE customer_id = $1`
)

type RedemptionRepository struct {
	db db.DBTX
}

func NewRedemptionRepository(db db.DBTX) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

func (r *RedemptionRepository) Append(ctx context.Context, rec loyalty.RedemptionRecord) error {
	_, err := r.db.Exec(ctx, appendRedemptionSQL, rec.CustomerID, rec.StoreID, pgconv.TimeToPgtype(rec.RedeemedAt))
	if err != nil {
		return infra.WrapRepoErr("failed to append redemption", err)
	}
	return nil
}

func (r *RedemptionRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	return countRows(ctx, r.db, countRedemptionsSQL, customerID, "failed to count redemptions")
}
