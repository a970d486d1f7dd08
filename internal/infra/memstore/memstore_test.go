//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/infra"
	"coffee-loyalty/internal/infra/memstore"
	"coffee-loyalty/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func TestStore_CommitOnSuccess(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	err := s.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Customers().Ensure(ctx, "cid"))
		c, err := tx.Customers().FindForUpdate(ctx, "cid")
		require.NoError(t, err)
		_, err = c.ApplyScan(loyalty.DefaultPolicy(), at)
		require.NoError(t, err)
		require.NoError(t, tx.Customers().Save(ctx, c))
		return tx.Scans().Append(ctx, loyalty.ScanRecord{CustomerID: "cid", StoreID: "s1", ScannedAt: at})
	})
	require.NoError(t, err)

	snap, ok := s.Customer("cid")
	require.True(t, ok)
	assert.Equal(t, 1, snap.StampCount)
	assert.Len(t, s.ScanRecords(), 1)
}

func TestStore_RollbackOnError(t *testing.T) {
	s := memstore.New()
	s.Put(loyalty.Snapshot{ID: "cid", StampCount: 2})
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Customers().FindForUpdate(ctx, "cid")
		require.NoError(t, err)
		_, err = c.ApplyScan(loyalty.DefaultPolicy(), at)
		require.NoError(t, err)
		require.NoError(t, tx.Customers().Save(ctx, c))
		require.NoError(t, tx.Scans().Append(ctx, loyalty.ScanRecord{CustomerID: "cid", StoreID: "s1", ScannedAt: at}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	snap, _ := s.Customer("cid")
	assert.Equal(t, 2, snap.StampCount)
	assert.Nil(t, snap.LastScanAt)
	assert.Empty(t, s.ScanRecords())
}

func TestStore_StagedWritesVisibleInsideTx(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	err := s.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Customers().Ensure(ctx, "cid"))
		require.NoError(t, tx.Redemptions().Append(ctx, loyalty.RedemptionRecord{CustomerID: "cid", StoreID: "s1", RedeemedAt: at}))
		n, err := tx.Redemptions().CountByCustomer(ctx, "cid")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_Errors(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	t.Run("find missing customer", func(t *testing.T) {
		err := s.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Customers().Find(ctx, "missing")
			return err
		})
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("append for unknown customer", func(t *testing.T) {
		err := s.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Scans().Append(ctx, loyalty.ScanRecord{CustomerID: "missing", StoreID: "s1", ScannedAt: at})
		})
		assert.True(t, infra.IsKind(err, infra.KindForeignKeyViolated))
	})

	t.Run("write in read-only tx", func(t *testing.T) {
		err := s.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Customers().Ensure(ctx, "cid")
		})
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		_, ok := s.Customer("cid")
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		called := false
		err := s.Within(cctx, func(context.Context, shared.Tx) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestStore_Reset(t *testing.T) {
	s := memstore.New()
	s.Put(loyalty.Snapshot{ID: "cid", StampCount: 3})
	require.NoError(t, s.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Redemptions().Append(ctx, loyalty.RedemptionRecord{CustomerID: "cid", StoreID: "s1", RedeemedAt: at})
	}))
	require.Len(t, s.RedemptionRecords(), 1)

	s.Reset()

	_, ok := s.Customer("cid")
	assert.False(t, ok)
	assert.Empty(t, s.ScanRecords())
	assert.Empty(t, s.RedemptionRecords())
}
