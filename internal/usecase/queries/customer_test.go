//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/infra/memstore"
	"coffee-loyalty/internal/usecase/queries"
	"coffee-loyalty/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerQueries_GetCustomer(t *testing.T) {
	ctx := context.Background()
	policy := loyalty.DefaultPolicy()
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	store := memstore.New()
	b := builder.NewCustomerBuilder().WithStamps(3).WithFreeAvailable(1).ScannedAt(at)
	store.Put(b.BuildSnapshot())

	q := queries.NewCustomerQueries(store, policy)

	t.Run("found", func(t *testing.T) {
		got, err := q.GetCustomer(ctx, b.ID)
		require.NoError(t, err)

		want := b.BuildView(policy)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("CustomerView mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 2, got.StampsToReward)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := q.GetCustomer(ctx, "missing")
		assert.ErrorIs(t, err, queries.ErrCustomerNotFound)
	})
}
