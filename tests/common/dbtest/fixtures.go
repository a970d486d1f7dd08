//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by a pool, a connection or a transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateTestCustomer inserts a customer with the given card state.
func CreateTestCustomer(t *testing.T, db DBLike, id string, stamps, free int, lastScanAt *time.Time) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO customers (id, stamp_count, free_available, last_scan_at) VALUES ($1, $2, $3, $4)",
		id, stamps, free, lastScanAt)
	require.NoError(t, err)
}

// RewindLastScan moves the customer's last scan into the past so the next
// scan clears the cooldown.
func RewindLastScan(t *testing.T, db DBLike, id string, by time.Duration) {
	t.Helper()

	tag, err := db.Exec(context.Background(),
		"UPDATE customers SET last_scan_at = last_scan_at - make_interval(secs => $2) WHERE id = $1",
		id, by.Seconds())
	require.NoError(t, err)
	require.Equal(t, int64(1), tag.RowsAffected(), "customer %s not found", id)
}

func CountRows(t *testing.T, db DBLike, table, customerID string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM "+table+" WHERE customer_id = $1", customerID).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
