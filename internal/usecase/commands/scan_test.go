//go:build unit

package commands_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/domain/scantoken"
	"coffee-loyalty/internal/infra/memstore"
	"coffee-loyalty/internal/pkg/clock"
	"coffee-loyalty/internal/pkg/metrics"
	"coffee-loyalty/internal/usecase/commands"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanFixture struct {
	scans   commands.ScanCommands
	store   *memstore.Store
	clock   *clock.MockClock
	signer  *scantoken.Signer
	metrics *metrics.Registry
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()
	store := memstore.New()
	clk := clock.NewMockClock(t0)
	signer := scantoken.NewSigner("secret", scantoken.WithMaxAge(24*time.Hour), scantoken.WithClockSkew(time.Minute))
	m := metrics.New()
	ledger := commands.NewLedgerCommands(store, loyalty.DefaultPolicy(), clk)
	return &scanFixture{
		scans:   commands.NewScanCommands(signer, ledger, clk, m),
		store:   store,
		clock:   clk,
		signer:  signer,
		metrics: m,
	}
}

func (f *scanFixture) issue(t *testing.T, storeID string, at time.Time) string {
	t.Helper()
	tok, err := f.signer.Issue(storeID, at)
	require.NoError(t, err)
	return tok
}

func TestScanCommands_DecodeAndVerify(t *testing.T) {
	f := newScanFixture(t)
	issuedAt := t0.Add(-time.Hour)
	valid := f.issue(t, testStore, issuedAt)

	tok, err := f.scans.DecodeAndVerify(valid)
	require.NoError(t, err)
	assert.Equal(t, testStore, tok.StoreID)
	assert.True(t, issuedAt.Equal(tok.IssuedAt))

	forged, err := scantoken.Encode(testStore, issuedAt, strings.Repeat("0", 64))
	require.NoError(t, err)
	padded := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%s|+0%d|%s",
		testStore, issuedAt.UnixMilli(), f.signer.Sign(testStore, issuedAt))))

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "garbage", raw: "not*base64", wantErr: scantoken.ErrMalformedToken},
		{name: "empty", raw: "", wantErr: scantoken.ErrMalformedToken},
		{name: "forged signature", raw: forged, wantErr: scantoken.ErrInvalidSignature},
		{name: "validly signed but non canonical timestamp", raw: padded, wantErr: scantoken.ErrMalformedToken},
		{name: "other key", raw: mustIssue(t, scantoken.NewSigner("other"), testStore, issuedAt), wantErr: scantoken.ErrInvalidSignature},
		{name: "too old", raw: f.issue(t, testStore, t0.Add(-25*time.Hour)), wantErr: scantoken.ErrExpiredToken},
		{name: "from the future", raw: f.issue(t, testStore, t0.Add(2*time.Minute)), wantErr: scantoken.ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.scans.DecodeAndVerify(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScanCommands_Scan(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token records a scan for the token store", func(t *testing.T) {
		f := newScanFixture(t)

		res, err := f.scans.Scan(ctx, f.issue(t, "store-9", t0), "cid")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Customer.StampCount)

		recs := f.store.ScanRecords()
		require.Len(t, recs, 1)
		assert.Equal(t, "store-9", recs[0].StoreID)
	})

	t.Run("rejected token never reaches the ledger", func(t *testing.T) {
		f := newScanFixture(t)

		_, err := f.scans.Scan(ctx, "bogus", "cid")
		assert.ErrorIs(t, err, scantoken.ErrMalformedToken)
		_, ok := f.store.Customer("cid")
		assert.False(t, ok)
	})

	t.Run("outcomes are counted", func(t *testing.T) {
		f := newScanFixture(t)
		tok := f.issue(t, testStore, t0)

		_, err := f.scans.Scan(ctx, tok, "cid")
		require.NoError(t, err)
		_, err = f.scans.Scan(ctx, tok, "cid")
		require.ErrorIs(t, err, loyalty.ErrRateLimited)
		_, err = f.scans.Scan(ctx, "bogus", "cid")
		require.Error(t, err)

		expected := `
# HELP loyalty_scans_total Scan attempts segmented by outcome.
# TYPE loyalty_scans_total counter
loyalty_scans_total{outcome="counted"} 1
loyalty_scans_total{outcome="malformed"} 1
loyalty_scans_total{outcome="rate_limited"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(f.metrics.Gatherer(), strings.NewReader(expected), "loyalty_scans_total"))
	})
}

func mustIssue(t *testing.T, s *scantoken.Signer, storeID string, at time.Time) string {
	t.Helper()
	tok, err := s.Issue(storeID, at)
	require.NoError(t, err)
	return tok
}
