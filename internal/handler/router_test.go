//go:build unit

package handler_test

import (
	"net/http"
	"testing"
	"time"

	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/domain/scantoken"
	"coffee-loyalty/internal/handler"
	"coffee-loyalty/internal/handler/api"
	resdto "coffee-loyalty/internal/handler/dto/response"
	"coffee-loyalty/internal/handler/middleware"
	"coffee-loyalty/internal/infra/memstore"
	"coffee-loyalty/internal/pkg/clock"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/cookie"
	"coffee-loyalty/internal/pkg/jwt"
	"coffee-loyalty/internal/pkg/metrics"
	"coffee-loyalty/internal/usecase"
	"coffee-loyalty/internal/usecase/commands"
	"coffee-loyalty/internal/usecase/queries"
	"coffee-loyalty/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type app struct {
	router *gin.Engine
	store  *memstore.Store
	clock  *clock.MockClock
	signer *scantoken.Signer
	cfg    config.Config
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewTestConfig()
	clk := clock.NewMockClock(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	store := memstore.New()
	m := metrics.New()
	policy, err := loyalty.NewPolicy(cfg.Loyalty.Threshold, cfg.Loyalty.Cooldown)
	require.NoError(t, err)
	signer := scantoken.NewSigner(cfg.ScanToken.Secret,
		scantoken.WithMaxAge(cfg.ScanToken.MaxAge),
		scantoken.WithClockSkew(cfg.ScanToken.ClockSkew),
	)
	jwtService := jwt.NewService(cfg.Admin.SessionSecret, cfg.Admin.SessionDuration)
	gate, err := usecase.NewStaffGateWithCost(cfg.Store.RedeemPIN, bcrypt.MinCost)
	require.NoError(t, err)
	validator := usecase.NewAdminValidator(cfg.Admin.Key, cfg.Store.ID, jwtService)
	identity := usecase.NewIdentityResolver()

	ledger := commands.NewLedgerCommands(store, policy, clk)
	scan := commands.NewScanCommands(signer, ledger, clk, m)
	redeem := commands.NewRedemptionCommands(gate, ledger, cfg.Store.ID, m)
	admin := commands.NewAdminCommands(signer, validator, jwtService, clk, cfg.Store.ID, cfg.Server.PublicBaseURL)
	customerQueries := queries.NewCustomerQueries(store, policy)

	engine := gin.New()
	handler.NewRouter(handler.RouterParams{
		Engine:            engine,
		Config:            cfg,
		Logger:            middleware.NewLogger(cfg.Log),
		Metrics:           m,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimit),
		AdminMiddleware:   middleware.NewAdminMiddleware(validator),
		ScanHandler:       api.NewScanHandler(scan, identity, cfg),
		CustomerHandler:   api.NewCustomerHandler(ledger, customerQueries, identity, cfg),
		RedemptionHandler: api.NewRedemptionHandler(redeem, cfg),
		AdminHandler:      api.NewAdminHandler(admin, cfg),
	})

	return &app{router: engine, store: store, clock: clk, signer: signer, cfg: cfg}
}

func (a *app) token(t *testing.T) string {
	t.Helper()
	tok, err := a.signer.Issue(a.cfg.Store.ID, a.clock.Now())
	require.NoError(t, err)
	return tok
}

func TestRouter_Health(t *testing.T) {
	a := newApp(t)
	w := httptest.PerformRequest(t, a.router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_ScanAndRedeemFlow(t *testing.T) {
	a := newApp(t)
	tok := a.token(t)

	w := httptest.PerformRequest(t, a.router, http.MethodPost, "/api/scan/"+tok, nil, "")
	var first resdto.ScanResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &first)
	cid := httptest.ExtractCookie(w, cookie.CustomerIDCookieName)
	require.NotNil(t, cid)
	cookies := []*http.Cookie{cid}

	for range 4 {
		a.clock.Add(a.cfg.Loyalty.Cooldown)
		w = httptest.PerformRequestWithCookies(t, a.router, http.MethodPost, "/api/scan/"+tok, nil, cookies, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	var fifth resdto.ScanResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &fifth)
	assert.True(t, fifth.EarnedReward)
	assert.Equal(t, 1, fifth.Customer.FreeAvailable)

	w = httptest.PerformRequestWithCookies(t, a.router, http.MethodPost, "/api/scan/"+tok, nil, cookies, "")
	httptest.AssertErrorResponse(t, w, http.StatusTooManyRequests, "wait")
	httptest.AssertRetryAfter(t, w, 600)

	w = httptest.PerformRequestWithCookies(t, a.router, http.MethodPost, "/api/redeem",
		map[string]string{"pin": a.cfg.Store.RedeemPIN}, cookies, "")
	var redeemed resdto.CustomerEnvelope
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &redeemed)
	assert.Equal(t, 0, redeemed.Customer.FreeAvailable)

	assert.Len(t, a.store.ScanRecords(), 5)
	assert.Len(t, a.store.RedemptionRecords(), 1)
	for _, rec := range a.store.ScanRecords() {
		assert.Equal(t, a.cfg.Store.ID, rec.StoreID)
	}
}

func TestRouter_TotalsMatchAcrossEndpoints(t *testing.T) {
	a := newApp(t)
	tok := a.token(t)

	w := httptest.PerformRequest(t, a.router, http.MethodPost, "/api/scan/"+tok, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := []*http.Cookie{httptest.ExtractCookie(w, cookie.CustomerIDCookieName)}
	require.NotNil(t, cookies[0])

	a.clock.Add(a.cfg.Loyalty.Cooldown)
	w = httptest.PerformRequestWithCookies(t, a.router, http.MethodPost, "/api/scan/"+tok, nil, cookies, "")
	var scanned resdto.ScanResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &scanned)
	assert.Equal(t, 2, scanned.Customer.TotalScans)
	assert.Equal(t, 0, scanned.Customer.TotalRedemptions)

	w = httptest.PerformRequestWithCookies(t, a.router, http.MethodGet, "/api/me", nil, cookies, "")
	var me resdto.CustomerEnvelope
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &me)
	assert.Equal(t, scanned.Customer.TotalScans, me.Customer.TotalScans)

	a.store.Put(loyalty.Snapshot{
		ID:            me.Customer.ID,
		StampCount:    me.Customer.StampCount,
		FreeAvailable: 1,
		LastScanAt:    me.Customer.LastScanAt,
	})
	w = httptest.PerformRequestWithCookies(t, a.router, http.MethodPost, "/api/redeem",
		map[string]string{"pin": a.cfg.Store.RedeemPIN}, cookies, "")
	var redeemed resdto.CustomerEnvelope
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &redeemed)
	assert.Equal(t, 2, redeemed.Customer.TotalScans)
	assert.Equal(t, 1, redeemed.Customer.TotalRedemptions)
}

func TestRouter_ScanPageRendersHTML(t *testing.T) {
	a := newApp(t)

	w := httptest.PerformRequest(t, a.router, http.MethodGet, "/scan/"+a.token(t), nil, "")
	httptest.AssertHTMLResponse(t, w, http.StatusOK, "1 of 5 stamps")

	w = httptest.PerformRequest(t, a.router, http.MethodGet, "/scan/garbage", nil, "")
	httptest.AssertHTMLResponse(t, w, http.StatusBadRequest, "Malformed scan token")
}

func TestRouter_ExpiredToken(t *testing.T) {
	a := newApp(t)
	tok := a.token(t)
	a.clock.Add(a.cfg.ScanToken.MaxAge + a.cfg.ScanToken.ClockSkew + time.Second)

	w := httptest.PerformRequest(t, a.router, http.MethodPost, "/api/scan/"+tok, nil, "")
	httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "expired")
}

func TestRouter_AdminQR(t *testing.T) {
	a := newApp(t)

	w := httptest.PerformRequest(t, a.router, http.MethodGet, "/api/admin/qr", nil, "")
	httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Admin access required")

	w = httptest.PerformRequest(t, a.router, http.MethodGet, "/api/admin/qr?key="+a.cfg.Admin.Key, nil, "")
	var issued resdto.ScanTokenResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &issued)
	assert.Equal(t, a.cfg.Store.ID, issued.StoreID)
	assert.Equal(t, a.cfg.Server.PublicBaseURL+"/scan/"+issued.Token, issued.URL)

	// the freshly issued token is accepted by the scan endpoint
	w = httptest.PerformRequest(t, a.router, http.MethodPost, "/api/scan/"+issued.Token, nil, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	a := newApp(t)
	httptest.PerformRequest(t, a.router, http.MethodPost, "/api/scan/"+a.token(t), nil, "")

	w := httptest.PerformRequest(t, a.router, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `loyalty_scans_total{outcome="counted"} 1`)
	assert.Contains(t, w.Body.String(), `loyalty_http_requests_total{method="POST",route="/api/scan/:token",status="200"} 1`)
}
