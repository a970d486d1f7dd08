//go:build unit

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coffee-loyalty/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/limited", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/limited", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("burst then 429 with Retry-After", func(t *testing.T) {
		clk := &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
		rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 6, Burst: 2})
		rl.clockNow = clk.Now
		r := newLimitedRouter(rl)

		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)

		w := hit(r, "10.0.0.1")
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "10", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "Too many requests")

		// rejected requests do not consume tokens
		clk.Advance(10 * time.Second)
		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		clk := &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
		rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})
		rl.clockNow = clk.Now
		r := newLimitedRouter(rl)

		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1").Code)
		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.2").Code)
		assert.Equal(t, 2, rl.visitorCount())
	})

	t.Run("idle visitors are swept", func(t *testing.T) {
		clk := &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
		rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 5})
		rl.clockNow = clk.Now
		r := newLimitedRouter(rl)

		hit(r, "10.0.0.1")
		hit(r, "10.0.0.2")
		require.Equal(t, 2, rl.visitorCount())

		clk.Advance(visitorIdleTTL + sweepInterval)
		hit(r, "10.0.0.3")
		assert.Equal(t, 1, rl.visitorCount())
	})

	t.Run("non-positive config falls back to sane limits", func(t *testing.T) {
		rl := NewRateLimiter(config.RateLimitConfig{})
		assert.Equal(t, 1, rl.burst)
		assert.InDelta(t, 1.0, float64(rl.limit), 1e-9)
	})
}
