//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coffee-loyalty/internal/handler/middleware"
	"coffee-loyalty/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(cfg config.CORSConfig) *gin.Engine {
		r := gin.New()
		r.Use(middleware.NewCORSMiddleware(cfg))
		r.GET("/api/me", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	get := func(r *gin.Engine, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("listed origin with credentials", func(t *testing.T) {
		w := get(newRouter(config.NewTestConfig().CORS), "http://localhost:3000")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin is refused", func(t *testing.T) {
		w := get(newRouter(config.NewTestConfig().CORS), "http://evil.example")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wildcard drops credentials", func(t *testing.T) {
		cfg := config.NewTestConfig().CORS
		cfg.AllowOrigins = []string{"*"}
		w := get(newRouter(cfg), "http://anywhere.example")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("no origins disables cors", func(t *testing.T) {
		w := get(newRouter(config.CORSConfig{}), "http://localhost:3000")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
