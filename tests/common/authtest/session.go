//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"
	"time"

	"coffee-loyalty/internal/handler/dto/request"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/cookie"
	"coffee-loyalty/internal/pkg/jwt"
	"coffee-loyalty/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// SessionToken mints an admin session for storeID signed with the configured secret.
func SessionToken(t *testing.T, cfg config.AdminConfig, storeID string) string {
	t.Helper()
	token, err := jwt.NewService(cfg.SessionSecret, cfg.SessionDuration).GenerateToken(storeID)
	require.NoError(t, err)
	return token
}

func ExpiredSessionToken(t *testing.T, cfg config.AdminConfig, storeID string) string {
	t.Helper()
	token, err := jwt.NewService(cfg.SessionSecret, -time.Minute).GenerateToken(storeID)
	require.NoError(t, err)
	return token
}

// OpenAdminSession logs in through the API and returns the session cookie.
func OpenAdminSession(t *testing.T, router *gin.Engine, key string) *http.Cookie {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/admin/session",
		request.AdminSessionRequest{Key: key}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	session := httptest.ExtractCookie(w, cookie.AdminSessionCookieName)
	require.NotNil(t, session, "admin session cookie not set")
	require.NotEmpty(t, session.Value)
	return session
}
