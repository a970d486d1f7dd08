package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"coffee-loyalty/internal/handler/httperr"
	"coffee-loyalty/internal/pkg/cookie"
	"coffee-loyalty/internal/pkg/errs"
	"coffee-loyalty/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	AdminKeyHeader = "X-Admin-Key"
	adminKeyQuery  = "key"

	ctxAdminKey = "admin"
)

type AdminMiddleware struct {
	validator usecase.AdminValidator
}

func NewAdminMiddleware(validator usecase.AdminValidator) *AdminMiddleware {
	return &AdminMiddleware{
		validator: validator,
	}
}

// RequireAdmin accepts the static admin key (header or query) or an admin
// session token (cookie or bearer).
func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := adminKey(c); key != "" {
			if !m.validator.ValidateKey(key) {
				slog.Warn("Admin key rejected", "client_ip", c.ClientIP())
				httperr.AbortWithError(c, http.StatusForbidden, errs.ErrForbidden, "Invalid admin key", nil)
				return
			}
			c.Set(ctxAdminKey, true)
			c.Next()
			return
		}

		token := sessionToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusForbidden, errs.ErrForbidden, "Admin access required", nil)
			return
		}
		if err := m.validator.ValidateSession(token); err != nil {
			slog.Warn("Admin session validation failed", "error", err.Error())
			httperr.AbortWithError(c, http.StatusForbidden, err, "Invalid or expired admin session", nil)
			return
		}

		c.Set(ctxAdminKey, true)
		c.Next()
	}
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ctxAdminKey)
}

func adminKey(c *gin.Context) string {
	if key := c.GetHeader(AdminKeyHeader); key != "" {
		return key
	}
	return c.Query(adminKeyQuery)
}

func sessionToken(c *gin.Context) string {
	if token := cookie.GetAdminSession(c); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}
