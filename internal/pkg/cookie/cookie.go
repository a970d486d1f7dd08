package cookie

import (
	"net/http"
	"time"

	"coffee-loyalty/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	CustomerIDCookieName   = "cid"
	AdminSessionCookieName = "admin_session"

	CustomerIDMaxAge = 365 * 24 * time.Hour
)

func SetCustomerID(c *gin.Context, cfg config.CookieConfig, customerID string) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		CustomerIDCookieName,
		customerID,
		int(CustomerIDMaxAge.Seconds()),
		"/",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

func GetCustomerID(c *gin.Context) string {
	id, _ := c.Cookie(CustomerIDCookieName)
	return id
}

func SetAdminSession(c *gin.Context, cfg config.CookieConfig, token string, expiry time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)

	c.SetCookie(
		AdminSessionCookieName,
		token,
		int(expiry.Seconds()),
		"/api/admin",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

func GetAdminSession(c *gin.Context) string {
	token, _ := c.Cookie(AdminSessionCookieName)
	return token
}

func getSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
