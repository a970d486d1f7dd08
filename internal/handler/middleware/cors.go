package middleware

import (
	"log/slog"
	"slices"

	"coffee-loyalty/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware builds the CORS policy for the in-app scan client.
// An empty origin list disables CORS; "*" allows any origin without
// credentials since browsers refuse that combination.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowOrigins) == 0 {
		slog.Info("CORS disabled, no allowed origins configured")
		return func(c *gin.Context) { c.Next() }
	}

	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}

	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "allow_credentials", corsCfg.AllowCredentials)
	return cors.New(corsCfg)
}
