package handler

import (
	"net/http"

	"coffee-loyalty/internal/handler/api"
	"coffee-loyalty/internal/handler/middleware"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine            *gin.Engine
	Config            config.Config
	Logger            *middleware.Logger
	Metrics           *metrics.Registry
	RateLimiter       *middleware.RateLimiter
	AdminMiddleware   *middleware.AdminMiddleware
	ScanHandler       *api.ScanHandler
	CustomerHandler   *api.CustomerHandler
	RedemptionHandler *api.RedemptionHandler
	AdminHandler      *api.AdminHandler
}

func NewRouter(p RouterParams) {
	setupMiddleware(p)
	setupRoutes(p)
}

func setupMiddleware(p RouterParams) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	p.Engine.Use(middleware.CustomRecovery())
	p.Engine.Use(middleware.NewCORSMiddleware(p.Config.CORS))
	p.Engine.Use(p.Logger.LoggingMiddleware())
	p.Engine.Use(middleware.Metrics(p.Metrics))
	p.Engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limited := p.RateLimiter.Limit()

	addRoutes(&engine.RouterGroup, []route{
		{Method: http.MethodGet, Path: "/scan/:token", Handler: p.ScanHandler.ScanPage, Mw: []gin.HandlerFunc{limited}},
	})

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/scan/:token", Handler: p.ScanHandler.Scan, Mw: []gin.HandlerFunc{limited}},
			{Method: http.MethodGet, Path: "/me", Handler: p.CustomerHandler.Me},
			{Method: http.MethodGet, Path: "/customers/:id", Handler: p.CustomerHandler.Get},
			{Method: http.MethodPost, Path: "/redeem", Handler: p.RedemptionHandler.Redeem, Mw: []gin.HandlerFunc{limited}},
		})

		admin := apiGroup.Group("/admin")
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/session", Handler: p.AdminHandler.OpenSession, Mw: []gin.HandlerFunc{limited}},
			})

			adminRequired := admin.Group("")
			adminRequired.Use(p.AdminMiddleware.RequireAdmin())
			addRoutes(adminRequired, []route{
				{Method: http.MethodGet, Path: "/qr", Handler: p.AdminHandler.IssueQR},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
