package components

import (
	"coffee-loyalty/internal/handler"
	"coffee-loyalty/internal/handler/api"
	"coffee-loyalty/internal/handler/middleware"
	"coffee-loyalty/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewScanHandler,
		api.NewCustomerHandler,
		api.NewRedemptionHandler,
		api.NewAdminHandler,
		middleware.NewAdminMiddleware,
		func(cfg config.Config) *middleware.RateLimiter {
			return middleware.NewRateLimiter(cfg.RateLimit)
		},
	),
	fx.Invoke(handler.NewRouter),
)
