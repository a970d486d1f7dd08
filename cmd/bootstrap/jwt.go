package bootstrap

import (
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.Admin.SessionSecret, cfg.Admin.SessionDuration)
}
