package bootstrap

import (
	"coffee-loyalty/cmd/bootstrap/components"
	"coffee-loyalty/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	JWTModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
