package components

import (
	"context"
	"log/slog"

	"coffee-loyalty/internal/infra/db"
	"coffee-loyalty/internal/infra/memstore"
	"coffee-loyalty/internal/infra/uow"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork picks the store named by DB_DRIVER. The postgres pool is
// opened, migrated and closed with the application lifecycle.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.UnitOfWork, error) {
	if cfg.DB.Driver == config.DBDriverMemory {
		logger.Warn("Using in-memory storage, loyalty data is lost on restart")
		return memstore.New(), nil
	}

	ctx := context.Background()
	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		cleanup()
		return nil, err
	}
	logger.Info("Connected to PostgreSQL", "host", cfg.DB.Host, "database", cfg.DB.DBName)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return uow.NewPostgresUoW(pool), nil
}
