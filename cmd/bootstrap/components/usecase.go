package components

import (
	"coffee-loyalty/internal/domain/loyalty"
	"coffee-loyalty/internal/domain/scantoken"
	"coffee-loyalty/internal/pkg/clock"
	"coffee-loyalty/internal/pkg/config"
	"coffee-loyalty/internal/pkg/jwt"
	"coffee-loyalty/internal/pkg/metrics"
	"coffee-loyalty/internal/usecase"
	"coffee-loyalty/internal/usecase/commands"
	"coffee-loyalty/internal/usecase/queries"
	"coffee-loyalty/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	metrics.New,
	func(cfg config.Config) (loyalty.Policy, error) {
		return loyalty.NewPolicy(cfg.Loyalty.Threshold, cfg.Loyalty.Cooldown)
	},
	func(cfg config.Config) *scantoken.Signer {
		return scantoken.NewSigner(cfg.ScanToken.Secret,
			scantoken.WithMaxAge(cfg.ScanToken.MaxAge),
			scantoken.WithClockSkew(cfg.ScanToken.ClockSkew),
		)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewLedgerCommands,
		commands.NewScanCommands,
		func(gate usecase.StaffGate, ledger commands.LedgerCommands, cfg config.Config, m *metrics.Registry) commands.RedemptionCommands {
			return commands.NewRedemptionCommands(gate, ledger, cfg.Store.ID, m)
		},
		func(
			signer *scantoken.Signer,
			validator usecase.AdminValidator,
			jwtService *jwt.Service,
			clk clock.Clock,
			cfg config.Config,
		) commands.AdminCommands {
			return commands.NewAdminCommands(signer, validator, jwtService, clk, cfg.Store.ID, cfg.Server.PublicBaseURL)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		func(uow shared.UnitOfWork, policy loyalty.Policy) queries.CustomerQueries {
			return queries.NewCustomerQueries(uow, policy)
		},
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewIdentityResolver,
		func(cfg config.Config) (usecase.StaffGate, error) {
			return usecase.NewStaffGate(cfg.Store.RedeemPIN)
		},
		func(cfg config.Config, jwtService *jwt.Service) usecase.AdminValidator {
			return usecase.NewAdminValidator(cfg.Admin.Key, cfg.Store.ID, jwtService)
		},
	),
)
