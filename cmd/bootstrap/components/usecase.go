package components

import (
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/config"
	"marketplace-checkout/internal/usecase"
	"marketplace-checkout/internal/usecase/commands"
	"marketplace-checkout/internal/usecase/queries"
	"marketplace-checkout/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		identity.NewRolePolicy,
		fx.As(new(shared.AccessControl)),
	),
	fx.Annotate(
		order.NewRandomNumberGenerator,
		fx.As(new(order.NumberGenerator)),
	),
	order.NewFactory,
	NewPricingEngine,
	commands.NewStockManager,
	NewCheckoutSettings,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderFactoryCommands,
		// The orchestrator places orders for cash sessions through the factory.
		func(f commands.OrderFactoryCommands) commands.OrderPlacer { return f },
		commands.NewCheckoutCommands,
		commands.NewOrderStatusCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		func(c commands.CheckoutCommands) queries.SessionExpirer { return c },
		queries.NewCheckoutQueries,
		queries.NewOrderQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewPricingEngine(cfg config.Config) (*pricing.Engine, error) {
	policy, err := pricing.NewPolicy(
		cfg.Pricing.PlatformFeePercent,
		cfg.Pricing.GatewayFeePercent,
		cfg.Pricing.SellerCommissionPercent,
	)
	if err != nil {
		return nil, err
	}
	return pricing.NewEngine(policy), nil
}

func NewCheckoutSettings(cfg config.Config) commands.CheckoutSettings {
	return commands.CheckoutSettings{
		SessionTTL: cfg.Checkout.SessionTTL,
		MaxItems:   cfg.Checkout.MaxItemsPerSession,
		Currency:   cfg.Payment.Currency,
	}
}
