package components

import (
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/config"
	"marketplace-checkout/internal/usecase/commands"
	"marketplace-checkout/internal/usecase/shared"
	"marketplace-checkout/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewReaper,
		NewRelay,
	),
	fx.Invoke(
		func(lc fx.Lifecycle, r *worker.Reaper) {
			lc.Append(fx.Hook{OnStart: r.Start, OnStop: r.Stop})
		},
		func(lc fx.Lifecycle, r *worker.Relay) {
			lc.Append(fx.Hook{OnStart: r.Start, OnStop: r.Stop})
		},
	),
)

func NewReaper(c commands.CheckoutCommands, cfg config.Config) *worker.Reaper {
	return worker.NewReaper(c, cfg.Checkout.ReaperInterval, cfg.Checkout.ReaperBatch, cfg.Checkout.TerminalRetention)
}

func NewRelay(uow shared.UnitOfWork, publisher shared.EventPublisher, clk clock.Clock, cfg config.Config) *worker.Relay {
	return worker.NewRelay(uow, publisher, clk, cfg.Kafka.RelayEvery, cfg.Kafka.RelayBatch)
}
