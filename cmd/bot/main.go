package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"tdi_bot/internal/engine"
	"tdi_bot/internal/modules/config"
	"tdi_bot/internal/modules/exchange"
	"tdi_bot/internal/modules/notify"
	"tdi_bot/internal/modules/storage"
	"tdi_bot/internal/runner"
	"tdi_bot/pkg/logger"
	"tdi_bot/pkg/tracing"
)

func main() {
	logger.SetServiceName("tdi_bot")
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	tracing.SetServiceName("tdi_bot")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		storage.Module(),
		exchange.Module(),
		engine.Module(),
		runner.Module(),
		notify.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) {
			if cfg.Service.JaegerHost == "" {
				return
			}
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Service.JaegerHost,
				Port: cfg.Service.JaegerPort,
			})
			if err != nil {
				logger.Error("init tracer: %v", err)
				return
			}
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					closeTracer()
					return nil
				},
			})
		}),
	)
	app.Run()
}
