package notify

import (
	"context"

	"go.uber.org/fx"

	"tdi_bot/internal/modules/config"
	"tdi_bot/internal/modules/notify/service"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(cfg *config.Config) (service.Notifier, error) {
				return service.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, n service.Notifier) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					n.Send("🤖 TDI bot started")
					return nil
				},
				OnStop: func(_ context.Context) error {
					n.Send("🛑 TDI bot stopped")
					return nil
				},
			})
		}),
	)
}
