package engine

import (
	"context"

	"go.uber.org/fx"

	"tdi_bot/internal/models"
	"tdi_bot/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			// общий канал сигналов для всех пайплайнов
			func() chan models.Signal {
				return make(chan models.Signal, 1024)
			},
			func(cfg *config.Config, out chan models.Signal) (*Hub, error) {
				return NewHub(cfg.Strategy, out)
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			hub *Hub,
			bars chan models.Bar, // от модуля exchange
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case bar, ok := <-bars:
								if !ok {
									return
								}
								hub.OnBar(ctx, bar)
							}
						}
					}()
					return nil
				},
				OnStop: func(_ context.Context) error {
					hub.Close()
					return nil
				},
			})
		}),
	)
}
