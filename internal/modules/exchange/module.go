package exchange

import (
	"context"
	"time"

	"go.uber.org/fx"

	"tdi_bot/internal/models"
	"tdi_bot/internal/modules/config"
	"tdi_bot/internal/modules/exchange/service"
	"tdi_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			service.NewClient,
			// общий канал закрытых свечей для движка
			func() chan models.Bar {
				return make(chan models.Bar, 1024)
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			c *service.Client,
			cfg *config.Config,
			bars chan models.Bar,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						// прогрев историей, потом live-поток; история строго
						// до подписки, стык фильтруем по времени последней свечи
						lastSeen := make(map[string]time.Time)
						for _, sym := range cfg.Binance.Symbols {
							hist, err := c.FetchKlines(ctx, sym, cfg.Binance.Timeframe, cfg.Binance.WarmupBars)
							if err != nil {
								logger.Error("warmup fetch %s: %v", sym, err)
								continue
							}
							for _, b := range hist {
								select {
								case <-ctx.Done():
									return
								case bars <- b:
									lastSeen[sym] = b.Time
								}
							}
							logger.Info("warmup %s: %d bars", sym, len(hist))
						}

						ws := c.StreamKlines(ctx, cfg.Binance.Symbols, cfg.Binance.Timeframe)
						for {
							select {
							case <-ctx.Done():
								return
							case bar, ok := <-ws:
								if !ok {
									return
								}
								// дубль со стыка история/live — пайплайн такое не прощает
								if last, seen := lastSeen[bar.Symbol]; seen && !bar.Time.After(last) {
									continue
								}
								lastSeen[bar.Symbol] = bar.Time
								select {
								case bars <- bar:
								case <-ctx.Done():
									return
								}
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}
