package storage

import (
	"context"

	"go.uber.org/fx"

	"tdi_bot/internal/modules/config"
	"tdi_bot/internal/modules/storage/service"
	"tdi_bot/pkg/db"
)

func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (db.TxManager, error) {
				pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
				if err != nil {
					return nil, err
				}
				return db.NewPgTxManager(pool), nil
			},
			service.NewStore,
		),
	)
}
