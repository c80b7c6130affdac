package service

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"tdi_bot/internal/models"
	"tdi_bot/pkg/db"
)

// Store пишет эмитированные сигналы в postgres. Ядро о нём не знает —
// это потребитель сигнального канала.
type Store struct {
	tx db.TxManager
}

func NewStore(tx db.TxManager) *Store {
	return &Store{tx: tx}
}

const insertSignalSQL = `
INSERT INTO signals (symbol, timeframe, ts, side, zone, risk_factor, entry, stop_loss, take_profit, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (symbol, timeframe, ts) DO NOTHING`

func (s *Store) SaveSignal(ctx context.Context, sig models.Signal) error {
	payload, err := sonic.Marshal(sig)
	if err != nil {
		return errors.Wrap(err, "marshal signal")
	}

	return s.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertSignalSQL,
			sig.Symbol, sig.Timeframe, sig.Time, string(sig.Side), sig.Zone.String(),
			sig.RiskFactor, sig.Entry, sig.StopLoss, sig.TakeProfit, payload,
		)
		return errors.Wrap(err, "insert signal")
	})
}
