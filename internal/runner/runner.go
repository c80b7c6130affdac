package runner

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"tdi_bot/internal/models"
	notify "tdi_bot/internal/modules/notify/service"
	storage "tdi_bot/internal/modules/storage/service"
	"tdi_bot/pkg/logger"
)

// Runner — потребитель сигнального канала: трейс, лог, запись, нотификация.
// Сигналы приходят уже сериализованными по порядку эмиссии.
type Runner struct {
	store *storage.Store
	n     notify.Notifier
}

func NewRunner(store *storage.Store, n notify.Notifier) *Runner {
	return &Runner{store: store, n: n}
}

func (r *Runner) HandleSignal(ctx context.Context, sig models.Signal) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handle_signal")
	defer span.Finish()
	span.SetTag("symbol", sig.Symbol)
	span.SetTag("side", string(sig.Side))

	logger.Info("signal %s %s/%s zone=%s risk=%d entry=%.6f sl=%.6f tp=%.6f",
		sig.Side, sig.Symbol, sig.Timeframe, sig.Zone, sig.RiskFactor,
		sig.Entry, sig.StopLoss, sig.TakeProfit)

	if err := r.store.SaveSignal(ctx, sig); err != nil {
		logger.Error("save signal %s/%s: %v", sig.Symbol, sig.Timeframe, err)
	}

	r.n.SendSignal(sig)
}
