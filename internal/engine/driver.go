package engine

import (
	"context"

	"tdi_bot/internal/models"
	"tdi_bot/pkg/logger"
)

// SignalFunc вызывается на каждый эмитированный сигнал, строго в порядке
// появления внутри пайплайна.
type SignalFunc func(models.Signal)

// Driver гоняет свечи через пайплайны одинаково для live и бэктеста —
// в этом вся гарантия воспроизводимости. Владеет жизненным циклом
// пайплайнов: создаёт по первой свече символа, выбрасывает упавшие.
type Driver struct {
	cfg    models.StrategySettings
	pipes  map[string]*Pipeline
	failed map[string]error
}

func NewDriver(cfg models.StrategySettings) (*Driver, error) {
	// валидация порогов один раз и до первой свечи
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Driver{
		cfg:    cfg,
		pipes:  make(map[string]*Pipeline),
		failed: make(map[string]error),
	}, nil
}

func pipeKey(symbol, timeframe string) string { return symbol + ":" + timeframe }

// OnBar маршрутизирует свечу в её пайплайн. Ошибка изолируется:
// инстанс выбрасывается, остальные символы продолжают работать,
// ошибка возвращается вызывающему — молча ничего не глотаем.
func (d *Driver) OnBar(bar models.Bar) (*models.Signal, error) {
	key := pipeKey(bar.Symbol, bar.Timeframe)

	if err := d.failed[key]; err != nil {
		return nil, err
	}

	p, ok := d.pipes[key]
	if !ok {
		var err error
		p, err = NewPipeline(bar.Symbol, bar.Timeframe, d.cfg)
		if err != nil {
			return nil, err
		}
		d.pipes[key] = p
	}

	sig, err := p.OnBar(bar)
	if err != nil {
		d.failed[key] = err
		delete(d.pipes, key)
		return nil, err
	}
	return sig, nil
}

// Pipeline — доступ к живому пайплайну (диагностика).
func (d *Driver) Pipeline(symbol, timeframe string) (*Pipeline, bool) {
	p, ok := d.pipes[pipeKey(symbol, timeframe)]
	return p, ok
}

// Replay — один проход по конечной последовательности, без перемотки.
// Перезапуск только через свежий Driver. Отмена возможна лишь между свечами.
func (d *Driver) Replay(ctx context.Context, bars <-chan models.Bar, emit SignalFunc) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case bar, ok := <-bars:
			if !ok {
				return nil
			}
			sig, err := d.OnBar(bar)
			if err != nil {
				// пайплайн символа уже выброшен, остальные живут
				logger.Error("pipeline %s/%s dropped: %v", bar.Symbol, bar.Timeframe, err)
				continue
			}
			if sig != nil {
				emit(*sig)
			}
		}
	}
}

// ReplaySlice — удобная обёртка для бэктеста: собирает сигналы в срез.
func (d *Driver) ReplaySlice(bars []models.Bar) ([]models.Signal, error) {
	var out []models.Signal
	var firstErr error
	for _, bar := range bars {
		sig, err := d.OnBar(bar)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if sig != nil {
			out = append(out, *sig)
		}
	}
	return out, firstErr
}
