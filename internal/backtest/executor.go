package backtest

import (
	"tdi_bot/internal/engine"
	"tdi_bot/internal/models"
)

// Executor проецирует сигналы на исторические свечи и строит Trade.
// Никакой агрегатной статистики — только сырые сделки. Одна позиция
// на пайплайн; при конфликте SL и TP в одной свече первым считается SL.
type Executor struct {
	driver *engine.Driver
	open   map[string]*models.Trade
	trades []models.Trade
}

func NewExecutor(cfg models.StrategySettings) (*Executor, error) {
	d, err := engine.NewDriver(cfg)
	if err != nil {
		return nil, err
	}
	return &Executor{
		driver: d,
		open:   make(map[string]*models.Trade),
	}, nil
}

// Run — один проход по свечам, строго по времени. Ошибки пайплайнов
// изолируются драйвером; первая из них возвращается вызывающему.
func (e *Executor) Run(bars []models.Bar) ([]models.Trade, error) {
	var firstErr error

	for _, bar := range bars {
		key := bar.Symbol + ":" + bar.Timeframe

		// сперва выходы по текущей свече, потом новый сигнал
		if t := e.open[key]; t != nil {
			if done := e.resolveExit(t, bar); done {
				e.trades = append(e.trades, *t)
				delete(e.open, key)
			}
		}

		sig, err := e.driver.OnBar(bar)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if sig == nil {
			continue
		}

		if t := e.open[key]; t != nil {
			// встречный сигнал закрывает позицию по close
			t.ExitPrice = bar.Close
			t.ExitTime = bar.Time
			t.ExitReason = models.ExitOppositeSignal
			t.PnL = pnl(t.Signal, bar.Close)
			e.trades = append(e.trades, *t)
			delete(e.open, key)
		}
		e.open[key] = &models.Trade{Signal: *sig}
	}

	// конец данных: всё открытое закрываем по последнему close символа
	last := make(map[string]models.Bar)
	for _, bar := range bars {
		last[bar.Symbol+":"+bar.Timeframe] = bar
	}
	for key, t := range e.open {
		bar := last[key]
		t.ExitPrice = bar.Close
		t.ExitTime = bar.Time
		t.ExitReason = models.ExitEndOfData
		t.PnL = pnl(t.Signal, bar.Close)
		e.trades = append(e.trades, *t)
		delete(e.open, key)
	}

	return e.trades, firstErr
}

// resolveExit: SL/TP по экстремумам свечи. Свеча самого входа пропускается —
// позиция открыта по её close.
func (e *Executor) resolveExit(t *models.Trade, bar models.Bar) bool {
	if !bar.Time.After(t.Signal.Time) {
		return false
	}

	sig := t.Signal
	if sig.Side == models.SideBuy {
		if bar.Low <= sig.StopLoss {
			t.ExitPrice, t.ExitReason = sig.StopLoss, models.ExitStopLoss
		} else if bar.High >= sig.TakeProfit {
			t.ExitPrice, t.ExitReason = sig.TakeProfit, models.ExitTakeProfit
		} else {
			return false
		}
	} else {
		if bar.High >= sig.StopLoss {
			t.ExitPrice, t.ExitReason = sig.StopLoss, models.ExitStopLoss
		} else if bar.Low <= sig.TakeProfit {
			t.ExitPrice, t.ExitReason = sig.TakeProfit, models.ExitTakeProfit
		} else {
			return false
		}
	}

	t.ExitTime = bar.Time
	t.PnL = pnl(sig, t.ExitPrice)
	return true
}

func pnl(sig models.Signal, exit float64) float64 {
	if sig.Side == models.SideBuy {
		return exit - sig.Entry
	}
	return sig.Entry - exit
}
