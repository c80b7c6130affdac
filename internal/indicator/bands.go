package indicator

import (
	"fmt"
	"time"

	"tdi_bot/internal/models"
)

// Bands — стейтфул Bollinger по одному (symbol, timeframe): канал
// mean ± k*stddev по close, детект касаний границ и подтверждённых
// возвратов внутрь канала. Не потокобезопасен, как и Momentum.
type Bands struct {
	symbol string
	cfg    models.StrategySettings

	stat     *rollingStat
	lastTime time.Time
	barIdx   int

	// не больше одного ожидающего паттерна на сторону; новое касание
	// той же стороны заменяет старое (побеждает последнее)
	pendingUpper *models.RejectionPattern
	pendingLower *models.RejectionPattern
}

func NewBands(symbol string, cfg models.StrategySettings) *Bands {
	return &Bands{
		symbol: symbol,
		cfg:    cfg,
		stat:   newRollingStat(cfg.BandPeriod),
		barIdx: -1,
	}
}

func (b *Bands) Update(bar models.Bar) (models.BandReading, error) {
	if !b.lastTime.IsZero() && !bar.Time.After(b.lastTime) {
		return models.BandReading{}, &OutOfOrderBarError{
			Symbol: b.symbol, Last: b.lastTime, Got: bar.Time,
		}
	}
	b.lastTime = bar.Time
	b.barIdx++

	b.stat.Push(bar.Close)

	reading := models.BandReading{BarIndex: b.barIdx, Warming: true}
	if !b.stat.Ready() {
		return reading, nil
	}

	mean := b.stat.Mean()
	dev := b.stat.StdDev()
	upper := mean + b.cfg.BandK*dev
	lower := mean - b.cfg.BandK*dev

	reading.Warming = false
	reading.Upper = upper
	reading.Middle = mean
	reading.Lower = lower
	if mean != 0 {
		reading.Bandwidth = (upper - lower) / mean
	}
	reading.Regime = b.regime(reading.Bandwidth)

	// сперва пробуем подтвердить ожидающие паттерны (строго свечами ПОСЛЕ касания),
	// потом регистрируем новые касания этой свечи
	reading.Confirmed = b.confirmPending(bar, upper, lower)
	b.expirePending()
	b.registerTouches(bar, upper, lower)

	return reading, nil
}

// confirmPending: возврат внутрь канала с телом свечи в сторону разворота.
// Нижнее касание подтверждает бычья свеча с close выше нижней границы,
// верхнее — медвежья с close ниже верхней.
func (b *Bands) confirmPending(bar models.Bar, upper, lower float64) *models.RejectionPattern {
	if p := b.pendingLower; p != nil && b.barIdx > p.TouchBarIndex {
		if bar.Close > lower && bar.Bullish() {
			p.Confirmed = true
			p.ConfirmBarIdx = b.barIdx
			p.BandAtConfirm = lower
			b.pendingLower = nil
			return p
		}
	}
	if p := b.pendingUpper; p != nil && b.barIdx > p.TouchBarIndex {
		if bar.Close < upper && bar.Bearish() {
			p.Confirmed = true
			p.ConfirmBarIdx = b.barIdx
			p.BandAtConfirm = upper
			b.pendingUpper = nil
			return p
		}
	}
	return nil
}

// expirePending: окно вышло — паттерн выбрасывается навсегда, без повторов.
func (b *Bands) expirePending() {
	if p := b.pendingLower; p != nil && b.barIdx-p.TouchBarIndex >= b.cfg.ConfirmationWindow {
		b.pendingLower = nil
	}
	if p := b.pendingUpper; p != nil && b.barIdx-p.TouchBarIndex >= b.cfg.ConfirmationWindow {
		b.pendingUpper = nil
	}
}

func (b *Bands) registerTouches(bar models.Bar, upper, lower float64) {
	if bar.High >= upper {
		b.pendingUpper = &models.RejectionPattern{Side: models.BandUpper, TouchBarIndex: b.barIdx}
	}
	if bar.Low <= lower {
		b.pendingLower = &models.RejectionPattern{Side: models.BandLower, TouchBarIndex: b.barIdx}
	}
}

func (b *Bands) regime(bandwidth float64) models.BandRegime {
	switch {
	case bandwidth < b.cfg.SqueezeThreshold:
		return models.RegimeSqueeze
	case bandwidth > b.cfg.ExpansionThreshold:
		return models.RegimeExpansion
	default:
		return models.RegimeNormal
	}
}

func (b *Bands) Dump() string {
	return fmt.Sprintf("bb[%s] bars=%d pend_up=%v pend_lo=%v",
		b.symbol, b.barIdx+1, b.pendingUpper != nil, b.pendingLower != nil)
}
