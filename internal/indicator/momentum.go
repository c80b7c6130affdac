package indicator

import (
	"fmt"
	"time"

	"tdi_bot/internal/models"
)

// Momentum — стейтфул TDI по одному (symbol, timeframe).
// Осциллятор = RSI со сглаживанием Уайлдера, поверх него две SMA-линии:
// fast (короткая) и slow (длинная). Не потокобезопасен — один инстанс
// обслуживается строго последовательно своим пайплайном.
type Momentum struct {
	symbol string
	cfg    models.StrategySettings

	avgGain *wilderAvg
	avgLoss *wilderAvg
	fast    *rollingStat
	slow    *rollingStat

	lastTime  time.Time
	prevClose float64
	barIdx    int
	oscCount  int

	// для детекта кроссовера: порядок линий на прошлой свече
	havePrevLines bool
	prevFast      float64
	prevSlow      float64
}

func NewMomentum(symbol string, cfg models.StrategySettings) *Momentum {
	return &Momentum{
		symbol:  symbol,
		cfg:     cfg,
		avgGain: newWilderAvg(cfg.RSIPeriod),
		avgLoss: newWilderAvg(cfg.RSIPeriod),
		fast:    newRollingStat(cfg.FastLinePeriod),
		slow:    newRollingStat(cfg.SlowLinePeriod),
		barIdx:  -1,
	}
}

// Update принимает следующую закрытую свечу. Свеча не позже предыдущей —
// ошибка последовательности, инстанс после неё надо выбрасывать.
func (m *Momentum) Update(bar models.Bar) (models.MomentumReading, error) {
	if !m.lastTime.IsZero() && !bar.Time.After(m.lastTime) {
		return models.MomentumReading{}, &OutOfOrderBarError{
			Symbol: m.symbol, Last: m.lastTime, Got: bar.Time,
		}
	}
	m.lastTime = bar.Time
	m.barIdx++

	reading := models.MomentumReading{BarIndex: m.barIdx, Warming: true}

	// первая свеча только фиксирует close
	if m.barIdx == 0 {
		m.prevClose = bar.Close
		return reading, nil
	}

	change := bar.Close - m.prevClose
	m.prevClose = bar.Close
	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}
	m.avgGain.Push(gain)
	m.avgLoss.Push(loss)

	if !m.avgGain.Ready() {
		return reading, nil
	}

	osc := oscillator(m.avgGain.Value(), m.avgLoss.Value())
	m.fast.Push(osc)
	m.slow.Push(osc)
	m.oscCount++

	// прогрев: обеим линиям нужна история не короче slow-периода
	if m.oscCount < m.cfg.SlowLinePeriod {
		return reading, nil
	}

	fast := m.fast.Mean()
	slow := m.slow.Mean()

	reading.Warming = false
	reading.Oscillator = osc
	reading.FastLine = fast
	reading.SlowLine = slow
	reading.Zone = classifyZone(osc, m.cfg)
	reading.RiskFactor = reading.Zone.RiskFactor()
	reading.Crossover = m.detectCrossover(fast, slow)

	return reading, nil
}

// detectCrossover сравнивает порядок линий с прошлой свечой.
// Событие только на свече смены порядка; пока порядок держится — не повторяется.
func (m *Momentum) detectCrossover(fast, slow float64) *models.CrossoverEvent {
	defer func() {
		m.prevFast, m.prevSlow = fast, slow
		m.havePrevLines = true
	}()

	if !m.havePrevLines {
		return nil
	}
	if m.prevFast <= m.prevSlow && fast > slow {
		return &models.CrossoverEvent{Direction: models.CrossUp, BarIndex: m.barIdx}
	}
	if m.prevFast >= m.prevSlow && fast < slow {
		return &models.CrossoverEvent{Direction: models.CrossDown, BarIndex: m.barIdx}
	}
	return nil
}

func oscillator(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// classifyZone — тотальная функция: любое значение попадает ровно в одну зону.
// Значение точно на границе уходит в более «безопасную» (широкую) сторону.
func classifyZone(v float64, cfg models.StrategySettings) models.Zone {
	switch {
	case v < cfg.HardBuyZone:
		return models.ZoneHardBuy
	case v < cfg.SoftBuyZone:
		return models.ZoneSoftBuy
	case v < cfg.NoTradeLow:
		return models.ZoneNeutral
	case v <= cfg.NoTradeHigh:
		return models.ZoneNoTrade
	case v <= cfg.SoftSellZone:
		return models.ZoneNeutral
	case v <= cfg.HardSellZone:
		return models.ZoneSoftSell
	default:
		return models.ZoneHardSell
	}
}

// Dump — состояние для диагностики в духе остальных движков.
func (m *Momentum) Dump() string {
	return fmt.Sprintf("tdi[%s] bars=%d osc_n=%d fast=%.4f slow=%.4f",
		m.symbol, m.barIdx+1, m.oscCount, m.prevFast, m.prevSlow)
}
