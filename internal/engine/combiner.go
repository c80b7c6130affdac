package engine

import (
	"tdi_bot/internal/models"
)

// теги условий в порядке правил комбинатора
const (
	condZoneBuy        = "zone_buy"
	condZoneSell       = "zone_sell"
	condCrossUp        = "cross_up"
	condCrossDown      = "cross_down"
	condLowerRejection = "lower_band_rejection"
	condUpperRejection = "upper_band_rejection"
)

// zoneEpisode — память одной стороны (buy или sell): когда зона этой
// стороны была активна в последний раз и с какой свечи начался эпизод.
// Эпизод обнуляется только проходом осциллятора через NoTrade полосу;
// выход в «щель» Neutral держит память живой в пределах окна подтверждения.
type zoneEpisode struct {
	lastBar  int         // последняя свеча в зоне этой стороны, -1 если эпизода нет
	startBar int         // свеча входа в эпизод
	zone     models.Zone // зона на lastBar (для risk factor в сигнале)
	// guard: по этому эпизоду сигнал уже был, молчим до сброса через NoTrade
	signaled bool
}

func newZoneEpisode() zoneEpisode {
	return zoneEpisode{lastBar: -1, startBar: -1}
}

func (e *zoneEpisode) reset() {
	e.lastBar = -1
	e.startBar = -1
	e.signaled = false
}

// Combiner сводит показания двух индикаторов в сигнал. Показания не
// мутирует; из состояния держит только эпизоды зон и последние события
// (кроссоверы и подтверждённые отбои).
type Combiner struct {
	symbol    string
	timeframe string
	cfg       models.StrategySettings

	buy  zoneEpisode
	sell zoneEpisode

	lastCrossUpBar   int
	lastCrossDownBar int

	lastLowerConfirm *models.RejectionPattern
	lastUpperConfirm *models.RejectionPattern
}

func NewCombiner(symbol, timeframe string, cfg models.StrategySettings) *Combiner {
	return &Combiner{
		symbol:           symbol,
		timeframe:        timeframe,
		cfg:              cfg,
		buy:              newZoneEpisode(),
		sell:             newZoneEpisode(),
		lastCrossUpBar:   -1,
		lastCrossDownBar: -1,
	}
}

// Update — не больше одного сигнала на свечу.
func (c *Combiner) Update(bar models.Bar, mom models.MomentumReading, band models.BandReading) *models.Signal {
	// прогрев любого из индикаторов => сигнал невозможен в принципе
	if mom.Warming || band.Warming {
		return nil
	}

	c.trackZone(mom)
	c.trackCross(mom)
	c.trackRejections(band)

	buyOK := c.sideConditions(&c.buy, mom, c.lastCrossUpBar, c.lastLowerConfirm, mom.Zone.SellSide())
	sellOK := c.sideConditions(&c.sell, mom, c.lastCrossDownBar, c.lastUpperConfirm, mom.Zone.BuySide())

	// оба правила выполнимы на одной свече — неоднозначность, не торгуем
	if buyOK && sellOK {
		return nil
	}

	switch {
	case buyOK:
		sig := c.makeSignal(bar, models.SideBuy, c.buy.zone, c.lastLowerConfirm,
			[]string{condZoneBuy, condCrossUp, condLowerRejection})
		if sig != nil {
			c.buy.signaled = true
		}
		return sig
	case sellOK:
		sig := c.makeSignal(bar, models.SideSell, c.sell.zone, c.lastUpperConfirm,
			[]string{condZoneSell, condCrossDown, condUpperRejection})
		if sig != nil {
			c.sell.signaled = true
		}
		return sig
	default:
		return nil
	}
}

func (c *Combiner) trackZone(mom models.MomentumReading) {
	z := mom.Zone
	idx := mom.BarIndex

	// проход через центральную полосу хоронит оба эпизода вместе с guard'ами
	if z == models.ZoneNoTrade {
		c.buy.reset()
		c.sell.reset()
		return
	}

	window := c.cfg.ConfirmationWindow
	if z.BuySide() {
		// вход в противоположную сторону снимает guard продажи
		c.sell.signaled = false
		// guard переживает смену эпизода: снимают его только NoTrade
		// полоса или вход в противоположную сторону
		if !c.buy.active(idx, window) {
			c.buy.startBar = idx
		}
		c.buy.lastBar = idx
		c.buy.zone = z
	}
	if z.SellSide() {
		c.buy.signaled = false
		if !c.sell.active(idx, window) {
			c.sell.startBar = idx
		}
		c.sell.lastBar = idx
		c.sell.zone = z
	}
	// Neutral-«щель» ничего не трогает: эпизоды стареют сами по окну
}

// active: эпизод жив, пока зона этой стороны была не дальше окна подтверждения.
func (e *zoneEpisode) active(barIdx, window int) bool {
	return e.lastBar >= 0 && barIdx-e.lastBar <= window
}

func (c *Combiner) trackCross(mom models.MomentumReading) {
	if mom.Crossover == nil {
		return
	}
	switch mom.Crossover.Direction {
	case models.CrossUp:
		c.lastCrossUpBar = mom.Crossover.BarIndex
	case models.CrossDown:
		c.lastCrossDownBar = mom.Crossover.BarIndex
	}
}

func (c *Combiner) trackRejections(band models.BandReading) {
	if band.Confirmed == nil {
		return
	}
	if band.Confirmed.Side == models.BandLower {
		c.lastLowerConfirm = band.Confirmed
	} else {
		c.lastUpperConfirm = band.Confirmed
	}
}

// sideConditions: эпизод зоны жив в пределах окна + кроссовер в нужную
// сторону не раньше входа в эпизод + подтверждённый отбой в пределах окна.
// Пока текущая зона на противоположной торгуемой стороне — сторона молчит.
func (c *Combiner) sideConditions(
	e *zoneEpisode,
	mom models.MomentumReading,
	crossBar int,
	confirm *models.RejectionPattern,
	oppositeZoneNow bool,
) bool {
	if e.signaled || oppositeZoneNow {
		return false
	}
	if !e.active(mom.BarIndex, c.cfg.ConfirmationWindow) {
		return false
	}
	if crossBar < 0 || crossBar < e.startBar {
		return false
	}
	if confirm == nil || mom.BarIndex-confirm.ConfirmBarIdx > c.cfg.ConfirmationWindow {
		return false
	}
	return true
}

// makeSignal: entry = close, SL = граница канала на свече подтверждения
// с буфером в «безопасную» сторону, TP = RR * дистанция до стопа.
func (c *Combiner) makeSignal(
	bar models.Bar,
	side models.Side,
	zone models.Zone,
	confirm *models.RejectionPattern,
	conds []string,
) *models.Signal {
	entry := bar.Close

	var sl, tp float64
	if side == models.SideBuy {
		sl = confirm.BandAtConfirm * (1 - c.cfg.StopBuffer)
		tp = entry + c.cfg.RewardMultiple*(entry-sl)
	} else {
		sl = confirm.BandAtConfirm * (1 + c.cfg.StopBuffer)
		tp = entry - c.cfg.RewardMultiple*(sl-entry)
	}

	// стоп обязан быть по «своей» стороне от входа, иначе риск не считается
	if (side == models.SideBuy && sl >= entry) || (side == models.SideSell && sl <= entry) {
		return nil
	}

	return &models.Signal{
		Symbol:     c.symbol,
		Timeframe:  c.timeframe,
		Time:       bar.Time,
		Side:       side,
		Zone:       zone,
		RiskFactor: zone.RiskFactor(),
		Conditions: conds,
		Entry:      entry,
		StopLoss:   sl,
		TakeProfit: tp,
	}
}
