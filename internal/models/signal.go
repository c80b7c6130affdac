package models

import "time"

// Side как в раннере: "BUY"/"SELL" или пустая строка.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Zone — классификация осциллятора по порогам стратегии.
// Neutral — «щели» между торговыми зонами и no-trade полосой,
// NoTrade — сама центральная полоса [no_trade_low, no_trade_high].
type Zone int

const (
	ZoneNeutral Zone = iota
	ZoneNoTrade
	ZoneHardBuy
	ZoneSoftBuy
	ZoneSoftSell
	ZoneHardSell
)

func (z Zone) String() string {
	switch z {
	case ZoneHardBuy:
		return "HARD_BUY"
	case ZoneSoftBuy:
		return "SOFT_BUY"
	case ZoneNoTrade:
		return "NO_TRADE"
	case ZoneSoftSell:
		return "SOFT_SELL"
	case ZoneHardSell:
		return "HARD_SELL"
	default:
		return "NEUTRAL"
	}
}

// BuySide / SellSide — торгуемые зоны соответствующего направления.
func (z Zone) BuySide() bool  { return z == ZoneHardBuy || z == ZoneSoftBuy }
func (z Zone) SellSide() bool { return z == ZoneHardSell || z == ZoneSoftSell }
func (z Zone) Tradeable() bool {
	return z.BuySide() || z.SellSide()
}

// RiskFactor по зоне: Hard -> 2x, Soft -> 1x, остальное не торгуем.
func (z Zone) RiskFactor() int {
	switch z {
	case ZoneHardBuy, ZoneHardSell:
		return 2
	case ZoneSoftBuy, ZoneSoftSell:
		return 1
	default:
		return 0
	}
}

// Signal — итог комбинатора: не больше одного на (пайплайн, свечу).
type Signal struct {
	Symbol     string    `json:"symbol"`
	Timeframe  string    `json:"timeframe"`
	Time       time.Time `json:"time"`
	Side       Side      `json:"side"`
	Zone       Zone      `json:"zone"`
	RiskFactor int       `json:"risk_factor"`
	Entry      float64   `json:"entry"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	// Conditions — теги сработавших условий в фиксированном порядке (zone, cross, rejection).
	Conditions []string `json:"conditions"`
}
