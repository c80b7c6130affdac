package models

import "fmt"

// StrategySettings — все числовые пороги движка. Read-only после валидации.
type StrategySettings struct {
	// Momentum (TDI)
	RSIPeriod      int     `yaml:"rsi_period" json:"rsi_period"`
	FastLinePeriod int     `yaml:"fast_line_period" json:"fast_line_period"`
	SlowLinePeriod int     `yaml:"slow_line_period" json:"slow_line_period"`
	HardBuyZone    float64 `yaml:"hard_buy_zone" json:"hard_buy_zone"`
	SoftBuyZone    float64 `yaml:"soft_buy_zone" json:"soft_buy_zone"`
	NoTradeLow     float64 `yaml:"no_trade_low" json:"no_trade_low"`
	NoTradeHigh    float64 `yaml:"no_trade_high" json:"no_trade_high"`
	SoftSellZone   float64 `yaml:"soft_sell_zone" json:"soft_sell_zone"`
	HardSellZone   float64 `yaml:"hard_sell_zone" json:"hard_sell_zone"`

	// Bollinger
	BandPeriod         int     `yaml:"band_period" json:"band_period"`
	BandK              float64 `yaml:"band_k" json:"band_k"`
	ConfirmationWindow int     `yaml:"confirmation_window" json:"confirmation_window"`
	SqueezeThreshold   float64 `yaml:"squeeze_threshold" json:"squeeze_threshold"`
	ExpansionThreshold float64 `yaml:"expansion_threshold" json:"expansion_threshold"`

	// Риск
	StopBuffer     float64 `yaml:"stop_buffer" json:"stop_buffer"`         // доля цены, напр. 0.001
	RewardMultiple float64 `yaml:"reward_multiple" json:"reward_multiple"` // TP = RR * дистанция до SL
}

// Validate — fail fast при конструировании пайплайна: движок с кривыми
// порогами не должен стартовать вообще.
func (s *StrategySettings) Validate() error {
	if s.RSIPeriod <= 0 {
		return fmt.Errorf("rsi_period must be positive, got %d", s.RSIPeriod)
	}
	if s.FastLinePeriod <= 0 || s.SlowLinePeriod <= 0 {
		return fmt.Errorf("line periods must be positive, got fast=%d slow=%d",
			s.FastLinePeriod, s.SlowLinePeriod)
	}
	if s.FastLinePeriod > s.SlowLinePeriod {
		return fmt.Errorf("fast_line_period %d must not exceed slow_line_period %d",
			s.FastLinePeriod, s.SlowLinePeriod)
	}
	if s.BandPeriod <= 0 {
		return fmt.Errorf("band_period must be positive, got %d", s.BandPeriod)
	}
	if s.BandK <= 0 {
		return fmt.Errorf("band_k must be positive, got %v", s.BandK)
	}
	if s.ConfirmationWindow <= 0 {
		return fmt.Errorf("confirmation_window must be positive, got %d", s.ConfirmationWindow)
	}
	if s.StopBuffer < 0 {
		return fmt.Errorf("stop_buffer must not be negative, got %v", s.StopBuffer)
	}
	if s.RewardMultiple <= 0 {
		return fmt.Errorf("reward_multiple must be positive, got %v", s.RewardMultiple)
	}
	// порядок зон: hard_buy < soft_buy < no_trade_low <= no_trade_high < soft_sell < hard_sell
	if !(s.HardBuyZone < s.SoftBuyZone &&
		s.SoftBuyZone < s.NoTradeLow &&
		s.NoTradeLow <= s.NoTradeHigh &&
		s.NoTradeHigh < s.SoftSellZone &&
		s.SoftSellZone < s.HardSellZone) {
		return fmt.Errorf("zone thresholds out of order: %v < %v < %v <= %v < %v < %v expected",
			s.HardBuyZone, s.SoftBuyZone, s.NoTradeLow, s.NoTradeHigh, s.SoftSellZone, s.HardSellZone)
	}
	return nil
}

// DefaultStrategySettings — дефолты как в проде (RSI 13, TDI 2/7, BB 20/2).
func DefaultStrategySettings() StrategySettings {
	return StrategySettings{
		RSIPeriod:          13,
		FastLinePeriod:     2,
		SlowLinePeriod:     7,
		HardBuyZone:        25,
		SoftBuyZone:        35,
		NoTradeLow:         45,
		NoTradeHigh:        55,
		SoftSellZone:       65,
		HardSellZone:       75,
		BandPeriod:         20,
		BandK:              2.0,
		ConfirmationWindow: 3,
		SqueezeThreshold:   0.01,
		ExpansionThreshold: 0.05,
		StopBuffer:         0.001,
		RewardMultiple:     2.0,
	}
}
