package models

import "testing"

func TestDefaultSettingsValid(t *testing.T) {
	cfg := DefaultStrategySettings()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidateRejectsBrokenSettings(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*StrategySettings)
	}{
		{"zero rsi period", func(s *StrategySettings) { s.RSIPeriod = 0 }},
		{"negative fast period", func(s *StrategySettings) { s.FastLinePeriod = -1 }},
		{"fast above slow", func(s *StrategySettings) { s.FastLinePeriod = s.SlowLinePeriod + 1 }},
		{"zero band period", func(s *StrategySettings) { s.BandPeriod = 0 }},
		{"zero band k", func(s *StrategySettings) { s.BandK = 0 }},
		{"zero confirmation window", func(s *StrategySettings) { s.ConfirmationWindow = 0 }},
		{"negative stop buffer", func(s *StrategySettings) { s.StopBuffer = -0.1 }},
		{"zero reward multiple", func(s *StrategySettings) { s.RewardMultiple = 0 }},
		{"zones out of order", func(s *StrategySettings) { s.SoftBuyZone = s.NoTradeHigh + 1 }},
		{"inverted no-trade band", func(s *StrategySettings) { s.NoTradeLow = s.NoTradeHigh + 1 }},
	}

	for _, tc := range cases {
		cfg := DefaultStrategySettings()
		tc.mut(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tc.name)
		}
	}
}

func TestZoneHelpers(t *testing.T) {
	if !ZoneHardBuy.BuySide() || !ZoneSoftBuy.BuySide() {
		t.Fatal("hard/soft buy must be buy-side")
	}
	if !ZoneHardSell.SellSide() || !ZoneSoftSell.SellSide() {
		t.Fatal("hard/soft sell must be sell-side")
	}
	if ZoneNeutral.Tradeable() || ZoneNoTrade.Tradeable() {
		t.Fatal("neutral and no-trade must not be tradeable")
	}
	if ZoneHardBuy.RiskFactor() != 2 || ZoneSoftSell.RiskFactor() != 1 || ZoneNeutral.RiskFactor() != 0 {
		t.Fatal("risk factors: hard=2 soft=1 rest=0")
	}
}
