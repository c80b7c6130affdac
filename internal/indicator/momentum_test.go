package indicator

import (
	"errors"
	"testing"
	"time"

	"tdi_bot/internal/models"
)

func testSettings() models.StrategySettings {
	cfg := models.DefaultStrategySettings()
	cfg.RSIPeriod = 3
	cfg.FastLinePeriod = 2
	cfg.SlowLinePeriod = 4
	return cfg
}

func barAt(i int, close float64) models.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Bar{
		Symbol:    "BTCUSDT",
		Timeframe: "1m",
		Time:      base.Add(time.Duration(i) * time.Minute),
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
	}
}

func TestClassifyZoneTotality(t *testing.T) {
	cfg := models.DefaultStrategySettings() // 25/35/[45,55]/65/75

	cases := []struct {
		v    float64
		want models.Zone
	}{
		{10, models.ZoneHardBuy},
		{24.999, models.ZoneHardBuy},
		{25, models.ZoneSoftBuy}, // граница уходит в более широкую зону
		{30, models.ZoneSoftBuy},
		{35, models.ZoneNeutral},
		{40, models.ZoneNeutral},
		{45, models.ZoneNoTrade},
		{50, models.ZoneNoTrade},
		{55, models.ZoneNoTrade},
		{60, models.ZoneNeutral},
		{65, models.ZoneNeutral},
		{70, models.ZoneSoftSell},
		{75, models.ZoneSoftSell},
		{75.001, models.ZoneHardSell},
		{99, models.ZoneHardSell},
	}
	for _, tc := range cases {
		if got := classifyZone(tc.v, cfg); got != tc.want {
			t.Errorf("classifyZone(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestMomentumWarmingGate(t *testing.T) {
	m := NewMomentum("BTCUSDT", testSettings())

	// до slow_line_period значений осциллятора — только Warming:
	// первая свеча без дельты + 2 свечи прогрева RSI + 3 свечи истории линий
	for i := 0; i < 6; i++ {
		r, err := m.Update(barAt(i, 100+float64(i)))
		if err != nil {
			t.Fatalf("bar %d: %v", i, err)
		}
		if !r.Warming {
			t.Fatalf("bar %d: expected warming", i)
		}
		if r.Crossover != nil {
			t.Fatalf("bar %d: crossover during warmup", i)
		}
	}

	r, err := m.Update(barAt(6, 107))
	if err != nil {
		t.Fatal(err)
	}
	if r.Warming {
		t.Fatal("expected reading after warmup")
	}
}

func TestMomentumOutOfOrderBar(t *testing.T) {
	m := NewMomentum("BTCUSDT", testSettings())

	if _, err := m.Update(barAt(1, 100)); err != nil {
		t.Fatal(err)
	}
	_, err := m.Update(barAt(1, 101)) // дубль по времени
	if err == nil {
		t.Fatal("expected out-of-order error")
	}
	var ooe *OutOfOrderBarError
	if !errors.As(err, &ooe) {
		t.Fatalf("expected OutOfOrderBarError, got %T", err)
	}

	_, err = m.Update(barAt(0, 102)) // в прошлое
	if err == nil {
		t.Fatal("expected out-of-order error for past bar")
	}
}

func TestMomentumCrossoverFiresOncePerFlip(t *testing.T) {
	m := NewMomentum("BTCUSDT", testSettings())

	// длинное падение, затем рост: осциллятор задавлен вниз, потом
	// fast-линия должна один раз пересечь slow вверх
	closes := []float64{
		100, 99, 98, 97, 96, 95, 94, 93, 92, 91, 90,
		92, 94, 96, 98, 100, 102, 104,
	}

	var events []models.CrossoverEvent
	for i, c := range closes {
		r, err := m.Update(barAt(i, c))
		if err != nil {
			t.Fatalf("bar %d: %v", i, err)
		}
		if r.Crossover != nil {
			events = append(events, *r.Crossover)
		}
	}

	if len(events) == 0 {
		t.Fatal("expected at least one crossover on the V-turn")
	}
	if events[0].Direction != models.CrossUp {
		t.Fatalf("first crossover = %v, want UP", events[0].Direction)
	}
	// пока порядок линий держится, событие не повторяется
	for i := 1; i < len(events); i++ {
		if events[i].Direction == events[i-1].Direction {
			t.Fatalf("crossover %v re-fired without flip", events[i].Direction)
		}
	}
}

func TestMomentumRiskFactorByZone(t *testing.T) {
	cases := []struct {
		zone models.Zone
		want int
	}{
		{models.ZoneHardBuy, 2},
		{models.ZoneHardSell, 2},
		{models.ZoneSoftBuy, 1},
		{models.ZoneSoftSell, 1},
		{models.ZoneNeutral, 0},
		{models.ZoneNoTrade, 0},
	}
	for _, tc := range cases {
		if got := tc.zone.RiskFactor(); got != tc.want {
			t.Errorf("risk factor for %v = %d, want %d", tc.zone, got, tc.want)
		}
	}
}
