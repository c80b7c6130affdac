package engine

import (
	"math"
	"testing"
	"time"

	"tdi_bot/internal/models"
)

func comboSettings() models.StrategySettings {
	return models.DefaultStrategySettings() // окно подтверждения 3
}

func tbar(i int, close float64) models.Bar {
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

func mkMom(idx int, zone models.Zone, cross *models.CrossoverEvent) models.MomentumReading {
	return models.MomentumReading{
		BarIndex:   idx,
		Zone:       zone,
		Crossover:  cross,
		RiskFactor: zone.RiskFactor(),
	}
}

func mkBand(idx int, confirmed *models.RejectionPattern) models.BandReading {
	return models.BandReading{
		BarIndex: idx,
		Upper:    110,
		Middle:   100,
		Lower:    90,
		Regime:   models.RegimeNormal,
		Confirmed: confirmed,
	}
}

func lowerConfirm(touch, confirm int, band float64) *models.RejectionPattern {
	return &models.RejectionPattern{
		Side: models.BandLower, TouchBarIndex: touch,
		Confirmed: true, ConfirmBarIdx: confirm, BandAtConfirm: band,
	}
}

func upperConfirm(touch, confirm int, band float64) *models.RejectionPattern {
	return &models.RejectionPattern{
		Side: models.BandUpper, TouchBarIndex: touch,
		Confirmed: true, ConfirmBarIdx: confirm, BandAtConfirm: band,
	}
}

func crossAt(dir models.CrossDirection, idx int) *models.CrossoverEvent {
	return &models.CrossoverEvent{Direction: dir, BarIndex: idx}
}

func TestCombinerBuyFlowAndEpisodeGuard(t *testing.T) {
	c := NewCombiner("BTCUSDT", "1m", comboSettings())

	type step struct {
		idx     int
		zone    models.Zone
		cross   *models.CrossoverEvent
		confirm *models.RejectionPattern
		want    bool
	}
	steps := []step{
		// вход в зону: кроссовера и отбоя ещё нет
		{10, models.ZoneHardBuy, nil, nil, false},
		{11, models.ZoneHardBuy, nil, nil, false},
		// кроссовер вверх через две свечи после входа
		{12, models.ZoneHardBuy, crossAt(models.CrossUp, 12), nil, false},
		// подтверждённый отбой от нижней границы — все условия собраны
		{13, models.ZoneHardBuy, nil, lowerConfirm(11, 13, 95), true},
		// guard эпизода: условия всё ещё истинны, но сигнал уже был
		{14, models.ZoneHardBuy, nil, nil, false},
		// проход через NoTrade сбрасывает эпизод и guard
		{15, models.ZoneNoTrade, nil, nil, false},
		// новый эпизод: старый кроссовер (12) раньше входа (16) не считается
		{16, models.ZoneHardBuy, nil, nil, false},
		// свежий кроссовер + свежий отбой => новый сигнал
		{17, models.ZoneHardBuy, crossAt(models.CrossUp, 17), lowerConfirm(15, 17, 96), true},
	}

	for _, s := range steps {
		sig := c.Update(tbar(s.idx, 100), mkMom(s.idx, s.zone, s.cross), mkBand(s.idx, s.confirm))
		if got := sig != nil; got != s.want {
			t.Fatalf("bar %d: signal emitted = %v, want %v", s.idx, got, s.want)
		}
		if sig == nil {
			continue
		}
		if sig.Side != models.SideBuy {
			t.Fatalf("bar %d: side = %v, want BUY", s.idx, sig.Side)
		}
		if sig.RiskFactor != 2 {
			t.Fatalf("bar %d: risk = %d, want 2 (hard zone)", s.idx, sig.RiskFactor)
		}
	}
}

func TestCombinerStopAndTakeProfit(t *testing.T) {
	cfg := comboSettings() // stop_buffer 0.001, reward_multiple 2
	c := NewCombiner("BTCUSDT", "1m", cfg)

	c.Update(tbar(10, 100), mkMom(10, models.ZoneSoftBuy, crossAt(models.CrossUp, 10)), mkBand(10, nil))
	sig := c.Update(tbar(11, 100), mkMom(11, models.ZoneSoftBuy, nil), mkBand(11, lowerConfirm(9, 11, 95)))
	if sig == nil {
		t.Fatal("expected buy signal")
	}

	wantSL := 95 * (1 - cfg.StopBuffer)
	wantTP := 100 + cfg.RewardMultiple*(100-wantSL)
	if math.Abs(sig.StopLoss-wantSL) > 1e-9 {
		t.Fatalf("sl = %v, want %v", sig.StopLoss, wantSL)
	}
	if math.Abs(sig.TakeProfit-wantTP) > 1e-9 {
		t.Fatalf("tp = %v, want %v", sig.TakeProfit, wantTP)
	}
	if sig.Entry != 100 {
		t.Fatalf("entry = %v, want close 100", sig.Entry)
	}
	if sig.RiskFactor != 1 {
		t.Fatalf("risk = %d, want 1 (soft zone)", sig.RiskFactor)
	}
}

func TestCombinerConflictEmitsNothing(t *testing.T) {
	c := NewCombiner("BTCUSDT", "1m", comboSettings())

	// sell-эпизод с кроссовером вниз, отбоя сверху пока нет
	if sig := c.Update(tbar(4, 100), mkMom(4, models.ZoneSoftSell, crossAt(models.CrossDown, 4)), mkBand(4, nil)); sig != nil {
		t.Fatal("bar 4: premature signal")
	}
	// осциллятор перепрыгивает центр: buy-эпизод + нижний отбой, кроссовера вверх нет
	if sig := c.Update(tbar(5, 100), mkMom(5, models.ZoneSoftBuy, nil), mkBand(5, lowerConfirm(3, 5, 95))); sig != nil {
		t.Fatal("bar 5: premature signal")
	}
	// последние недостающие куски обеих сторон приходят одной свечой:
	// кроссовер вверх (buy) и верхний отбой (sell) => выполнимы ОБА, молчим
	if sig := c.Update(tbar(6, 100), mkMom(6, models.ZoneNeutral, crossAt(models.CrossUp, 6)), mkBand(6, upperConfirm(4, 6, 110))); sig != nil {
		t.Fatalf("bar 6: conflict must emit nothing, got %v", sig.Side)
	}
	if sig := c.Update(tbar(7, 100), mkMom(7, models.ZoneNeutral, nil), mkBand(7, nil)); sig != nil {
		t.Fatalf("bar 7: conflict still standing, got %v", sig.Side)
	}
	// sell-эпизод (последняя зона на свече 4) состарился за окном — buy остаётся один
	sig := c.Update(tbar(8, 100), mkMom(8, models.ZoneNeutral, nil), mkBand(8, nil))
	if sig == nil {
		t.Fatal("bar 8: expected buy signal once the sell side aged out")
	}
	if sig.Side != models.SideBuy {
		t.Fatalf("bar 8: side = %v, want BUY", sig.Side)
	}
}

func TestCombinerGuardSurvivesNeutralGap(t *testing.T) {
	c := NewCombiner("BTCUSDT", "1m", comboSettings())

	sig := c.Update(tbar(10, 100),
		mkMom(10, models.ZoneSoftBuy, crossAt(models.CrossUp, 10)),
		mkBand(10, lowerConfirm(8, 10, 95)))
	if sig == nil {
		t.Fatal("expected initial buy signal")
	}

	// уход в «щель» Neutral и возврат: guard обязан устоять
	c.Update(tbar(11, 100), mkMom(11, models.ZoneNeutral, nil), mkBand(11, nil))
	sig = c.Update(tbar(12, 100),
		mkMom(12, models.ZoneSoftBuy, crossAt(models.CrossUp, 12)),
		mkBand(12, lowerConfirm(10, 12, 95)))
	if sig != nil {
		t.Fatal("guard must survive a Neutral gap without NoTrade reset")
	}

	// полноценный проход через NoTrade => можно снова
	c.Update(tbar(13, 100), mkMom(13, models.ZoneNoTrade, nil), mkBand(13, nil))
	sig = c.Update(tbar(14, 100),
		mkMom(14, models.ZoneSoftBuy, crossAt(models.CrossUp, 14)),
		mkBand(14, lowerConfirm(12, 14, 95)))
	if sig == nil {
		t.Fatal("expected buy signal after zone reset through NoTrade")
	}
}

func TestCombinerWarmingBlocksEverything(t *testing.T) {
	c := NewCombiner("BTCUSDT", "1m", comboSettings())

	mom := mkMom(10, models.ZoneHardBuy, crossAt(models.CrossUp, 10))
	mom.Warming = true
	band := mkBand(10, lowerConfirm(8, 10, 95))

	if sig := c.Update(tbar(10, 100), mom, band); sig != nil {
		t.Fatal("warming reading must never produce a signal")
	}
}

func TestCombinerStaleConfirmIgnored(t *testing.T) {
	c := NewCombiner("BTCUSDT", "1m", comboSettings())

	// отбой подтверждён на свече 5
	c.Update(tbar(5, 100), mkMom(5, models.ZoneNeutral, nil), mkBand(5, lowerConfirm(3, 5, 95)))
	// зона и кроссовер собираются только к свече 10 — окно (3) давно вышло
	for i := 6; i <= 10; i++ {
		var cross *models.CrossoverEvent
		if i == 10 {
			cross = crossAt(models.CrossUp, 10)
		}
		if sig := c.Update(tbar(i, 100), mkMom(i, models.ZoneSoftBuy, cross), mkBand(i, nil)); sig != nil {
			t.Fatalf("bar %d: stale rejection must not fire a signal", i)
		}
	}
}
