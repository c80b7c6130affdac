package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"tdi_bot/internal/backtest"
	"tdi_bot/internal/models"
)

// Бэктест читает свечи из CSV и прогоняет их через тот же движок,
// что и live-бот. Опции запуска — через viper (файл + env).
func main() {
	viper.SetConfigName("backtest")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("BT")
	viper.AutomaticEnv()

	viper.SetDefault("symbol", "BTCUSDT")
	viper.SetDefault("timeframe", "1m")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("read backtest config: %v", err)
		}
	}

	csvPath := viper.GetString("bars_csv")
	if csvPath == "" {
		log.Fatal("bars_csv is required (config key or BT_BARS_CSV)")
	}
	symbol := viper.GetString("symbol")
	timeframe := viper.GetString("timeframe")

	cfg := overrideSettings(models.DefaultStrategySettings())

	bars, err := backtest.LoadCSV(csvPath, symbol, timeframe)
	if err != nil {
		log.Fatalf("load bars: %v", err)
	}

	ex, err := backtest.NewExecutor(cfg)
	if err != nil {
		log.Fatalf("executor: %v", err)
	}
	trades, err := ex.Run(bars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline error: %v\n", err)
	}

	fmt.Printf("bars=%d trades=%d\n", len(bars), len(trades))
	for _, t := range trades {
		fmt.Printf("%s %s %s entry=%.6f exit=%.6f pnl=%.6f reason=%s risk=x%d\n",
			t.Signal.Time.Format("2006-01-02 15:04"),
			t.Signal.Side, t.Signal.Symbol,
			t.Signal.Entry, t.ExitPrice, t.PnL, t.ExitReason, t.Signal.RiskFactor,
		)
	}
}

// overrideSettings накладывает ключи strategy.* из viper поверх дефолтов.
func overrideSettings(cfg models.StrategySettings) models.StrategySettings {
	setInt := func(key string, dst *int) {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}
	setFloat := func(key string, dst *float64) {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}

	setInt("strategy.rsi_period", &cfg.RSIPeriod)
	setInt("strategy.fast_line_period", &cfg.FastLinePeriod)
	setInt("strategy.slow_line_period", &cfg.SlowLinePeriod)
	setFloat("strategy.hard_buy_zone", &cfg.HardBuyZone)
	setFloat("strategy.soft_buy_zone", &cfg.SoftBuyZone)
	setFloat("strategy.no_trade_low", &cfg.NoTradeLow)
	setFloat("strategy.no_trade_high", &cfg.NoTradeHigh)
	setFloat("strategy.soft_sell_zone", &cfg.SoftSellZone)
	setFloat("strategy.hard_sell_zone", &cfg.HardSellZone)
	setInt("strategy.band_period", &cfg.BandPeriod)
	setFloat("strategy.band_k", &cfg.BandK)
	setInt("strategy.confirmation_window", &cfg.ConfirmationWindow)
	setFloat("strategy.squeeze_threshold", &cfg.SqueezeThreshold)
	setFloat("strategy.expansion_threshold", &cfg.ExpansionThreshold)
	setFloat("strategy.stop_buffer", &cfg.StopBuffer)
	setFloat("strategy.reward_multiple", &cfg.RewardMultiple)
	return cfg
}
