package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"tdi_bot/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Binance struct {
		WSURL     string   `yaml:"ws_url"`
		RestURL   string   `yaml:"rest_url"`
		Symbols   []string `yaml:"symbols"`
		Timeframe string   `yaml:"timeframe"`
		// сколько исторических свечей тянуть на прогрев
		WarmupBars int `yaml:"warmup_bars"`
	} `yaml:"binance"`

	Strategy models.StrategySettings `yaml:"strategy"`

	Service struct {
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		JaegerHost     string        `yaml:"jaeger_host"`
		JaegerPort     int           `yaml:"jaeger_port"`
	} `yaml:"service"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		return nil, errors.Wrap(err, "open config file")
	}
	defer func() {
		_ = file.Close()
	}()

	config := Config{
		Strategy: models.DefaultStrategySettings(),
	}
	config.Binance.WSURL = getenvDefault("BINANCE_WS_URL", "wss://stream.binance.com:9443/ws")
	config.Binance.RestURL = getenvDefault("BINANCE_REST_URL", "https://api.binance.com")
	config.Binance.Timeframe = getenvDefault("TIMEFRAME", "1m")
	config.Binance.WarmupBars = intFromEnv("WARMUP_BARS", 200)
	config.Service.ReconnectDelay = durationFromEnv("RECONNECT_DELAY", "5s")

	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "decode config file")
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	if syms := os.Getenv("SYMBOLS"); syms != "" {
		config.Binance.Symbols = strings.Split(syms, ",")
	}

	// пороги проверяем один раз здесь: пайплайн с кривым конфигом не стартует
	if err := config.Strategy.Validate(); err != nil {
		return nil, errors.Wrap(err, "strategy settings")
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
