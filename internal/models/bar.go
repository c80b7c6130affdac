package models

import "time"

// Bar — закрытая OHLCV свеча. После создания не мутируется.
type Bar struct {
	Symbol    string
	Timeframe string
	Time      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Bullish — тело свечи вверх (close выше open).
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Bearish — тело свечи вниз.
func (b Bar) Bearish() bool { return b.Close < b.Open }
