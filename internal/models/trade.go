package models

import "time"

// ExitReason — почему закрылась бэктестовая позиция.
type ExitReason string

const (
	ExitStopLoss       ExitReason = "STOP_LOSS"
	ExitTakeProfit     ExitReason = "TAKE_PROFIT"
	ExitOppositeSignal ExitReason = "OPPOSITE_SIGNAL"
	ExitEndOfData      ExitReason = "END_OF_DATA"
)

// Trade — проекция сигнала на исторических данных (только бэктест).
type Trade struct {
	Signal     Signal
	ExitPrice  float64
	ExitTime   time.Time
	PnL        float64
	ExitReason ExitReason
}
