package indicator

import (
	"fmt"
	"time"
)

// OutOfOrderBarError — свеча пришла не по порядку (или дубль по времени).
// Фатально для конкретного инстанса индикатора, не для процесса.
type OutOfOrderBarError struct {
	Symbol string
	Last   time.Time
	Got    time.Time
}

func (e *OutOfOrderBarError) Error() string {
	return fmt.Sprintf("out of order bar for %s: last=%s got=%s",
		e.Symbol, e.Last.Format(time.RFC3339), e.Got.Format(time.RFC3339))
}
