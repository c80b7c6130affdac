package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"tdi_bot/internal/models"
)

// LoadCSV читает свечи формата: ts_ms,open,high,low,close,volume
// (опциональный заголовок пропускается). Свечи должны идти по времени.
func LoadCSV(path, symbol, timeframe string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open bars csv")
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []models.Bar
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv line %d", line)
		}
		line++
		if len(rec) < 6 {
			return nil, errors.Errorf("csv line %d: want 6 fields, got %d", line, len(rec))
		}

		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			if line == 1 {
				continue // заголовок
			}
			return nil, errors.Wrapf(err, "csv line %d: timestamp", line)
		}

		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			vals[i], err = strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "csv line %d: field %d", line, i+1)
			}
		}

		bars = append(bars, models.Bar{
			Symbol:    symbol,
			Timeframe: timeframe,
			Time:      time.UnixMilli(ts),
			Open:      vals[0],
			High:      vals[1],
			Low:       vals[2],
			Close:     vals[3],
			Volume:    vals[4],
		})
	}
	return bars, nil
}
