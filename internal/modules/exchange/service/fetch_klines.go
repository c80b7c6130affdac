package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"tdi_bot/internal/models"
)

// FetchKlines — исторические свечи для прогрева индикаторов.
// Binance отдаёт массив массивов: [openTime, o, h, l, c, v, closeTime, ...].
func (c *Client) FetchKlines(ctx context.Context, symbol, timeframe string, limit int) ([]models.Bar, error) {
	url := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		c.cfg.Binance.RestURL, symbol, timeframe, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build klines request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch klines %s", symbol)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch klines %s: status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read klines body")
	}

	var rows [][]any
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrap(err, "decode klines")
	}

	bars := make([]models.Bar, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		ts, ok := row[0].(float64)
		if !ok {
			continue
		}
		o, err1 := parseField(row[1])
		h, err2 := parseField(row[2])
		l, err3 := parseField(row[3])
		cl, err4 := parseField(row[4])
		v, err5 := parseField(row[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		bars = append(bars, models.Bar{
			Symbol:    symbol,
			Timeframe: timeframe,
			Time:      time.UnixMilli(int64(ts)),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     cl,
			Volume:    v,
		})
	}
	return bars, nil
}

func parseField(v any) (float64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, errors.Errorf("unexpected kline field type %T", v)
	}
	return strconv.ParseFloat(s, 64)
}
