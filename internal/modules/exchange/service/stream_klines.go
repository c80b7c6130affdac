package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"tdi_bot/internal/models"
	"tdi_bot/pkg/logger"
)

// kline-кадр Binance; нам интересны только закрытые свечи (x=true)
type klineFrame struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`
	Kline  struct {
		Start    int64  `json:"t"`
		Interval string `json:"i"`
		Open     string `json:"o"`
		Close    string `json:"c"`
		High     string `json:"h"`
		Low      string `json:"l"`
		Volume   string `json:"v"`
		Closed   bool   `json:"x"`
	} `json:"k"`
}

// StreamKlines — один WebSocket на пачку символов, отдаёт только закрытые
// свечи. Переподключается сам; порядок свечей внутри символа сохраняется.
func (c *Client) StreamKlines(ctx context.Context, symbols []string, timeframe string) <-chan models.Bar {
	out := make(chan models.Bar)

	go func() {
		defer close(out)

		if len(symbols) == 0 {
			return
		}

		params := make([]string, 0, len(symbols))
		for _, s := range symbols {
			params = append(params, strings.ToLower(s)+"@kline_"+timeframe)
		}

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			logger.Info("[WS] connect %s, %d symbols", c.cfg.Binance.WSURL, len(symbols))
			conn, _, err := c.wsDialer.DialContext(ctx, c.cfg.Binance.WSURL, nil)
			if err != nil {
				logger.Error("[WS] dial error: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.cfg.Service.ReconnectDelay):
				}
				continue
			}

			sub := map[string]any{
				"method": "SUBSCRIBE",
				"params": params,
				"id":     1,
			}
			if err := conn.WriteJSON(sub); err != nil {
				logger.Error("[WS] subscribe error: %v", err)
				_ = conn.Close()
				continue
			}

			// основной read-loop
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					logger.Error("[WS] read error: %v", err)
					_ = conn.Close()
					break
				}

				var frame klineFrame
				if err := sonic.Unmarshal(msg, &frame); err != nil {
					continue
				}
				if frame.Event != "kline" || !frame.Kline.Closed {
					continue
				}

				bar, ok := frameToBar(frame)
				if !ok {
					continue
				}

				select {
				case <-ctx.Done():
					_ = conn.Close()
					return
				case out <- bar:
				}
			}
		}
	}()

	return out
}

func frameToBar(f klineFrame) (models.Bar, bool) {
	o, err1 := strconv.ParseFloat(f.Kline.Open, 64)
	h, err2 := strconv.ParseFloat(f.Kline.High, 64)
	l, err3 := strconv.ParseFloat(f.Kline.Low, 64)
	cl, err4 := strconv.ParseFloat(f.Kline.Close, 64)
	v, err5 := strconv.ParseFloat(f.Kline.Volume, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return models.Bar{}, false
	}
	return models.Bar{
		Symbol:    f.Symbol,
		Timeframe: f.Kline.Interval,
		Time:      time.UnixMilli(f.Kline.Start),
		Open:      o,
		High:      h,
		Low:       l,
		Close:     cl,
		Volume:    v,
	}, true
}
