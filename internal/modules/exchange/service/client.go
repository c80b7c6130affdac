package service

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tdi_bot/internal/modules/config"
)

// Client — источник свечей Binance: REST для прогрева, WS для live.
type Client struct {
	cfg      *config.Config
	http     *http.Client
	wsDialer *websocket.Dialer
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: 15 * time.Second},
		wsDialer: websocket.DefaultDialer,
	}
}
