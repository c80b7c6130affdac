package service

import (
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tdi_bot/internal/models"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
	SendSignal(sig models.Signal)
}

// Telegram — пассивный нотифайер: только доставка сообщений, никакой
// логики сигналов.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	// без токена работаем вхолостую, бот не обязан уметь в телеграм
	if token == "" {
		return &Telegram{}, nil
	}
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

func (t *Telegram) SendSignal(sig models.Signal) {
	emoji := "🟢"
	if sig.Side == models.SideSell {
		emoji = "🔴"
	}
	msg := fmt.Sprintf(
		"%s %s SIGNAL\n"+
			"📊 Symbol: %s (%s)\n"+
			"💰 Price: %.6f\n"+
			"⏰ Time: %s\n"+
			"🎯 Zone: %s (risk x%d)\n\n"+
			"Risk Management:\n"+
			"• Stop Loss: %.6f\n"+
			"• Take Profit: %.6f\n\n"+
			"Conditions: %s",
		emoji, sig.Side,
		sig.Symbol, sig.Timeframe,
		sig.Entry,
		sig.Time.Format(time.RFC3339),
		sig.Zone, sig.RiskFactor,
		sig.StopLoss,
		sig.TakeProfit,
		strings.Join(sig.Conditions, ", "),
	)
	t.Send(msg)
}
