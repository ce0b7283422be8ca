package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends events to one chat.
type Telegram struct {
	api    sender
	chatID int64
}

// NewTelegram authenticates the bot token against the Telegram API.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{api: bot, chatID: chatID}, nil
}

func (t *Telegram) Notify(_ context.Context, e Event) error {
	text := e.Text()
	if e.Failed() {
		text = "⚠️ " + text
	} else {
		text = "🍺 " + text
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableNotification = !e.Failed()
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
