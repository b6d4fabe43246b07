package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramService relays dashboard alerts to the vendor's Telegram chat.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

var _ ChatSender = (*TelegramService)(nil)

func NewTelegramService(botToken string, chatID int64) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.Printf("[tg] authorized as @%s chat_id=%d", bot.Self.UserName, chatID)
	return &TelegramService{bot: bot, chatID: chatID}, nil
}

func (t *TelegramService) SendText(text string) error {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
