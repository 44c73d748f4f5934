package push

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"matchday/backend/internal/models"
)

// TelegramSender mirrors notifications to the user's linked Telegram
// chat. Users who never linked a chat are skipped.
type TelegramSender struct {
	bot *tgbotapi.BotAPI
	log *slog.Logger
}

func NewTelegramSender(log *slog.Logger, token string) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramSender{
		bot: bot,
		log: log.With("component", "push.telegram"),
	}, nil
}

func (s *TelegramSender) Name() string { return "telegram" }

func (s *TelegramSender) Send(_ context.Context, user *models.User, req models.PushRequest) (bool, error) {
	if user.TelegramChatID == 0 {
		return false, nil
	}
	msg := tgbotapi.NewMessage(user.TelegramChatID, fmt.Sprintf("*%s*\n%s", req.Title, req.Body))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := s.bot.Send(msg); err != nil {
		return true, fmt.Errorf("send telegram message: %w", err)
	}
	return true, nil
}
