// AngelaMos | 2026
// telegram.go

package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/proofofhustle/api/internal/config"
)

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

func NewTelegram(
	cfg config.TelegramConfig,
	logger *slog.Logger,
) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	logger.Info("telegram notifier connected", "bot", bot.Self.UserName)

	return &Telegram{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: logger,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	msg := tgbotapi.NewMessage(t.chatID, message)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
