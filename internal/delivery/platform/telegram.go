package platform

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
)

// TelegramNotifier пишет в админский чат о роликах, метрики которых не удалось собрать
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
}

// NewTelegramNotifier не ходит в сеть при создании: getMe пропускается.
// serverURL нужен только тестам, пусто - api.telegram.org.
func NewTelegramNotifier(token string, chatID int64, serverURL string) (usecase.Notifier, error) {
	opts := []bot.Option{bot.WithSkipGetMe()}
	if serverURL != "" {
		opts = append(opts, bot.WithServerURL(serverURL))
	}
	telegramBot, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    telegramBot,
		chatID: chatID,
	}, nil
}

func (n *TelegramNotifier) NotifyMetricsUnavailable(ctx context.Context, asset *entity.VideoAsset) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      unavailableMessage(asset),
		ParseMode: models.ParseModeHTML,
	})
	return err
}

func unavailableMessage(asset *entity.VideoAsset) string {
	var b strings.Builder
	b.WriteString("⚠️ <b>Не удалось получить метрики, введите вручную</b>\n")
	fmt.Fprintf(&b, "Ролик #%d (%s)\n", asset.ID, asset.Platform)
	fmt.Fprintf(&b, "Проект %d, креатор %d\n", asset.ProjectID, asset.CreatorID)
	b.WriteString(html.EscapeString(asset.VideoURL))
	return b.String()
}
