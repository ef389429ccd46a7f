package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/apperr"
	"go.uber.org/zap"
)

// ChatResolver maps a platform user to a linked Telegram chat.
// repository.UserRepository satisfies it.
type ChatResolver interface {
	TelegramChatID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// TelegramSink delivers events as Telegram messages. Users without a linked
// chat are skipped, not failed: the link is optional.
type TelegramSink struct {
	bot      *bot.Bot
	resolver ChatResolver
	logger   *zap.Logger
}

func NewTelegramSink(botInstance *bot.Bot, resolver ChatResolver, logger *zap.Logger) *TelegramSink {
	return &TelegramSink{
		bot:      botInstance,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *TelegramSink) Emit(ctx context.Context, event Event) error {
	chatID, err := s.resolver.TelegramChatID(ctx, event.ToUserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.logger.Debug("No telegram chat linked, skipping notification",
				zap.String("user_id", event.ToUserID.String()),
				zap.String("kind", string(event.Kind)),
			)
			return nil
		}
		return fmt.Errorf("resolve telegram chat: %w", err)
	}

	_, err = s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   event.Message(),
	})
	if err != nil {
		return fmt.Errorf("send telegram notification: %w", err)
	}

	s.logger.Info("Notification delivered",
		zap.String("kind", string(event.Kind)),
		zap.String("user_id", event.ToUserID.String()),
	)

	return nil
}

var _ EventSink = (*TelegramSink)(nil)
