package notifier

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"go.uber.org/zap"
)

// TelegramNotifier доставляет напоминания личным сообщением в Telegram.
// Доставка best-effort: вызывающая сторона не повторяет неудачные отправки
type TelegramNotifier struct {
	bot    *bot.Bot
	logger *zap.Logger
}

func NewTelegramNotifier(botInstance *bot.Bot, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    botInstance,
		logger: logger,
	}
}

// Deliver отправляет сообщение студенту в личный чат
func (n *TelegramNotifier) Deliver(ctx context.Context, student model.Student, message string) error {
	if student.TelegramID == 0 {
		return fmt.Errorf("student %s has no telegram id", student.ID)
	}

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: student.TelegramID,
		Text:   message,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Debug("Reminder delivered",
		zap.String("student_id", student.ID.String()),
		zap.Int64("telegram_id", student.TelegramID),
	)

	return nil
}
