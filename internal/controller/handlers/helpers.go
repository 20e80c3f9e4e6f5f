package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"go.uber.org/zap"
)

const timeLayout = "2006-01-02 15:04"

// reply отправляет простое текстовое сообщение в чат
func (h *Handlers) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// replyWithKeyboard отправляет сообщение с inline клавиатурой
func (h *Handlers) replyWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// requireStudent получает зарегистрированного студента по Telegram ID.
// Если студент не найден, отправляет подсказку про /start и возвращает nil
func (h *Handlers) requireStudent(ctx context.Context, b *bot.Bot, chatID, telegramID int64) *model.Student {
	student, err := h.studentService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get student", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.reply(ctx, b, chatID, "Something went wrong, please try again later.")
		return nil
	}
	if student == nil {
		h.reply(ctx, b, chatID, "You are not registered yet. Send /start first.")
		return nil
	}
	return student
}

// commandArgs возвращает текст команды без самой команды
func commandArgs(text string) string {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// formatSlot форматирует один слот встречи для вывода
func formatSlot(slot model.TimeSlot) string {
	return fmt.Sprintf("%s %s - %s",
		slot.Start.Format("Mon 2006-01-02"),
		slot.Start.Format("15:04"),
		slot.End.Format("15:04"),
	)
}

// formatMeeting собирает карточку встречи для просмотра списка
func formatMeeting(meeting *model.Meeting, group *model.StudyGroup, status model.ParticipantStatus) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📌 %s\n", meeting.Topic)
	if group != nil {
		fmt.Fprintf(&sb, "👥 Group: %s\n", group.Name)
	}
	fmt.Fprintf(&sb, "🔁 Frequency: %s\n", strings.ToLower(string(meeting.Frequency)))

	if next, ok := meeting.NextOccurrence(); ok {
		fmt.Fprintf(&sb, "🕐 Next: %s\n", formatSlot(next))
	} else {
		sb.WriteString("🕐 Next: no upcoming occurrences\n")
	}

	switch meeting.Kind {
	case model.MeetingOnline:
		if meeting.MeetingLink != "" {
			fmt.Fprintf(&sb, "🔗 Link: %s\n", meeting.MeetingLink)
		} else {
			sb.WriteString("🔗 Online meeting, link not set\n")
		}
	case model.MeetingInPerson:
		if meeting.BookingID != nil {
			sb.WriteString("🏢 In person, room booked\n")
		} else {
			sb.WriteString("🏢 In person, no room booked yet\n")
		}
	}

	fmt.Fprintf(&sb, "✉️ Your status: %s", strings.ToLower(string(status)))
	return sb.String()
}
