package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/zoeyai1221/studybuddy_bot/internal/service"
)

// Предлагаемые смещения напоминаний в минутах
var reminderOffsets = []int{15, 30, 60, 120, 24 * 60}

// HandleRemindMe показывает выбор смещения напоминаний
func (h *Handlers) HandleRemindMe(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	student := h.requireStudent(ctx, b, chatID, update.Message.From.ID)
	if student == nil {
		return
	}

	current := "You have no reminder preference yet."
	if student.HasReminderPreference() {
		current = fmt.Sprintf("Current preference: %s before each meeting.", service.FormatOffset(*student.ReminderMin))
	}

	var rows [][]models.InlineKeyboardButton
	for _, offset := range reminderOffsets {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         service.FormatOffset(offset) + " before",
			CallbackData: fmt.Sprintf("%s%d", cbSetReminder, offset),
		}})
	}

	h.replyWithKeyboard(ctx, b, chatID,
		"⏰ "+current+"\n\nHow long before a meeting should I remind you? This applies to all your meetings, current and future.",
		&models.InlineKeyboardMarkup{InlineKeyboard: rows})
}
