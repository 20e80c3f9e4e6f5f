package handlers

import (
	"bytes"
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/render"
	"go.uber.org/zap"
)

// HandleSchedule отправляет недельное расписание студента картинкой.
// Показываются слоты всех встреч где студент не отказался
func (h *Handlers) HandleSchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	student := h.requireStudent(ctx, b, chatID, update.Message.From.ID)
	if student == nil {
		return
	}

	meetings, err := h.meetingService.GetForStudent(ctx, student.ID)
	if err != nil {
		h.logger.Error("Failed to get meetings for schedule", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not load your schedule, please try again later.")
		return
	}

	// Неделя начинается с понедельника
	now := time.Now()
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -daysSinceMonday)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var entries []render.Entry
	for _, meeting := range meetings {
		if meeting.Participants[student.ID] == model.StatusDecline {
			continue
		}
		for _, slot := range meeting.Occurrences {
			if slot.Start.Before(weekStart) || !slot.Start.Before(weekEnd) {
				continue
			}
			entries = append(entries, render.Entry{
				Topic:    meeting.Topic,
				Start:    slot.Start,
				End:      slot.End,
				InPerson: meeting.Kind == model.MeetingInPerson,
			})
		}
	}

	if len(entries) == 0 {
		h.reply(ctx, b, chatID, "Nothing on your schedule this week. Enjoy the quiet, or plan something with /newmeeting.")
		return
	}

	imageData, err := render.WeekPNG(weekStart, entries)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not draw the schedule, please try again later.")
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption: "🗓 Your week at a glance",
	})
	if err != nil {
		h.logger.Error("Failed to send schedule photo", zap.Error(err))
	}
}
