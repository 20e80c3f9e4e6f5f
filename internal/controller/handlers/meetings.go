package handlers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/controller/state"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"go.uber.org/zap"
)

const maxMeetingDurationMin = 8 * 60

// HandleNewMeeting начинает диалог создания встречи
func (h *Handlers) HandleNewMeeting(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	student := h.requireStudent(ctx, b, chatID, telegramID)
	if student == nil {
		return
	}

	if len(student.GroupIDs) == 0 {
		h.reply(ctx, b, chatID, "You are not in any study group yet. Browse groups with /groups first.")
		return
	}

	draft := &state.Draft{
		Meeting: &model.Meeting{
			ID:          uuid.New(),
			OrganizerID: student.ID,
			CreatedAt:   time.Now(),
		},
	}

	// Если группа одна, шаг выбора группы пропускается
	if len(student.GroupIDs) == 1 {
		draft.Meeting.StudyGroupID = student.GroupIDs[0]
		draft.Step = state.StepTopic
		h.stateManager.StartDraft(telegramID, draft)
		h.reply(ctx, b, chatID, "📝 What is the meeting about? Send me the topic.")
		return
	}

	var rows [][]models.InlineKeyboardButton
	for _, groupID := range student.GroupIDs {
		group, err := h.groupService.GetByID(ctx, groupID)
		if err != nil || group == nil {
			continue
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         group.Name,
			CallbackData: cbDraftGroup + group.ID.String(),
		}})
	}
	if len(rows) == 0 {
		h.reply(ctx, b, chatID, "Could not load your groups, please try again later.")
		return
	}

	draft.Step = state.StepGroup
	h.stateManager.StartDraft(telegramID, draft)
	h.replyWithKeyboard(ctx, b, chatID, "👥 Which group is this meeting for?",
		&models.InlineKeyboardMarkup{InlineKeyboard: rows})
}

// handleTopicStep принимает тему встречи
func (h *Handlers) handleTopicStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	topic := strings.TrimSpace(update.Message.Text)
	if topic == "" {
		h.reply(ctx, b, chatID, "The topic cannot be empty, try again.")
		return
	}

	ok := h.stateManager.UpdateDraft(update.Message.From.ID, func(d *state.Draft) bool {
		if d.Step != state.StepTopic {
			return false
		}
		d.Meeting.Topic = topic
		d.Step = state.StepFrequency
		return true
	})
	if !ok {
		h.reply(ctx, b, chatID, "This dialog is no longer active, start over with /newmeeting.")
		return
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Once", CallbackData: cbDraftFrequency + string(model.FrequencyOnetime)},
				{Text: "Weekly", CallbackData: cbDraftFrequency + string(model.FrequencyWeekly)},
			},
			{
				{Text: "Biweekly", CallbackData: cbDraftFrequency + string(model.FrequencyBiweekly)},
				{Text: "Monthly", CallbackData: cbDraftFrequency + string(model.FrequencyMonthly)},
			},
		},
	}

	h.replyWithKeyboard(ctx, b, chatID, "🔁 How often should it repeat?", keyboard)
}

// handleStartTimeStep принимает время первого вхождения
func (h *Handlers) handleStartTimeStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	start, err := time.ParseInLocation(timeLayout, strings.TrimSpace(update.Message.Text), time.Local)
	if err != nil {
		h.reply(ctx, b, chatID, "I could not parse that. Send the start as YYYY-MM-DD HH:MM, for example 2026-09-15 18:30.")
		return
	}
	if start.Before(time.Now()) {
		h.reply(ctx, b, chatID, "That time is already in the past, pick a future one.")
		return
	}

	ok := h.stateManager.UpdateDraft(update.Message.From.ID, func(d *state.Draft) bool {
		if d.Step != state.StepStart {
			return false
		}
		d.Start = start
		d.Step = state.StepDuration
		return true
	})
	if !ok {
		h.reply(ctx, b, chatID, "This dialog is no longer active, start over with /newmeeting.")
		return
	}

	h.reply(ctx, b, chatID, "⏱ How long is the meeting, in minutes?")
}

// handleDurationStep принимает длительность и разворачивает серию слотов
func (h *Handlers) handleDurationStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	minutes, err := strconv.Atoi(strings.TrimSpace(update.Message.Text))
	if err != nil || minutes <= 0 || minutes > maxMeetingDurationMin {
		h.reply(ctx, b, chatID, "Send the duration as a number of minutes between 1 and 480.")
		return
	}

	ok := h.stateManager.UpdateDraft(update.Message.From.ID, func(d *state.Draft) bool {
		if d.Step != state.StepDuration {
			return false
		}
		end := d.Start.Add(time.Duration(minutes) * time.Minute)
		d.Meeting.Occurrences = h.meetingService.GenerateOccurrences(d.Start, end, d.Meeting.Frequency)
		d.Step = state.StepKind
		return true
	})
	if !ok {
		h.reply(ctx, b, chatID, "This dialog is no longer active, start over with /newmeeting.")
		return
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "💻 Online", CallbackData: cbDraftKind + string(model.MeetingOnline)},
				{Text: "🏢 In person", CallbackData: cbDraftKind + string(model.MeetingInPerson)},
			},
		},
	}

	h.replyWithKeyboard(ctx, b, chatID, "Where will you meet?", keyboard)
}

// handleLinkStep принимает ссылку онлайн-встречи и завершает диалог
func (h *Handlers) handleLinkStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	link := strings.TrimSpace(update.Message.Text)
	if link == "" {
		h.reply(ctx, b, chatID, "The link cannot be empty, try again.")
		return
	}

	ok := h.stateManager.UpdateDraft(update.Message.From.ID, func(d *state.Draft) bool {
		if d.Step != state.StepLink {
			return false
		}
		d.Meeting.MeetingLink = link
		return true
	})
	if !ok {
		h.reply(ctx, b, chatID, "This dialog is no longer active, start over with /newmeeting.")
		return
	}

	h.finishDraft(ctx, b, chatID, update.Message.From.ID)
}

// finishDraft забирает черновик, создаёт встречу и для очных встреч
// предлагает забронировать комнату под ближайший слот
func (h *Handlers) finishDraft(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	draft := h.stateManager.CommitDraft(telegramID)
	if draft == nil {
		h.reply(ctx, b, chatID, "The dialog expired, start over with /newmeeting.")
		return
	}

	meeting := draft.Meeting
	if err := h.meetingService.CreateMeeting(ctx, meeting); err != nil {
		h.logger.Error("Failed to create meeting", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not create the meeting, please try again later.")
		return
	}

	next, _ := meeting.NextOccurrence()
	h.reply(ctx, b, chatID, fmt.Sprintf(
		"✅ Meeting %q scheduled!\nFirst session: %s\nOccurrences planned: %d\n\nEveryone in the group is invited, see /meetings to respond.",
		meeting.Topic, formatSlot(next), len(meeting.Occurrences),
	))

	if meeting.Kind == model.MeetingInPerson {
		h.offerRooms(ctx, b, chatID, meeting, next)
	}
}

// offerRooms показывает комнаты свободные в указанном слоте
func (h *Handlers) offerRooms(ctx context.Context, b *bot.Bot, chatID int64, meeting *model.Meeting, slot model.TimeSlot) {
	rooms, err := h.bookingService.GetAvailableRooms(ctx, slot)
	if err != nil {
		h.logger.Error("Failed to list available rooms", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not load the room list, try booking later from /meetings.")
		return
	}
	if len(rooms) == 0 {
		h.reply(ctx, b, chatID, "No rooms are free at that time. The meeting stays without a room.")
		return
	}

	var rows [][]models.InlineKeyboardButton
	for _, room := range rooms {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("📍 %s (seats %d)", room.Location, room.Capacity),
			CallbackData: cbBookRoom + meeting.ID.String() + ":" + room.ID.String(),
		}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{
		Text:         "Skip for now",
		CallbackData: cbSkipRoom,
	}})

	h.replyWithKeyboard(ctx, b, chatID, "🏢 Pick a room for the first session:",
		&models.InlineKeyboardMarkup{InlineKeyboard: rows})
}

// HandleMeetings начинает постраничный просмотр встреч студента
func (h *Handlers) HandleMeetings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	student := h.requireStudent(ctx, b, chatID, telegramID)
	if student == nil {
		return
	}

	meetings, err := h.meetingService.GetForStudent(ctx, student.ID)
	if err != nil {
		h.logger.Error("Failed to get meetings for student", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not load your meetings, please try again later.")
		return
	}
	if len(meetings) == 0 {
		h.reply(ctx, b, chatID, "You have no meetings yet. Schedule one with /newmeeting.")
		return
	}

	// Ближайшие встречи показываются первыми, встречи без слотов в конце
	sort.Slice(meetings, func(i, j int) bool {
		si, oki := meetings[i].NextOccurrence()
		sj, okj := meetings[j].NextOccurrence()
		if oki != okj {
			return oki
		}
		return si.Start.Before(sj.Start)
	})

	ids := make([]uuid.UUID, len(meetings))
	for i, meeting := range meetings {
		ids[i] = meeting.ID
	}
	h.stateManager.SetCursor(telegramID, &state.Cursor{IDs: ids})

	h.showMeetingCard(ctx, b, chatID, telegramID, student)
}

// showMeetingCard показывает встречу под курсором с кнопками ответа
func (h *Handlers) showMeetingCard(ctx context.Context, b *bot.Bot, chatID, telegramID int64, student *model.Student) {
	cursor := h.stateManager.GetCursor(telegramID)
	meetingID, ok := cursor.Current()
	if !ok {
		h.stateManager.ClearCursor(telegramID)
		h.reply(ctx, b, chatID, "That is all of your meetings.")
		return
	}

	meeting, err := h.meetingService.GetByID(ctx, meetingID)
	if err != nil {
		h.logger.Error("Failed to get meeting", zap.String("meeting_id", meetingID.String()), zap.Error(err))
		h.reply(ctx, b, chatID, "Could not load the meeting, please try again later.")
		return
	}
	if meeting == nil {
		// Встречу отменили пока шёл просмотр
		if h.stateManager.Advance(telegramID) {
			h.showMeetingCard(ctx, b, chatID, telegramID, student)
			return
		}
		h.stateManager.ClearCursor(telegramID)
		h.reply(ctx, b, chatID, "That meeting is gone, and there is nothing else to show.")
		return
	}

	group, err := h.groupService.GetByID(ctx, meeting.StudyGroupID)
	if err != nil {
		h.logger.Warn("Failed to resolve group for meeting card", zap.Error(err))
	}

	idStr := meeting.ID.String()
	rows := [][]models.InlineKeyboardButton{
		{
			{Text: "✅ Accept", CallbackData: cbRSVP + idStr + ":" + string(model.StatusAccept)},
			{Text: "❌ Decline", CallbackData: cbRSVP + idStr + ":" + string(model.StatusDecline)},
			{Text: "🤔 Maybe", CallbackData: cbRSVP + idStr + ":" + string(model.StatusTentative)},
		},
	}
	if meeting.Kind == model.MeetingInPerson && meeting.BookingID == nil {
		if _, ok := meeting.NextOccurrence(); ok {
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         "🏢 Book a room",
				CallbackData: cbOfferRooms + idStr,
			}})
		}
	}
	if meeting.OrganizerID == student.ID {
		row := []models.InlineKeyboardButton{{
			Text:         "🗑 Cancel this meeting",
			CallbackData: cbCancelMeeting + idStr,
		}}
		if len(meeting.Occurrences) > 0 {
			row = append(row, models.InlineKeyboardButton{
				Text:         "⏭ Skip next session",
				CallbackData: cbSkipNext + idStr,
			})
		}
		rows = append(rows, row)
	}
	if cursor.HasNext() {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("➡️ Next (%d of %d)", cursor.Pos+2, len(cursor.IDs)),
			CallbackData: cbMeetingsNext,
		}})
	}

	text := fmt.Sprintf("Meeting %d of %d\n\n%s",
		cursor.Pos+1, len(cursor.IDs),
		formatMeeting(meeting, group, meeting.Participants[student.ID]),
	)

	h.replyWithKeyboard(ctx, b, chatID, text, &models.InlineKeyboardMarkup{InlineKeyboard: rows})
}
