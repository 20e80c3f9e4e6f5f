package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/controller/state"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/service"
	"go.uber.org/zap"
)

// Форматы callback data
const (
	cbDraftGroup     = "nm_group:"       // nm_group:<group_id>
	cbDraftFrequency = "nm_freq:"        // nm_freq:<FREQUENCY>
	cbDraftKind      = "nm_kind:"        // nm_kind:<kind>
	cbBookRoom       = "book_room:"      // book_room:<meeting_id>:<room_id>
	cbSkipRoom       = "skip_room"       //
	cbRSVP           = "rsvp:"           // rsvp:<meeting_id>:<STATUS>
	cbCancelMeeting  = "cancel_meeting:" // cancel_meeting:<meeting_id>
	cbSkipNext       = "skip_next:"      // skip_next:<meeting_id>
	cbOfferRooms     = "offer_rooms:"    // offer_rooms:<meeting_id>
	cbMeetingsNext   = "meetings_next"   //
	cbJoinGroup      = "join_group:"     // join_group:<group_id>
	cbLeaveGroup     = "leave_group:"    // leave_group:<group_id>
	cbDisbandGroup   = "disband_group:"  // disband_group:<group_id>
	cbSetReminder    = "remind:"         // remind:<minutes>
)

// HandleCallbackQuery распределяет нажатия inline кнопок по обработчикам
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	chatID := callback.From.ID
	if callback.Message.Message != nil {
		chatID = callback.Message.Message.Chat.ID
	}

	data := callback.Data
	h.logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("telegram_id", callback.From.ID),
	)

	switch {
	case strings.HasPrefix(data, cbDraftGroup):
		h.handleDraftGroup(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbDraftFrequency):
		h.handleDraftFrequency(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbDraftKind):
		h.handleDraftKind(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbBookRoom):
		h.handleBookRoom(ctx, b, chatID, callback)
	case data == cbSkipRoom:
		h.reply(ctx, b, chatID, "Okay, no room booked. You can book one later from /meetings.")
	case strings.HasPrefix(data, cbRSVP):
		h.handleRSVP(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbCancelMeeting):
		h.handleCancelMeeting(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbSkipNext):
		h.handleSkipNext(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbOfferRooms):
		h.handleOfferRooms(ctx, b, chatID, callback)
	case data == cbMeetingsNext:
		h.handleMeetingsNext(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbJoinGroup):
		h.handleJoinGroup(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbLeaveGroup):
		h.handleLeaveGroup(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbDisbandGroup):
		h.handleDisbandGroup(ctx, b, chatID, callback)
	case strings.HasPrefix(data, cbSetReminder):
		h.handleSetReminder(ctx, b, chatID, callback)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
	}
}

// parseUUIDSuffix извлекает UUID после префикса callback data
func parseUUIDSuffix(data, prefix string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimPrefix(data, prefix))
}

func (h *Handlers) handleDraftGroup(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	groupID, err := parseUUIDSuffix(callback.Data, cbDraftGroup)
	if err != nil {
		h.logger.Error("Bad group callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	ok := h.stateManager.UpdateDraft(callback.From.ID, func(d *state.Draft) bool {
		if d.Step != state.StepGroup {
			return false
		}
		d.Meeting.StudyGroupID = groupID
		d.Step = state.StepTopic
		return true
	})
	if !ok {
		h.reply(ctx, b, chatID, "This dialog is no longer active, start over with /newmeeting.")
		return
	}

	h.reply(ctx, b, chatID, "📝 What is the meeting about? Send me the topic.")
}

func (h *Handlers) handleDraftFrequency(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	frequency := model.Frequency(strings.TrimPrefix(callback.Data, cbDraftFrequency))
	switch frequency {
	case model.FrequencyOnetime, model.FrequencyWeekly, model.FrequencyBiweekly, model.FrequencyMonthly:
	default:
		h.logger.Error("Bad frequency callback", zap.String("data", callback.Data))
		return
	}

	ok := h.stateManager.UpdateDraft(callback.From.ID, func(d *state.Draft) bool {
		if d.Step != state.StepFrequency {
			return false
		}
		d.Meeting.Frequency = frequency
		d.Step = state.StepStart
		return true
	})
	if !ok {
		h.reply(ctx, b, chatID, "This dialog is no longer active, start over with /newmeeting.")
		return
	}

	h.reply(ctx, b, chatID, "📅 When is the first session? Send the start as YYYY-MM-DD HH:MM, for example 2026-09-15 18:30.")
}

func (h *Handlers) handleDraftKind(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	kind := model.MeetingKind(strings.TrimPrefix(callback.Data, cbDraftKind))
	switch kind {
	case model.MeetingOnline, model.MeetingInPerson:
	default:
		h.logger.Error("Bad kind callback", zap.String("data", callback.Data))
		return
	}

	ok := h.stateManager.UpdateDraft(callback.From.ID, func(d *state.Draft) bool {
		if d.Step != state.StepKind {
			return false
		}
		d.Meeting.Kind = kind
		if kind == model.MeetingOnline {
			d.Step = state.StepLink
		}
		return true
	})
	if !ok {
		h.reply(ctx, b, chatID, "This dialog is no longer active, start over with /newmeeting.")
		return
	}

	if kind == model.MeetingOnline {
		h.reply(ctx, b, chatID, "🔗 Send the meeting link (Zoom, Meet, whatever works).")
		return
	}
	h.finishDraft(ctx, b, chatID, callback.From.ID)
}

func (h *Handlers) handleBookRoom(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	parts := strings.Split(strings.TrimPrefix(callback.Data, cbBookRoom), ":")
	if len(parts) != 2 {
		h.logger.Error("Bad book room callback", zap.String("data", callback.Data))
		return
	}
	meetingID, err1 := uuid.Parse(parts[0])
	roomID, err2 := uuid.Parse(parts[1])
	if err1 != nil || err2 != nil {
		h.logger.Error("Bad book room callback", zap.String("data", callback.Data))
		return
	}

	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}

	meeting, err := h.meetingService.GetByID(ctx, meetingID)
	if err != nil || meeting == nil {
		h.reply(ctx, b, chatID, "That meeting no longer exists.")
		return
	}

	booking, err := h.bookingService.CreateBooking(ctx, roomID, meeting, student)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomUnavailable):
			h.reply(ctx, b, chatID, "Someone grabbed that room first. Try another one from /meetings.")
		case errors.Is(err, service.ErrRoomNotFound):
			h.reply(ctx, b, chatID, "That room no longer exists.")
		default:
			h.logger.Error("Failed to create booking", zap.Error(err))
			h.reply(ctx, b, chatID, "Could not book the room, please try again later.")
		}
		return
	}

	room, err := h.bookingService.GetRoomByID(ctx, booking.RoomID)
	location := "the room"
	if err == nil && room != nil {
		location = room.Location
	}

	next, _ := meeting.NextOccurrence()
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Booked %s for %s.", location, formatSlot(next)))
}

func (h *Handlers) handleRSVP(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	parts := strings.Split(strings.TrimPrefix(callback.Data, cbRSVP), ":")
	if len(parts) != 2 {
		h.logger.Error("Bad rsvp callback", zap.String("data", callback.Data))
		return
	}
	meetingID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Error("Bad rsvp callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	status := model.ParticipantStatus(parts[1])
	switch status {
	case model.StatusAccept, model.StatusDecline, model.StatusTentative:
	default:
		h.logger.Error("Bad rsvp status", zap.String("data", callback.Data))
		return
	}

	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}

	err = h.meetingService.UpdateParticipantStatus(ctx, meetingID, student.ID, status)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.reply(ctx, b, chatID, "That meeting no longer exists.")
	case errors.Is(err, service.ErrNotAParticipant):
		h.reply(ctx, b, chatID, "You are not on the invite list for that meeting.")
	case err != nil:
		h.logger.Error("Failed to update participant status", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not save your response, please try again later.")
	default:
		h.reply(ctx, b, chatID, fmt.Sprintf("✉️ Response saved: %s.", strings.ToLower(string(status))))
	}
}

func (h *Handlers) handleCancelMeeting(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	meetingID, err := parseUUIDSuffix(callback.Data, cbCancelMeeting)
	if err != nil {
		h.logger.Error("Bad cancel callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}

	meeting, err := h.meetingService.GetByID(ctx, meetingID)
	if err != nil {
		h.logger.Error("Failed to get meeting", zap.Error(err))
		return
	}
	if meeting == nil {
		h.reply(ctx, b, chatID, "That meeting is already gone.")
		return
	}
	if meeting.OrganizerID != student.ID {
		h.reply(ctx, b, chatID, "Only the organizer can cancel a meeting.")
		return
	}

	if err := h.meetingService.CancelMeeting(ctx, meetingID); err != nil {
		h.logger.Error("Failed to cancel meeting", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not cancel the meeting, please try again later.")
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf("🗑 Meeting %q canceled, reminders and room booking cleaned up.", meeting.Topic))
}

func (h *Handlers) handleSkipNext(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	meetingID, err := parseUUIDSuffix(callback.Data, cbSkipNext)
	if err != nil {
		h.logger.Error("Bad skip callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}

	meeting, err := h.meetingService.GetByID(ctx, meetingID)
	if err != nil {
		h.logger.Error("Failed to get meeting", zap.Error(err))
		return
	}
	if meeting == nil {
		h.reply(ctx, b, chatID, "That meeting is already gone.")
		return
	}
	if meeting.OrganizerID != student.ID {
		h.reply(ctx, b, chatID, "Only the organizer can skip a session.")
		return
	}

	if err := h.meetingService.SkipNextOccurrence(ctx, meetingID); err != nil {
		h.logger.Error("Failed to skip occurrence", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not skip the session, please try again later.")
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf("⏭ The next session of %q is off. The rest of the series stands.", meeting.Topic))
}

func (h *Handlers) handleOfferRooms(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	meetingID, err := parseUUIDSuffix(callback.Data, cbOfferRooms)
	if err != nil {
		h.logger.Error("Bad offer rooms callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	meeting, err := h.meetingService.GetByID(ctx, meetingID)
	if err != nil || meeting == nil {
		h.reply(ctx, b, chatID, "That meeting no longer exists.")
		return
	}
	if meeting.BookingID != nil {
		h.reply(ctx, b, chatID, "This meeting already has a room booked.")
		return
	}

	next, ok := meeting.NextOccurrence()
	if !ok {
		h.reply(ctx, b, chatID, "This meeting has no upcoming sessions to book a room for.")
		return
	}

	h.offerRooms(ctx, b, chatID, meeting, next)
}

func (h *Handlers) handleMeetingsNext(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}

	if !h.stateManager.Advance(callback.From.ID) {
		h.stateManager.ClearCursor(callback.From.ID)
		h.reply(ctx, b, chatID, "That is all of your meetings.")
		return
	}

	h.showMeetingCard(ctx, b, chatID, callback.From.ID, student)
}

func (h *Handlers) handleJoinGroup(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	groupID, err := parseUUIDSuffix(callback.Data, cbJoinGroup)
	if err != nil {
		h.logger.Error("Bad join callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}

	group, err := h.groupService.GetByID(ctx, groupID)
	if err != nil || group == nil {
		h.reply(ctx, b, chatID, "That group no longer exists.")
		return
	}

	if err := h.groupService.JoinGroup(ctx, student, groupID); err != nil {
		h.logger.Error("Failed to join group", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not join the group, please try again later.")
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf(
		"✅ Welcome to %q! You are invited to all of its meetings, check /meetings.", group.Name))
}

func (h *Handlers) handleLeaveGroup(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	groupID, err := parseUUIDSuffix(callback.Data, cbLeaveGroup)
	if err != nil {
		h.logger.Error("Bad leave callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}
	if !student.InGroup(groupID) {
		h.reply(ctx, b, chatID, "You are not in that group.")
		return
	}

	group, err := h.groupService.GetByID(ctx, groupID)
	if err != nil {
		h.logger.Error("Failed to get group", zap.Error(err))
		return
	}

	if err := h.groupService.LeaveGroup(ctx, student, groupID); err != nil {
		h.logger.Error("Failed to leave group", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not leave the group, please try again later.")
		return
	}

	name := "the group"
	if group != nil {
		name = fmt.Sprintf("%q", group.Name)
	}
	h.reply(ctx, b, chatID, fmt.Sprintf(
		"👋 You left %s. Meetings you organized there were canceled, your reminders are cleaned up.", name))
}

func (h *Handlers) handleDisbandGroup(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	groupID, err := parseUUIDSuffix(callback.Data, cbDisbandGroup)
	if err != nil {
		h.logger.Error("Bad disband callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}

	group, err := h.groupService.GetByID(ctx, groupID)
	if err != nil || group == nil {
		h.reply(ctx, b, chatID, "That group is already gone.")
		return
	}
	if group.LeaderID != student.ID {
		h.reply(ctx, b, chatID, "Only the group leader can disband it.")
		return
	}

	if err := h.groupService.DisbandGroup(ctx, groupID); err != nil {
		h.logger.Error("Failed to disband group", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not disband the group, please try again later.")
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf("💥 Group %q disbanded, all of its meetings are canceled.", group.Name))
}

func (h *Handlers) handleSetReminder(ctx context.Context, b *bot.Bot, chatID int64, callback *models.CallbackQuery) {
	minutes, err := strconv.Atoi(strings.TrimPrefix(callback.Data, cbSetReminder))
	if err != nil || minutes <= 0 {
		h.logger.Error("Bad reminder callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	student := h.requireStudent(ctx, b, chatID, callback.From.ID)
	if student == nil {
		return
	}

	if err := h.reminderService.SetReminderPreference(ctx, student, minutes); err != nil {
		h.logger.Error("Failed to set reminder preference", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not save your preference, please try again later.")
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf(
		"⏰ Done! I will ping you %s before each of your meetings.", service.FormatOffset(minutes)))
}
