package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

func TestCreateReminderFiresAt(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 0)
	group := fx.addGroup(t, organizer)
	slots := futureSlots(48*time.Hour, 7, 2)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, slots)

	reminder, err := fx.reminders.CreateReminder(ctx, meeting.ID, 90, organizer)
	require.NoError(t, err)

	assert.True(t, reminder.FiresAt.Equal(slots[0].Start.Add(-90*time.Minute)))
	assert.Contains(t, reminder.Message, "1 hour 30 minutes")
	assert.Contains(t, reminder.Message, group.Name)
	assert.Contains(t, reminder.Message, meeting.Topic)
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "45 minutes", FormatOffset(45))
	assert.Equal(t, "1 minute", FormatOffset(1))
	assert.Equal(t, "2 hours", FormatOffset(120))
	assert.Equal(t, "1 hour", FormatOffset(60))
	assert.Equal(t, "1 hour 30 minutes", FormatOffset(90))
	assert.Equal(t, "2 hours 1 minute", FormatOffset(121))
}

func TestProcessDueRemindersDeliversAndRegenerates(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 15)
	group := fx.addGroup(t, organizer)
	slots := futureSlots(10*time.Minute, 7, 3)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, slots)

	// Напоминание создано при создании встречи и уже должно было сработать:
	// слот через 10 минут, смещение 15 минут
	require.NoError(t, fx.reminders.ProcessDueReminders(ctx, testNow))

	message := fx.notifier.waitForDelivery(t)
	assert.Contains(t, message, meeting.Topic)

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 1, "a reminder for the second occurrence replaces the fired one")
	assert.True(t, reminders[0].FiresAt.Equal(slots[1].Start.Add(-15*time.Minute)))
}

func TestProcessDueRemindersOnetimeDoesNotRegenerate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 15)
	group := fx.addGroup(t, organizer)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyOnetime, futureSlots(10*time.Minute, 7, 1))

	require.NoError(t, fx.reminders.ProcessDueReminders(ctx, testNow))
	fx.notifier.waitForDelivery(t)

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestProcessDueRemindersExhaustedSeries(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 15)
	group := fx.addGroup(t, organizer)
	// Периодическая серия у которой остался один слот
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, futureSlots(10*time.Minute, 7, 1))

	require.NoError(t, fx.reminders.ProcessDueReminders(ctx, testNow))
	fx.notifier.waitForDelivery(t)

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders, "no second occurrence, nothing to regenerate")
}

func TestProcessDueRemindersSkipsFutureOnes(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 15)
	group := fx.addGroup(t, organizer)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, futureSlots(48*time.Hour, 7, 2))

	require.NoError(t, fx.reminders.ProcessDueReminders(ctx, testNow))

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Len(t, reminders, 1, "future reminder stays untouched")
	assert.Empty(t, fx.notifier.delivered)
}

func TestProcessDueRemindersForCanceledMeeting(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 15)
	group := fx.addGroup(t, organizer)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, futureSlots(10*time.Minute, 7, 2))

	// Встреча пропадает, напоминание остаётся висеть
	require.NoError(t, fx.meetingRepo.Delete(ctx, meeting.ID))

	require.NoError(t, fx.reminders.ProcessDueReminders(ctx, testNow))

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders, "orphaned reminder is dropped without delivery")
	assert.Empty(t, fx.notifier.delivered)
}

func TestDeleteForOccurrenceRegeneratesForFirstSlot(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 30)
	group := fx.addGroup(t, organizer)
	slots := futureSlots(24*time.Hour, 7, 3)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, slots)

	stored, err := fx.meetings.GetByID(ctx, meeting.ID)
	require.NoError(t, err)

	require.NoError(t, fx.reminders.DeleteForOccurrence(ctx, stored, slots[0]))

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.True(t, reminders[0].FiresAt.Equal(slots[1].Start.Add(-30*time.Minute)),
		"reminder moves to the second occurrence")
}

func TestDeleteForOccurrenceMiddleSlotNoRegeneration(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 30)
	group := fx.addGroup(t, organizer)
	slots := futureSlots(24*time.Hour, 7, 3)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, slots)

	stored, err := fx.meetings.GetByID(ctx, meeting.ID)
	require.NoError(t, err)

	// Напоминание привязано к первому слоту, удаление по второму не трогает его
	require.NoError(t, fx.reminders.DeleteForOccurrence(ctx, stored, slots[1]))

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.True(t, reminders[0].FiresAt.Equal(slots[0].Start.Add(-30*time.Minute)))
}

func TestSetReminderPreferenceUpdatesAndBackfills(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 15)
	group := fx.addGroup(t, organizer)

	withReminder := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, futureSlots(24*time.Hour, 7, 2))
	second := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, futureSlots(72*time.Hour, 7, 2))

	// По второй встрече напоминание теряется, смена предпочтения должна
	// досоздать его
	secondReminders, err := fx.reminderRepo.GetByMeetingID(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, secondReminders, 1)
	require.NoError(t, fx.reminderRepo.Delete(ctx, secondReminders[0].ID))

	require.NoError(t, fx.reminders.SetReminderPreference(ctx, organizer, 60))

	student, err := fx.studentRepo.GetByID(ctx, organizer.ID)
	require.NoError(t, err)
	require.NotNil(t, student.ReminderMin)
	assert.Equal(t, 60, *student.ReminderMin)

	all, err := fx.reminderRepo.GetByStudentID(ctx, organizer.ID)
	require.NoError(t, err)
	require.Len(t, all, 2, "existing reminder updated, missing one backfilled")

	byMeeting := map[string]time.Time{}
	for _, reminder := range all {
		assert.Equal(t, 60, reminder.OffsetMinutes)
		byMeeting[reminder.MeetingID.String()] = reminder.FiresAt
	}
	assert.Contains(t, byMeeting, withReminder.ID.String())
	assert.Contains(t, byMeeting, second.ID.String())
}

func TestSetReminderPreferenceSkipsPastFireTimes(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 0)
	group := fx.addGroup(t, organizer)

	// Слот начинается через 30 минут, при смещении в сутки время
	// срабатывания уже позади
	soon := fx.addMeeting(t, group, organizer, model.FrequencyOnetime, futureSlots(30*time.Minute, 7, 1))

	require.NoError(t, fx.reminders.SetReminderPreference(ctx, organizer, 24*60))

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, soon.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestDeleteForStudentLeavingGroup(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	organizer := fx.addStudent(t, "Zoey", 15)
	member := fx.addStudent(t, "Sam", 15)
	group := fx.addGroup(t, organizer, member)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, futureSlots(24*time.Hour, 7, 2))

	require.NoError(t, fx.reminders.DeleteForStudentLeavingGroup(ctx, member.ID, group.ID))

	remaining, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1, "only the leaving student's reminder is removed")
	assert.Equal(t, organizer.ID, remaining[0].Student.ID)
}
