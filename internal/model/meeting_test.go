package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFrequencyIntervalDays(t *testing.T) {
	assert.Equal(t, 0, FrequencyOnetime.IntervalDays())
	assert.Equal(t, 7, FrequencyWeekly.IntervalDays())
	assert.Equal(t, 14, FrequencyBiweekly.IntervalDays())
	assert.Equal(t, 28, FrequencyMonthly.IntervalDays())
	assert.Equal(t, 0, Frequency("BOGUS").IntervalDays())
}

func TestMeetingIsOver(t *testing.T) {
	now := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)

	meeting := &Meeting{Occurrences: []TimeSlot{
		slotAt("Monday", 10, 11),
		slotAt("Monday", 14, 15),
	}}

	assert.False(t, meeting.IsOver(now), "future occurrence keeps the series alive")
	assert.True(t, meeting.IsOver(now.Add(4*time.Hour)), "series ends after the last occurrence end")

	empty := &Meeting{}
	assert.False(t, empty.IsOver(now), "meeting without occurrences is never over")
}

func TestMeetingNextOccurrence(t *testing.T) {
	first := slotAt("Monday", 10, 11)
	meeting := &Meeting{Occurrences: []TimeSlot{first, slotAt("Monday", 14, 15)}}

	next, ok := meeting.NextOccurrence()
	assert.True(t, ok)
	assert.True(t, next.Equal(first))

	_, ok = (&Meeting{}).NextOccurrence()
	assert.False(t, ok)
}

func TestStudentReminderPreference(t *testing.T) {
	student := &Student{}
	assert.False(t, student.HasReminderPreference())

	zero := 0
	student.ReminderMin = &zero
	assert.False(t, student.HasReminderPreference(), "zero offset is not a preference")

	thirty := 30
	student.ReminderMin = &thirty
	assert.True(t, student.HasReminderPreference())
}

func TestStudentGroupMembership(t *testing.T) {
	groupA := uuid.New()
	groupB := uuid.New()
	student := &Student{GroupIDs: []uuid.UUID{groupA, groupB}}

	assert.True(t, student.InGroup(groupA))
	assert.False(t, student.InGroup(uuid.New()))

	student.RemoveGroup(groupA)
	assert.False(t, student.InGroup(groupA))
	assert.True(t, student.InGroup(groupB))

	// Повторное удаление безвредно
	student.RemoveGroup(groupA)
	assert.Equal(t, []uuid.UUID{groupB}, student.GroupIDs)
}
