package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

func TestCreateGroupEnrollsLeader(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	leader := fx.addStudent(t, "Zoey", 0)
	group := fx.addGroup(t, leader)

	stored, err := fx.studentRepo.GetByID(ctx, leader.ID)
	require.NoError(t, err)
	assert.True(t, stored.InGroup(group.ID))

	members, err := fx.groups.MembersOf(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, leader.ID, members[0].ID)
}

func TestCreateGroupUnknownLeader(t *testing.T) {
	fx := newFixture(t)

	group := &model.StudyGroup{
		ID:       uuid.New(),
		Name:     "Ghost group",
		LeaderID: uuid.New(),
	}
	assert.ErrorIs(t, fx.groups.CreateGroup(context.Background(), group), ErrNotFound)
}

func TestJoinGroupAddsToExistingMeetings(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	leader := fx.addStudent(t, "Zoey", 0)
	group := fx.addGroup(t, leader)
	meeting := fx.addMeeting(t, group, leader, model.FrequencyWeekly, futureSlots(24*time.Hour, 7, 2))

	joiner := fx.addStudent(t, "Sam", 45)
	require.NoError(t, fx.groups.JoinGroup(ctx, joiner, group.ID))

	stored, err := fx.meetings.GetByID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTentative, stored.Participants[joiner.ID])

	// У вступившего есть предпочтение, напоминание создаётся сразу
	reminders, err := fx.reminderRepo.GetByStudentID(ctx, joiner.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, meeting.ID, reminders[0].MeetingID)

	// Повторное вступление ничего не меняет
	require.NoError(t, fx.groups.JoinGroup(ctx, joiner, group.ID))
	refreshed, err := fx.studentRepo.GetByID(ctx, joiner.ID)
	require.NoError(t, err)
	assert.Len(t, refreshed.GroupIDs, 1)
}

func TestJoinGroupNotFound(t *testing.T) {
	fx := newFixture(t)
	student := fx.addStudent(t, "Zoey", 0)

	assert.ErrorIs(t, fx.groups.JoinGroup(context.Background(), student, uuid.New()), ErrNotFound)
}

func TestLeaveGroupMemberKeepsMeeting(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	leader := fx.addStudent(t, "Zoey", 0)
	member := fx.addStudent(t, "Sam", 30)
	group := fx.addGroup(t, leader, member)
	meeting := fx.addMeeting(t, group, leader, model.FrequencyWeekly, futureSlots(24*time.Hour, 7, 2))

	require.NoError(t, fx.groups.LeaveGroup(ctx, member, group.ID))

	stored, err := fx.meetings.GetByID(ctx, meeting.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "meeting survives a regular member leaving")
	assert.NotContains(t, stored.Participants, member.ID)

	reminders, err := fx.reminderRepo.GetByStudentID(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders)

	refreshed, err := fx.studentRepo.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, refreshed.InGroup(group.ID))
}

func TestLeaveGroupOrganizerCancelsMeeting(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	leader := fx.addStudent(t, "Zoey", 0)
	organizer := fx.addStudent(t, "Sam", 0)
	group := fx.addGroup(t, leader, organizer)
	meeting := fx.addMeeting(t, group, organizer, model.FrequencyWeekly, futureSlots(24*time.Hour, 7, 2))

	require.NoError(t, fx.groups.LeaveGroup(ctx, organizer, group.ID))

	stored, err := fx.meetings.GetByID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Nil(t, stored, "organizer leaving cancels the whole meeting")
}

func TestDisbandGroupCascade(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	leader := fx.addStudent(t, "Zoey", 20)
	member := fx.addStudent(t, "Sam", 20)
	group := fx.addGroup(t, leader, member)
	meeting := fx.addMeeting(t, group, leader, model.FrequencyWeekly, futureSlots(24*time.Hour, 7, 2))

	require.NoError(t, fx.groups.DisbandGroup(ctx, group.ID))

	storedGroup, err := fx.groups.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Nil(t, storedGroup)

	storedMeeting, err := fx.meetings.GetByID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Nil(t, storedMeeting)

	reminders, err := fx.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders)

	for _, student := range []*model.Student{leader, member} {
		refreshed, err := fx.studentRepo.GetByID(ctx, student.ID)
		require.NoError(t, err)
		assert.False(t, refreshed.InGroup(group.ID))
	}

	// Роспуск уже отсутствующей группы не ошибка
	assert.NoError(t, fx.groups.DisbandGroup(ctx, group.ID))
}

func TestStudentServiceRegisterIsUpsert(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	first, err := fx.students.Register(ctx, 777, "Zoey")
	require.NoError(t, err)

	again, err := fx.students.Register(ctx, 777, "Zoey A.")
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID, "same telegram id maps to the same student")
	assert.Equal(t, "Zoey A.", again.DisplayName)
}
