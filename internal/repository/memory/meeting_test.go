package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

func sampleMeeting(organizer uuid.UUID) *model.Meeting {
	start := time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC)
	return &model.Meeting{
		ID:        uuid.New(),
		Topic:     "Graph theory",
		Frequency: model.FrequencyWeekly,
		Occurrences: []model.TimeSlot{{
			Day:   start.Weekday().String(),
			Start: start,
			End:   start.Add(time.Hour),
		}},
		StudyGroupID: uuid.New(),
		OrganizerID:  organizer,
		Participants: map[uuid.UUID]model.ParticipantStatus{organizer: model.StatusAccept},
		Kind:         model.MeetingOnline,
	}
}

func TestMeetingRepositoryRoundTrip(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	organizer := uuid.New()
	meeting := sampleMeeting(organizer)
	require.NoError(t, repo.Create(ctx, meeting))

	stored, err := repo.GetByID(ctx, meeting.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, meeting.Topic, stored.Topic)

	missing, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMeetingRepositoryReturnsClones(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	organizer := uuid.New()
	meeting := sampleMeeting(organizer)
	require.NoError(t, repo.Create(ctx, meeting))

	first, err := repo.GetByID(ctx, meeting.ID)
	require.NoError(t, err)

	// Мутация полученной копии не должна протекать в хранилище
	first.Topic = "hijacked"
	first.Participants[uuid.New()] = model.StatusDecline
	first.Occurrences[0].Day = "Friday"

	second, err := repo.GetByID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, "Graph theory", second.Topic)
	assert.Len(t, second.Participants, 1)
	assert.Equal(t, meeting.Occurrences[0].Day, second.Occurrences[0].Day)
}

func TestMeetingRepositoryQueries(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	organizer := uuid.New()
	participant := uuid.New()

	mine := sampleMeeting(organizer)
	require.NoError(t, repo.Create(ctx, mine))

	joined := sampleMeeting(uuid.New())
	joined.Participants[participant] = model.StatusTentative
	require.NoError(t, repo.Create(ctx, joined))

	other := sampleMeeting(uuid.New())
	require.NoError(t, repo.Create(ctx, other))

	byOrganizer, err := repo.GetByParticipant(ctx, organizer)
	require.NoError(t, err)
	require.Len(t, byOrganizer, 1)
	assert.Equal(t, mine.ID, byOrganizer[0].ID)

	byParticipant, err := repo.GetByParticipant(ctx, participant)
	require.NoError(t, err)
	require.Len(t, byParticipant, 1)
	assert.Equal(t, joined.ID, byParticipant[0].ID)

	byGroup, err := repo.GetByStudyGroupID(ctx, mine.StudyGroupID)
	require.NoError(t, err)
	require.Len(t, byGroup, 1)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMeetingRepositoryUpdateDeleteMissing(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	ghost := sampleMeeting(uuid.New())
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ghost.ID), ErrNotFound)

	require.NoError(t, repo.Create(ctx, ghost))
	ghost.Topic = "renamed"
	require.NoError(t, repo.Update(ctx, ghost))
	require.NoError(t, repo.Delete(ctx, ghost.ID))

	gone, err := repo.GetByID(ctx, ghost.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
