package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

// MeetingRepository хранит встречи в памяти.
// Все операции чтения-модификации сериализуются мьютексом
type MeetingRepository struct {
	mu       sync.RWMutex
	meetings map[uuid.UUID]*model.Meeting
}

func NewMeetingRepository() *MeetingRepository {
	return &MeetingRepository{
		meetings: make(map[uuid.UUID]*model.Meeting),
	}
}

// cloneMeeting копирует встречу вместе с вложенными структурами,
// чтобы вызывающий код не делил состояние с хранилищем
func cloneMeeting(m *model.Meeting) *model.Meeting {
	clone := *m
	clone.Occurrences = append([]model.TimeSlot(nil), m.Occurrences...)
	clone.Participants = make(map[uuid.UUID]model.ParticipantStatus, len(m.Participants))
	for id, status := range m.Participants {
		clone.Participants[id] = status
	}
	if m.BookingID != nil {
		bookingID := *m.BookingID
		clone.BookingID = &bookingID
	}
	return &clone
}

func (r *MeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.meetings[meeting.ID] = cloneMeeting(meeting)
	return nil
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	return cloneMeeting(meeting), nil
}

func (r *MeetingRepository) GetAll(ctx context.Context) ([]*model.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Meeting, 0, len(r.meetings))
	for _, meeting := range r.meetings {
		result = append(result, cloneMeeting(meeting))
	}
	return result, nil
}

func (r *MeetingRepository) GetByStudyGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Meeting
	for _, meeting := range r.meetings {
		if meeting.StudyGroupID == groupID {
			result = append(result, cloneMeeting(meeting))
		}
	}
	return result, nil
}

func (r *MeetingRepository) GetByParticipant(ctx context.Context, studentID uuid.UUID) ([]*model.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Meeting
	for _, meeting := range r.meetings {
		if meeting.OrganizerID == studentID {
			result = append(result, cloneMeeting(meeting))
			continue
		}
		if _, ok := meeting.Participants[studentID]; ok {
			result = append(result, cloneMeeting(meeting))
		}
	}
	return result, nil
}

func (r *MeetingRepository) Update(ctx context.Context, meeting *model.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[meeting.ID]; !ok {
		return ErrNotFound
	}
	r.meetings[meeting.ID] = cloneMeeting(meeting)
	return nil
}

func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[id]; !ok {
		return ErrNotFound
	}
	delete(r.meetings, id)
	return nil
}
