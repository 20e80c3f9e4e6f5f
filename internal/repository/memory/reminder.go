package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

// ReminderRepository хранит напоминания в памяти
type ReminderRepository struct {
	mu        sync.RWMutex
	reminders map[uuid.UUID]*model.Reminder
}

func NewReminderRepository() *ReminderRepository {
	return &ReminderRepository{
		reminders: make(map[uuid.UUID]*model.Reminder),
	}
}

func cloneReminder(r *model.Reminder) *model.Reminder {
	clone := *r
	clone.Student.GroupIDs = append([]uuid.UUID(nil), r.Student.GroupIDs...)
	if r.Student.ReminderMin != nil {
		min := *r.Student.ReminderMin
		clone.Student.ReminderMin = &min
	}
	return &clone
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reminders[reminder.ID] = cloneReminder(reminder)
	return nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reminder, ok := r.reminders[id]
	if !ok {
		return nil, nil
	}
	return cloneReminder(reminder), nil
}

func (r *ReminderRepository) GetAll(ctx context.Context) ([]*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Reminder, 0, len(r.reminders))
	for _, reminder := range r.reminders {
		result = append(result, cloneReminder(reminder))
	}
	return result, nil
}

func (r *ReminderRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Reminder
	for _, reminder := range r.reminders {
		if reminder.MeetingID == meetingID {
			result = append(result, cloneReminder(reminder))
		}
	}
	return result, nil
}

func (r *ReminderRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Reminder
	for _, reminder := range r.reminders {
		if reminder.Student.ID == studentID {
			result = append(result, cloneReminder(reminder))
		}
	}
	return result, nil
}

func (r *ReminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reminders[reminder.ID]; !ok {
		return ErrNotFound
	}
	r.reminders[reminder.ID] = cloneReminder(reminder)
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reminders[id]; !ok {
		return ErrNotFound
	}
	delete(r.reminders, id)
	return nil
}
