package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

// StudentRepository хранит студентов в памяти
type StudentRepository struct {
	mu       sync.RWMutex
	students map[uuid.UUID]*model.Student
}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		students: make(map[uuid.UUID]*model.Student),
	}
}

func cloneStudent(s *model.Student) *model.Student {
	clone := *s
	clone.GroupIDs = append([]uuid.UUID(nil), s.GroupIDs...)
	clone.Interests = append([]string(nil), s.Interests...)
	if s.ReminderMin != nil {
		min := *s.ReminderMin
		clone.ReminderMin = &min
	}
	return &clone
}

func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.students[student.ID] = cloneStudent(student)
	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	student, ok := r.students[id]
	if !ok {
		return nil, nil
	}
	return cloneStudent(student), nil
}

func (r *StudentRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, student := range r.students {
		if student.TelegramID == telegramID {
			return cloneStudent(student), nil
		}
	}
	return nil, nil
}

func (r *StudentRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Student
	for _, student := range r.students {
		if student.InGroup(groupID) {
			result = append(result, cloneStudent(student))
		}
	}
	return result, nil
}

func (r *StudentRepository) Update(ctx context.Context, student *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[student.ID]; !ok {
		return ErrNotFound
	}
	r.students[student.ID] = cloneStudent(student)
	return nil
}
