package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

// StudyGroupRepository хранит учебные группы в памяти
type StudyGroupRepository struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]*model.StudyGroup
}

func NewStudyGroupRepository() *StudyGroupRepository {
	return &StudyGroupRepository{
		groups: make(map[uuid.UUID]*model.StudyGroup),
	}
}

func (r *StudyGroupRepository) Create(ctx context.Context, group *model.StudyGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *group
	r.groups[group.ID] = &clone
	return nil
}

func (r *StudyGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StudyGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.groups[id]
	if !ok {
		return nil, nil
	}
	clone := *group
	return &clone, nil
}

func (r *StudyGroupRepository) GetAll(ctx context.Context) ([]*model.StudyGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.StudyGroup, 0, len(r.groups))
	for _, group := range r.groups {
		clone := *group
		result = append(result, &clone)
	}
	return result, nil
}

func (r *StudyGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[id]; !ok {
		return ErrNotFound
	}
	delete(r.groups, id)
	return nil
}
