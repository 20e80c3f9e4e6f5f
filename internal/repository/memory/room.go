package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
)

// RoomRepository хранит комнаты в памяти
type RoomRepository struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]*model.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{
		rooms: make(map[uuid.UUID]*model.Room),
	}
}

func cloneRoom(r *model.Room) *model.Room {
	clone := *r
	clone.BookedSlots = append([]model.TimeSlot(nil), r.BookedSlots...)
	return &clone
}

func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	return cloneRoom(room), nil
}

func (r *RoomRepository) GetAll(ctx context.Context) ([]*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		result = append(result, cloneRoom(room))
	}
	return result, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; !ok {
		return ErrNotFound
	}
	r.rooms[room.ID] = cloneRoom(room)
	return nil
}

// ReserveSlot проверяет пересечения и записывает слот под одной блокировкой,
// параллельные брони одного слота не могут пройти проверку обе
func (r *RoomRepository) ReserveSlot(ctx context.Context, id uuid.UUID, slot model.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return ErrNotFound
	}
	for _, booked := range room.BookedSlots {
		if booked.Overlaps(slot) {
			return repository.ErrSlotTaken
		}
	}
	room.BookedSlots = append(room.BookedSlots, slot)
	return nil
}

// ReleaseSlot убирает слот из занятых, false если слота не было
func (r *RoomRepository) ReleaseSlot(ctx context.Context, id uuid.UUID, slot model.TimeSlot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return false, ErrNotFound
	}
	return room.RemoveSlot(slot), nil
}
