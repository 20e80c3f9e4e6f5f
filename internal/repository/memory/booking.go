package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

// BookingRepository хранит бронирования в памяти
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*model.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[uuid.UUID]*model.Booking),
	}
}

func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *booking
	return &clone, nil
}

func (r *BookingRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, booking := range r.bookings {
		if booking.MeetingID == meetingID {
			clone := *booking
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}
