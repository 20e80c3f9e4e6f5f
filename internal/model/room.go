package model

import "github.com/google/uuid"

// Room представляет комнату для очных встреч.
// Инвариант: слоты в BookedSlots одной комнаты не пересекаются по времени
type Room struct {
	ID          uuid.UUID  `json:"id"`
	Location    string     `json:"location"`
	Capacity    int        `json:"capacity"`
	BookedSlots []TimeSlot `json:"booked_slots"`
}

// HasSlot проверяет есть ли слот в списке забронированных (структурное равенство)
func (r *Room) HasSlot(slot TimeSlot) bool {
	for _, booked := range r.BookedSlots {
		if booked.Equal(slot) {
			return true
		}
	}
	return false
}

// RemoveSlot убирает слот из списка забронированных, возвращает false если слота не было
func (r *Room) RemoveSlot(slot TimeSlot) bool {
	for i, booked := range r.BookedSlots {
		if booked.Equal(slot) {
			r.BookedSlots = append(r.BookedSlots[:i], r.BookedSlots[i+1:]...)
			return true
		}
	}
	return false
}
