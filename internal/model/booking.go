package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking связывает комнату с одной очной встречей.
// Для встречи одновременно существует не более одного бронирования
type Booking struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	MeetingID uuid.UUID `json:"meeting_id"`
	StudentID uuid.UUID `json:"student_id"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}
