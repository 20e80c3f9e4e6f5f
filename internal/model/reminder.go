package model

import (
	"time"

	"github.com/google/uuid"
)

// Reminder представляет напоминание о ближайшем слоте встречи.
// FiresAt хранится в UTC и равен началу слота минус OffsetMinutes
type Reminder struct {
	ID            uuid.UUID `json:"id"`
	MeetingID     uuid.UUID `json:"meeting_id"`
	Student       Student   `json:"student"` // снимок студента на момент создания
	OffsetMinutes int       `json:"offset_minutes"`
	FiresAt       time.Time `json:"fires_at"`
	Message       string    `json:"message"`
}

// IsDue проверяет пора ли отправлять напоминание
func (r *Reminder) IsDue(now time.Time) bool {
	return !now.Before(r.FiresAt)
}
