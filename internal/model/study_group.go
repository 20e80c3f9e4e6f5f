package model

import (
	"time"

	"github.com/google/uuid"
)

// StudyGroup представляет учебную группу.
// Список участников не хранится в группе, а выводится из Student.GroupIDs
type StudyGroup struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LeaderID    uuid.UUID `json:"leader_id"`
	ChannelID   string    `json:"channel_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
