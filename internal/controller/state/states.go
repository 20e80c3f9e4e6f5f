package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

// Step шаг диалога создания встречи
type Step int

const (
	StepNone Step = iota
	StepGroup
	StepTopic
	StepFrequency
	StepStart
	StepDuration
	StepKind
	StepLink
)

// Draft незавершённый черновик встречи, накапливаемый по шагам диалога.
// Черновик живёт только в памяти и истекает по TTL
type Draft struct {
	Step      Step
	Meeting   *model.Meeting
	Start     time.Time // начало первого вхождения, заполняется на StepStart
	CreatedAt time.Time
}

// Cursor позиция постраничного просмотра списка встреч
type Cursor struct {
	IDs []uuid.UUID
	Pos int
}

// Current возвращает ID встречи под курсором, false если список исчерпан
func (c *Cursor) Current() (uuid.UUID, bool) {
	if c == nil || c.Pos < 0 || c.Pos >= len(c.IDs) {
		return uuid.Nil, false
	}
	return c.IDs[c.Pos], true
}

// HasNext сообщает, есть ли следующая встреча после текущей
func (c *Cursor) HasNext() bool {
	return c != nil && c.Pos+1 < len(c.IDs)
}
