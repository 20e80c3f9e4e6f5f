package model

import (
	"time"

	"github.com/google/uuid"
)

// Frequency определяет периодичность серии встреч
type Frequency string

const (
	FrequencyOnetime  Frequency = "ONETIME"
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

// IntervalDays возвращает шаг серии в днях (0 для разовых встреч)
func (f Frequency) IntervalDays() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyBiweekly:
		return 14
	case FrequencyMonthly:
		return 28
	default:
		return 0
	}
}

// ParticipantStatus статус участника встречи
type ParticipantStatus string

const (
	StatusAccept    ParticipantStatus = "ACCEPT"
	StatusDecline   ParticipantStatus = "DECLINE"
	StatusTentative ParticipantStatus = "TENTATIVE"
)

// MeetingKind тип встречи: онлайн или очная
type MeetingKind string

const (
	MeetingOnline   MeetingKind = "online"
	MeetingInPerson MeetingKind = "in_person"
)

// Meeting представляет встречу учебной группы. Варианты (онлайн / очная)
// различаются полем Kind: у онлайн-встречи заполнена ссылка MeetingLink,
// у очной может быть привязано бронирование комнаты BookingID
type Meeting struct {
	ID           uuid.UUID                       `json:"id"`
	Topic        string                          `json:"topic"`
	Frequency    Frequency                       `json:"frequency"`
	Occurrences  []TimeSlot                      `json:"occurrences"` // отсортированы по началу
	StudyGroupID uuid.UUID                       `json:"study_group_id"`
	OrganizerID  uuid.UUID                       `json:"organizer_id"`
	Participants map[uuid.UUID]ParticipantStatus `json:"participants"`
	Kind         MeetingKind                     `json:"kind"`
	MeetingLink  string                          `json:"meeting_link,omitempty"` // только online
	BookingID    *uuid.UUID                      `json:"booking_id,omitempty"`   // только in_person, nil если нет брони
	CreatedAt    time.Time                       `json:"created_at"`
}

// NextOccurrence возвращает ближайший слот серии (occurrences[0])
func (m *Meeting) NextOccurrence() (TimeSlot, bool) {
	if len(m.Occurrences) == 0 {
		return TimeSlot{}, false
	}
	return m.Occurrences[0], true
}

// LastEnd возвращает конец самого позднего слота серии
func (m *Meeting) LastEnd() (time.Time, bool) {
	if len(m.Occurrences) == 0 {
		return time.Time{}, false
	}
	last := m.Occurrences[0].End
	for _, slot := range m.Occurrences[1:] {
		if slot.End.After(last) {
			last = slot.End
		}
	}
	return last, true
}

// IsOver проверяет закончилась ли вся серия к моменту now.
// Встреча без слотов считается не закончившейся
func (m *Meeting) IsOver(now time.Time) bool {
	lastEnd, ok := m.LastEnd()
	if !ok {
		return false
	}
	return now.After(lastEnd)
}
