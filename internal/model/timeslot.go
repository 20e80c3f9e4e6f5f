package model

import (
	"strings"
	"time"
)

// TimeSlot представляет один конкретный интервал встречи (день + начало + конец)
type TimeSlot struct {
	Day   string    `json:"day"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Equal сравнивает слоты структурно (день + начало + конец)
func (ts TimeSlot) Equal(other TimeSlot) bool {
	return strings.EqualFold(ts.Day, other.Day) &&
		ts.Start.Equal(other.Start) &&
		ts.End.Equal(other.End)
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end)
// Слоты в разные дни никогда не пересекаются
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	if !strings.EqualFold(ts.Day, other.Day) {
		return false
	}
	return ts.Start.Before(other.End) && other.Start.Before(ts.End)
}

// IsValid проверяет что начало слота строго раньше конца
func (ts TimeSlot) IsValid() bool {
	return ts.Start.Before(ts.End)
}
