package model

import "github.com/google/uuid"

// Student представляет участника учебных групп
type Student struct {
	ID          uuid.UUID   `json:"id"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email"`
	TelegramID  int64       `json:"telegram_id"`
	GroupIDs    []uuid.UUID `json:"group_ids"`           // группы в которых состоит студент
	ReminderMin *int        `json:"reminder_min"`        // предпочтение по напоминаниям в минутах, nil если не задано
	Interests   []string    `json:"interests,omitempty"` // интересы для подбора групп
}

// HasReminderPreference проверяет задано ли у студента ненулевое предпочтение
func (s *Student) HasReminderPreference() bool {
	return s.ReminderMin != nil && *s.ReminderMin > 0
}

// InGroup проверяет состоит ли студент в группе
func (s *Student) InGroup(groupID uuid.UUID) bool {
	for _, id := range s.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// RemoveGroup убирает группу из списка групп студента
func (s *Student) RemoveGroup(groupID uuid.UUID) {
	for i, id := range s.GroupIDs {
		if id == groupID {
			s.GroupIDs = append(s.GroupIDs[:i], s.GroupIDs[i+1:]...)
			return
		}
	}
}
