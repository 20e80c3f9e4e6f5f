package service

import "errors"

// Ошибки уровня сервисов. Ошибки валидации и not-found возвращаются
// вызывающему синхронно; поллеры трактуют пропавшую сущность как уже
// обработанную и пропускают её
var (
	ErrNotFound          = errors.New("not found")
	ErrNotAParticipant   = errors.New("student is not a participant of this meeting")
	ErrNoOccurrences     = errors.New("meeting has no occurrences")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomUnavailable   = errors.New("room is not available for this time slot")
	ErrInvalidTimeSlot   = errors.New("time slot start must be before end")
	ErrInconsistentState = errors.New("inconsistent state")
)
