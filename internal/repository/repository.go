package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

// ErrSlotTaken возвращается из ReserveSlot когда слот пересекается
// с уже занятым слотом комнаты
var ErrSlotTaken = errors.New("slot already taken")

// Интерфейсы хранилищ. Реализации: memory (по умолчанию, для тестов)
// и postgres (когда задан DB_DSN). Методы Get* возвращают nil без ошибки
// если сущность не найдена.

// MeetingRepository хранилище встреч
type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Meeting, error)
	GetAll(ctx context.Context) ([]*model.Meeting, error)
	GetByStudyGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.Meeting, error)
	GetByParticipant(ctx context.Context, studentID uuid.UUID) ([]*model.Meeting, error)
	Update(ctx context.Context, meeting *model.Meeting) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReminderRepository хранилище напоминаний
type ReminderRepository interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
	GetAll(ctx context.Context) ([]*model.Reminder, error)
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*model.Reminder, error)
	GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Reminder, error)
	Update(ctx context.Context, reminder *model.Reminder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoomRepository хранилище комнат. Проверка пересечений и запись слота
// в ReserveSlot выполняются в одной критической секции по комнате
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error)
	GetAll(ctx context.Context) ([]*model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	ReserveSlot(ctx context.Context, id uuid.UUID, slot model.TimeSlot) error
	ReleaseSlot(ctx context.Context, id uuid.UUID, slot model.TimeSlot) (bool, error)
}

// BookingRepository хранилище бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*model.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StudentRepository хранилище студентов
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error)
	GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
}

// StudyGroupRepository хранилище учебных групп
type StudyGroupRepository interface {
	Create(ctx context.Context, group *model.StudyGroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.StudyGroup, error)
	GetAll(ctx context.Context) ([]*model.StudyGroup, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
