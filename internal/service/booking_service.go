package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
	"go.uber.org/zap"
)

// BookingService управляет бронированием комнат для очных встреч
// и отвечает на запросы о доступности комнат
type BookingService struct {
	roomRepo    repository.RoomRepository
	bookingRepo repository.BookingRepository
	meetingRepo repository.MeetingRepository
	logger      *zap.Logger
}

func NewBookingService(
	roomRepo repository.RoomRepository,
	bookingRepo repository.BookingRepository,
	meetingRepo repository.MeetingRepository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		meetingRepo: meetingRepo,
		logger:      logger,
	}
}

// IsRoomAvailable проверяет свободна ли комната в указанном слоте.
// Интервалы полуоткрытые: слот заканчивающийся ровно в начале другого
// не считается пересечением, слоты в разные дни не конфликтуют
func (s *BookingService) IsRoomAvailable(room *model.Room, slot model.TimeSlot) bool {
	for _, booked := range room.BookedSlots {
		if booked.Overlaps(slot) {
			return false
		}
	}
	return true
}

// GetAvailableRooms возвращает все комнаты свободные в указанном слоте
func (s *BookingService) GetAvailableRooms(ctx context.Context, slot model.TimeSlot) ([]*model.Room, error) {
	rooms, err := s.roomRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all rooms: %w", err)
	}

	var available []*model.Room
	for _, room := range rooms {
		if s.IsRoomAvailable(room, slot) {
			available = append(available, room)
		}
	}
	return available, nil
}

// GetRoomByID получает комнату по ID, nil если не найдена
func (s *BookingService) GetRoomByID(ctx context.Context, roomID uuid.UUID) (*model.Room, error) {
	return s.roomRepo.GetByID(ctx, roomID)
}

// GetForMeeting возвращает бронирование очной встречи, nil если его нет
func (s *BookingService) GetForMeeting(ctx context.Context, meetingID uuid.UUID) (*model.Booking, error) {
	return s.bookingRepo.GetByMeetingID(ctx, meetingID)
}

// CreateBooking бронирует комнату под ближайший слот очной встречи:
// создаёт подтверждённое бронирование, привязывает его к встрече и
// добавляет слот в занятые слоты комнаты
func (s *BookingService) CreateBooking(ctx context.Context, roomID uuid.UUID, meeting *model.Meeting, student *model.Student) (*model.Booking, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	slot, ok := meeting.NextOccurrence()
	if !ok {
		return nil, ErrNoOccurrences
	}

	// Проверка пересечений и запись слота выполняются атомарно на стороне
	// хранилища: между показом списка свободных комнат и выбором пользователя
	// слот могли занять, и две параллельные брони не должны пройти обе
	if err := s.roomRepo.ReserveSlot(ctx, roomID, slot); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrRoomUnavailable
		}
		return nil, fmt.Errorf("reserve room slot: %w", err)
	}

	booking := &model.Booking{
		ID:        uuid.New(),
		RoomID:    roomID,
		MeetingID: meeting.ID,
		StudentID: student.ID,
		Confirmed: true,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.rollbackSlot(ctx, roomID, slot)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	meeting.BookingID = &booking.ID
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		s.rollbackSlot(ctx, roomID, slot)
		return nil, fmt.Errorf("attach booking to meeting: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_id", roomID.String()),
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("student_id", student.ID.String()),
	)

	return booking, nil
}

// rollbackSlot освобождает слот при откате недосозданного бронирования
func (s *BookingService) rollbackSlot(ctx context.Context, roomID uuid.UUID, slot model.TimeSlot) {
	if _, err := s.roomRepo.ReleaseSlot(ctx, roomID, slot); err != nil {
		s.logger.Warn("Failed to release room slot during rollback",
			zap.String("room_id", roomID.String()),
			zap.Error(err),
		)
	}
}

// CancelBooking снимает бронирование: освобождает слот комнаты, отвязывает
// бронирование от встречи и удаляет запись. Если комната или встреча
// не находятся, возвращается ErrInconsistentState. Отсутствие слота в
// занятых слотах комнаты не ошибка: слот могли убрать вручную раньше
func (s *BookingService) CancelBooking(ctx context.Context, booking *model.Booking) error {
	room, err := s.roomRepo.GetByID(ctx, booking.RoomID)
	if err != nil {
		return fmt.Errorf("get room: %w", err)
	}
	meeting, err := s.meetingRepo.GetByID(ctx, booking.MeetingID)
	if err != nil {
		return fmt.Errorf("get meeting: %w", err)
	}

	if room == nil || meeting == nil {
		return fmt.Errorf("%w: room or meeting not found for booking %s", ErrInconsistentState, booking.ID)
	}

	if slot, ok := meeting.NextOccurrence(); ok {
		removed, err := s.roomRepo.ReleaseSlot(ctx, booking.RoomID, slot)
		if err != nil {
			return fmt.Errorf("release room slot: %w", err)
		}
		if !removed {
			s.logger.Warn("Booked slot not found in room, skipping removal",
				zap.String("room_id", room.ID.String()),
				zap.String("booking_id", booking.ID.String()),
			)
		}
	}

	meeting.BookingID = nil
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return fmt.Errorf("detach booking from meeting: %w", err)
	}

	if err := s.bookingRepo.Delete(ctx, booking.ID); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	s.logger.Info("Booking canceled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("meeting_id", booking.MeetingID.String()),
	)

	return nil
}
