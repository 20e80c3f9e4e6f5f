package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
	"go.uber.org/zap"
)

// MeetingService управляет жизненным циклом встреч: создание с раскладкой
// статусов участников, генерация повторяющихся слотов, смена статусов,
// каскадная отмена
type MeetingService struct {
	meetingRepo repository.MeetingRepository
	studentRepo repository.StudentRepository
	reminders   *ReminderService
	bookings    *BookingService
	logger      *zap.Logger
	now         func() time.Time
}

func NewMeetingService(
	meetingRepo repository.MeetingRepository,
	studentRepo repository.StudentRepository,
	reminders *ReminderService,
	bookings *BookingService,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		meetingRepo: meetingRepo,
		studentRepo: studentRepo,
		reminders:   reminders,
		bookings:    bookings,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateMeeting материализует встречу: всем участникам группы ставится статус
// TENTATIVE, организатору ACCEPT, встреча сохраняется, и для каждого участника
// с заданным предпочтением создаётся напоминание по ближайшему слоту
func (s *MeetingService) CreateMeeting(ctx context.Context, meeting *model.Meeting) error {
	if len(meeting.Occurrences) == 0 {
		return ErrNoOccurrences
	}
	for _, slot := range meeting.Occurrences {
		if !slot.IsValid() {
			return ErrInvalidTimeSlot
		}
	}

	members, err := s.studentRepo.GetByGroupID(ctx, meeting.StudyGroupID)
	if err != nil {
		return fmt.Errorf("get group members: %w", err)
	}

	meeting.Participants = make(map[uuid.UUID]model.ParticipantStatus, len(members)+1)
	for _, member := range members {
		meeting.Participants[member.ID] = model.StatusTentative
	}
	// Организатор получает ACCEPT даже если его нет в составе группы
	meeting.Participants[meeting.OrganizerID] = model.StatusAccept

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}

	// Напоминания создаются best-effort: сбой по одному участнику
	// не откатывает создание встречи
	for _, member := range members {
		if !member.HasReminderPreference() {
			continue
		}
		if _, err := s.reminders.CreateReminder(ctx, meeting.ID, *member.ReminderMin, member); err != nil {
			s.logger.Warn("Failed to create reminder for meeting participant",
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("student_id", member.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Meeting created",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("topic", meeting.Topic),
		zap.String("kind", string(meeting.Kind)),
		zap.String("frequency", string(meeting.Frequency)),
		zap.Int("occurrences", len(meeting.Occurrences)),
	)

	return nil
}

// GenerateOccurrences разворачивает серию слотов начиная с первого вхождения.
// Для разовой встречи возвращается один слот, для периодических слоты
// добавляются с шагом 7/14/28 дней пока начало кандидата раньше now + 1 год.
// Ограниченная развёртка вместо пересчёта правила при каждом чтении
func (s *MeetingService) GenerateOccurrences(firstStart, firstEnd time.Time, frequency model.Frequency) []model.TimeSlot {
	if frequency == model.FrequencyOnetime || frequency.IntervalDays() == 0 {
		return []model.TimeSlot{{
			Day:   firstStart.Weekday().String(),
			Start: firstStart,
			End:   firstEnd,
		}}
	}

	horizon := s.now().AddDate(1, 0, 0)
	step := frequency.IntervalDays()

	var slots []model.TimeSlot
	currentStart := firstStart
	currentEnd := firstEnd
	for currentStart.Before(horizon) {
		slots = append(slots, model.TimeSlot{
			Day:   currentStart.Weekday().String(),
			Start: currentStart,
			End:   currentEnd,
		})
		currentStart = currentStart.AddDate(0, 0, step)
		currentEnd = currentEnd.AddDate(0, 0, step)
	}

	return slots
}

// GetByID получает встречу по ID, nil если не найдена
func (s *MeetingService) GetByID(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	return s.meetingRepo.GetByID(ctx, id)
}

// GetForStudent получает все встречи где студент организатор или участник
func (s *MeetingService) GetForStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Meeting, error) {
	return s.meetingRepo.GetByParticipant(ctx, studentID)
}

// GetForStudyGroup получает все встречи учебной группы
func (s *MeetingService) GetForStudyGroup(ctx context.Context, groupID uuid.UUID) ([]*model.Meeting, error) {
	return s.meetingRepo.GetByStudyGroupID(ctx, groupID)
}

// UpdateParticipantStatus меняет статус участника встречи
func (s *MeetingService) UpdateParticipantStatus(ctx context.Context, meetingID, studentID uuid.UUID, status model.ParticipantStatus) error {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("get meeting: %w", err)
	}
	if meeting == nil {
		return ErrNotFound
	}

	if _, ok := meeting.Participants[studentID]; !ok {
		return ErrNotAParticipant
	}

	meeting.Participants[studentID] = status
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}

	s.logger.Info("Participant status updated",
		zap.String("meeting_id", meetingID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("status", string(status)),
	)

	return nil
}

// AddParticipantOnJoin добавляет нового участника группы в существующую
// встречу со статусом TENTATIVE и создаёт ему напоминание если задано
// предпочтение
func (s *MeetingService) AddParticipantOnJoin(ctx context.Context, student *model.Student, meeting *model.Meeting) error {
	meeting.Participants[student.ID] = model.StatusTentative
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}

	if student.HasReminderPreference() {
		if _, err := s.reminders.CreateReminder(ctx, meeting.ID, *student.ReminderMin, student); err != nil {
			s.logger.Warn("Failed to create reminder for joined participant",
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("student_id", student.ID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

// RemoveParticipantOnLeave убирает участника из встречи. Если уходит
// организатор, встреча отменяется целиком с каскадом
func (s *MeetingService) RemoveParticipantOnLeave(ctx context.Context, student *model.Student, meeting *model.Meeting) error {
	if meeting.OrganizerID == student.ID {
		return s.CancelMeeting(ctx, meeting.ID)
	}

	delete(meeting.Participants, student.ID)
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}

	return nil
}

// SkipNextOccurrence отменяет только ближайшее вхождение серии: снимает
// бронирование комнаты если оно было, удаляет напоминания привязанные
// к этому слоту (с перегенерацией на следующий слот) и убирает слот из
// серии. Если слот был последним, встреча отменяется целиком
func (s *MeetingService) SkipNextOccurrence(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("get meeting: %w", err)
	}
	if meeting == nil {
		return ErrNotFound
	}

	slot, ok := meeting.NextOccurrence()
	if !ok {
		return ErrNoOccurrences
	}

	// Бронь комнаты держит именно ближайший слот, поэтому снимается
	// до изменения серии
	if meeting.Kind == model.MeetingInPerson && meeting.BookingID != nil {
		booking, err := s.bookings.GetForMeeting(ctx, meetingID)
		if err != nil {
			s.logger.Warn("Failed to look up booking for skipped occurrence",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		} else if booking != nil {
			if err := s.bookings.CancelBooking(ctx, booking); err != nil {
				s.logger.Warn("Failed to cancel booking for skipped occurrence",
					zap.String("meeting_id", meetingID.String()),
					zap.Error(err),
				)
			} else {
				// CancelBooking отвязал бронь в хранилище, локальная
				// копия не должна вернуть её при сохранении ниже
				meeting.BookingID = nil
			}
		}
	}

	if err := s.reminders.DeleteForOccurrence(ctx, meeting, slot); err != nil {
		s.logger.Warn("Failed to delete reminders for skipped occurrence",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}

	meeting.Occurrences = meeting.Occurrences[1:]
	if len(meeting.Occurrences) == 0 {
		return s.CancelMeeting(ctx, meetingID)
	}

	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}

	s.logger.Info("Next occurrence skipped",
		zap.String("meeting_id", meetingID.String()),
		zap.Time("skipped_start", slot.Start),
		zap.Int("occurrences_left", len(meeting.Occurrences)),
	)

	return nil
}

// CancelMeeting отменяет встречу с каскадом: сначала удаляются напоминания,
// затем снимается бронирование комнаты (для очных встреч), затем удаляется
// сама встреча. Каскад продолжается best-effort даже если один из шагов
// обнаружил рассогласование. Отмена уже отсутствующей встречи не ошибка
func (s *MeetingService) CancelMeeting(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("get meeting: %w", err)
	}
	if meeting == nil {
		return nil
	}

	if err := s.reminders.DeleteForMeetingSeries(ctx, meetingID); err != nil {
		s.logger.Warn("Failed to delete reminders for canceled meeting",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}

	if meeting.Kind == model.MeetingInPerson {
		booking, err := s.bookings.GetForMeeting(ctx, meetingID)
		if err != nil {
			s.logger.Warn("Failed to look up booking for canceled meeting",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		} else if booking != nil {
			if err := s.bookings.CancelBooking(ctx, booking); err != nil {
				s.logger.Warn("Failed to cancel booking for canceled meeting",
					zap.String("meeting_id", meetingID.String()),
					zap.String("booking_id", booking.ID.String()),
					zap.Error(err),
				)
			}
		}
	}

	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}

	s.logger.Info("Meeting canceled", zap.String("meeting_id", meetingID.String()))
	return nil
}

// CancelExpiredMeetings отменяет встречи чья серия полностью закончилась
// к моменту now. Вызывается поллером на каждом тике. Встречи без слотов
// пропускаются: по ним нельзя определить завершение
func (s *MeetingService) CancelExpiredMeetings(ctx context.Context, now time.Time) error {
	meetings, err := s.meetingRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("get all meetings: %w", err)
	}

	for _, meeting := range meetings {
		if !meeting.IsOver(now) {
			continue
		}
		s.logger.Info("Meeting series is over, canceling",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("topic", meeting.Topic),
		)
		if err := s.CancelMeeting(ctx, meeting.ID); err != nil {
			s.logger.Error("Failed to cancel expired meeting",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}
