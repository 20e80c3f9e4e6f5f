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

// ReminderService управляет напоминаниями: создание, срабатывание,
// перегенерация для следующего слота серии, каскадные удаления
type ReminderService struct {
	reminderRepo repository.ReminderRepository
	meetingRepo  repository.MeetingRepository
	groupRepo    repository.StudyGroupRepository
	studentRepo  repository.StudentRepository
	notifier     Notifier
	logger       *zap.Logger
	now          func() time.Time
}

func NewReminderService(
	reminderRepo repository.ReminderRepository,
	meetingRepo repository.MeetingRepository,
	groupRepo repository.StudyGroupRepository,
	studentRepo repository.StudentRepository,
	notifier Notifier,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		meetingRepo:  meetingRepo,
		groupRepo:    groupRepo,
		studentRepo:  studentRepo,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateReminder создаёт напоминание по ближайшему слоту встречи.
// Время срабатывания: начало слота минус offsetMinutes, в UTC
func (s *ReminderService) CreateReminder(ctx context.Context, meetingID uuid.UUID, offsetMinutes int, student *model.Student) (*model.Reminder, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if meeting == nil {
		return nil, ErrNotFound
	}

	next, ok := meeting.NextOccurrence()
	if !ok {
		return nil, ErrNoOccurrences
	}

	reminder := &model.Reminder{
		ID:            uuid.New(),
		MeetingID:     meetingID,
		Student:       *student,
		OffsetMinutes: offsetMinutes,
		FiresAt:       next.Start.Add(-time.Duration(offsetMinutes) * time.Minute).UTC(),
		Message:       s.formatMessage(ctx, meeting, offsetMinutes),
	}

	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}

	s.logger.Info("Reminder created",
		zap.String("reminder_id", reminder.ID.String()),
		zap.String("meeting_id", meetingID.String()),
		zap.String("student_id", student.ID.String()),
		zap.Time("fires_at", reminder.FiresAt),
	)

	return reminder, nil
}

// formatMessage собирает текст напоминания: название группы, тема встречи
// и человекочитаемый интервал вида "1 hour 30 minutes"
func (s *ReminderService) formatMessage(ctx context.Context, meeting *model.Meeting, offsetMinutes int) string {
	groupName := "your study group"
	group, err := s.groupRepo.GetByID(ctx, meeting.StudyGroupID)
	if err != nil {
		s.logger.Warn("Failed to resolve study group for reminder message",
			zap.String("study_group_id", meeting.StudyGroupID.String()),
			zap.Error(err),
		)
	} else if group != nil {
		groupName = group.Name
	}

	return fmt.Sprintf(
		"Hey! You have a meeting coming up in %s for the study group %q on the topic %q.",
		FormatOffset(offsetMinutes), groupName, meeting.Topic,
	)
}

// FormatOffset форматирует интервал в минутах: "45 minutes", "2 hours", "1 hour 30 minutes"
func FormatOffset(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	if hours == 0 {
		return plural(mins, "minute")
	}
	if mins == 0 {
		return plural(hours, "hour")
	}
	return plural(hours, "hour") + " " + plural(mins, "minute")
}

// ProcessDueReminders обрабатывает все напоминания чьё время пришло:
// удаляет напоминание, асинхронно доставляет сообщение (удаление не ждёт
// подтверждения доставки), и для периодических серий создаёт напоминание
// на следующий слот если он существует. Пропавшая встреча считается уже
// обработанной: её напоминание просто удаляется
func (s *ReminderService) ProcessDueReminders(ctx context.Context, now time.Time) error {
	reminders, err := s.reminderRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("get all reminders: %w", err)
	}

	for _, reminder := range reminders {
		if !reminder.IsDue(now) {
			continue
		}
		s.fireReminder(ctx, reminder)
	}

	return nil
}

// fireReminder отправляет одно напоминание и перегенерирует следующее
func (s *ReminderService) fireReminder(ctx context.Context, reminder *model.Reminder) {
	meeting, err := s.meetingRepo.GetByID(ctx, reminder.MeetingID)
	if err != nil {
		s.logger.Error("Failed to get meeting for due reminder",
			zap.String("reminder_id", reminder.ID.String()),
			zap.String("meeting_id", reminder.MeetingID.String()),
			zap.Error(err),
		)
		return
	}

	if err := s.deleteReminder(ctx, reminder.ID); err != nil {
		s.logger.Error("Failed to delete fired reminder",
			zap.String("reminder_id", reminder.ID.String()),
			zap.Error(err),
		)
		return
	}

	if meeting == nil {
		// Встреча уже отменена, напоминание удалено и доставлять нечего
		return
	}

	s.deliver(reminder)

	if meeting.Frequency != model.FrequencyOnetime {
		s.createNextReminder(ctx, reminder, meeting)
	}
}

// deliver отправляет сообщение студенту fire-and-forget: сбой доставки
// логируется и не повторяется, напоминание к этому моменту уже удалено
func (s *ReminderService) deliver(reminder *model.Reminder) {
	student := reminder.Student
	message := reminder.Message

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.notifier.Deliver(ctx, student, message); err != nil {
			s.logger.Error("Failed to deliver reminder",
				zap.String("student_id", student.ID.String()),
				zap.Error(err),
			)
		}
	}()
}

// createNextReminder создаёт напоминание на следующий слот серии с тем же
// смещением и сообщением. Если серия исчерпана (следующего слота нет),
// напоминание не создаётся
func (s *ReminderService) createNextReminder(ctx context.Context, fired *model.Reminder, meeting *model.Meeting) {
	if len(meeting.Occurrences) < 2 {
		s.logger.Info("No next occurrence, reminder series exhausted",
			zap.String("meeting_id", meeting.ID.String()),
		)
		return
	}

	next := meeting.Occurrences[1]
	reminder := &model.Reminder{
		ID:            uuid.New(),
		MeetingID:     fired.MeetingID,
		Student:       fired.Student,
		OffsetMinutes: fired.OffsetMinutes,
		FiresAt:       next.Start.Add(-time.Duration(fired.OffsetMinutes) * time.Minute).UTC(),
		Message:       fired.Message, // текст одинаков для всех вхождений серии
	}

	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		s.logger.Error("Failed to create next reminder",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Next reminder created",
		zap.String("reminder_id", reminder.ID.String()),
		zap.String("meeting_id", meeting.ID.String()),
		zap.Time("fires_at", reminder.FiresAt),
	)
}

// deleteReminder удаляет напоминание, отсутствие записи не считается ошибкой
func (s *ReminderService) deleteReminder(ctx context.Context, id uuid.UUID) error {
	existing, err := s.reminderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return s.reminderRepo.Delete(ctx, id)
}

// DeleteForMeetingSeries удаляет все напоминания встречи, используется
// при полной отмене серии
func (s *ReminderService) DeleteForMeetingSeries(ctx context.Context, meetingID uuid.UUID) error {
	reminders, err := s.reminderRepo.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("get reminders by meeting: %w", err)
	}

	for _, reminder := range reminders {
		if err := s.deleteReminder(ctx, reminder.ID); err != nil {
			return fmt.Errorf("delete reminder: %w", err)
		}
	}

	if len(reminders) > 0 {
		s.logger.Info("Reminders deleted for meeting series",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("count", len(reminders)),
		)
	}

	return nil
}

// DeleteForOccurrence удаляет напоминания привязанные к конкретному слоту
// серии (совпадение по fires_at = начало слота минус смещение). Если слот
// был ближайшим, сразу создаётся напоминание на следующий слот, чтобы отказ
// от одного вхождения не терял напоминания по остальной серии
func (s *ReminderService) DeleteForOccurrence(ctx context.Context, meeting *model.Meeting, slot model.TimeSlot) error {
	reminders, err := s.reminderRepo.GetByMeetingID(ctx, meeting.ID)
	if err != nil {
		return fmt.Errorf("get reminders by meeting: %w", err)
	}

	isFirst := len(meeting.Occurrences) > 0 && meeting.Occurrences[0].Equal(slot)

	for _, reminder := range reminders {
		firesAt := slot.Start.Add(-time.Duration(reminder.OffsetMinutes) * time.Minute).UTC()
		if !reminder.FiresAt.Equal(firesAt) {
			continue
		}

		if err := s.deleteReminder(ctx, reminder.ID); err != nil {
			return fmt.Errorf("delete reminder: %w", err)
		}

		if isFirst {
			s.createNextReminder(ctx, reminder, meeting)
		}
	}

	return nil
}

// DeleteForStudentLeavingGroup удаляет все напоминания студента по встречам
// указанной учебной группы
func (s *ReminderService) DeleteForStudentLeavingGroup(ctx context.Context, studentID, groupID uuid.UUID) error {
	reminders, err := s.reminderRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("get reminders by student: %w", err)
	}

	for _, reminder := range reminders {
		meeting, err := s.meetingRepo.GetByID(ctx, reminder.MeetingID)
		if err != nil {
			s.logger.Warn("Failed to resolve meeting for reminder",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if meeting == nil || meeting.StudyGroupID != groupID {
			continue
		}
		if err := s.deleteReminder(ctx, reminder.ID); err != nil {
			return fmt.Errorf("delete reminder: %w", err)
		}
	}

	return nil
}

// SetReminderPreference сохраняет предпочтение студента, обновляет время
// срабатывания его существующих напоминаний и досоздаёт напоминания для
// встреч где их ещё нет. Пропускаются встречи без слотов, пары у которых
// напоминание уже есть, и напоминания чьё время уже прошло
func (s *ReminderService) SetReminderPreference(ctx context.Context, student *model.Student, offsetMinutes int) error {
	student.ReminderMin = &offsetMinutes
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	existing, err := s.reminderRepo.GetByStudentID(ctx, student.ID)
	if err != nil {
		return fmt.Errorf("get reminders by student: %w", err)
	}

	covered := make(map[uuid.UUID]bool, len(existing))
	for _, reminder := range existing {
		covered[reminder.MeetingID] = true

		meeting, err := s.meetingRepo.GetByID(ctx, reminder.MeetingID)
		if err != nil || meeting == nil {
			continue
		}
		next, ok := meeting.NextOccurrence()
		if !ok {
			continue
		}

		reminder.OffsetMinutes = offsetMinutes
		reminder.FiresAt = next.Start.Add(-time.Duration(offsetMinutes) * time.Minute).UTC()
		reminder.Message = s.formatMessage(ctx, meeting, offsetMinutes)
		if err := s.reminderRepo.Update(ctx, reminder); err != nil {
			s.logger.Warn("Failed to update existing reminder",
				zap.String("reminder_id", reminder.ID.String()),
				zap.Error(err),
			)
		}
	}

	meetings, err := s.meetingRepo.GetByParticipant(ctx, student.ID)
	if err != nil {
		return fmt.Errorf("get meetings for student: %w", err)
	}

	for _, meeting := range meetings {
		if covered[meeting.ID] {
			continue
		}
		next, ok := meeting.NextOccurrence()
		if !ok {
			s.logger.Info("Meeting has no occurrences, skipping reminder backfill",
				zap.String("meeting_id", meeting.ID.String()),
			)
			continue
		}
		firesAt := next.Start.Add(-time.Duration(offsetMinutes) * time.Minute)
		if firesAt.Before(s.now()) {
			s.logger.Info("Reminder time already passed, skipping backfill",
				zap.String("meeting_id", meeting.ID.String()),
			)
			continue
		}

		if _, err := s.CreateReminder(ctx, meeting.ID, offsetMinutes, student); err != nil {
			s.logger.Warn("Failed to backfill reminder",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}
