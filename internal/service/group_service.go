package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
	"go.uber.org/zap"
)

// GroupService управляет учебными группами и каскадами членства:
// вступление добавляет студента в существующие встречи группы, выход
// убирает его из встреч и чистит напоминания, роспуск группы отменяет
// все её встречи
type GroupService struct {
	groupRepo   repository.StudyGroupRepository
	studentRepo repository.StudentRepository
	meetings    *MeetingService
	reminders   *ReminderService
	logger      *zap.Logger
}

func NewGroupService(
	groupRepo repository.StudyGroupRepository,
	studentRepo repository.StudentRepository,
	meetings *MeetingService,
	reminders *ReminderService,
	logger *zap.Logger,
) *GroupService {
	return &GroupService{
		groupRepo:   groupRepo,
		studentRepo: studentRepo,
		meetings:    meetings,
		reminders:   reminders,
		logger:      logger,
	}
}

// CreateGroup создаёт учебную группу и записывает лидера в участники
func (s *GroupService) CreateGroup(ctx context.Context, group *model.StudyGroup) error {
	leader, err := s.studentRepo.GetByID(ctx, group.LeaderID)
	if err != nil {
		return fmt.Errorf("get leader: %w", err)
	}
	if leader == nil {
		return ErrNotFound
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return fmt.Errorf("create study group: %w", err)
	}

	leader.GroupIDs = append(leader.GroupIDs, group.ID)
	if err := s.studentRepo.Update(ctx, leader); err != nil {
		return fmt.Errorf("update leader: %w", err)
	}

	s.logger.Info("Study group created",
		zap.String("group_id", group.ID.String()),
		zap.String("name", group.Name),
	)

	return nil
}

// GetByID получает группу по ID, nil если не найдена
func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (*model.StudyGroup, error) {
	return s.groupRepo.GetByID(ctx, id)
}

// ListAll возвращает все учебные группы
func (s *GroupService) ListAll(ctx context.Context) ([]*model.StudyGroup, error) {
	return s.groupRepo.GetAll(ctx)
}

// MembersOf возвращает участников группы
func (s *GroupService) MembersOf(ctx context.Context, groupID uuid.UUID) ([]*model.Student, error) {
	return s.studentRepo.GetByGroupID(ctx, groupID)
}

// LeaderOf возвращает лидера группы
func (s *GroupService) LeaderOf(ctx context.Context, groupID uuid.UUID) (*model.Student, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get study group: %w", err)
	}
	if group == nil {
		return nil, ErrNotFound
	}
	return s.studentRepo.GetByID(ctx, group.LeaderID)
}

// JoinGroup добавляет студента в группу и во все её существующие встречи
// со статусом TENTATIVE
func (s *GroupService) JoinGroup(ctx context.Context, student *model.Student, groupID uuid.UUID) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get study group: %w", err)
	}
	if group == nil {
		return ErrNotFound
	}

	if student.InGroup(groupID) {
		return nil
	}

	student.GroupIDs = append(student.GroupIDs, groupID)
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	meetings, err := s.meetings.GetForStudyGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get group meetings: %w", err)
	}
	for _, meeting := range meetings {
		if err := s.meetings.AddParticipantOnJoin(ctx, student, meeting); err != nil {
			s.logger.Warn("Failed to add joined student to meeting",
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("student_id", student.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Student joined group",
		zap.String("group_id", groupID.String()),
		zap.String("student_id", student.ID.String()),
	)

	return nil
}

// LeaveGroup убирает студента из группы: из каждой встречи группы (встречи
// где он организатор отменяются целиком), удаляет его напоминания по группе
// и саму группу из его списка
func (s *GroupService) LeaveGroup(ctx context.Context, student *model.Student, groupID uuid.UUID) error {
	meetings, err := s.meetings.GetForStudyGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get group meetings: %w", err)
	}

	for _, meeting := range meetings {
		if err := s.meetings.RemoveParticipantOnLeave(ctx, student, meeting); err != nil {
			s.logger.Warn("Failed to remove leaving student from meeting",
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("student_id", student.ID.String()),
				zap.Error(err),
			)
		}
	}

	if err := s.reminders.DeleteForStudentLeavingGroup(ctx, student.ID, groupID); err != nil {
		s.logger.Warn("Failed to delete reminders for leaving student",
			zap.String("group_id", groupID.String()),
			zap.String("student_id", student.ID.String()),
			zap.Error(err),
		)
	}

	student.RemoveGroup(groupID)
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	s.logger.Info("Student left group",
		zap.String("group_id", groupID.String()),
		zap.String("student_id", student.ID.String()),
	)

	return nil
}

// DisbandGroup распускает группу: отменяет все её встречи с каскадом,
// убирает группу из списков всех участников и удаляет запись группы
func (s *GroupService) DisbandGroup(ctx context.Context, groupID uuid.UUID) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get study group: %w", err)
	}
	if group == nil {
		return nil
	}

	meetings, err := s.meetings.GetForStudyGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get group meetings: %w", err)
	}
	for _, meeting := range meetings {
		if err := s.meetings.CancelMeeting(ctx, meeting.ID); err != nil {
			s.logger.Warn("Failed to cancel meeting of disbanded group",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	members, err := s.studentRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get group members: %w", err)
	}
	for _, member := range members {
		member.RemoveGroup(groupID)
		if err := s.studentRepo.Update(ctx, member); err != nil {
			s.logger.Warn("Failed to remove disbanded group from member",
				zap.String("student_id", member.ID.String()),
				zap.Error(err),
			)
		}
	}

	if err := s.groupRepo.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("delete study group: %w", err)
	}

	s.logger.Info("Study group disbanded",
		zap.String("group_id", groupID.String()),
		zap.String("name", group.Name),
		zap.Int("meetings_canceled", len(meetings)),
	)

	return nil
}
