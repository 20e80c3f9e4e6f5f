package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
	"go.uber.org/zap"
)

// StudentService управляет профилями студентов
type StudentService struct {
	studentRepo repository.StudentRepository
	logger      *zap.Logger
}

func NewStudentService(studentRepo repository.StudentRepository, logger *zap.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// Register регистрирует или обновляет студента по Telegram ID
func (s *StudentService) Register(ctx context.Context, telegramID int64, displayName string) (*model.Student, error) {
	existing, err := s.studentRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing student: %w", err)
	}

	if existing != nil {
		if existing.DisplayName != displayName && displayName != "" {
			existing.DisplayName = displayName
			if err := s.studentRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("update student: %w", err)
			}
		}
		return existing, nil
	}

	student := &model.Student{
		ID:          uuid.New(),
		DisplayName: displayName,
		TelegramID:  telegramID,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info("New student registered",
		zap.String("student_id", student.ID.String()),
		zap.Int64("telegram_id", telegramID),
	)

	return student, nil
}

// GetByTelegramID получает студента по Telegram ID, nil если не найден
func (s *StudentService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error) {
	return s.studentRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает студента по ID, nil если не найден
func (s *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// SetEmail сохраняет адрес почты студента
func (s *StudentService) SetEmail(ctx context.Context, student *model.Student, email string) error {
	student.Email = email
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}
