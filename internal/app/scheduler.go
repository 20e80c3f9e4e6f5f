package app

import (
	"context"
	"time"

	"github.com/zoeyai1221/studybuddy_bot/internal/service"
	"go.uber.org/zap"
)

// Scheduler управляет фоновыми задачами: поллер истёкших встреч и поллер
// напоминаний. Задачи независимы, каждая крутится в своей горутине с
// собственным тикером и не разделяет с другой ничего кроме хранилищ
type Scheduler struct {
	meetingService  *service.MeetingService
	reminderService *service.ReminderService
	interval        time.Duration
	logger          *zap.Logger
	stopChan        chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(
	meetingService *service.MeetingService,
	reminderService *service.ReminderService,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		meetingService:  meetingService,
		reminderService: reminderService,
		interval:        interval,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runPeriodicTask(ctx, "meeting expiry", s.expireMeetingsTick)
	go s.runPeriodicTask(ctx, "reminder delivery", s.processRemindersTick)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runPeriodicTask крутит задачу с фиксированным интервалом. Первый запуск
// сразу при старте. Ошибка или паника одного тика логируется и не
// останавливает расписание
func (s *Scheduler) runPeriodicTask(ctx context.Context, name string, tick func(ctx context.Context, now time.Time) error) {
	s.safeTick(ctx, name, tick)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.safeTick(ctx, name, tick)
		case <-s.stopChan:
			s.logger.Info("Periodic task stopped", zap.String("task", name))
			return
		case <-ctx.Done():
			s.logger.Info("Periodic task cancelled", zap.String("task", name))
			return
		}
	}
}

// safeTick выполняет один тик задачи, перехватывая панику и ошибку
func (s *Scheduler) safeTick(ctx context.Context, name string, tick func(ctx context.Context, now time.Time) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Periodic task panicked",
				zap.String("task", name),
				zap.Any("panic", r),
			)
		}
	}()

	if err := tick(ctx, time.Now()); err != nil {
		s.logger.Error("Periodic task failed",
			zap.String("task", name),
			zap.Error(err),
		)
	}
}

// expireMeetingsTick отменяет встречи чья серия полностью закончилась
func (s *Scheduler) expireMeetingsTick(ctx context.Context, now time.Time) error {
	return s.meetingService.CancelExpiredMeetings(ctx, now)
}

// processRemindersTick отправляет все напоминания чьё время пришло
func (s *Scheduler) processRemindersTick(ctx context.Context, now time.Time) error {
	return s.reminderService.ProcessDueReminders(ctx, now)
}
