package handlers

import (
	"github.com/zoeyai1221/studybuddy_bot/internal/controller/state"
	"github.com/zoeyai1221/studybuddy_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	studentService  *service.StudentService
	groupService    *service.GroupService
	meetingService  *service.MeetingService
	reminderService *service.ReminderService
	bookingService  *service.BookingService
	stateManager    *state.Manager
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	studentService *service.StudentService,
	groupService *service.GroupService,
	meetingService *service.MeetingService,
	reminderService *service.ReminderService,
	bookingService *service.BookingService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		studentService:  studentService,
		groupService:    groupService,
		meetingService:  meetingService,
		reminderService: reminderService,
		bookingService:  bookingService,
		stateManager:    stateManager,
		logger:          logger,
	}
}
