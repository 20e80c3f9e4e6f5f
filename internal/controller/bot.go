package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/zoeyai1221/studybuddy_bot/internal/controller/handlers"
	"github.com/zoeyai1221/studybuddy_bot/internal/controller/state"
	"github.com/zoeyai1221/studybuddy_bot/internal/service"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	studentService *service.StudentService,
	groupService *service.GroupService,
	meetingService *service.MeetingService,
	reminderService *service.ReminderService,
	bookingService *service.BookingService,
	draftTTL time.Duration,
	logger *zap.Logger,
) *BotController {
	// Менеджер черновиков и курсоров живёт только в памяти процесса
	stateManager := state.NewManager(draftTTL)

	cmdHandlers := handlers.NewHandlers(
		studentService,
		groupService,
		meetingService,
		reminderService,
		bookingService,
		stateManager,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Группы
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/groups", bot.MatchTypeExact, c.handlers.HandleGroups)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/creategroup", bot.MatchTypePrefix, c.handlers.HandleCreateGroup)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mygroups", bot.MatchTypeExact, c.handlers.HandleMyGroups)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/disband", bot.MatchTypeExact, c.handlers.HandleDisband)

	// Встречи
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newmeeting", bot.MatchTypeExact, c.handlers.HandleNewMeeting)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/meetings", bot.MatchTypeExact, c.handlers.HandleMeetings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/schedule", bot.MatchTypeExact, c.handlers.HandleSchedule)

	// Напоминания
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/remindme", bot.MatchTypeExact, c.handlers.HandleRemindMe)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Register and see what I can do"},
		{Command: "groups", Description: "👥 Browse study groups"},
		{Command: "creategroup", Description: "➕ Create a study group"},
		{Command: "mygroups", Description: "📋 Groups you are in"},
		{Command: "newmeeting", Description: "📅 Schedule a meeting"},
		{Command: "meetings", Description: "📌 Browse your meetings"},
		{Command: "schedule", Description: "🗓 Weekly schedule picture"},
		{Command: "remindme", Description: "⏰ Set up reminders"},
		{Command: "help", Description: "❓ Command reference"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
