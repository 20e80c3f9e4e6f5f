package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/zoeyai1221/studybuddy_bot/internal/app"
	"github.com/zoeyai1221/studybuddy_bot/internal/config"
	"github.com/zoeyai1221/studybuddy_bot/internal/controller"
	"github.com/zoeyai1221/studybuddy_bot/internal/notifier"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository/memory"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository/postgres"
	"github.com/zoeyai1221/studybuddy_bot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting studybuddy bot",
		zap.String("environment", cfg.Environment),
		zap.Bool("in_memory_storage", cfg.UseInMemoryStorage()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		meetingRepo  repository.MeetingRepository
		reminderRepo repository.ReminderRepository
		roomRepo     repository.RoomRepository
		bookingRepo  repository.BookingRepository
		studentRepo  repository.StudentRepository
		groupRepo    repository.StudyGroupRepository
	)

	if cfg.UseInMemoryStorage() {
		logger.Warn("DB_DSN is not set, using in-memory storage, data will not survive restarts")
		meetingRepo = memory.NewMeetingRepository()
		reminderRepo = memory.NewReminderRepository()
		roomRepo = memory.NewRoomRepository()
		bookingRepo = memory.NewBookingRepository()
		studentRepo = memory.NewStudentRepository()
		groupRepo = memory.NewStudyGroupRepository()

		// Без миграций стартовые комнаты заводятся прямо в хранилище,
		// иначе очным встречам нечего бронировать
		if err := app.SeedRooms(ctx, roomRepo); err != nil {
			logger.Fatal("Failed to seed rooms", zap.Error(err))
		}
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()

		meetingRepo = postgres.NewMeetingRepository(pool)
		reminderRepo = postgres.NewReminderRepository(pool)
		roomRepo = postgres.NewRoomRepository(pool)
		bookingRepo = postgres.NewBookingRepository(pool)
		studentRepo = postgres.NewStudentRepository(pool)
		groupRepo = postgres.NewStudyGroupRepository(pool)
	}

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create telegram bot", zap.Error(err))
	}

	telegramNotifier := notifier.NewTelegramNotifier(botInstance, logger)

	studentService := service.NewStudentService(studentRepo, logger)
	bookingService := service.NewBookingService(roomRepo, bookingRepo, meetingRepo, logger)
	reminderService := service.NewReminderService(reminderRepo, meetingRepo, groupRepo, studentRepo, telegramNotifier, logger)
	meetingService := service.NewMeetingService(meetingRepo, studentRepo, reminderService, bookingService, logger)
	groupService := service.NewGroupService(groupRepo, studentRepo, meetingService, reminderService, logger)

	scheduler := app.NewScheduler(meetingService, reminderService, cfg.PollInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	botController := controller.NewBotController(
		botInstance,
		studentService,
		groupService,
		meetingService,
		reminderService,
		bookingService,
		cfg.DraftTTL,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register bot handlers", zap.Error(err))
	}

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down")
}
