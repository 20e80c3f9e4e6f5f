package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/zoeyai1221/studybuddy_bot/internal/controller/state"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	from := update.Message.From
	displayName := strings.TrimSpace(from.FirstName + " " + from.LastName)

	student, err := h.studentService.Register(ctx, from.ID, displayName)
	if err != nil {
		h.logger.Error("Failed to register student", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, "Registration failed, please try again later.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"I help study groups plan meetings, book rooms and stay on schedule.\n\n"+
			"Groups:\n"+
			"/groups - Browse study groups\n"+
			"/creategroup - Create a study group\n"+
			"/mygroups - Groups you are in\n\n"+
			"Meetings:\n"+
			"/newmeeting - Schedule a meeting\n"+
			"/meetings - Browse your meetings\n"+
			"/schedule - Weekly schedule picture\n\n"+
			"/remindme - Set up meeting reminders\n"+
			"/help - Full command reference",
		student.DisplayName,
	)

	h.reply(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Command reference:\n\n" +
		"Groups:\n" +
		"/groups - Browse all study groups and join one\n" +
		"/creategroup Name | Description - Create a group\n" +
		"/mygroups - Groups you are in, with leave buttons\n" +
		"/disband - Disband a group you lead\n\n" +
		"Meetings:\n" +
		"/newmeeting - Schedule a meeting step by step\n" +
		"/meetings - Browse your meetings one by one,\n" +
		"  accept or decline, cancel your own\n" +
		"/schedule - Your week as a picture\n\n" +
		"Reminders:\n" +
		"/remindme - Choose how long before a meeting\n" +
		"  you want to be reminded\n\n" +
		"/cancel - Abort the current dialog"

	h.reply(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID

	if h.stateManager.GetDraft(telegramID) == nil {
		h.reply(ctx, b, update.Message.Chat.ID, "Nothing to cancel.")
		return
	}

	h.stateManager.AbortDraft(telegramID)
	h.reply(ctx, b, update.Message.Chat.ID, "✅ Dialog canceled. Use /help to see available commands.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от
// шага активного черновика. Сообщения вне диалога игнорируются
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются своими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	step, ok := h.stateManager.DraftStep(telegramID)
	if !ok {
		return
	}

	// Шаг перепроверяется внутри UpdateDraft каждого обработчика:
	// к моменту обработки параллельное сообщение могло сдвинуть диалог
	switch step {
	case state.StepTopic:
		h.handleTopicStep(ctx, b, update)
	case state.StepStart:
		h.handleStartTimeStep(ctx, b, update)
	case state.StepDuration:
		h.handleDurationStep(ctx, b, update)
	case state.StepLink:
		h.handleLinkStep(ctx, b, update)
	default:
		// Остальные шаги проходятся через inline кнопки
		h.reply(ctx, b, update.Message.Chat.ID, "Please use the buttons above, or /cancel to abort.")
	}
}
