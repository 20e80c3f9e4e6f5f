package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"go.uber.org/zap"
)

// HandleGroups показывает все учебные группы с кнопками вступления
func (h *Handlers) HandleGroups(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	student := h.requireStudent(ctx, b, chatID, update.Message.From.ID)
	if student == nil {
		return
	}

	groups, err := h.groupService.ListAll(ctx)
	if err != nil {
		h.logger.Error("Failed to list groups", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not load the group list, please try again later.")
		return
	}
	if len(groups) == 0 {
		h.reply(ctx, b, chatID, "There are no study groups yet. Create the first one with /creategroup.")
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 Study groups:\n\n")

	var rows [][]models.InlineKeyboardButton
	for _, group := range groups {
		members, err := h.groupService.MembersOf(ctx, group.ID)
		if err != nil {
			h.logger.Warn("Failed to count group members", zap.Error(err))
		}

		marker := ""
		if student.InGroup(group.ID) {
			marker = " ✔️ (you are in)"
		}
		fmt.Fprintf(&sb, "• %s (%d members)%s\n", group.Name, len(members), marker)
		if group.Description != "" {
			fmt.Fprintf(&sb, "  %s\n", group.Description)
		}

		if !student.InGroup(group.ID) {
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         "Join " + group.Name,
				CallbackData: cbJoinGroup + group.ID.String(),
			}})
		}
	}

	if len(rows) == 0 {
		h.reply(ctx, b, chatID, sb.String())
		return
	}
	h.replyWithKeyboard(ctx, b, chatID, sb.String(), &models.InlineKeyboardMarkup{InlineKeyboard: rows})
}

// HandleCreateGroup обрабатывает /creategroup Name | Description
func (h *Handlers) HandleCreateGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	student := h.requireStudent(ctx, b, chatID, update.Message.From.ID)
	if student == nil {
		return
	}

	args := commandArgs(update.Message.Text)
	if args == "" {
		h.reply(ctx, b, chatID, "Usage: /creategroup Name | Description\nFor example: /creategroup Algorithms Club | Weekly problem solving")
		return
	}

	name, description := args, ""
	if idx := strings.Index(args, "|"); idx >= 0 {
		name = strings.TrimSpace(args[:idx])
		description = strings.TrimSpace(args[idx+1:])
	}
	if name == "" {
		h.reply(ctx, b, chatID, "The group name cannot be empty.")
		return
	}

	group := &model.StudyGroup{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		LeaderID:    student.ID,
		CreatedAt:   time.Now(),
	}

	if err := h.groupService.CreateGroup(ctx, group); err != nil {
		h.logger.Error("Failed to create group", zap.Error(err))
		h.reply(ctx, b, chatID, "Could not create the group, please try again later.")
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf(
		"✅ Study group %q created, you are the leader.\nOthers can join it via /groups.", group.Name))
}

// HandleMyGroups показывает группы студента с кнопками выхода
func (h *Handlers) HandleMyGroups(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	student := h.requireStudent(ctx, b, chatID, update.Message.From.ID)
	if student == nil {
		return
	}

	if len(student.GroupIDs) == 0 {
		h.reply(ctx, b, chatID, "You are not in any group. Browse /groups to join one.")
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 Your groups:\n\n")

	var rows [][]models.InlineKeyboardButton
	for _, groupID := range student.GroupIDs {
		group, err := h.groupService.GetByID(ctx, groupID)
		if err != nil || group == nil {
			continue
		}

		role := "member"
		if group.LeaderID == student.ID {
			role = "leader"
		}
		fmt.Fprintf(&sb, "• %s (%s)\n", group.Name, role)

		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         "Leave " + group.Name,
			CallbackData: cbLeaveGroup + group.ID.String(),
		}})
	}

	h.replyWithKeyboard(ctx, b, chatID, sb.String(), &models.InlineKeyboardMarkup{InlineKeyboard: rows})
}

// HandleDisband показывает группы где студент лидер с кнопками роспуска
func (h *Handlers) HandleDisband(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	student := h.requireStudent(ctx, b, chatID, update.Message.From.ID)
	if student == nil {
		return
	}

	var rows [][]models.InlineKeyboardButton
	for _, groupID := range student.GroupIDs {
		group, err := h.groupService.GetByID(ctx, groupID)
		if err != nil || group == nil || group.LeaderID != student.ID {
			continue
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         "💥 Disband " + group.Name,
			CallbackData: cbDisbandGroup + group.ID.String(),
		}})
	}

	if len(rows) == 0 {
		h.reply(ctx, b, chatID, "You do not lead any group.")
		return
	}

	h.replyWithKeyboard(ctx, b, chatID,
		"⚠️ Disbanding a group cancels all of its meetings and removes every member. Pick a group:",
		&models.InlineKeyboardMarkup{InlineKeyboard: rows})
}
