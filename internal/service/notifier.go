package service

import (
	"context"

	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

// Notifier доставляет сообщения студентам. Доставка best-effort:
// результат не влияет на корректность работы движка напоминаний
type Notifier interface {
	Deliver(ctx context.Context, student model.Student, message string) error
}
