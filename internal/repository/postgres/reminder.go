package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

type ReminderRepository struct {
	pool *pgxpool.Pool
}

func NewReminderRepository(pool *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{pool: pool}
}

const reminderColumns = `id, meeting_id, student, offset_minutes, fires_at, message`

// Create создаёт новое напоминание
func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (id, meeting_id, student, offset_minutes, fires_at, message)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	student, err := marshalJSON(reminder.Student)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(
		ctx, query,
		reminder.ID,
		reminder.MeetingID,
		student,
		reminder.OffsetMinutes,
		reminder.FiresAt,
		reminder.Message,
	)
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}

	return nil
}

func (r *ReminderRepository) scanReminder(row pgx.Row) (*model.Reminder, error) {
	var reminder model.Reminder
	var student []byte

	err := row.Scan(
		&reminder.ID,
		&reminder.MeetingID,
		&student,
		&reminder.OffsetMinutes,
		&reminder.FiresAt,
		&reminder.Message,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(student, &reminder.Student); err != nil {
		return nil, err
	}

	return &reminder, nil
}

// GetByID получает напоминание по ID
func (r *ReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	reminder, err := r.scanReminder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get reminder by id: %w", err)
	}

	return reminder, nil
}

func (r *ReminderRepository) queryReminders(ctx context.Context, query string, args ...interface{}) ([]*model.Reminder, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*model.Reminder
	for rows.Next() {
		reminder, err := r.scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

// GetAll получает все напоминания
func (r *ReminderRepository) GetAll(ctx context.Context) ([]*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders ORDER BY fires_at`
	return r.queryReminders(ctx, query)
}

// GetByMeetingID получает все напоминания встречи
func (r *ReminderRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE meeting_id = $1 ORDER BY fires_at`
	return r.queryReminders(ctx, query, meetingID)
}

// GetByStudentID получает все напоминания студента
func (r *ReminderRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE student->>'id' = $1 ORDER BY fires_at`
	return r.queryReminders(ctx, query, studentID.String())
}

// Update обновляет напоминание
func (r *ReminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	query := `
		UPDATE reminders
		SET offset_minutes = $1, fires_at = $2, message = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, reminder.OffsetMinutes, reminder.FiresAt, reminder.Message, reminder.ID)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reminder not found")
	}

	return nil
}

// Delete удаляет напоминание
func (r *ReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reminders WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reminder not found")
	}

	return nil
}
