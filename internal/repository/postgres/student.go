package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, display_name, email, telegram_id, group_ids, reminder_min, interests`

// Create создаёт нового студента
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (id, display_name, email, telegram_id, group_ids, reminder_min, interests)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	groupIDs, err := marshalJSON(student.GroupIDs)
	if err != nil {
		return err
	}
	interests, err := marshalJSON(student.Interests)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(
		ctx, query,
		student.ID,
		student.DisplayName,
		student.Email,
		student.TelegramID,
		groupIDs,
		student.ReminderMin,
		interests,
	)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

func (r *StudentRepository) scanStudent(row pgx.Row) (*model.Student, error) {
	var student model.Student
	var groupIDs, interests []byte

	err := row.Scan(
		&student.ID,
		&student.DisplayName,
		&student.Email,
		&student.TelegramID,
		&groupIDs,
		&student.ReminderMin,
		&interests,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(groupIDs, &student.GroupIDs); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(interests, &student.Interests); err != nil {
		return nil, err
	}

	return &student, nil
}

// GetByID получает студента по ID
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := r.scanStudent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return student, nil
}

// GetByTelegramID получает студента по Telegram ID
func (r *StudentRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE telegram_id = $1`

	student, err := r.scanStudent(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by telegram id: %w", err)
	}

	return student, nil
}

// GetByGroupID получает всех участников учебной группы
func (r *StudentRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE group_ids @> $1
		ORDER BY display_name
	`

	member, err := marshalJSON([]uuid.UUID{groupID})
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, member)
	if err != nil {
		return nil, fmt.Errorf("get students by group: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		student, err := r.scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// Update обновляет студента
func (r *StudentRepository) Update(ctx context.Context, student *model.Student) error {
	query := `
		UPDATE students
		SET display_name = $1, email = $2, telegram_id = $3, group_ids = $4, reminder_min = $5, interests = $6
		WHERE id = $7
	`

	groupIDs, err := marshalJSON(student.GroupIDs)
	if err != nil {
		return err
	}
	interests, err := marshalJSON(student.Interests)
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(
		ctx, query,
		student.DisplayName,
		student.Email,
		student.TelegramID,
		groupIDs,
		student.ReminderMin,
		interests,
		student.ID,
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("student not found")
	}

	return nil
}
