package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

type StudyGroupRepository struct {
	pool *pgxpool.Pool
}

func NewStudyGroupRepository(pool *pgxpool.Pool) *StudyGroupRepository {
	return &StudyGroupRepository{pool: pool}
}

// Create создаёт новую учебную группу
func (r *StudyGroupRepository) Create(ctx context.Context, group *model.StudyGroup) error {
	query := `
		INSERT INTO study_groups (id, name, description, leader_id, channel_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		group.ID,
		group.Name,
		group.Description,
		group.LeaderID,
		group.ChannelID,
	).Scan(&group.CreatedAt)

	if err != nil {
		return fmt.Errorf("create study group: %w", err)
	}

	return nil
}

// GetByID получает учебную группу по ID
func (r *StudyGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StudyGroup, error) {
	query := `
		SELECT id, name, description, leader_id, channel_id, created_at
		FROM study_groups
		WHERE id = $1
	`

	var group model.StudyGroup
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.LeaderID,
		&group.ChannelID,
		&group.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get study group by id: %w", err)
	}

	return &group, nil
}

// GetAll получает все учебные группы
func (r *StudyGroupRepository) GetAll(ctx context.Context) ([]*model.StudyGroup, error) {
	query := `
		SELECT id, name, description, leader_id, channel_id, created_at
		FROM study_groups
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all study groups: %w", err)
	}
	defer rows.Close()

	var groups []*model.StudyGroup
	for rows.Next() {
		var group model.StudyGroup
		err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Description,
			&group.LeaderID,
			&group.ChannelID,
			&group.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan study group: %w", err)
		}
		groups = append(groups, &group)
	}

	return groups, rows.Err()
}

// Delete удаляет учебную группу
func (r *StudyGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM study_groups WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete study group: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("study group not found")
	}

	return nil
}
