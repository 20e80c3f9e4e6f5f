package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

type MeetingRepository struct {
	pool *pgxpool.Pool
}

func NewMeetingRepository(pool *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

const meetingColumns = `id, topic, frequency, kind, meeting_link, booking_id, study_group_id, organizer_id, occurrences, participants, created_at`

// Create создаёт новую встречу
func (r *MeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	query := `
		INSERT INTO meetings (id, topic, frequency, kind, meeting_link, booking_id, study_group_id, organizer_id, occurrences, participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	occurrences, err := marshalJSON(meeting.Occurrences)
	if err != nil {
		return err
	}
	participants, err := marshalJSON(meeting.Participants)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(
		ctx, query,
		meeting.ID,
		meeting.Topic,
		meeting.Frequency,
		meeting.Kind,
		meeting.MeetingLink,
		meeting.BookingID,
		meeting.StudyGroupID,
		meeting.OrganizerID,
		occurrences,
		participants,
	).Scan(&meeting.CreatedAt)

	if err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}

	return nil
}

func (r *MeetingRepository) scanMeeting(row pgx.Row) (*model.Meeting, error) {
	var meeting model.Meeting
	var occurrences, participants []byte

	err := row.Scan(
		&meeting.ID,
		&meeting.Topic,
		&meeting.Frequency,
		&meeting.Kind,
		&meeting.MeetingLink,
		&meeting.BookingID,
		&meeting.StudyGroupID,
		&meeting.OrganizerID,
		&occurrences,
		&participants,
		&meeting.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(occurrences, &meeting.Occurrences); err != nil {
		return nil, err
	}
	meeting.Participants = make(map[uuid.UUID]model.ParticipantStatus)
	if err := unmarshalJSON(participants, &meeting.Participants); err != nil {
		return nil, err
	}

	return &meeting, nil
}

// GetByID получает встречу по ID
func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	meeting, err := r.scanMeeting(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get meeting by id: %w", err)
	}

	return meeting, nil
}

func (r *MeetingRepository) queryMeetings(ctx context.Context, query string, args ...interface{}) ([]*model.Meeting, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*model.Meeting
	for rows.Next() {
		meeting, err := r.scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, meeting)
	}

	return meetings, rows.Err()
}

// GetAll получает все встречи
func (r *MeetingRepository) GetAll(ctx context.Context) ([]*model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings ORDER BY created_at`
	return r.queryMeetings(ctx, query)
}

// GetByStudyGroupID получает все встречи учебной группы
func (r *MeetingRepository) GetByStudyGroupID(ctx context.Context, groupID uuid.UUID) ([]*model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE study_group_id = $1 ORDER BY created_at`
	return r.queryMeetings(ctx, query, groupID)
}

// GetByParticipant получает все встречи в которых студент организатор или участник
func (r *MeetingRepository) GetByParticipant(ctx context.Context, studentID uuid.UUID) ([]*model.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE organizer_id = $1 OR participants ? $2
		ORDER BY created_at
	`
	return r.queryMeetings(ctx, query, studentID, studentID.String())
}

// Update обновляет встречу
func (r *MeetingRepository) Update(ctx context.Context, meeting *model.Meeting) error {
	query := `
		UPDATE meetings
		SET topic = $1, frequency = $2, meeting_link = $3, booking_id = $4, occurrences = $5, participants = $6
		WHERE id = $7
	`

	occurrences, err := marshalJSON(meeting.Occurrences)
	if err != nil {
		return err
	}
	participants, err := marshalJSON(meeting.Participants)
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(
		ctx, query,
		meeting.Topic,
		meeting.Frequency,
		meeting.MeetingLink,
		meeting.BookingID,
		occurrences,
		participants,
		meeting.ID,
	)
	if err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("meeting not found")
	}

	return nil
}

// Delete удаляет встречу
func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM meetings WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("meeting not found")
	}

	return nil
}
