package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (id, room_id, meeting_id, student_id, confirmed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.ID,
		booking.RoomID,
		booking.MeetingID,
		booking.StudentID,
		booking.Confirmed,
	).Scan(&booking.CreatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, room_id, meeting_id, student_id, confirmed, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.MeetingID,
		&booking.StudentID,
		&booking.Confirmed,
		&booking.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// GetByMeetingID получает бронирование очной встречи
func (r *BookingRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, room_id, meeting_id, student_id, confirmed, created_at
		FROM bookings
		WHERE meeting_id = $1
		LIMIT 1
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, meetingID).Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.MeetingID,
		&booking.StudentID,
		&booking.Confirmed,
		&booking.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by meeting: %w", err)
	}

	return &booking, nil
}

// Delete удаляет бронирование
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}
