package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
)

type RoomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// Create создаёт новую комнату
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (id, location, capacity, booked_slots)
		VALUES ($1, $2, $3, $4)
	`

	bookedSlots, err := marshalJSON(room.BookedSlots)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query, room.ID, room.Location, room.Capacity, bookedSlots)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

func (r *RoomRepository) scanRoom(row pgx.Row) (*model.Room, error) {
	var room model.Room
	var bookedSlots []byte

	err := row.Scan(&room.ID, &room.Location, &room.Capacity, &bookedSlots)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(bookedSlots, &room.BookedSlots); err != nil {
		return nil, err
	}

	return &room, nil
}

// GetByID получает комнату по ID
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	query := `SELECT id, location, capacity, booked_slots FROM rooms WHERE id = $1`

	room, err := r.scanRoom(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	return room, nil
}

// GetAll получает все комнаты
func (r *RoomRepository) GetAll(ctx context.Context) ([]*model.Room, error) {
	query := `SELECT id, location, capacity, booked_slots FROM rooms ORDER BY location`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		room, err := r.scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// Update обновляет комнату (в том числе список забронированных слотов)
func (r *RoomRepository) Update(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET location = $1, capacity = $2, booked_slots = $3
		WHERE id = $4
	`

	bookedSlots, err := marshalJSON(room.BookedSlots)
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(ctx, query, room.Location, room.Capacity, bookedSlots, room.ID)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("room not found")
	}

	return nil
}

// ReserveSlot проверяет пересечения и записывает слот под блокировкой строки
// комнаты, конкурирующая бронь того же слота получает ErrSlotTaken
func (r *RoomRepository) ReserveSlot(ctx context.Context, id uuid.UUID, slot model.TimeSlot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reserve slot: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT booked_slots FROM rooms WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("room not found")
		}
		return fmt.Errorf("lock room: %w", err)
	}

	var booked []model.TimeSlot
	if err := unmarshalJSON(raw, &booked); err != nil {
		return err
	}
	for _, b := range booked {
		if b.Overlaps(slot) {
			return repository.ErrSlotTaken
		}
	}

	updated, err := marshalJSON(append(booked, slot))
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE rooms SET booked_slots = $1 WHERE id = $2`, updated, id); err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}

	return tx.Commit(ctx)
}

// ReleaseSlot убирает слот из занятых под блокировкой строки комнаты
func (r *RoomRepository) ReleaseSlot(ctx context.Context, id uuid.UUID, slot model.TimeSlot) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin release slot: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT booked_slots FROM rooms WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, fmt.Errorf("room not found")
		}
		return false, fmt.Errorf("lock room: %w", err)
	}

	var booked []model.TimeSlot
	if err := unmarshalJSON(raw, &booked); err != nil {
		return false, err
	}

	removed := false
	kept := make([]model.TimeSlot, 0, len(booked))
	for _, b := range booked {
		if !removed && b.Equal(slot) {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	if !removed {
		return false, nil
	}

	updated, err := marshalJSON(kept)
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `UPDATE rooms SET booked_slots = $1 WHERE id = $2`, updated, id); err != nil {
		return false, fmt.Errorf("release slot: %w", err)
	}

	return true, tx.Commit(ctx)
}
