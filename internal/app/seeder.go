package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
)

// Стартовый набор комнат для бэкенда в памяти. Постоянное хранилище
// получает те же комнаты через миграции
var defaultRooms = []model.Room{
	{ID: uuid.MustParse("6f1b1a58-1a1f-4e14-9f43-111111111111"), Location: "Library 2F, Room A", Capacity: 6},
	{ID: uuid.MustParse("6f1b1a58-1a1f-4e14-9f43-222222222222"), Location: "Library 2F, Room B", Capacity: 8},
	{ID: uuid.MustParse("6f1b1a58-1a1f-4e14-9f43-333333333333"), Location: "Snell Hall 305", Capacity: 12},
	{ID: uuid.MustParse("6f1b1a58-1a1f-4e14-9f43-444444444444"), Location: "West Village G 102", Capacity: 20},
}

// SeedRooms наполняет пустое хранилище комнат стартовым набором.
// Непустое хранилище не трогается
func SeedRooms(ctx context.Context, repo repository.RoomRepository) error {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for i := range defaultRooms {
		room := defaultRooms[i]
		if err := repo.Create(ctx, &room); err != nil {
			return fmt.Errorf("seed room %s: %w", room.Location, err)
		}
	}
	return nil
}
