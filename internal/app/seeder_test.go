package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository/memory"
)

func TestSeedRoomsFillsEmptyStore(t *testing.T) {
	repo := memory.NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, SeedRooms(ctx, repo))

	rooms, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 4)

	locations := make(map[string]int)
	for _, room := range rooms {
		locations[room.Location] = room.Capacity
		assert.Empty(t, room.BookedSlots)
	}
	assert.Equal(t, 6, locations["Library 2F, Room A"])
	assert.Equal(t, 20, locations["West Village G 102"])

	// Повторный запуск непустое хранилище не трогает
	require.NoError(t, SeedRooms(ctx, repo))
	again, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 4)
}

func TestSeedRoomsSkipsNonEmptyStore(t *testing.T) {
	repo := memory.NewRoomRepository()
	ctx := context.Background()

	custom := &model.Room{ID: defaultRooms[0].ID, Location: "Basement", Capacity: 2}
	require.NoError(t, repo.Create(ctx, custom))

	require.NoError(t, SeedRooms(ctx, repo))

	rooms, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Basement", rooms[0].Location)
}
