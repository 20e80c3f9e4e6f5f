package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
)

func sampleSlot(offset time.Duration) model.TimeSlot {
	start := time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC).Add(offset)
	return model.TimeSlot{
		Day:   start.Weekday().String(),
		Start: start,
		End:   start.Add(time.Hour),
	}
}

func TestRoomRepositoryReserveSlot(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	room := &model.Room{ID: uuid.New(), Location: "Library 2F", Capacity: 6}
	require.NoError(t, repo.Create(ctx, room))

	slot := sampleSlot(0)
	require.NoError(t, repo.ReserveSlot(ctx, room.ID, slot))

	overlapping := sampleSlot(30 * time.Minute)
	assert.ErrorIs(t, repo.ReserveSlot(ctx, room.ID, overlapping), repository.ErrSlotTaken)

	// Полуоткрытые интервалы: слот начинающийся ровно в конце занятого проходит
	touching := sampleSlot(time.Hour)
	require.NoError(t, repo.ReserveSlot(ctx, room.ID, touching))

	assert.ErrorIs(t, repo.ReserveSlot(ctx, uuid.New(), slot), ErrNotFound)

	stored, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, stored.BookedSlots, 2)
}

func TestRoomRepositoryReserveSlotConcurrent(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	room := &model.Room{ID: uuid.New(), Location: "Library 2F", Capacity: 6}
	require.NoError(t, repo.Create(ctx, room))

	slot := sampleSlot(0)

	const attempts = 16
	var wg sync.WaitGroup
	var won atomic.Int64
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.ReserveSlot(ctx, room.ID, slot) == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, won.Load(), "the interval is reserved exactly once")

	stored, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, stored.BookedSlots, 1)
}

func TestRoomRepositoryReleaseSlot(t *testing.T) {
	repo := NewRoomRepository()
	ctx := context.Background()

	room := &model.Room{ID: uuid.New(), Location: "Library 2F", Capacity: 6}
	require.NoError(t, repo.Create(ctx, room))

	slot := sampleSlot(0)
	require.NoError(t, repo.ReserveSlot(ctx, room.ID, slot))

	removed, err := repo.ReleaseSlot(ctx, room.ID, slot)
	require.NoError(t, err)
	assert.True(t, removed)

	// Повторное освобождение сообщает что слота уже не было
	removed, err = repo.ReleaseSlot(ctx, room.ID, slot)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.ReleaseSlot(ctx, uuid.New(), slot)
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.BookedSlots)
}
