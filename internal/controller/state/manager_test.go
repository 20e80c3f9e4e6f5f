package state

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
)

func TestDraftLifecycle(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	assert.Nil(t, sm.GetDraft(1))

	sm.StartDraft(1, &Draft{Step: StepTopic, Meeting: &model.Meeting{ID: uuid.New()}})

	draft := sm.GetDraft(1)
	require.NotNil(t, draft)
	assert.Equal(t, StepTopic, draft.Step)

	// Черновики разных пользователей независимы
	assert.Nil(t, sm.GetDraft(2))

	committed := sm.CommitDraft(1)
	require.NotNil(t, committed)
	assert.Nil(t, sm.GetDraft(1), "commit consumes the draft")
	assert.Nil(t, sm.CommitDraft(1), "double commit returns nothing")
}

func TestDraftAbort(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	sm.StartDraft(1, &Draft{Step: StepTopic, Meeting: &model.Meeting{}})
	sm.AbortDraft(1)
	assert.Nil(t, sm.GetDraft(1))

	// Отмена без активного черновика безвредна
	sm.AbortDraft(1)
}

func TestDraftExpiresAfterTTL(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	current := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return current }

	sm.StartDraft(1, &Draft{Step: StepTopic, Meeting: &model.Meeting{}})

	current = current.Add(29 * time.Minute)
	assert.NotNil(t, sm.GetDraft(1), "draft is alive within the TTL")

	current = current.Add(2 * time.Minute)
	assert.Nil(t, sm.GetDraft(1), "expired draft is dropped")
	assert.Nil(t, sm.CommitDraft(1))
}

func TestDraftOverwrite(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	sm.StartDraft(1, &Draft{Step: StepLink, Meeting: &model.Meeting{Topic: "old"}})
	sm.StartDraft(1, &Draft{Step: StepTopic, Meeting: &model.Meeting{Topic: "new"}})

	draft := sm.GetDraft(1)
	require.NotNil(t, draft)
	assert.Equal(t, "new", draft.Meeting.Topic)
	assert.Equal(t, StepTopic, draft.Step)
}

func TestUpdateDraft(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	assert.False(t, sm.UpdateDraft(1, func(*Draft) bool { return true }), "no draft, nothing to update")

	sm.StartDraft(1, &Draft{Step: StepTopic, Meeting: &model.Meeting{}})

	ok := sm.UpdateDraft(1, func(d *Draft) bool {
		if d.Step != StepTopic {
			return false
		}
		d.Meeting.Topic = "Graphs"
		d.Step = StepFrequency
		return true
	})
	require.True(t, ok)

	draft := sm.GetDraft(1)
	require.NotNil(t, draft)
	assert.Equal(t, "Graphs", draft.Meeting.Topic)
	assert.Equal(t, StepFrequency, draft.Step)

	// Обработчик с устаревшим представлением о шаге получает отказ
	assert.False(t, sm.UpdateDraft(1, func(d *Draft) bool { return d.Step == StepTopic }))
}

func TestUpdateDraftExpired(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	current := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return current }

	sm.StartDraft(1, &Draft{Step: StepTopic, Meeting: &model.Meeting{}})

	current = current.Add(31 * time.Minute)
	assert.False(t, sm.UpdateDraft(1, func(*Draft) bool { return true }))
}

func TestUpdateDraftSerializesMutations(t *testing.T) {
	sm := NewManager(30 * time.Minute)
	sm.StartDraft(1, &Draft{Step: StepTopic, Meeting: &model.Meeting{}})

	const workers = 8
	const perWorker = 200

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				sm.UpdateDraft(1, func(*Draft) bool {
					counter++
					return true
				})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, counter, "mutations run one at a time under the manager lock")
}

func TestDraftStep(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	_, ok := sm.DraftStep(1)
	assert.False(t, ok)

	sm.StartDraft(1, &Draft{Step: StepDuration, Meeting: &model.Meeting{}})
	step, ok := sm.DraftStep(1)
	require.True(t, ok)
	assert.Equal(t, StepDuration, step)
}

func TestCursorBrowsing(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	sm.SetCursor(1, &Cursor{IDs: ids})

	cursor := sm.GetCursor(1)
	require.NotNil(t, cursor)

	current, ok := cursor.Current()
	require.True(t, ok)
	assert.Equal(t, ids[0], current)
	assert.True(t, cursor.HasNext())

	require.True(t, sm.Advance(1))
	require.True(t, sm.Advance(1))

	current, ok = sm.GetCursor(1).Current()
	require.True(t, ok)
	assert.Equal(t, ids[2], current)
	assert.False(t, sm.GetCursor(1).HasNext())

	assert.False(t, sm.Advance(1), "cannot advance past the end")

	sm.ClearCursor(1)
	assert.Nil(t, sm.GetCursor(1))
}

func TestCursorMissing(t *testing.T) {
	sm := NewManager(30 * time.Minute)

	assert.False(t, sm.Advance(42))

	var cursor *Cursor
	_, ok := cursor.Current()
	assert.False(t, ok, "nil cursor has no current element")
	assert.False(t, cursor.HasNext())
}
