package state

import (
	"sync"
	"time"
)

// Manager управляет черновиками встреч и курсорами просмотра пользователей
type Manager struct {
	mu      sync.RWMutex
	drafts  map[int64]*Draft  // telegramID -> Draft
	cursors map[int64]*Cursor // telegramID -> Cursor
	ttl     time.Duration
	now     func() time.Time
}

// NewManager создаёт новый менеджер состояний.
// ttl задаёт время жизни незавершённого черновика
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		drafts:  make(map[int64]*Draft),
		cursors: make(map[int64]*Cursor),
		ttl:     ttl,
		now:     time.Now,
	}
}

// StartDraft начинает новый черновик, затирая предыдущий если он был
func (sm *Manager) StartDraft(telegramID int64, draft *Draft) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	draft.CreatedAt = sm.now()
	sm.drafts[telegramID] = draft
}

// liveDraft возвращает живой черновик, удаляя истёкший по TTL.
// Вызывается только под sm.mu
func (sm *Manager) liveDraft(telegramID int64) *Draft {
	draft, exists := sm.drafts[telegramID]
	if !exists {
		return nil
	}
	if sm.now().Sub(draft.CreatedAt) > sm.ttl {
		delete(sm.drafts, telegramID)
		return nil
	}
	return draft
}

// GetDraft возвращает черновик пользователя.
// Истёкший по TTL черновик удаляется, как будто его не было.
// Черновик принадлежит менеджеру: изменения идут через UpdateDraft
func (sm *Manager) GetDraft(telegramID int64) *Draft {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.liveDraft(telegramID)
}

// DraftStep возвращает шаг активного черновика пользователя
func (sm *Manager) DraftStep(telegramID int64) (Step, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	draft := sm.liveDraft(telegramID)
	if draft == nil {
		return StepNone, false
	}
	return draft.Step, true
}

// UpdateDraft применяет fn к живому черновику под блокировкой менеджера,
// сериализуя изменения от параллельных обработчиков одного пользователя.
// fn возвращает false если черновик не в ожидаемом шаге.
// Результат true только когда черновик жив и fn вернула true
func (sm *Manager) UpdateDraft(telegramID int64, fn func(*Draft) bool) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	draft := sm.liveDraft(telegramID)
	if draft == nil {
		return false
	}
	return fn(draft)
}

// CommitDraft завершает диалог и забирает черновик у пользователя
func (sm *Manager) CommitDraft(telegramID int64) *Draft {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	draft, exists := sm.drafts[telegramID]
	if !exists {
		return nil
	}
	delete(sm.drafts, telegramID)
	if sm.now().Sub(draft.CreatedAt) > sm.ttl {
		return nil
	}
	return draft
}

// AbortDraft отменяет незавершённый черновик
func (sm *Manager) AbortDraft(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.drafts, telegramID)
}

// SetCursor запоминает список встреч для постраничного просмотра
func (sm *Manager) SetCursor(telegramID int64, cursor *Cursor) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.cursors[telegramID] = cursor
}

// GetCursor возвращает текущий курсор пользователя, nil если просмотр не начат
func (sm *Manager) GetCursor(telegramID int64) *Cursor {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.cursors[telegramID]
}

// Advance сдвигает курсор на следующую встречу.
// Возвращает false, если курсора нет или список исчерпан
func (sm *Manager) Advance(telegramID int64) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	cursor, exists := sm.cursors[telegramID]
	if !exists || cursor.Pos+1 >= len(cursor.IDs) {
		return false
	}
	cursor.Pos++
	return true
}

// ClearCursor завершает просмотр списка встреч
func (sm *Manager) ClearCursor(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.cursors, telegramID)
}
