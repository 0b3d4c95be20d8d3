package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
)

// Manager хранит диалоговые сессии пользователей
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*entry // telegramID -> сессия
	ttl      time.Duration
	now      func() time.Time
}

// NewManager создаёт новый менеджер сессий
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[int64]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Begin сохраняет новую сессию, заменяя предыдущую
func (sm *Manager) Begin(telegramID int64, session *dialog.Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[telegramID] = &entry{
		session: session,
		touched: sm.now(),
	}
}

// Do выполняет fn над сессией пользователя под её мьютексом.
// Возвращает false, если активной сессии нет или она истекла.
// Завершённая после fn сессия удаляется.
func (sm *Manager) Do(telegramID int64, fn func(s *dialog.Session)) bool {
	sm.mu.RLock()
	e, exists := sm.sessions[telegramID]
	sm.mu.RUnlock()

	if !exists {
		return false
	}

	e.mu.Lock()
	now := sm.now()
	if now.Sub(e.touched) > sm.ttl {
		e.mu.Unlock()
		sm.remove(telegramID, e)
		return false
	}

	fn(e.session)
	e.touched = now
	terminated := e.session.Terminated
	e.mu.Unlock()

	if terminated {
		sm.remove(telegramID, e)
	}
	return true
}

// Has проверяет, есть ли у пользователя активная сессия
func (sm *Manager) Has(telegramID int64) bool {
	sm.mu.RLock()
	e, exists := sm.sessions[telegramID]
	sm.mu.RUnlock()

	if !exists {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return sm.now().Sub(e.touched) <= sm.ttl && !e.session.Terminated
}

// Clear удаляет сессию пользователя
func (sm *Manager) Clear(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, telegramID)
}

// Count возвращает количество сессий
func (sm *Manager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// Sweep удаляет истёкшие сессии и возвращает их количество
func (sm *Manager) Sweep() int {
	now := sm.now()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	for id, e := range sm.sessions {
		// Сессию, занятую шагом, пропускаем - её проверит следующий Sweep
		if !e.mu.TryLock() {
			continue
		}
		expired := now.Sub(e.touched) > sm.ttl
		e.mu.Unlock()

		if expired {
			delete(sm.sessions, id)
			count++
		}
	}

	return count
}

// remove удаляет сессию, только если она не была заменена новой
func (sm *Manager) remove(telegramID int64, e *entry) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if current, ok := sm.sessions[telegramID]; ok && current == e {
		delete(sm.sessions, telegramID)
	}
}
