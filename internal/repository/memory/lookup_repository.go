package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/group_finder_bot/internal/model"
	"github.com/google/uuid"
)

// LookupRepository хранит журнал определений группы в памяти процесса
type LookupRepository struct {
	mu      sync.RWMutex
	lookups []*model.Lookup
	flows   map[uuid.UUID]struct{}
	nextID  int64
	now     func() time.Time
}

func NewLookupRepository() *LookupRepository {
	return &LookupRepository{
		flows: make(map[uuid.UUID]struct{}),
		now:   time.Now,
	}
}

// Create добавляет запись в журнал. Повтор того же flow_id игнорируется.
func (r *LookupRepository) Create(_ context.Context, lookup *model.Lookup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.flows[lookup.FlowID]; dup {
		return nil
	}

	r.nextID++
	lookup.ID = r.nextID
	if lookup.CreatedAt.IsZero() {
		lookup.CreatedAt = r.now()
	}

	stored := *lookup
	r.lookups = append(r.lookups, &stored)
	r.flows[lookup.FlowID] = struct{}{}
	return nil
}

// ListByTelegramID возвращает последние записи пользователя, новые первыми
func (r *LookupRepository) ListByTelegramID(_ context.Context, telegramID int64, limit int) ([]*model.Lookup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Lookup
	for i := len(r.lookups) - 1; i >= 0 && len(result) < limit; i-- {
		if r.lookups[i].TelegramID != telegramID {
			continue
		}
		found := *r.lookups[i]
		result = append(result, &found)
	}
	return result, nil
}
