package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/group_finder_bot/internal/model"
)

// UserRepository хранит пользователей в памяти процесса.
// Используется, когда DB_DSN не задан, и в тестах.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*model.User // telegramID -> пользователь
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[int64]*model.User),
	}
}

// Upsert создаёт пользователя или обновляет его профиль
func (r *UserRepository) Upsert(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.users[user.TelegramID]; ok {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		user.ID = r.nextID
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	r.users[user.TelegramID] = &stored
	return nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[telegramID]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}
