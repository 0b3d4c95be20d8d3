package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
)

// DefaultTTL - время жизни брошенного диалога
const DefaultTTL = 30 * time.Minute

// entry хранит сессию пользователя вместе с её мьютексом.
// Шаги одной сессии выполняются строго последовательно.
type entry struct {
	mu      sync.Mutex
	session *dialog.Session
	touched time.Time // Время последнего обращения
}
