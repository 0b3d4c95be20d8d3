package dialog

import (
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/group_finder_bot/internal/locale"
)

// Session хранит состояние одного диалога пользователя.
// Живёт от /findgroup до завершения, отмены или истечения TTL.
type Session struct {
	ID           int64     // Telegram ID пользователя
	FlowID       uuid.UUID // Идентификатор прохождения, для логов и журнала
	Language     locale.Language
	Stack        []State // Стек навигации, последний элемент - текущий шаг
	GroupCount   int
	CurrentGroup int          // Номер группы, начиная с 1
	Ranges       []GroupRange // В порядке номеров групп
	Terminated   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSession создаёт пустую сессию
func NewSession(id int64, now time.Time) *Session {
	return &Session{
		ID:           id,
		FlowID:       uuid.New(),
		Language:     locale.Default,
		Stack:        make([]State, 0, 8),
		CurrentGroup: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// State возвращает текущее состояние. Пустой стек означает выбор языка.
func (s *Session) State() State {
	if s.Terminated {
		return StateTerminated
	}
	if len(s.Stack) == 0 {
		return StateAwaitingLanguage
	}
	return s.Stack[len(s.Stack)-1]
}

func (s *Session) push(st State) {
	s.Stack = append(s.Stack, st)
}

// pop снимает текущий шаг. Если стек опустел - возвращаемся к выбору языка.
func (s *Session) pop() State {
	if len(s.Stack) > 0 {
		s.Stack = s.Stack[:len(s.Stack)-1]
	}
	if len(s.Stack) == 0 {
		s.push(StateAwaitingLanguage)
	}
	return s.State()
}

// rangeDepth считает шаги ввода диапазонов в стеке
func (s *Session) rangeDepth() int {
	depth := 0
	for _, st := range s.Stack {
		if st == StateAwaitingRangeInput {
			depth++
		}
	}
	return depth
}

// setRange сохраняет диапазон группы, перезаписывая существующий
func (s *Session) setRange(r GroupRange) {
	for i := range s.Ranges {
		if s.Ranges[i].Label == r.Label {
			s.Ranges[i] = r
			return
		}
	}
	s.Ranges = append(s.Ranges, r)
}

// Range возвращает диапазон группы по названию
func (s *Session) Range(label string) (GroupRange, bool) {
	for _, r := range s.Ranges {
		if r.Label == label {
			return r, true
		}
	}
	return GroupRange{}, false
}

func (s *Session) reset() {
	s.GroupCount = 0
	s.CurrentGroup = 1
	s.Ranges = nil
}

func (s *Session) terminate() {
	s.Terminated = true
	s.Stack = s.Stack[:0]
}
