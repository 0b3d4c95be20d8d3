package dialog

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/Freeeeeet/group_finder_bot/internal/locale"
)

// Подсказки на клавиатуре
var (
	groupCountSuggestions = []string{"2", "3", "4"}
	rangeSuggestions      = []string{"AAA-ZZZ"}
	surnameSuggestions    = []string{"Rossi", "Bianchi"}
)

// Engine - конечный автомат диалога. Не хранит состояние между вызовами:
// всё состояние живёт в Session, поэтому один Engine обслуживает всех пользователей.
type Engine struct {
	catalog *locale.Catalog
	now     func() time.Time
}

// Option настраивает Engine
type Option func(*Engine)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine создаёт движок диалога
func NewEngine(catalog *locale.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog возвращает таблицу локализации движка
func (e *Engine) Catalog() *locale.Catalog {
	return e.catalog
}

// Start создаёт новую сессию и возвращает запрос выбора языка
func (e *Engine) Start(sessionID int64) (*Session, Reply) {
	s := NewSession(sessionID, e.now())
	s.push(StateAwaitingLanguage)
	return s, e.prompt(s)
}

// Step обрабатывает текст пользователя в текущем состоянии сессии
func (e *Engine) Step(s *Session, rawText string) Reply {
	if s.State() == StateTerminated {
		return Reply{State: StateTerminated, Ignored: true}
	}
	s.UpdatedAt = e.now()

	text := strings.TrimSpace(rawText)

	// Отмена и "назад" работают в любом состоянии и на любом языке
	if action, ok := e.catalog.Lookup(text); ok {
		switch action {
		case locale.ActionCancel:
			return e.Cancel(s)
		case locale.ActionBack:
			return e.back(s)
		}
	}

	switch s.State() {
	case StateAwaitingLanguage:
		return e.handleLanguage(s, text)
	case StateAwaitingGroupCount:
		return e.handleGroupCount(s, text)
	case StateAwaitingRangeInput:
		return e.handleRange(s, text)
	case StateAwaitingSurname:
		return e.handleSurname(s, rawText)
	default:
		return Reply{State: s.State(), Ignored: true}
	}
}

// Cancel завершает диалог
func (e *Engine) Cancel(s *Session) Reply {
	s.terminate()
	s.reset()
	return Reply{
		State:          StateTerminated,
		Text:           e.catalog.Text(s.Language, locale.KeyCancelled),
		RemoveKeyboard: true,
	}
}

// back показывает предыдущий шаг. Данные не откатываются.
func (e *Engine) back(s *Session) Reply {
	current := s.pop()
	if current == StateAwaitingRangeInput {
		s.CurrentGroup = s.rangeDepth()
	}
	return e.prompt(s)
}

func (e *Engine) handleLanguage(s *Session, text string) Reply {
	// Неизвестный язык - не ошибка, молча берём основной
	lang, _ := e.catalog.MatchLanguage(text)
	s.Language = lang
	s.reset()
	s.push(StateAwaitingGroupCount)
	return e.prompt(s)
}

func (e *Engine) handleGroupCount(s *Session, text string) Reply {
	count, err := strconv.Atoi(text)
	if err != nil {
		return e.inputError(s, ErrInvalidNumber, nil)
	}
	if count < MinGroups || count > MaxGroups {
		return e.inputError(s, ErrGroupCountOutOfRange, locale.Vars{
			"min": strconv.Itoa(MinGroups),
			"max": strconv.Itoa(MaxGroups),
		})
	}

	s.GroupCount = count
	s.Ranges = nil
	s.CurrentGroup = 1
	s.push(StateAwaitingRangeInput)
	return e.prompt(s)
}

func (e *Engine) handleRange(s *Session, text string) Reply {
	lower, upper, err := ParseRange(text)
	if err != nil {
		return e.inputError(s, err, nil)
	}

	s.setRange(GroupRange{
		Label: GroupLabel(s.CurrentGroup),
		Lower: lower,
		Upper: upper,
	})

	if s.CurrentGroup < s.GroupCount {
		s.CurrentGroup++
		s.push(StateAwaitingRangeInput)
		return e.prompt(s)
	}

	s.push(StateAwaitingSurname)
	return e.prompt(s)
}

func (e *Engine) handleSurname(s *Session, rawText string) Reply {
	if action, ok := e.catalog.Lookup(rawText); ok && action == locale.ActionTryAgain {
		return Reply{
			State:    StateAwaitingSurname,
			Text:     e.catalog.Text(s.Language, locale.KeyEnterSurname),
			Keyboard: e.withNavigation(s, surnameSuggestions),
			Markup:   MarkupEmphasized,
		}
	}

	surname := strings.TrimSpace(rawText)
	key := SurnameKey(surname, languageTag(s.Language))
	if key == "" {
		return e.notFound(s, ErrSurnameEmpty)
	}

	group, ok := Classify(s.Ranges, key)
	if !ok {
		return e.notFound(s, ErrSurnameNotFound)
	}

	lang := s.Language
	s.terminate()
	return Reply{
		State: StateTerminated,
		Text: e.catalog.Render(lang, locale.KeySurnameResult, locale.Vars{
			"surname": surname,
			"group":   group.Label,
		}),
		RemoveKeyboard: true,
		Markup:         MarkupEmphasized,
		Result: &Match{
			Surname: surname,
			Key:     key,
			Group:   group,
		},
	}
}

func (e *Engine) notFound(s *Session, err error) Reply {
	return Reply{
		State: StateAwaitingSurname,
		Text: e.catalog.Text(s.Language, locale.KeySurnameNotFound) + "\n\n" +
			e.catalog.Text(s.Language, locale.KeyCheckCaveat),
		Keyboard: e.withNavigation(s, []string{e.catalog.Text(s.Language, locale.KeyTryAgain)}),
		Markup:   MarkupEmphasized,
		Err:      err,
	}
}

// inputError переспрашивает в том же состоянии
func (e *Engine) inputError(s *Session, err error, vars locale.Vars) Reply {
	markup := MarkupPlain
	if errors.Is(err, ErrInvertedRange) {
		markup = MarkupEmphasized
	}
	return Reply{
		State:  s.State(),
		Text:   e.catalog.Render(s.Language, MessageKey(err), vars),
		Markup: markup,
		Err:    err,
	}
}

// prompt формирует запрос для текущего состояния сессии
func (e *Engine) prompt(s *Session) Reply {
	st := s.State()
	reply := Reply{State: st, Markup: MarkupEmphasized}

	switch st {
	case StateAwaitingLanguage:
		reply.Text = e.catalog.Text(s.Language, locale.KeyChooseLanguage)
		reply.Keyboard = e.withNavigation(s, e.catalog.Names())
	case StateAwaitingGroupCount:
		reply.Text = e.catalog.Text(s.Language, locale.KeyAskNumGroups)
		reply.Keyboard = e.withNavigation(s, groupCountSuggestions)
	case StateAwaitingRangeInput:
		reply.Text = e.catalog.Render(s.Language, locale.KeyAskGroupRange, locale.Vars{
			"group": GroupLabel(s.CurrentGroup),
		})
		reply.Keyboard = e.withNavigation(s, rangeSuggestions)
	case StateAwaitingSurname:
		reply.Text = e.catalog.Text(s.Language, locale.KeyAllGroupsSet)
		reply.Keyboard = e.withNavigation(s, surnameSuggestions)
	}

	return reply
}

// withNavigation добавляет ряд "Назад"/"Отмена" под основными кнопками
func (e *Engine) withNavigation(s *Session, primary []string) [][]string {
	row := make([]string, len(primary))
	copy(row, primary)
	return [][]string{
		row,
		{e.catalog.Text(s.Language, locale.KeyBack), e.catalog.Text(s.Language, locale.KeyCancel)},
	}
}

func languageTag(lang locale.Language) language.Tag {
	switch lang {
	case locale.Italian:
		return language.Italian
	default:
		return language.English
	}
}
