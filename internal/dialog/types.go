package dialog

// State представляет шаг диалога
type State int

const (
	StateAwaitingLanguage State = iota + 1
	StateAwaitingGroupCount
	StateAwaitingRangeInput
	StateAwaitingSurname
	StateTerminated // Конечное состояние, в стек не кладётся
)

func (s State) String() string {
	switch s {
	case StateAwaitingLanguage:
		return "awaiting_language"
	case StateAwaitingGroupCount:
		return "awaiting_group_count"
	case StateAwaitingRangeInput:
		return "awaiting_range_input"
	case StateAwaitingSurname:
		return "awaiting_surname"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Markup определяет, как транспорт должен отрисовать текст
type Markup int

const (
	MarkupPlain Markup = iota
	MarkupEmphasized
)

// GroupRange - инклюзивный диапазон инициалов фамилий для группы
type GroupRange struct {
	Label string // "Group A", "Group B", ...
	Lower string
	Upper string
}

// Contains проверяет, попадает ли ключ фамилии в диапазон (лексикографически)
func (r GroupRange) Contains(key string) bool {
	return r.Lower <= key && key <= r.Upper
}

// Match - результат успешной классификации фамилии
type Match struct {
	Surname string // Фамилия в исходном регистре
	Key     string // Первые три буквы в верхнем регистре
	Group   GroupRange
}

// Reply описывает исходящее сообщение движка.
// Движок не рисует клавиатуру сам - он только перечисляет подписи кнопок.
type Reply struct {
	State          State
	Text           string
	Keyboard       [][]string // nil - оставить текущую клавиатуру
	RemoveKeyboard bool
	Markup         Markup
	Err            error  // Ошибка ввода пользователя (всегда восстановимая)
	Result         *Match // Заполнен, если фамилия найдена
	Ignored        bool   // Ввод проигнорирован (диалог уже завершён)
}
