package locale

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

// Language идентифицирует поддерживаемый язык интерфейса
type Language string

const (
	English Language = "en" // Основной язык
	Italian Language = "it" // Альтернативный язык

	Default = English
)

// Languages возвращает поддерживаемые языки в порядке отображения
func Languages() []Language {
	return []Language{English, Italian}
}

// Key идентифицирует шаблон сообщения
type Key string

const (
	KeyLanguageName    Key = "language_name"
	KeyWelcome         Key = "welcome"
	KeyHelp            Key = "help"
	KeyChooseLanguage  Key = "choose_language"
	KeyAskNumGroups    Key = "ask_num_groups"
	KeyAskGroupRange   Key = "ask_group_range"
	KeyAllGroupsSet    Key = "all_groups_set"
	KeyInvalidNumber   Key = "invalid_number"
	KeyGroupCountRange Key = "group_count_range"
	KeyInvalidFormat   Key = "invalid_format"
	KeyInvertedRange   Key = "inverted_range"
	KeySurnameResult   Key = "surname_result"
	KeySurnameNotFound Key = "surname_not_found"
	KeyCheckCaveat     Key = "check_caveat"
	KeyTryAgain        Key = "try_again"
	KeyEnterSurname    Key = "enter_surname"
	KeyCancelled       Key = "cancelled"
	KeyNothingToCancel Key = "nothing_to_cancel"
	KeyNoSession       Key = "no_session"
	KeyBack            Key = "back"
	KeyCancel          Key = "cancel"
	KeyHistoryEmpty    Key = "history_empty"
	KeyHistoryHeader   Key = "history_header"
	KeyHistoryEntry    Key = "history_entry"
	KeyInternalError   Key = "internal_error"
)

// Keys возвращает все ключи, которые обязан определить каждый язык
func Keys() []Key {
	return []Key{
		KeyLanguageName, KeyWelcome, KeyHelp, KeyChooseLanguage,
		KeyAskNumGroups, KeyAskGroupRange, KeyAllGroupsSet,
		KeyInvalidNumber, KeyGroupCountRange, KeyInvalidFormat, KeyInvertedRange,
		KeySurnameResult, KeySurnameNotFound, KeyCheckCaveat, KeyTryAgain, KeyEnterSurname,
		KeyCancelled, KeyNothingToCancel, KeyNoSession, KeyBack, KeyCancel,
		KeyHistoryEmpty, KeyHistoryHeader, KeyHistoryEntry, KeyInternalError,
	}
}

// Action - навигационное действие, привязанное к кнопке
type Action int

const (
	ActionNone Action = iota
	ActionBack
	ActionCancel
	ActionTryAgain
)

var actionKeys = map[Key]Action{
	KeyBack:     ActionBack,
	KeyCancel:   ActionCancel,
	KeyTryAgain: ActionTryAgain,
}

// Vars - значения плейсхолдеров шаблона
type Vars map[string]string

// Catalog хранит шаблоны сообщений для всех языков
type Catalog struct {
	messages map[Language]map[Key]string
	actions  map[string]Action // подпись кнопки -> действие
}

// Parse разбирает YAML-таблицу локализации и проверяет её полноту
func Parse(data []byte) (*Catalog, error) {
	raw := make(map[Language]map[Key]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}

	c := &Catalog{
		messages: raw,
		actions:  make(map[string]Action),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	for _, lang := range Languages() {
		for key, action := range actionKeys {
			c.actions[normalizeLabel(c.messages[lang][key])] = action
		}
	}

	return c, nil
}

// MustLoad загружает встроенную таблицу и паникует при ошибке
func MustLoad() *Catalog {
	c, err := Parse(messagesYAML)
	if err != nil {
		panic("failed to load messages: " + err.Error())
	}
	return c
}

// Validate проверяет, что каждый язык определяет каждый ключ
func (c *Catalog) Validate() error {
	var missing []string
	for _, lang := range Languages() {
		table, ok := c.messages[lang]
		if !ok {
			missing = append(missing, string(lang)+":*")
			continue
		}
		for _, key := range Keys() {
			if strings.TrimSpace(table[key]) == "" {
				missing = append(missing, string(lang)+":"+string(key))
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing translations: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Text возвращает шаблон без подстановок. Неизвестный язык заменяется основным.
func (c *Catalog) Text(lang Language, key Key) string {
	table, ok := c.messages[lang]
	if !ok {
		table = c.messages[Default]
	}
	return table[key]
}

// Render подставляет значения в шаблон, очищая их от разметки Markdown
func (c *Catalog) Render(lang Language, key Key, vars Vars) string {
	text := c.Text(lang, key)
	if len(vars) == 0 {
		return text
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", StripMarkdown(value))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Name возвращает отображаемое название языка
func (c *Catalog) Name(lang Language) string {
	return c.Text(lang, KeyLanguageName)
}

// Names возвращает названия всех языков в порядке отображения
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(Languages()))
	for _, lang := range Languages() {
		names = append(names, c.Name(lang))
	}
	return names
}

// MatchLanguage ищет язык по названию или коду без учёта регистра
func (c *Catalog) MatchLanguage(text string) (Language, bool) {
	text = strings.TrimSpace(text)
	for _, lang := range Languages() {
		if strings.EqualFold(text, c.Name(lang)) || strings.EqualFold(text, string(lang)) {
			return lang, true
		}
	}
	return Default, false
}

// Lookup определяет навигационное действие по подписи кнопки на любом языке
func (c *Catalog) Lookup(text string) (Action, bool) {
	action, ok := c.actions[normalizeLabel(text)]
	return action, ok
}

// FromCode переводит language_code из Telegram в поддерживаемый язык
func FromCode(code string) Language {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, lang := range Languages() {
		if code == string(lang) || strings.HasPrefix(code, string(lang)+"-") {
			return lang
		}
	}
	return Default
}

var markdownStripper = strings.NewReplacer(
	"_", "",
	"*", "",
	"`", "",
	"[", "",
)

// StripMarkdown убирает служебные символы Markdown (legacy).
// Внутри *...* экранирование в legacy Markdown не работает,
// поэтому подставляемые значения просто очищаются.
func StripMarkdown(s string) string {
	return markdownStripper.Replace(s)
}

func normalizeLabel(s string) string {
	return strings.TrimSpace(s)
}
