package keyboard

import "github.com/go-telegram/bot/models"

// Builder упрощает создание reply клавиатур
type Builder struct {
	rows [][]models.KeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.KeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(labels ...string) *Builder {
	if len(labels) == 0 {
		return b
	}
	row := make([]models.KeyboardButton, 0, len(labels))
	for _, label := range labels {
		row = append(row, Button(label))
	}
	b.rows = append(b.rows, row)
	return b
}

// AddRows добавляет несколько рядов кнопок
func (b *Builder) AddRows(rows [][]string) *Builder {
	for _, row := range rows {
		b.Row(row...)
	}
	return b
}

// Button создаёт кнопку
func Button(text string) models.KeyboardButton {
	return models.KeyboardButton{Text: text}
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard:       b.rows,
		ResizeKeyboard: true,
	}
}

// FromRows собирает клавиатуру из подписей. Пустой список - nil.
func FromRows(rows [][]string) *models.ReplyKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	return NewBuilder().AddRows(rows).Build()
}

// Remove убирает reply клавиатуру у пользователя
func Remove() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}
