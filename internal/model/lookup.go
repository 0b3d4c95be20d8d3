package model

import (
	"time"

	"github.com/google/uuid"
)

// Lookup - запись журнала успешных определений группы
type Lookup struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FlowID     uuid.UUID `json:"flow_id"`     // Идентификатор прохождения диалога
	Surname    string    `json:"surname"`     // В исходном регистре
	SurnameKey string    `json:"surname_key"` // Первые три буквы
	GroupLabel string    `json:"group_label"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
}
