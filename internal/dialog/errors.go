package dialog

import (
	"errors"

	"github.com/Freeeeeet/group_finder_bot/internal/locale"
)

// Ошибки пользовательского ввода. Все восстановимые: движок переспрашивает
// в том же состоянии, не трогая накопленные данные.
var (
	ErrInvalidNumber        = errors.New("group count is not a number")
	ErrGroupCountOutOfRange = errors.New("group count out of range")
	ErrInvalidRange         = errors.New("range must look like ABC-XYZ")
	ErrInvertedRange        = errors.New("range lower bound is after upper bound")
	ErrSurnameEmpty         = errors.New("surname is empty")
	ErrSurnameNotFound      = errors.New("surname does not match any group")
)

// IsUserInputError проверяет, является ли ошибка ошибкой ввода пользователя
func IsUserInputError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidNumber),
		errors.Is(err, ErrGroupCountOutOfRange),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrInvertedRange),
		errors.Is(err, ErrSurnameEmpty),
		errors.Is(err, ErrSurnameNotFound):
		return true
	default:
		return false
	}
}

// MessageKey возвращает ключ пользовательского сообщения для ошибки
func MessageKey(err error) locale.Key {
	switch {
	case errors.Is(err, ErrInvalidNumber):
		return locale.KeyInvalidNumber
	case errors.Is(err, ErrGroupCountOutOfRange):
		return locale.KeyGroupCountRange
	case errors.Is(err, ErrInvalidRange):
		return locale.KeyInvalidFormat
	case errors.Is(err, ErrInvertedRange):
		return locale.KeyInvertedRange
	case errors.Is(err, ErrSurnameEmpty), errors.Is(err, ErrSurnameNotFound):
		return locale.KeySurnameNotFound
	default:
		return locale.KeyInternalError
	}
}
