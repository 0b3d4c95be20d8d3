package dialog

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinGroups = 1
	MaxGroups = 26 // Группы обозначаются одной буквой A..Z

	surnameKeyLength = 3
)

// Только латинские буквы, минимум две с каждой стороны, один дефис
var rangePattern = regexp.MustCompile(`^[A-Z]{2,}-[A-Z]{2,}$`)

// GroupLabel возвращает название группы по номеру, начиная с 1
func GroupLabel(index int) string {
	if index < MinGroups || index > MaxGroups {
		return fmt.Sprintf("Group %d", index)
	}
	return "Group " + string(rune('A'+index-1))
}

// ParseRange разбирает строку вида "fav-khu" в пару границ в верхнем регистре
func ParseRange(text string) (lower, upper string, err error) {
	normalized := toUpper(strings.TrimSpace(text), language.Und)
	if !rangePattern.MatchString(normalized) {
		return "", "", ErrInvalidRange
	}

	lower, upper, _ = strings.Cut(normalized, "-")
	if lower > upper {
		return "", "", fmt.Errorf("%w: %s > %s", ErrInvertedRange, lower, upper)
	}
	return lower, upper, nil
}

// SurnameKey возвращает первые три символа фамилии в верхнем регистре
func SurnameKey(surname string, tag language.Tag) string {
	runes := []rune(toUpper(strings.TrimSpace(surname), tag))
	if len(runes) > surnameKeyLength {
		runes = runes[:surnameKeyLength]
	}
	return string(runes)
}

// Classify ищет первую (в порядке ввода) группу, диапазон которой содержит ключ фамилии.
// Пересекающиеся диапазоны допускаются: побеждает первый.
func Classify(ranges []GroupRange, key string) (GroupRange, bool) {
	if key == "" {
		return GroupRange{}, false
	}
	for _, r := range ranges {
		if r.Contains(key) {
			return r, true
		}
	}
	return GroupRange{}, false
}

// Caser хранит состояние, поэтому создаётся на каждый вызов
func toUpper(s string, tag language.Tag) string {
	return cases.Upper(tag).String(s)
}
