package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	kb := FromRows([][]string{{"2", "3", "4"}, {"◀️ Back", "❌ Cancel"}})

	require.NotNil(t, kb)
	assert.True(t, kb.ResizeKeyboard)
	require.Len(t, kb.Keyboard, 2)
	assert.Equal(t, []models.KeyboardButton{{Text: "2"}, {Text: "3"}, {Text: "4"}}, kb.Keyboard[0])
	assert.Equal(t, "❌ Cancel", kb.Keyboard[1][1].Text)
}

func TestFromRowsSkipsEmpty(t *testing.T) {
	assert.Nil(t, FromRows(nil))

	kb := FromRows([][]string{{}, {"Rossi"}})
	require.Len(t, kb.Keyboard, 1)
	assert.Equal(t, "Rossi", kb.Keyboard[0][0].Text)
}

func TestRemove(t *testing.T) {
	assert.True(t, Remove().RemoveKeyboard)
}
