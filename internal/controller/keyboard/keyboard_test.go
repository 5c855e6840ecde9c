package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlineSkipsEmptyRows(t *testing.T) {
	kb := Inline(
		Row(Callback("⬅️", "week:2025-03-03"), Callback("➡️", "week:2025-03-17")),
		Row(),
		Row(Link("WhatsApp", "https://wa.me/5491122334455")),
	)

	assert.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "week:2025-03-17", kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "https://wa.me/5491122334455", kb.InlineKeyboard[1][0].URL)
}

func TestInlineWithoutRows(t *testing.T) {
	kb := Inline()
	assert.NotNil(t, kb.InlineKeyboard)
	assert.Empty(t, kb.InlineKeyboard)
}
