package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tele "gopkg.in/telebot.v3"
)

func TestChunkButtons(t *testing.T) {
	buttons := []tele.InlineButton{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"}}

	rows := chunkButtons(buttons, 2)
	assert.Len(t, rows, 3)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[2], 1)
	assert.Equal(t, "e", rows[2][0].Text)

	assert.Nil(t, chunkButtons(nil, 2))
	// A zero row width must not loop forever.
	assert.Len(t, chunkButtons(buttons, 0), 5)
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []int{10, 11, 12}, splitIDs("10,11,12"))
	assert.Equal(t, []int{7}, splitIDs(" 7 "))
	assert.Nil(t, splitIDs(""))
	assert.Equal(t, []int{3}, splitIDs("x,3"))
}
