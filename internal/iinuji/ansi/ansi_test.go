package ansi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse_basicSGRColorAndBold(t *testing.T) {
	rows := Parse("\x1b[1;31mhello\x1b[0m world", 80)
	if !assert.Len(t, rows, 1) {
		return
	}
	if !assert.Len(t, rows[0], 2) {
		return
	}
	assert.Equal(t, "hello", rows[0][0].Text)
	assert.Equal(t, "red", rows[0][0].FG)
	assert.True(t, rows[0][0].Bold)
	assert.Equal(t, " world", rows[0][1].Text)
	assert.Equal(t, "", rows[0][1].FG)
}

func Test_Parse_truecolorAndPaletteTokens(t *testing.T) {
	rows := Parse("\x1b[38;2;10;20;30mx\x1b[0m\x1b[38;5;196my\x1b[0m", 80)
	if !assert.Len(t, rows, 1) {
		return
	}
	if !assert.Len(t, rows[0], 2) {
		return
	}
	assert.Equal(t, "#0a141e", rows[0][0].FG)
	assert.Equal(t, "#ff0000", rows[0][1].FG)
}

func Test_Parse_hardWrapsAtWidth(t *testing.T) {
	rows := Parse("abcdef", 3)
	if !assert.Len(t, rows, 2) {
		return
	}
	assert.Equal(t, "abc", rows[0][0].Text)
	assert.Equal(t, "def", rows[1][0].Text)
}

func Test_Parse_newlineStartsNewRowAndDropsControlChars(t *testing.T) {
	rows := Parse("a\nb\x07c", 80)
	if !assert.Len(t, rows, 2) {
		return
	}
	assert.Equal(t, "a", rows[0][0].Text)
	assert.Equal(t, "bc", rows[1][0].Text)
}

func Test_Parse_nonSGRCSIDiscarded(t *testing.T) {
	rows := Parse("a\x1b[2Kb", 80)
	if !assert.Len(t, rows, 1) {
		return
	}
	assert.Equal(t, "ab", rows[0][0].Text)
}

func Test_xtermPaletteToken_grayscaleRamp(t *testing.T) {
	assert.Equal(t, "#080808", xtermPaletteToken(232))
	assert.Equal(t, "#eeeeee", xtermPaletteToken(255))
}

func Test_PlainText_stripsEscapes(t *testing.T) {
	assert.Equal(t, "hello", PlainText("\x1b[1;31mhello\x1b[0m"))
}
