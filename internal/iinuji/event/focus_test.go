package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FocusRing_prefersTerminalInitially(t *testing.T) {
	r := NewFocusRing([]Focusable{{Name: "plot1"}, {Name: "input1", IsTerminal: true}})
	assert.Equal(t, "input1", r.Current())
}

func Test_FocusRing_advanceAndRetreatWrap(t *testing.T) {
	r := NewFocusRing([]Focusable{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	assert.Equal(t, "a", r.Current())
	assert.Equal(t, "b", r.Advance())
	assert.Equal(t, "c", r.Advance())
	assert.Equal(t, "a", r.Advance())
	assert.Equal(t, "c", r.Retreat())
}

func Test_Decompose_classifiesScreenSwitchFocusAndWidget(t *testing.T) {
	assert.Equal(t, ScreenSwitch, Decompose("F+2", nil).Category)
	assert.Equal(t, 2, Decompose("F+2", nil).Screen)
	assert.Equal(t, ScreenSwitch, Decompose("F0", nil).Category)
	assert.Equal(t, FocusMove, Decompose("Tab", nil).Category)
	assert.Equal(t, WidgetRouted, Decompose("x", nil).Category)
	assert.Equal(t, Command, Decompose("ctrl-q", func(s string) bool { return s == "ctrl-q" }).Category)
}
