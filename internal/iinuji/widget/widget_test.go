package widget

import (
	"testing"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/iinuji/event"
	"github.com/cuwacunu/tsiemene/internal/iinuji/layout"
	"github.com/cuwacunu/tsiemene/internal/iinuji/render"
	"github.com/stretchr/testify/assert"
)

func sampleScreen() decode.Screen {
	return decode.Screen{
		Name: "main",
		Panels: []decode.Panel{
			{Name: "p1", Shape: decode.Coord{X: 100, Y: 100}, Figures: []decode.Figure{
				{Name: "status", Kind: "_label", Shape: decode.Coord{X: 100, Y: 20}, Triggers: []string{"ev1"}},
				{Name: "term", Kind: "_input_box", Shape: decode.Coord{X: 100, Y: 20}},
			}},
		},
		Events: []decode.Event{
			{Name: "ev1", Kind: "_update", Form: []decode.FormBinding{{Local: "l1", Path: ".str0"}}},
		},
	}
}

func Test_NewSession_compilesEventsAndFocus(t *testing.T) {
	s := NewSession(sampleScreen(), render.NewRegistry())
	assert.Empty(t, s.Diagnostics)
	assert.Contains(t, s.Events, "ev1")
	assert.Equal(t, "term", s.Focus.Current())
}

func Test_Session_dispatchUpdatesFigureText(t *testing.T) {
	s := NewSession(sampleScreen(), render.NewRegistry())
	diags := s.Dispatch("ev1", event.Payload{Kind: event.SlotString, String: "hi"}, nil)
	assert.Empty(t, diags)
	assert.Equal(t, "hi", s.FigureText("status"))
}

func Test_Session_buildLayoutPlacesPanelsAndFigures(t *testing.T) {
	s := NewSession(sampleScreen(), render.NewRegistry())
	root := s.BuildLayout(40, 100)
	assert.Equal(t, "main", root.Name)
	assert.Len(t, root.Children, 1)
	assert.Len(t, root.Children[0].Object.Children, 2)
}

func Test_Session_renderFrameDoesNotPanic(t *testing.T) {
	s := NewSession(sampleScreen(), render.NewRegistry())
	root := s.BuildLayout(40, 100)
	backend := render.NewCellbufBackend(40, 100, s.Registry)

	placedRoot := layout.Resolve(root, layout.Rect{X: 0, Y: 0, W: 100, H: 40})
	assert.NotPanics(t, func() { s.RenderFrame(backend, placedRoot) })
}
