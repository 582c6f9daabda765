package event

import (
	"testing"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/stretchr/testify/assert"
)

type fakeSink struct {
	texts  map[string]string
	lines  []string
	series map[string][]float64
}

func newFakeSink() *fakeSink {
	return &fakeSink{texts: map[string]string{}, series: map[string][]float64{}}
}

func (f *fakeSink) SetText(name, text string)                 { f.texts[name] = text }
func (f *fakeSink) PushLine(name, line, label, color string)  { f.lines = append(f.lines, line) }
func (f *fakeSink) ReplaceSeries0(name string, vec []float64) { f.series[name] = vec }

func screenFixture() decode.Screen {
	return decode.Screen{
		Name: "main",
		Panels: []decode.Panel{
			{Name: "p1", Figures: []decode.Figure{
				{Name: "status", Kind: "_label", Triggers: []string{"ev1"}},
			}},
		},
		Events: []decode.Event{
			{Name: "ev1", Kind: "_update", Label: "Status", Color: "white",
				Form: []decode.FormBinding{{Local: "l1", Path: ".str0"}}},
		},
	}
}

// logFixture mirrors screenFixture but triggers a `_buffer` figure instead
// of a `_label`, so Dispatch must route through PushLine, not SetText.
func logFixture() decode.Screen {
	return decode.Screen{
		Name: "main",
		Panels: []decode.Panel{
			{Name: "p1", Figures: []decode.Figure{
				{Name: "log", Kind: "_buffer", Triggers: []string{"ev1"}},
			}},
		},
		Events: []decode.Event{
			{Name: "ev1", Kind: "_update", Label: "Status", Color: "white",
				Form: []decode.FormBinding{{Local: "l1", Path: ".str0"}}},
		},
	}
}

func Test_Compile_buildsEventsAndTriggers(t *testing.T) {
	events, diags := Compile(screenFixture())
	assert.Empty(t, diags)
	if assert.Contains(t, events, "ev1") {
		assert.Equal(t, []TriggerFigure{{Name: "status", Kind: "_label"}}, events["ev1"].Triggers)
		assert.Len(t, events["ev1"].Bindings, 1)
	}
}

func Test_Compile_flagsUnreferencedEventAndBadPath(t *testing.T) {
	sc := screenFixture()
	sc.Panels[0].Figures[0].Triggers = []string{"missing"}
	sc.Events[0].Form[0].Path = ".bogus0"

	_, diags := Compile(sc)
	assert.NotEmpty(t, diags)
}

func Test_Dispatch_updatesLabelViaSetTextOnly(t *testing.T) {
	events, _ := Compile(screenFixture())
	sink := newFakeSink()

	diags := Dispatch(events, "ev1", Payload{Kind: SlotString, String: "hello"}, sink, nil)
	assert.Empty(t, diags)
	assert.Equal(t, "hello", sink.texts["status"])
	assert.Empty(t, sink.lines, "a _label figure must not receive a pushed buffer line")
}

func Test_Dispatch_updatesBufferViaPushLineOnly(t *testing.T) {
	events, _ := Compile(logFixture())
	sink := newFakeSink()

	diags := Dispatch(events, "ev1", Payload{Kind: SlotString, String: "hello"}, sink, nil)
	assert.Empty(t, diags)
	assert.Empty(t, sink.texts, "a _buffer figure must not receive a SetText call")
	assert.Equal(t, []string{"hello"}, sink.lines)
}

func Test_Dispatch_unknownEventDiagnoses(t *testing.T) {
	events, _ := Compile(screenFixture())
	diags := Dispatch(events, "nope", Payload{}, nil, nil)
	assert.NotEmpty(t, diags)
}
