package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleRenderings = `
screen main {
  __key F+1
  __border on
  __text_color white
  __back_color <empty>
  __line_color gray
  __thickness 1
}
 panel p1 {
   __coords 0,0
   __shape 100,80
   __z 1
   __border on
   __title "Main panel"
   __text_color white
   __back_color <empty>
   __line_color gray
 }
  figure f1 _label {
    __type nowrap
    __coords 0,0
    __shape 100,10
    __border off
    __title <empty>
    __value "hello"
    __triggers [ev1, ev2]
  }
  figure f2 _buffer {
    __coords 0,10
    __shape 100,70
    __capacity 500
  }
 event ev1 _update {
   __label "Status"
   __color white
   __form local1 = .str0, local2 = .sys.stdout
 }
`

func Test_RenderingsDecoder_decodesScreenPanelFigureEvent(t *testing.T) {
	assert := assert.New(t)

	d, err := NewRenderingsDecoder()
	if !assert.NoError(err) {
		return
	}

	out, err := d.Decode(sampleRenderings)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(out.Screens, 1) {
		return
	}

	sc := out.Screens[0]
	assert.Equal("main", sc.Name)
	assert.Equal("F+1", sc.Key)
	assert.True(sc.Border)
	assert.Equal("white", sc.TextColor)
	assert.Equal("", sc.BackColor)
	assert.Equal("gray", sc.LineColor)
	assert.Equal(1, sc.Thickness)

	if !assert.Len(sc.Panels, 1) {
		return
	}
	p := sc.Panels[0]
	assert.Equal("p1", p.Name)
	assert.Equal(Coord{X: 0, Y: 0}, p.Coords)
	assert.Equal(Coord{X: 100, Y: 80}, p.Shape)
	assert.Equal(1, p.Z)
	assert.True(p.Border)
	assert.Equal("Main panel", p.Title)

	if !assert.Len(p.Figures, 2) {
		return
	}
	f1 := p.Figures[0]
	assert.Equal("f1", f1.Name)
	assert.Equal("_label", f1.Kind)
	assert.Equal("nowrap", f1.Type)
	assert.False(f1.Border)
	assert.Equal("", f1.Title)
	assert.Equal("hello", f1.Value)
	assert.Equal([]string{"ev1", "ev2"}, f1.Triggers)

	f2 := p.Figures[1]
	assert.Equal("f2", f2.Name)
	assert.Equal("_buffer", f2.Kind)
	assert.Equal(500, f2.Capacity)

	if !assert.Len(sc.Events, 1) {
		return
	}
	ev := sc.Events[0]
	assert.Equal("ev1", ev.Name)
	assert.Equal("_update", ev.Kind)
	assert.Equal("Status", ev.Label)
	assert.Equal("white", ev.Color)
	if assert.Len(ev.Form, 2) {
		assert.Equal(FormBinding{Local: "local1", Path: ".str0"}, ev.Form[0])
		assert.Equal(FormBinding{Local: "local2", Path: ".sys.stdout"}, ev.Form[1])
	}
}

func Test_parseCoordPair(t *testing.T) {
	c, ok := parseCoordPair("10,20")
	assert.True(t, ok)
	assert.Equal(t, Coord{X: 10, Y: 20}, c)

	_, ok = parseCoordPair("bogus")
	assert.False(t, ok)
}

func Test_parseBoolToken(t *testing.T) {
	assert.True(t, parseBoolToken("on"))
	assert.True(t, parseBoolToken("true"))
	assert.False(t, parseBoolToken("off"))
	assert.False(t, parseBoolToken("false"))
}

func Test_unquoteOrEmpty(t *testing.T) {
	assert.Equal(t, "", unquoteOrEmpty("<empty>"))
	assert.Equal(t, "hello", unquoteOrEmpty(`"hello"`))
	assert.Equal(t, "bare", unquoteOrEmpty("bare"))
}

func Test_parseTriggerList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseTriggerList("__triggers[a,b]"))
}
