// Package widget ties the layout, ansi, braille, render and event packages
// together into one screen session: it turns a decoded renderings §3
// Screen into a layout.Object tree, holds each figure's live data, and
// drives one render pass per frame through the abstract render.Renderer.
package widget

import (
	"fmt"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/iinuji/ansi"
	"github.com/cuwacunu/tsiemene/internal/iinuji/braille"
	"github.com/cuwacunu/tsiemene/internal/iinuji/event"
	"github.com/cuwacunu/tsiemene/internal/iinuji/layout"
	"github.com/cuwacunu/tsiemene/internal/iinuji/render"
	"github.com/cuwacunu/tsiemene/internal/iinuji/slots"
)

// FigureState is one figure's live, mutable data, updated by dispatched
// events and painted every frame.
type FigureState struct {
	Figure decode.Figure

	Text       string   // _label / _input_box current value
	BufferLine []string // _buffer accumulated lines, oldest first
	Series0    []float64

	ScrollOffset int // 0 means "stick to tail" for buffers (§4.8)
}

func newFigureState(f decode.Figure) *FigureState {
	fs := &FigureState{Figure: f, Text: f.Value}
	return fs
}

// Session is one active screen: its widget tree, figure states, focus
// ring, compiled events, and stream router.
type Session struct {
	Screen   decode.Screen
	Registry *render.Registry

	figures map[string]*FigureState
	panels  map[string]decode.Panel

	Events      map[string]*event.CompiledEvent
	Diagnostics []string
	Focus       *event.FocusRing
	Router      *event.Router

	// Slots is this screen's §3 data slot store, sized to the highest
	// str/vec/num index any compiled event's form binding addresses.
	// Dispatch uses it by default when no explicit SlotWriter is supplied.
	Slots *slots.Store
}

// NewSession compiles screen's events and builds its initial figure states.
func NewSession(screen decode.Screen, registry *render.Registry) *Session {
	s := &Session{
		Screen:   screen,
		Registry: registry,
		figures:  make(map[string]*FigureState),
		panels:   make(map[string]decode.Panel),
		Router:   event.NewRouter(1024),
	}
	var focusables []event.Focusable
	for _, p := range screen.Panels {
		s.panels[p.Name] = p
		for _, f := range p.Figures {
			s.figures[f.Name] = newFigureState(f)
			if isFocusable(f.Kind) {
				focusables = append(focusables, event.Focusable{Name: f.Name, IsTerminal: f.Kind == "_input_box"})
			}
		}
	}
	s.Focus = event.NewFocusRing(focusables)
	s.Events, s.Diagnostics = event.Compile(screen)
	strCount, vecCount, numCount := slotCounts(s.Events)
	s.Slots = slots.New(strCount, vecCount, numCount)
	return s
}

// slotCounts scans every compiled event's bindings for the highest
// str/vec/num index referenced, so the session's slot store is sized to
// actually hold everything the screen's events can address.
func slotCounts(events map[string]*event.CompiledEvent) (strCount, vecCount, numCount int) {
	for _, ce := range events {
		for _, b := range ce.Bindings {
			ref, ok := slots.Parse(b.Path)
			if !ok {
				continue
			}
			switch ref.Kind {
			case slots.Str:
				if ref.Index+1 > strCount {
					strCount = ref.Index + 1
				}
			case slots.Vec:
				if ref.Index+1 > vecCount {
					vecCount = ref.Index + 1
				}
			case slots.Num:
				if ref.Index+1 > numCount {
					numCount = ref.Index + 1
				}
			}
		}
	}
	return strCount, vecCount, numCount
}

func isFocusable(kind string) bool {
	switch kind {
	case "_input_box", "_horizontal_plot", "_text_editor":
		return true
	default:
		return false
	}
}

// SetText implements event.FigureSink.
func (s *Session) SetText(figureName, text string) {
	if fs, ok := s.figures[figureName]; ok {
		fs.Text = text
	}
}

// PushLine implements event.FigureSink: appends one line to a `_buffer`
// figure. label, if non-empty, prefixes the line and is repeated as
// indentation on wrap continuations at render time (§4.8).
func (s *Session) PushLine(figureName, line, label, color string) {
	fs, ok := s.figures[figureName]
	if !ok {
		return
	}
	if label != "" {
		line = fmt.Sprintf("[%s] %s", label, line)
	}
	fs.BufferLine = append(fs.BufferLine, line)
}

// ReplaceSeries0 implements event.FigureSink.
func (s *Session) ReplaceSeries0(figureName string, vec []float64) {
	if fs, ok := s.figures[figureName]; ok {
		fs.Series0 = vec
	}
}

// Dispatch runs one dispatch_event call against this session's compiled
// events and figure states. A nil writer defaults to this session's own
// slot store (via slots.Writer), which enforces the read-only
// system-stream invariant; callers only need to pass an explicit writer
// to observe or override slot writes (e.g. in tests).
func (s *Session) Dispatch(eventName string, payload event.Payload, writer event.SlotWriter) []string {
	if writer == nil {
		writer = slots.Writer{Store: s.Slots}
	}
	return event.Dispatch(s.Events, eventName, payload, s, writer)
}

// BuildLayout turns the screen's panels/figures into a layout.Object tree,
// one Dock-mode root hosting each panel Absolute-placed at its declared
// (coords, shape) — both expressed as percent-of-screen per §3, converted
// to cells against (rows, cols) here.
func (s *Session) BuildLayout(rows, cols int) *layout.Object {
	root := &layout.Object{
		Name:    s.Screen.Name,
		Mode:    layout.Normalized,
		Visible: true,
		Border:  s.Screen.Border,
	}
	for _, p := range s.Screen.Panels {
		panelObj := &layout.Object{
			Name:    p.Name,
			Mode:    layout.Normalized,
			Visible: true,
			Border:  p.Border,
			Z:       p.Z,
		}
		for _, f := range p.Figures {
			figObj := &layout.Object{Name: f.Name, Mode: layout.Absolute, Visible: true, Border: f.Border}
			panelObj.Children = append(panelObj.Children, &layout.Child{
				Object: figObj,
				Norm: layout.NormSpec{
					X: f.Coords.X / 100, Y: f.Coords.Y / 100,
					W: f.Shape.X / 100, H: f.Shape.Y / 100,
				},
			})
		}
		root.Children = append(root.Children, &layout.Child{
			Object: panelObj,
			Norm: layout.NormSpec{
				X: p.Coords.X / 100, Y: p.Coords.Y / 100,
				W: p.Shape.X / 100, H: p.Shape.Y / 100,
			},
		})
	}
	return root
}

// RenderFrame paints one frame: for every placed figure, dispatches to the
// figure-kind-specific paint routine (§4.8 "Render order per object").
func (s *Session) RenderFrame(r render.Renderer, placed *layout.Placed) {
	r.Clear()
	s.paintObject(r, placed)
	_ = r.Flush()
}

func (s *Session) paintObject(r render.Renderer, p *layout.Placed) {
	if p == nil || !p.Object.Visible {
		return
	}
	if p.Object.Border {
		paintBorder(r, p.Rect, s.Registry.Resolve("", ""))
	}
	if fs, ok := s.figures[p.Object.Name]; ok {
		s.paintFigure(r, p.Rect, fs)
	}
	for _, c := range p.Children {
		s.paintObject(r, c)
	}
}

func paintBorder(r render.Renderer, rect layout.Rect, pair int) {
	for x := rect.X; x < rect.X+rect.W; x++ {
		r.PutGlyph(rect.Y, x, '─', pair)
		r.PutGlyph(rect.Y+rect.H-1, x, '─', pair)
	}
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		r.PutGlyph(y, rect.X, '│', pair)
		r.PutGlyph(y, rect.X+rect.W-1, '│', pair)
	}
}

func (s *Session) paintFigure(r render.Renderer, rect layout.Rect, fs *FigureState) {
	pair := s.Registry.Resolve(fs.Figure.TextColor, fs.Figure.BackColor)
	inner := rect
	if fs.Figure.Border {
		inner = inner.Inset(1)
	}

	switch fs.Figure.Kind {
	case "_label", "_input_box":
		rows := ansi.Parse(fs.Text, inner.W)
		paintRows(r, inner, rows, pair)

	case "_buffer":
		paintBuffer(r, inner, fs, pair)

	case "_text_editor":
		rows := ansi.Parse(fs.Text, inner.W)
		paintRows(r, inner, rows, pair)

	case "_horizontal_plot":
		paintPlot(r, inner, fs, pair)
	}
}

func paintRows(r render.Renderer, rect layout.Rect, rows []ansi.Row, pair int) {
	for i, row := range rows {
		if i >= rect.H {
			break
		}
		x := rect.X
		for _, seg := range row {
			r.PutText(rect.Y+i, x, seg.Text, rect.W-(x-rect.X), pair, seg.Bold, seg.Inverse)
			x += len([]rune(seg.Text))
		}
	}
}

// paintBuffer renders a `_buffer` figure's accumulated lines, bottom
// anchored, following the tail unless ScrollOffset has been manually set
// (§4.8 "Follow-tail semantics").
func paintBuffer(r render.Renderer, rect layout.Rect, fs *FigureState, pair int) {
	var wrapped []ansi.Row
	for _, line := range fs.BufferLine {
		wrapped = append(wrapped, ansi.Parse(line, rect.W)...)
	}
	total := len(wrapped)
	visible := rect.H
	offset := fs.ScrollOffset
	if offset == 0 {
		if total > visible {
			offset = total - visible
		}
	}
	if offset > total-visible {
		offset = total - visible
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + visible
	if end > total {
		end = total
	}
	for i, row := range wrapped[offset:end] {
		x := rect.X
		for _, seg := range row {
			r.PutText(rect.Y+i, x, seg.Text, rect.W-(x-rect.X), pair, seg.Bold, seg.Inverse)
			x += len([]rune(seg.Text))
		}
	}
}

func paintPlot(r render.Renderer, rect layout.Rect, fs *FigureState, pair int) {
	if rect.W <= 0 || rect.H <= 0 || len(fs.Series0) == 0 {
		return
	}
	g := braille.NewGrid(rect.W, rect.H)
	xs := make([]float64, len(fs.Series0))
	for i := range xs {
		xs[i] = float64(i)
	}
	rng := braille.AutoRange(fs.Series0)
	braille.DrawSeries(g, braille.Series{X: xs, Y: fs.Series0}, braille.PlotOptions{
		Mode: braille.Line, XRange: braille.Range{Min: 0, Max: float64(len(xs) - 1)}, YRange: rng,
	})
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			r.PutBraille(rect.Y+y, rect.X+x, g.Glyph(x, y), pair)
		}
	}
}

// FigureText returns a figure's current plain text (ANSI stripped), used
// by tests and by the command layer to report a figure's value.
func (s *Session) FigureText(name string) string {
	if fs, ok := s.figures[name]; ok {
		return ansi.PlainText(fs.Text)
	}
	return ""
}

// BufferText joins a `_buffer` figure's accumulated lines.
func (s *Session) BufferText(name string) string {
	if fs, ok := s.figures[name]; ok {
		return strings.Join(fs.BufferLine, "\n")
	}
	return ""
}
