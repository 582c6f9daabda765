// Package event implements §4.11: event dispatch and slot binding, the
// focus ring, key decomposition, and stdout/stderr stream capture.
package event

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/util"
)

// SlotKind is the type a bound data slot accepts.
type SlotKind int

const (
	SlotString SlotKind = iota
	SlotVector
	SlotNumber
)

// Payload is one value dispatched to a bound slot.
type Payload struct {
	Kind   SlotKind
	String string
	Vector []float64
	Number float64
}

// Binding is one resolved `local = path` form entry: Local is the name used
// inside the event body, Path is the decoded data path (".str0", ".vec1",
// ".sys.stdout", ...).
type Binding struct {
	Local string
	Path  string
	Kind  SlotKind
}

// pathKind classifies a data path's slot kind, normalizing the accepted
// `.sys.stdout`/`sysstdout` and `.sys.stderr`/`sysstderr` aliases (§6).
func pathKind(path string) (kind SlotKind, ok bool) {
	p := strings.TrimPrefix(path, ".")
	switch {
	case p == "sys.stdout" || p == "sysstdout" || p == "sys.stderr" || p == "sysstderr":
		return SlotString, true
	case strings.HasPrefix(p, "str"):
		return SlotString, true
	case strings.HasPrefix(p, "vec"):
		return SlotVector, true
	case strings.HasPrefix(p, "num"):
		return SlotNumber, true
	default:
		return 0, false
	}
}

// TriggerFigure is one figure wired to a CompiledEvent via its Triggers
// list, carrying the figure's kind so Dispatch can route the payload the
// way that kind expects (§4.11).
type TriggerFigure struct {
	Name string
	Kind string // decode.Figure.Kind: "_label" | "_input_box" | "_buffer" | "_text_editor" | "_horizontal_plot"
}

// CompiledEvent is a renderings event compiled for dispatch.
type CompiledEvent struct {
	Name     string
	Kind     string // "_update" | "_action"
	Label    string
	Color    string
	Bindings []Binding
	// Triggers is the set of figures whose Figures[i].Triggers list this
	// event's name (built by Compile from the owning screen's figures).
	Triggers []TriggerFigure
}

// Compile builds the dispatch table for one decoded screen: a map from
// event name to its compiled form, diagnosing unresolvable data paths up
// front rather than at dispatch time.
func Compile(screen decode.Screen) (events map[string]*CompiledEvent, diagnostics []string) {
	events = make(map[string]*CompiledEvent)
	for _, ev := range screen.Events {
		ce := &CompiledEvent{Name: ev.Name, Kind: ev.Kind, Label: ev.Label, Color: ev.Color}
		for _, fb := range ev.Form {
			kind, ok := pathKind(fb.Path)
			if !ok {
				diagnostics = append(diagnostics, fmt.Sprintf("event %q: unrecognized data path %q", ev.Name, fb.Path))
				continue
			}
			ce.Bindings = append(ce.Bindings, Binding{Local: fb.Local, Path: fb.Path, Kind: kind})
		}
		events[ev.Name] = ce
	}

	seen := make(map[string]util.StringSet)
	for _, panel := range screen.Panels {
		for _, fig := range panel.Figures {
			for _, trig := range fig.Triggers {
				ce, ok := events[trig]
				if !ok {
					diagnostics = append(diagnostics, fmt.Sprintf("figure %q: unreferenced event %q", fig.Name, trig))
					continue
				}
				// a figure may list the same event name more than once; a
				// set of figure names already wired to this event keeps
				// Triggers from growing a duplicate entry.
				wired, ok := seen[trig]
				if !ok {
					wired = util.NewStringSet()
					seen[trig] = wired
				}
				if wired.Has(fig.Name) {
					continue
				}
				wired.Add(fig.Name)
				ce.Triggers = append(ce.Triggers, TriggerFigure{Name: fig.Name, Kind: fig.Kind})
			}
		}
	}

	// stable order for diagnostics a caller might print
	sort.Strings(diagnostics)
	return events, diagnostics
}

// FigureSink receives a dispatched event's payload for one triggered
// figure, interpreted per figure kind (§4.11): labels/inputs receive a
// string, buffers push a line (with label/color metadata), plots receive a
// vector and replace series[0].
type FigureSink interface {
	SetText(figureName, text string)
	PushLine(figureName, line, label, color string)
	ReplaceSeries0(figureName string, vec []float64)
}

// SlotWriter receives a dispatched `_action` event's payload bound into
// each of its slots, addressed by data path.
type SlotWriter interface {
	WriteString(path, value string)
	WriteVector(path string, value []float64)
	WriteNumber(path string, value float64)
}

// Dispatch runs dispatch_event(event_name, data, payload) (§4.11): for
// `_action` events it writes the payload into every bound slot (type
// checked against the slot's compiled Kind); for every figure whose
// Triggers list the event it updates its figure kind appropriately.
// Figures/slots are updated in the CompiledEvent's declaration order.
// Returns diagnostics for missing events, kind mismatches, and unbound
// slots; it does not abort on the first problem.
func Dispatch(events map[string]*CompiledEvent, name string, payload Payload, sinks FigureSink, slots SlotWriter) []string {
	ce, ok := events[name]
	if !ok {
		return []string{fmt.Sprintf("dispatch: unknown event %q", name)}
	}

	var diags []string

	if ce.Kind == "_action" {
		for _, b := range ce.Bindings {
			if b.Kind != payload.Kind {
				diags = append(diags, fmt.Sprintf("event %q: slot %q kind mismatch", name, b.Local))
				continue
			}
			if slots == nil {
				continue
			}
			switch payload.Kind {
			case SlotString:
				slots.WriteString(b.Path, payload.String)
			case SlotVector:
				slots.WriteVector(b.Path, payload.Vector)
			case SlotNumber:
				slots.WriteNumber(b.Path, payload.Number)
			}
		}
	}

	if sinks != nil {
		for _, fig := range ce.Triggers {
			// §4.11: labels/inputs/editors receive a string, buffers push a
			// line, plots receive a vector — route by the triggered figure's
			// own kind, never by payload kind alone (a `_buffer` and a
			// `_label` can both be triggered by the same string-payload
			// event, but only the buffer may accumulate a line from it).
			switch fig.Kind {
			case "_label", "_input_box", "_text_editor":
				if payload.Kind == SlotString {
					sinks.SetText(fig.Name, payload.String)
				}
			case "_buffer":
				if payload.Kind == SlotString {
					sinks.PushLine(fig.Name, payload.String, ce.Label, ce.Color)
				}
			case "_horizontal_plot":
				if payload.Kind == SlotVector {
					sinks.ReplaceSeries0(fig.Name, payload.Vector)
				}
			}
		}
	}

	return diags
}
