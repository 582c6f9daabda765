// Package screen validates a decoded renderings instruction (§3 "In a
// rendering screen" invariants): figure-kind/event-kind compatibility,
// figure-kind/bind-kind compatibility, same-slot-per-figure binding, and
// the system-stream restrictions. It is the renderings-side counterpart to
// internal/tsiemene/board's circuit validator.
package screen

import (
	"fmt"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/errs"
	"github.com/cuwacunu/tsiemene/internal/iinuji/event"
	"github.com/cuwacunu/tsiemene/internal/iinuji/slots"
)

// requiredEventKind returns the event kind a figure of the given kind must
// trigger through (§3: "input_box↔_action, buffer↔_update,
// label/plot/editor↔_update").
func requiredEventKind(figureKind string) string {
	if figureKind == "_input_box" {
		return "_action"
	}
	return "_update"
}

// requiredBindKind returns the slot kind a figure of the given kind must
// receive (§3: "plot→Vec, buffer→Str, others→Str").
func requiredBindKind(figureKind string) event.SlotKind {
	if figureKind == "_horizontal_plot" {
		return event.SlotVector
	}
	return event.SlotString
}

// firstBindingOfKind returns the first binding of the wanted kind on ce, or
// nil if it has none.
func firstBindingOfKind(ce *event.CompiledEvent, want event.SlotKind) *event.Binding {
	for i := range ce.Bindings {
		if ce.Bindings[i].Kind == want {
			return &ce.Bindings[i]
		}
	}
	return nil
}

// hasSystemBinding reports whether any of ce's bindings addresses a system
// stream (`.sys.stdout`/`.sys.stderr`).
func hasSystemBinding(ce *event.CompiledEvent) bool {
	for _, b := range ce.Bindings {
		if ref, ok := slots.Parse(b.Path); ok && (ref.Kind == slots.SysStdout || ref.Kind == slots.SysStderr) {
			return true
		}
	}
	return false
}

// Validate checks one decoded screen against §3's rendering-screen
// invariants, accumulating every problem found into a *errs.ValidationError
// rather than stopping at the first (matching board.ValidateCircuitDecl's
// convention). It compiles the screen's events itself (via event.Compile)
// so a caller only needs the decoded screen.
func Validate(scr decode.Screen) error {
	var verr errs.ValidationError
	loc := fmt.Sprintf("screen:%s", scr.Name)

	events, diags := event.Compile(scr)
	for _, d := range diags {
		verr.Add(loc, d)
	}

	validateSystemEvents(events, loc, &verr)
	validateFigureTriggers(scr, events, loc, &verr)
	validateSameBindingPerFigure(scr, events, loc, &verr)

	return verr.OrNil()
}

// validateSystemEvents enforces that any event with a system-stream binding
// is itself a single-binding `_update` event on a string slot (§3:
// "System-stream bindings are only allowed on `_update` events bound to a
// single `str` form").
func validateSystemEvents(events map[string]*event.CompiledEvent, loc string, verr *errs.ValidationError) {
	for name, ce := range events {
		if !hasSystemBinding(ce) {
			continue
		}
		ewhere := fmt.Sprintf("%s.event[%s]", loc, name)
		if ce.Kind != "_update" {
			verr.Add(ewhere, "system stream bindings are only allowed on _update events")
		}
		if len(ce.Bindings) != 1 {
			verr.Add(ewhere, "system stream event must have exactly one form binding")
			continue
		}
		if ce.Bindings[0].Kind != event.SlotString {
			verr.Add(ewhere, "system stream binding must be a str form")
		}
	}
}

// validateFigureTriggers walks every figure's triggers and enforces the
// figure-kind/event-kind match, the figure-kind/bind-kind match, the
// "only _buffer may trigger a system-stream event" rule, and rejects an
// event referenced by more than one distinct figure kind (ambiguous
// wiring).
func validateFigureTriggers(scr decode.Screen, events map[string]*event.CompiledEvent, loc string, verr *errs.ValidationError) {
	eventFigureKinds := make(map[string]map[string]bool)

	for _, panel := range scr.Panels {
		for _, fig := range panel.Figures {
			wantEventKind := requiredEventKind(fig.Kind)
			wantBindKind := requiredBindKind(fig.Kind)

			for _, trig := range fig.Triggers {
				ce, ok := events[trig]
				if !ok {
					continue // already diagnosed as "unreferenced event" by event.Compile
				}

				if eventFigureKinds[trig] == nil {
					eventFigureKinds[trig] = make(map[string]bool)
				}
				eventFigureKinds[trig][fig.Kind] = true

				fwhere := fmt.Sprintf("%s.figure[%s]", loc, fig.Name)

				if ce.Kind != wantEventKind {
					verr.Add(fwhere, fmt.Sprintf("event %q kind mismatch (needs %s, got %s)", trig, wantEventKind, ce.Kind))
				}
				if firstBindingOfKind(ce, wantBindKind) == nil {
					verr.Add(fwhere, fmt.Sprintf("event %q missing required binding kind for figure kind %s", trig, fig.Kind))
				}
				if hasSystemBinding(ce) && fig.Kind != "_buffer" {
					verr.Add(fwhere, fmt.Sprintf("event %q is a system stream source, only _buffer may trigger it", trig))
				}
			}
		}
	}

	for trig, kinds := range eventFigureKinds {
		if len(kinds) > 1 {
			verr.Add(loc, fmt.Sprintf("event %q referenced by multiple figure kinds (ambiguous wiring)", trig))
		}
	}
}

// validateSameBindingPerFigure enforces that all triggers of the same
// figure bind to the same slot, except `_buffer` figures which may fan in
// from multiple sources (§3).
func validateSameBindingPerFigure(scr decode.Screen, events map[string]*event.CompiledEvent, loc string, verr *errs.ValidationError) {
	for _, panel := range scr.Panels {
		for _, fig := range panel.Figures {
			if fig.Kind == "_buffer" {
				continue
			}
			wantEventKind := requiredEventKind(fig.Kind)
			wantBindKind := requiredBindKind(fig.Kind)

			var first *event.Binding
			for _, trig := range fig.Triggers {
				ce, ok := events[trig]
				if !ok || ce.Kind != wantEventKind {
					continue
				}
				b := firstBindingOfKind(ce, wantBindKind)
				if b == nil {
					continue
				}
				if first == nil {
					first = b
					continue
				}
				if first.Path != b.Path {
					verr.Add(fmt.Sprintf("%s.figure[%s]", loc, fig.Name),
						fmt.Sprintf("triggers bind to different slots (first %s, then %s)", first.Path, b.Path))
				}
			}
		}
	}
}

// ValidateRenderingsInstruction validates every screen in a decoded
// renderings document and rejects duplicated screen names across the whole
// document.
func ValidateRenderingsInstruction(instr *decode.RenderingsInstruction) error {
	var verr errs.ValidationError

	if instr == nil || len(instr.Screens) == 0 {
		verr.Add("renderings", "renderings document has no screens")
		return verr.OrNil()
	}

	screenNames := make(map[string]struct{}, len(instr.Screens))
	for i, scr := range instr.Screens {
		loc := fmt.Sprintf("renderings.screens[%d]", i)
		if _, dup := screenNames[scr.Name]; dup {
			verr.Add(loc, "duplicated screen name: "+scr.Name)
		} else {
			screenNames[scr.Name] = struct{}{}
		}

		if err := Validate(scr); err != nil {
			if ve, ok := err.(*errs.ValidationError); ok {
				verr.Diagnostics = append(verr.Diagnostics, ve.Diagnostics...)
			}
		}
	}

	return verr.OrNil()
}
