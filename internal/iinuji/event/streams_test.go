package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Router_pumpDispatchesToSysBoundEvents(t *testing.T) {
	events := map[string]*CompiledEvent{
		"onOut": {Name: "onOut", Kind: "_update", Bindings: []Binding{{Local: "l", Path: ".sys.stdout", Kind: SlotString}}, Triggers: []string{"console"}},
	}
	sink := newFakeSink()

	r := NewRouter(8)
	r.enqueue(capturedLine{kind: Stdout, line: "hello"})
	r.enqueue(capturedLine{kind: Stderr, line: "ignored for onOut"})
	r.Pump(events, sink, nil)

	assert.Equal(t, []string{"hello"}, sink.lines)
}

func Test_Router_dropsOldestWhenFull(t *testing.T) {
	r := NewRouter(2)
	r.enqueue(capturedLine{line: "a"})
	r.enqueue(capturedLine{line: "b"})
	r.enqueue(capturedLine{line: "c"})

	lines := r.drain()
	if assert.Len(t, lines, 2) {
		assert.Equal(t, "b", lines[0].line)
		assert.Equal(t, "c", lines[1].line)
	}
}
