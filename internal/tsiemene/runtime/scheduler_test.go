package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuwacunu/tsiemene/internal/tsiemene"
	"github.com/cuwacunu/tsiemene/internal/tsiemene/board"
)

// recordingNode relays any ingress it receives to its sole out-directive
// (unless it's a sink), and records every ingress it was handed.
type recordingNode struct {
	name       string
	sink       bool
	outDir     tsiemene.DirectiveID
	seen       []Ingress
	stepErr    error
	emitsMeta  bool // when true, re-emits on Meta regardless of guard, to exercise it
	emitExtraN int  // extra emissions beyond the first, to build a small fan-out
}

func (n *recordingNode) TypeName() string     { return "test.node" }
func (n *recordingNode) InstanceName() string { return n.name }
func (n *recordingNode) ID() string           { return n.name }
func (n *recordingNode) Directives() []tsiemene.DirectiveSpec {
	return []tsiemene.DirectiveSpec{{ID: n.outDir, Dir: tsiemene.DirectiveOut, Kind: tsiemene.KindTensor}}
}
func (n *recordingNode) Deterministic() bool { return true }
func (n *recordingNode) IsSink() bool        { return n.sink }

func (n *recordingNode) Step(ctx context.Context, wave Wave, ingress Ingress, emit Emitter) error {
	n.seen = append(n.seen, ingress)
	if n.stepErr != nil {
		return n.stepErr
	}
	if n.sink {
		return nil
	}
	out := n.outDir
	if n.emitsMeta {
		out = tsiemene.DirectiveMeta
	}
	if err := emit.Emit(wave, out, ingress.Signal); err != nil {
		return err
	}
	for i := 0; i < n.emitExtraN; i++ {
		if err := emit.Emit(wave, out, ingress.Signal); err != nil {
			return err
		}
	}
	return nil
}

func chainNodes() (map[string]Node, *recordingNode, *recordingNode) {
	a := &recordingNode{name: "a", outDir: tsiemene.DirectivePayload}
	b := &recordingNode{name: "b", sink: true}
	return map[string]Node{"a": a, "b": b}, a, b
}

func chainHop() []board.ResolvedHop {
	return []board.ResolvedHop{
		{
			From: board.ResolvedEndpoint{Instance: "a", Directive: tsiemene.DirectivePayload, Kind: tsiemene.KindTensor},
			To:   board.ResolvedEndpoint{Instance: "b", Directive: tsiemene.DirectivePayload, Kind: tsiemene.KindTensor},
		},
	}
}

func Test_Scheduler_deliversThroughChain(t *testing.T) {
	nodes, _, b := chainNodes()
	sched, err := NewScheduler(nodes, chainHop(), 0)
	if !assert.NoError(t, err) {
		return
	}

	initial := Ingress{Directive: tsiemene.DirectivePayload, Signal: Signal{Kind: tsiemene.KindTensor, Tensor: TensorSignal{Data: []float64{1, 2, 3}}}}
	steps, err := sched.Run(context.Background(), Wave{ID: 1}, "a", initial)

	assert.NoError(t, err)
	assert.Equal(t, 2, steps) // root "a" + one delivery to "b"
	if assert.Len(t, b.seen, 1) {
		assert.Equal(t, []float64{1, 2, 3}, b.seen[0].Signal.Tensor.Data)
	}
}

func Test_Scheduler_stepErrorTerminatesWave(t *testing.T) {
	nodes, a, _ := chainNodes()
	a.stepErr = assert.AnError

	sched, err := NewScheduler(nodes, chainHop(), 0)
	if !assert.NoError(t, err) {
		return
	}

	steps, err := sched.Run(context.Background(), Wave{ID: 1}, "a", Ingress{Directive: tsiemene.DirectivePayload})
	assert.Error(t, err)
	assert.Equal(t, 0, steps)
}

func Test_Scheduler_queueFullSurfacesAsRuntimeError(t *testing.T) {
	a := &recordingNode{name: "a", outDir: tsiemene.DirectivePayload, emitExtraN: 3}
	b := &recordingNode{name: "b", sink: true}
	nodes := map[string]Node{"a": a, "b": b}

	sched, err := NewScheduler(nodes, chainHop(), 1)
	if !assert.NoError(t, err) {
		return
	}

	_, err = sched.Run(context.Background(), Wave{ID: 1}, "a", Ingress{Directive: tsiemene.DirectivePayload})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "QueueFull")
}

func Test_Scheduler_oneHopMetaGuard(t *testing.T) {
	a := &recordingNode{name: "a", outDir: tsiemene.DirectivePayload, emitsMeta: true}
	b := &recordingNode{name: "b", emitsMeta: true}
	nodes := map[string]Node{"a": a, "b": b}

	// a -> b on Meta, and b -> a on Meta too (a loop) so a failure to guard
	// would show up as a's step count growing.
	hops := []board.ResolvedHop{
		{
			From: board.ResolvedEndpoint{Instance: "a", Directive: tsiemene.DirectiveMeta, Kind: tsiemene.KindString},
			To:   board.ResolvedEndpoint{Instance: "b", Directive: tsiemene.DirectiveMeta, Kind: tsiemene.KindString},
		},
		{
			From: board.ResolvedEndpoint{Instance: "b", Directive: tsiemene.DirectiveMeta, Kind: tsiemene.KindString},
			To:   board.ResolvedEndpoint{Instance: "a", Directive: tsiemene.DirectiveMeta, Kind: tsiemene.KindString},
		},
	}
	sched, err := NewScheduler(nodes, hops, 0)
	if !assert.NoError(t, err) {
		return
	}

	steps, err := sched.Run(context.Background(), Wave{ID: 1}, "a", Ingress{Directive: tsiemene.DirectivePayload, Signal: Signal{Kind: tsiemene.KindString, String: "diag"}})
	assert.NoError(t, err)
	// a's step is not itself meta-triggered, so its meta emission is delivered
	// to b (1 hop, step 2); b's own emission is meta-triggered-meta and is
	// guarded, so it never reaches a again (no step 3).
	assert.Equal(t, 2, steps)
	assert.Len(t, a.seen, 1)
	assert.Len(t, b.seen, 1)
}

func Test_Scheduler_unknownRootInstance(t *testing.T) {
	nodes, _, _ := chainNodes()
	sched, err := NewScheduler(nodes, chainHop(), 0)
	if !assert.NoError(t, err) {
		return
	}
	_, err = sched.Run(context.Background(), Wave{ID: 1}, "bogus", Ingress{})
	assert.Error(t, err)
}

func Test_NewScheduler_rejectsUnregisteredHopInstance(t *testing.T) {
	nodes := map[string]Node{"a": &recordingNode{name: "a"}}
	_, err := NewScheduler(nodes, chainHop(), 0)
	assert.Error(t, err)
}
