// Package runtime implements the TSI node contract and the single-threaded
// cooperative wave scheduler (§4.6): node step dispatch, FIFO event
// delivery, broadcast emission across resolved hops, and the one-hop
// meta-triggered-meta guard.
package runtime

import (
	"context"

	"github.com/cuwacunu/tsiemene/internal/tsiemene"
)

// TensorSignal is the Tensor-kind payload carried by a directive.
type TensorSignal struct {
	Shape []int
	Data  []float64
}

// Signal is the tagged payload a node emits or ingests: exactly one of
// Tensor or String is meaningful, selected by Kind.
type Signal struct {
	Kind   tsiemene.PayloadKind
	Tensor TensorSignal
	String string
}

// Wave carries a wave's identity. A node preserves Wave.ID across an
// emission but may increment I to mark a lazy sequence of items emitted
// under the same wave.
type Wave struct {
	ID uint64
	I  uint64
}

// Ingress is a single inbound event: the directive it arrived on and its
// payload.
type Ingress struct {
	Directive tsiemene.DirectiveID
	Signal    Signal
}

// Emitter is the node-facing broadcast surface: Emit delivers a signal on
// one of the node's own out-directives to every hop whose `from` endpoint
// matches. A QueueFull condition (when the scheduler enforces a bound)
// surfaces here as an error, which the scheduler treats as terminating the
// current wave.
type Emitter interface {
	Emit(wave Wave, outDirective tsiemene.DirectiveID, signal Signal) error
}

// Node is one circuit instance's runtime behavior. IsSink nodes accept
// ingress but never emit — the scheduler does not enforce this, node
// authors are expected to honor it.
type Node interface {
	TypeName() string
	InstanceName() string
	ID() string
	Directives() []tsiemene.DirectiveSpec
	Deterministic() bool
	IsSink() bool
	Step(ctx context.Context, wave Wave, ingress Ingress, emit Emitter) error
}
