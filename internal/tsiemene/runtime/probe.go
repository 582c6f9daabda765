package runtime

import (
	"context"

	"github.com/cuwacunu/tsiemene/internal/logging"
	"github.com/cuwacunu/tsiemene/internal/tsiemene"
	"github.com/google/uuid"
)

// ProbeNode is a generic Node that relays whatever ingress it receives back
// out on DirectivePayload, unless it is a sink. cmd/tsictl builds one per
// circuit instance so that RUN and DISPATCH can drive a loaded board's
// wave scheduler end to end without requiring a concrete implementation for
// every tsi_type named in the circuit — useful for exercising and
// inspecting wiring interactively before real node types exist for it.
type ProbeNode struct {
	instance string
	typeName string
	sink     bool
	id       string
}

// NewProbeNode builds a ProbeNode for one circuit instance. sink should be
// true when the board validator determined this instance has no outbound
// hops (a terminal, tsi.sink.* instance).
func NewProbeNode(instance, typeName string, sink bool) *ProbeNode {
	id := instance
	if generated, err := uuid.NewRandom(); err == nil {
		id = generated.String()
	}
	return &ProbeNode{instance: instance, typeName: typeName, sink: sink, id: id}
}

func (n *ProbeNode) TypeName() string     { return n.typeName }
func (n *ProbeNode) InstanceName() string { return n.instance }
func (n *ProbeNode) ID() string           { return n.id }

func (n *ProbeNode) Directives() []tsiemene.DirectiveSpec {
	dir := tsiemene.DirectiveIn
	if n.sink {
		return []tsiemene.DirectiveSpec{{ID: tsiemene.DirectivePayload, Dir: dir, Kind: tsiemene.KindTensor}}
	}
	return []tsiemene.DirectiveSpec{
		{ID: tsiemene.DirectivePayload, Dir: tsiemene.DirectiveIn, Kind: tsiemene.KindTensor},
		{ID: tsiemene.DirectivePayload, Dir: tsiemene.DirectiveOut, Kind: tsiemene.KindTensor},
	}
}

func (n *ProbeNode) Deterministic() bool { return true }
func (n *ProbeNode) IsSink() bool        { return n.sink }

func (n *ProbeNode) Step(ctx context.Context, wave Wave, ingress Ingress, emit Emitter) error {
	logging.Debug("probe: %s (%s) received %s on wave %d.%d", n.instance, n.typeName, ingress.Directive, wave.ID, wave.I)
	if n.sink {
		return nil
	}
	return emit.Emit(wave, tsiemene.DirectivePayload, ingress.Signal)
}
