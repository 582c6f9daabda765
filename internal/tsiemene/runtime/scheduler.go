package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuwacunu/tsiemene/internal/errs"
	"github.com/cuwacunu/tsiemene/internal/logging"
	"github.com/cuwacunu/tsiemene/internal/tsiemene"
	"github.com/cuwacunu/tsiemene/internal/tsiemene/board"
)

type edge struct {
	from board.ResolvedEndpoint
	to   board.ResolvedEndpoint
}

type event struct {
	wave    Wave
	target  Node
	ingress Ingress
}

// Scheduler runs one circuit's wave loop: single-threaded, cooperative, FIFO.
// Nodes are addressed by the instance alias they were registered under —
// the same alias a board circuit's hop declarations reference.
type Scheduler struct {
	nodes    map[string]Node
	edges    []edge
	queue    []event
	maxQueue int // 0 = unbounded, per §4.6 "Backpressure"
}

// NewScheduler builds a scheduler for one resolved circuit: nodes maps
// instance alias to its runtime Node, hops is the circuit's resolved hop
// list from internal/tsiemene/board. maxQueue <= 0 means unbounded.
func NewScheduler(nodes map[string]Node, hops []board.ResolvedHop, maxQueue int) (*Scheduler, error) {
	edges := make([]edge, 0, len(hops))
	for _, h := range hops {
		if _, ok := nodes[h.From.Instance]; !ok {
			return nil, fmt.Errorf("runtime: hop references unregistered node: %s", h.From.Instance)
		}
		if _, ok := nodes[h.To.Instance]; !ok {
			return nil, fmt.Errorf("runtime: hop references unregistered node: %s", h.To.Instance)
		}
		edges = append(edges, edge{from: h.From, to: h.To})
	}
	return &Scheduler{nodes: nodes, edges: edges, maxQueue: maxQueue}, nil
}

// Run enqueues the initial ingress at rootInstance and drains the FIFO
// queue, calling Step once per dequeued event. A step error or panic
// terminates the wave: the remaining queue is drained (discarded, not
// delivered) and the step count so far is returned alongside the error, per
// the §4.6 failure model.
func (s *Scheduler) Run(ctx context.Context, wave Wave, rootInstance string, initial Ingress) (steps int, err error) {
	root, ok := s.nodes[rootInstance]
	if !ok {
		return 0, fmt.Errorf("runtime: unknown root instance: %s", rootInstance)
	}

	s.queue = s.queue[:0]
	s.enqueue(event{wave: wave, target: root, ingress: initial})

	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]

		if stepErr := s.callStep(ctx, ev); stepErr != nil {
			s.queue = nil
			return steps, stepErr
		}
		steps++
	}
	return steps, nil
}

func (s *Scheduler) callStep(ctx context.Context, ev event) (stepErr error) {
	defer func() {
		if r := recover(); r != nil {
			stepErr = &errs.RuntimeError{
				NodeID: ev.target.ID(),
				Wave:   fmt.Sprintf("%d.%d", ev.wave.ID, ev.wave.I),
				Cause:  fmt.Errorf("panic: %v", r),
			}
		}
	}()

	em := &schedulerEmitter{s: s, source: ev.target.InstanceName(), fromMeta: ev.ingress.Directive == tsiemene.DirectiveMeta}
	if err := ev.target.Step(ctx, ev.wave, ev.ingress, em); err != nil {
		return &errs.RuntimeError{
			NodeID: ev.target.ID(),
			Wave:   fmt.Sprintf("%d.%d", ev.wave.ID, ev.wave.I),
			Cause:  err,
		}
	}
	return nil
}

func (s *Scheduler) enqueue(ev event) error {
	if s.maxQueue > 0 && len(s.queue) >= s.maxQueue {
		return &errs.RuntimeError{
			NodeID: ev.target.ID(),
			Wave:   fmt.Sprintf("%d.%d", ev.wave.ID, ev.wave.I),
			Cause:  errors.New("QueueFull"),
		}
	}
	s.queue = append(s.queue, ev)
	return nil
}

// schedulerEmitter is the Emitter a node sees during its own Step call: it
// broadcasts on behalf of exactly one source instance.
type schedulerEmitter struct {
	s        *Scheduler
	source   string
	fromMeta bool
}

func (e *schedulerEmitter) Emit(wave Wave, outDirective tsiemene.DirectiveID, signal Signal) error {
	if e.fromMeta && outDirective == tsiemene.DirectiveMeta {
		logging.Debug("runtime: one-hop meta guard dropped re-emission from %s", e.source)
		return nil
	}

	delivered := 0
	for _, ed := range e.s.edges {
		if ed.from.Instance != e.source || ed.from.Directive != outDirective {
			continue
		}
		target, ok := e.s.nodes[ed.to.Instance]
		if !ok {
			continue
		}
		ev := event{
			wave:    wave,
			target:  target,
			ingress: Ingress{Directive: ed.to.Directive, Signal: signal},
		}
		if err := e.s.enqueue(ev); err != nil {
			return err
		}
		delivered++
	}
	logging.Debug("runtime: %s emitted %s to %d hop(s)", e.source, outDirective, delivered)
	return nil
}
