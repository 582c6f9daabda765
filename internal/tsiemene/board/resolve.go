// Package board resolves decoded board-DSL circuits into runtime-ready
// graphs and validates them: directive/kind resolution, alias uniqueness,
// single-root/acyclic/fully-reachable topology, and sink-type terminal
// instances (§4.5).
package board

import (
	"fmt"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/tsiemene"
)

// ResolvedEndpoint is a decode.Endpoint with its directive/kind text
// resolved to the canonical enums.
type ResolvedEndpoint struct {
	Instance  string
	Directive tsiemene.DirectiveID
	Kind      tsiemene.PayloadKind
}

// ResolvedHop is a decode.HopDecl with both endpoints resolved.
type ResolvedHop struct {
	From ResolvedEndpoint
	To   ResolvedEndpoint
}

// ResolveEndpoint resolves one endpoint's free-form directive/kind text.
func ResolveEndpoint(ep decode.Endpoint) (ResolvedEndpoint, error) {
	dir, ok := decode.ParseDirectiveRef(ep.Directive)
	if !ok {
		return ResolvedEndpoint{}, fmt.Errorf("unknown directive %q on instance %s", ep.Directive, ep.Instance)
	}
	kind, ok := decode.ParseKindRef(ep.Kind)
	if !ok {
		return ResolvedEndpoint{}, fmt.Errorf("unknown kind %q on instance %s", ep.Kind, ep.Instance)
	}
	return ResolvedEndpoint{Instance: ep.Instance, Directive: dir, Kind: kind}, nil
}

// ResolveHopDecl resolves both endpoints of a hop.
func ResolveHopDecl(hop decode.HopDecl) (ResolvedHop, error) {
	from, err := ResolveEndpoint(hop.From)
	if err != nil {
		return ResolvedHop{}, fmt.Errorf("hop %s -> %s: %w", endpointRef(hop.From), endpointRef(hop.To), err)
	}
	to, err := ResolveEndpoint(hop.To)
	if err != nil {
		return ResolvedHop{}, fmt.Errorf("hop %s -> %s: %w", endpointRef(hop.From), endpointRef(hop.To), err)
	}
	return ResolvedHop{From: from, To: to}, nil
}

// ResolveHops resolves every hop in a circuit. Unlike the original decoder's
// fail-fast resolve_hops, a hop that fails to resolve is skipped rather than
// aborting the whole circuit, and its failure is reported via the returned
// error slice — ValidateCircuitDecl folds these into its accumulated
// diagnostics so one bad hop doesn't hide problems in the rest of the
// circuit.
func ResolveHops(hops []decode.HopDecl) (resolved []ResolvedHop, failures []error) {
	resolved = make([]ResolvedHop, 0, len(hops))
	for _, h := range hops {
		r, err := ResolveHopDecl(h)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		resolved = append(resolved, r)
	}
	return resolved, failures
}

// CircuitInvokeSymbol returns a circuit's invoke payload with any trailing
// `[...]` argument list stripped — the bare symbol the runtime dispatches
// on.
func CircuitInvokeSymbol(circuit decode.CircuitDecl) string {
	s := strings.TrimSpace(circuit.InvokePayload)
	if lb := strings.IndexByte(s, '['); lb >= 0 {
		return strings.TrimSpace(s[:lb])
	}
	return s
}

func endpointRef(ep decode.Endpoint) string {
	return ep.Instance + "@" + ep.Directive + ":" + ep.Kind
}
