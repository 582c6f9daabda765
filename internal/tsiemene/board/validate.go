package board

import (
	"fmt"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/errs"
)

const sinkPrefix = "tsi.sink."

// ValidateCircuitDecl checks one decoded circuit's structural and topology
// invariants, returning every problem found rather than stopping at the
// first (the board validator and the renderings validator both accumulate
// diagnostics, per errs.ValidationError's doc comment) — unless the circuit
// fails the cheap field-presence checks, in which case the later phases
// can't run meaningfully and are skipped.
func ValidateCircuitDecl(circuit decode.CircuitDecl) error {
	var verr errs.ValidationError
	loc := fmt.Sprintf("circuit:%s", strings.TrimSpace(circuit.Name))

	if strings.TrimSpace(circuit.Name) == "" {
		verr.Add(loc, "empty circuit name")
	}
	if strings.TrimSpace(circuit.InvokeName) == "" {
		verr.Add(loc, "empty circuit invoke name")
	}
	if strings.TrimSpace(circuit.InvokePayload) == "" {
		verr.Add(loc, "empty circuit invoke payload")
	}
	if len(circuit.Instances) == 0 {
		verr.Add(loc, "circuit has no instance declarations")
	}
	if len(circuit.Hops) == 0 {
		verr.Add(loc, "circuit has no hop declarations")
	}
	if !verr.Empty() {
		return verr.OrNil()
	}

	aliasToType := make(map[string]string, len(circuit.Instances))
	for _, inst := range circuit.Instances {
		alias := strings.TrimSpace(inst.Alias)
		typ := strings.TrimSpace(inst.TSIType)
		if alias == "" {
			verr.Add(loc, "empty instance alias")
			continue
		}
		if typ == "" {
			verr.Add(loc, fmt.Sprintf("empty tsi_type for alias: %s", alias))
			continue
		}
		if _, dup := aliasToType[alias]; dup {
			verr.Add(loc, fmt.Sprintf("duplicated instance alias: %s", alias))
			continue
		}
		aliasToType[alias] = typ
	}
	if !verr.Empty() {
		return verr.OrNil()
	}

	resolvedHops, failures := ResolveHops(circuit.Hops)
	for _, f := range failures {
		verr.Add(loc, f.Error())
	}

	adj := make(map[string][]string, len(aliasToType))
	inDegree := make(map[string]int, len(aliasToType))
	outDegree := make(map[string]int, len(aliasToType))
	referenced := make(map[string]struct{}, len(aliasToType))

	for _, h := range resolvedHops {
		_, fromKnown := aliasToType[h.From.Instance]
		_, toKnown := aliasToType[h.To.Instance]
		if !fromKnown {
			verr.Add(loc, "hop references unknown instance alias: "+h.From.Instance)
		}
		if !toKnown {
			verr.Add(loc, "hop references unknown instance alias: "+h.To.Instance)
		}
		if !fromKnown || !toKnown {
			continue
		}
		referenced[h.From.Instance] = struct{}{}
		referenced[h.To.Instance] = struct{}{}
		adj[h.From.Instance] = append(adj[h.From.Instance], h.To.Instance)
		inDegree[h.To.Instance]++
		outDegree[h.From.Instance]++
	}
	if !verr.Empty() {
		return verr.OrNil()
	}

	if len(referenced) == 0 {
		verr.Add(loc, "no valid hop endpoints")
		return verr.OrNil()
	}

	for alias := range aliasToType {
		if _, ok := referenced[alias]; !ok {
			verr.Add(loc, "orphan instance not referenced by any hop: "+alias)
		}
	}
	if !verr.Empty() {
		return verr.OrNil()
	}

	var roots []string
	for alias := range referenced {
		if inDegree[alias] == 0 {
			roots = append(roots, alias)
		}
	}
	if len(roots) == 0 {
		verr.Add(loc, "circuit has no root instance")
		return verr.OrNil()
	}
	if len(roots) != 1 {
		verr.Add(loc, "circuit must have exactly one root instance")
		return verr.OrNil()
	}

	color := make(map[string]int, len(referenced))
	reachable := make(map[string]struct{}, len(referenced))
	cycle := false

	var dfs func(u string)
	dfs = func(u string) {
		if cycle {
			return
		}
		color[u] = 1
		reachable[u] = struct{}{}
		for _, v := range adj[u] {
			switch color[v] {
			case 1:
				cycle = true
				return
			case 0:
				dfs(v)
				if cycle {
					return
				}
			}
		}
		color[u] = 2
	}
	dfs(roots[0])

	if cycle {
		verr.Add(loc, "cycle detected in circuit hops")
		return verr.OrNil()
	}
	if len(reachable) != len(referenced) {
		verr.Add(loc, "unreachable instance from circuit root")
		return verr.OrNil()
	}

	for alias := range referenced {
		if outDegree[alias] != 0 {
			continue
		}
		typ := aliasToType[alias]
		if !strings.HasPrefix(typ, sinkPrefix) {
			verr.Add(loc, fmt.Sprintf("terminal instance must be sink type: %s=%s", alias, typ))
		}
	}

	return verr.OrNil()
}

// ValidateBoardInstruction validates every circuit in a decoded board and
// rejects duplicated circuit/invoke names across the whole document.
func ValidateBoardInstruction(instr *decode.BoardInstruction) error {
	var verr errs.ValidationError

	if instr == nil || len(instr.Circuits) == 0 {
		verr.Add("board", "board has no circuits")
		return verr.OrNil()
	}

	circuitNames := make(map[string]struct{}, len(instr.Circuits))
	invokeNames := make(map[string]struct{}, len(instr.Circuits))

	for i, c := range instr.Circuits {
		loc := fmt.Sprintf("board.circuits[%d]", i)
		cname := strings.TrimSpace(c.Name)
		iname := strings.TrimSpace(c.InvokeName)

		if _, dup := circuitNames[cname]; dup {
			verr.Add(loc, "duplicated circuit name: "+cname)
		} else {
			circuitNames[cname] = struct{}{}
		}
		if _, dup := invokeNames[iname]; dup {
			verr.Add(loc, "duplicated circuit invoke name: "+iname)
		} else {
			invokeNames[iname] = struct{}{}
		}

		if err := ValidateCircuitDecl(c); err != nil {
			if cerr, ok := err.(*errs.ValidationError); ok {
				for _, d := range cerr.Diagnostics {
					verr.Add(loc+"/"+d.Location, d.Message)
				}
			} else {
				verr.Add(loc, err.Error())
			}
		}
	}

	return verr.OrNil()
}
