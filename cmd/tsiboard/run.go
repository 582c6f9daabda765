package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/tsiemene"
	"github.com/cuwacunu/tsiemene/internal/tsiemene/board"
	"github.com/cuwacunu/tsiemene/internal/tsiemene/runtime"
	"github.com/spf13/cobra"
)

var cmdRun = &cobra.Command{
	Use:   "run <file>",
	Short: "validate and run every circuit in a board DSL file",
	Long:  `Validate a board DSL file, then drive each of its circuits through the wave scheduler with an empty seed payload, reporting step counts. Nodes are generic probes: this exercises wiring and topology, not real node behavior.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		instr, err := loadBoard(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}

		if err := board.ValidateBoardInstruction(instr); err != nil {
			fmt.Fprintf(os.Stderr, "invalid: %s\n", err)
			os.Exit(1)
		}

		exitCode := 0
		for _, c := range instr.Circuits {
			steps, err := runCircuit(c)
			if err != nil {
				fmt.Fprintf(os.Stderr, "circuit %s: %s\n", c.Name, err)
				exitCode = 1
				continue
			}
			fmt.Printf("circuit %s: %d step(s)\n", c.Name, steps)
		}
		os.Exit(exitCode)
	},
}

func runCircuit(c decode.CircuitDecl) (int, error) {
	resolved, failures := board.ResolveHops(c.Hops)
	if len(failures) > 0 {
		return 0, fmt.Errorf("unresolvable hop: %w", failures[0])
	}

	outDegree := make(map[string]int, len(c.Instances))
	for _, h := range resolved {
		outDegree[h.From.Instance]++
	}

	isTarget := make(map[string]bool, len(c.Instances))
	for _, h := range resolved {
		isTarget[h.To.Instance] = true
	}

	nodes := make(map[string]runtime.Node, len(c.Instances))
	root := ""
	for _, inst := range c.Instances {
		sink := outDegree[inst.Alias] == 0
		nodes[inst.Alias] = runtime.NewProbeNode(inst.Alias, inst.TSIType, sink)
		if root == "" && !isTarget[inst.Alias] {
			root = inst.Alias
		}
	}
	if root == "" && len(c.Instances) > 0 {
		root = c.Instances[0].Alias
	}

	sched, err := runtime.NewScheduler(nodes, resolved, 0)
	if err != nil {
		return 0, fmt.Errorf("building scheduler: %w", err)
	}

	return sched.Run(context.Background(), runtime.Wave{ID: 1}, root, runtime.Ingress{Directive: tsiemene.DirectivePayload})
}
