// Package tsictl implements the interactive shell driving cmd/tsictl: it
// loads a board or renderings DSL file, validates it, and can run a board's
// circuits against the wave scheduler one DISPATCH at a time (§A.5).
package tsictl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/internal/command"
	"github.com/cuwacunu/tsiemene/internal/iinuji/screen"
	"github.com/cuwacunu/tsiemene/internal/input"
	"github.com/cuwacunu/tsiemene/internal/tqerrors"
	"github.com/cuwacunu/tsiemene/internal/tsiemene"
	"github.com/cuwacunu/tsiemene/internal/tsiemene/board"
	"github.com/cuwacunu/tsiemene/internal/tsiemene/runtime"
)

// Engine holds the state of one interactive tsictl session: the loaded
// document (a board or a renderings file, never both at once), and the
// scheduler built the last time RUN or DISPATCH successfully ran a
// circuit.
type Engine struct {
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool

	boardDecoder      *decode.BoardDecoder
	renderingsDecoder *decode.RenderingsDecoder

	loadedPath string
	loadedBrd  *decode.BoardInstruction
	loadedRndr *decode.RenderingsInstruction
	screenIdx  int

	sched *runtime.Scheduler
}

// New creates a new Engine ready to operate on the given input and output
// streams. If nil is given for either stream, stdin/stdout is used.
func New(inputStream io.Reader, outputStream io.Writer, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	boardDec, err := decode.NewBoardDecoder()
	if err != nil {
		return nil, fmt.Errorf("initializing board decoder: %w", err)
	}
	rndrDec, err := decode.NewRenderingsDecoder()
	if err != nil {
		return nil, fmt.Errorf("initializing renderings decoder: %w", err)
	}

	eng := &Engine{
		out:               bufio.NewWriter(outputStream),
		forceDirect:       forceDirectInput,
		boardDecoder:      boardDec,
		renderingsDecoder: rndrDec,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running shell")
	}
	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}
	return nil
}

// RunUntilQuit begins reading commands from the input stream and executing
// them until QUIT is received or input reaches EOF. Any startup commands
// are run first, in order.
func (eng *Engine) RunUntilQuit(startCommands []string) error {
	intro := "tsictl interactive shell\n"
	intro += "=========================\n"
	intro += command.HelpText() + "\n"
	if err := eng.write(intro); err != nil {
		return err
	}

	eng.running = true
	defer func() { eng.running = false }()

	for _, c := range startCommands {
		cmd, err := command.ParseCommand(c)
		if err != nil {
			if err := eng.write(tqerrors.DisplayMessage(err) + "\n"); err != nil {
				return err
			}
			continue
		}
		if !eng.running {
			break
		}
		if err := eng.dispatchCommand(cmd); err != nil {
			return err
		}
	}

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			return fmt.Errorf("get user command: %w", err)
		}
		if err := eng.dispatchCommand(cmd); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

func (eng *Engine) dispatchCommand(cmd command.Command) error {
	switch cmd.Verb {
	case "":
		return nil
	case "QUIT":
		eng.running = false
		return nil
	case "HELP":
		return eng.write(command.HelpText() + "\n")
	case "LOAD":
		return eng.cmdLoad(cmd.Target)
	case "VALIDATE":
		return eng.cmdValidate()
	case "RUN":
		return eng.cmdRun()
	case "DISPATCH":
		return eng.cmdDispatch(cmd.Target, cmd.Payload)
	case "FOCUS":
		return eng.cmdFocus(cmd.Target)
	case "SCREEN":
		return eng.cmdScreen(cmd.Target)
	case "KEY":
		return eng.cmdKey(cmd.Target)
	default:
		return eng.write(fmt.Sprintf("I don't know how to %s yet.\n", cmd.Verb))
	}
}

func (eng *Engine) cmdLoad(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eng.write(fmt.Sprintf("could not read %s: %s\n", path, err))
	}

	switch {
	case strings.HasSuffix(path, ".renderings"):
		rndr, err := eng.renderingsDecoder.Decode(string(data))
		if err != nil {
			return eng.write(fmt.Sprintf("could not decode %s: %s\n", path, err))
		}
		eng.loadedRndr = rndr
		eng.loadedBrd = nil
		eng.screenIdx = 0
		eng.loadedPath = path
		return eng.write(fmt.Sprintf("loaded %d screen(s) from %s\n", len(rndr.Screens), path))
	default:
		brd, err := eng.boardDecoder.Decode(string(data))
		if err != nil {
			return eng.write(fmt.Sprintf("could not decode %s: %s\n", path, err))
		}
		eng.loadedBrd = brd
		eng.loadedRndr = nil
		eng.sched = nil
		eng.loadedPath = path
		return eng.write(fmt.Sprintf("loaded %d circuit(s) from %s\n", len(brd.Circuits), path))
	}
}

func (eng *Engine) cmdValidate() error {
	switch {
	case eng.loadedBrd != nil:
		if err := board.ValidateBoardInstruction(eng.loadedBrd); err != nil {
			return eng.write(fmt.Sprintf("invalid: %s\n", err))
		}
		return eng.write("board is valid\n")
	case eng.loadedRndr != nil:
		if err := screen.ValidateRenderingsInstruction(eng.loadedRndr); err != nil {
			return eng.write(fmt.Sprintf("invalid: %s\n", err))
		}
		return eng.write(fmt.Sprintf("renderings valid: %d screen(s)\n", len(eng.loadedRndr.Screens)))
	default:
		return eng.write("nothing loaded; try LOAD <file> first\n")
	}
}

// cmdRun builds a probe scheduler for the first circuit of the loaded board
// and fires one wave at its root instance with an empty payload, reporting
// how many steps it took.
func (eng *Engine) cmdRun() error {
	if eng.loadedBrd == nil || len(eng.loadedBrd.Circuits) == 0 {
		return eng.write("nothing runnable loaded; try LOAD <board file> first\n")
	}
	return eng.runCircuit(eng.loadedBrd.Circuits[0], tsiemene.DirectivePayload, runtime.Signal{})
}

// cmdDispatch finds the circuit whose invoke name matches event (the
// DISPATCH target) and runs it, carrying payload as a string signal.
func (eng *Engine) cmdDispatch(event, payload string) error {
	if eng.loadedBrd == nil {
		return eng.write("nothing loaded; try LOAD <board file> first\n")
	}

	for _, c := range eng.loadedBrd.Circuits {
		if !strings.EqualFold(strings.TrimSpace(c.InvokeName), event) {
			continue
		}
		sig := runtime.Signal{Kind: tsiemene.KindString, String: payload}
		return eng.runCircuit(c, tsiemene.DirectivePayload, sig)
	}

	return eng.write(fmt.Sprintf("no circuit invoked by %q\n", event))
}

func (eng *Engine) runCircuit(c decode.CircuitDecl, rootDirective tsiemene.DirectiveID, sig runtime.Signal) error {
	resolved, failures := board.ResolveHops(c.Hops)
	if len(failures) > 0 {
		return eng.write(fmt.Sprintf("circuit %s has unresolvable hops: %v\n", c.Name, failures[0]))
	}

	outDegree := make(map[string]int, len(c.Instances))
	for _, h := range resolved {
		outDegree[h.From.Instance]++
	}

	nodes := make(map[string]runtime.Node, len(c.Instances))
	var root string
	for _, inst := range c.Instances {
		sink := outDegree[inst.Alias] == 0
		nodes[inst.Alias] = runtime.NewProbeNode(inst.Alias, inst.TSIType, sink)
	}
	for _, h := range resolved {
		isTarget := false
		for _, other := range resolved {
			if other.To.Instance == h.From.Instance {
				isTarget = true
				break
			}
		}
		if !isTarget {
			root = h.From.Instance
			break
		}
	}
	if root == "" && len(c.Instances) > 0 {
		root = c.Instances[0].Alias
	}

	sched, err := runtime.NewScheduler(nodes, resolved, 0)
	if err != nil {
		return eng.write(fmt.Sprintf("could not build scheduler for %s: %s\n", c.Name, err))
	}
	eng.sched = sched

	steps, err := sched.Run(context.Background(), runtime.Wave{ID: 1}, root, runtime.Ingress{Directive: rootDirective, Signal: sig})
	if err != nil {
		return eng.write(fmt.Sprintf("circuit %s failed after %d step(s): %s\n", c.Name, steps, err))
	}
	return eng.write(fmt.Sprintf("circuit %s ran %d step(s)\n", c.Name, steps))
}

func (eng *Engine) cmdFocus(direction string) error {
	if eng.loadedRndr == nil || len(eng.loadedRndr.Screens) == 0 {
		return eng.write("no renderings loaded; try LOAD <renderings file> first\n")
	}
	switch direction {
	case "NEXT":
		eng.screenIdx = (eng.screenIdx + 1) % len(eng.loadedRndr.Screens)
	case "PREV":
		eng.screenIdx = (eng.screenIdx - 1 + len(eng.loadedRndr.Screens)) % len(eng.loadedRndr.Screens)
	}
	return eng.write(fmt.Sprintf("focused screen: %s\n", eng.loadedRndr.Screens[eng.screenIdx].Name))
}

func (eng *Engine) cmdScreen(name string) error {
	if eng.loadedRndr == nil {
		return eng.write("no renderings loaded; try LOAD <renderings file> first\n")
	}
	for i, s := range eng.loadedRndr.Screens {
		if strings.EqualFold(s.Name, name) {
			eng.screenIdx = i
			return eng.write(fmt.Sprintf("focused screen: %s\n", s.Name))
		}
	}
	return eng.write(fmt.Sprintf("no screen named %q\n", name))
}

func (eng *Engine) cmdKey(key string) error {
	if eng.loadedRndr == nil || len(eng.loadedRndr.Screens) == 0 {
		return eng.write("no renderings loaded; try LOAD <renderings file> first\n")
	}
	screen := eng.loadedRndr.Screens[eng.screenIdx]
	for _, p := range screen.Panels {
		for _, e := range p.Figures {
			for _, trig := range e.Triggers {
				if strings.EqualFold(trig, key) {
					return eng.write(fmt.Sprintf("key %s triggers figure %s\n", key, e.Name))
				}
			}
		}
	}
	for _, e := range screen.Events {
		if strings.EqualFold(e.Name, key) {
			return eng.write(fmt.Sprintf("key %s is bound to event %s\n", key, e.Name))
		}
	}
	return eng.write(fmt.Sprintf("key %q has no binding on screen %s\n", key, screen.Name))
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return eng.out.Flush()
}
