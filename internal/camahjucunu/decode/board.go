// Package decode walks a parsed instruction AST into the board and
// renderings domain structures: hash-based structured lookup first, with
// string-level fallback parsing so a minor grammar drift doesn't silently
// drop data (§4.4).
package decode

import (
	"strings"
	"sync"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/ast"
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/bnf"
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/parse"
	"github.com/cuwacunu/tsiemene/internal/logging"
	"github.com/cuwacunu/tsiemene/internal/tsiemene"
)

// BoardDecoder turns board-instruction text into a BoardInstruction. The
// same decoder instance may be shared across goroutines; Decode serializes
// access with an internal mutex because the underlying parser's token
// stream is not safe for concurrent use.
type BoardDecoder struct {
	mu     sync.Mutex
	parser *parse.Parser
}

// NewBoardDecoder compiles the embedded board grammar once.
func NewBoardDecoder() (*BoardDecoder, error) {
	g, err := bnf.ParseGrammar(strings.NewReader(boardGrammarSource))
	if err != nil {
		return nil, err
	}
	logging.Debug("board decoder: grammar loaded:\n%s", boardGrammarSource)

	p, err := parse.Compile(g)
	if err != nil {
		return nil, err
	}
	return &BoardDecoder{parser: p}, nil
}

// Decode parses instruction text and walks the resulting AST into a
// BoardInstruction via the Visitor dispatch (VisitRoot/VisitIntermediary/
// VisitTerminal). A circuit whose name can't be recovered by either lookup
// path is silently dropped, as in the original decoder — it is the board
// validator (internal/tsiemene/board), not decode, that rejects malformed
// circuits with a diagnostic. Fails only with the parser's own error.
func (d *BoardDecoder) Decode(instruction string) (*BoardInstruction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	logging.Debug("board decoder: decoding instruction (%d bytes)", len(instruction))

	root, err := d.parser.Parse(instruction)
	if err != nil {
		return nil, err
	}
	logging.Debug("board decoder: parsed AST:\n%s", root.String())

	out := &BoardInstruction{}
	ctx := ast.NewVisitorContext(out)
	root.Accept(d, ctx)
	return out, nil
}

func (d *BoardDecoder) VisitRoot(node *ast.RootNode, ctx *ast.VisitorContext) {}

func (d *BoardDecoder) VisitIntermediary(node *ast.IntermediaryNode, ctx *ast.VisitorContext) {
	out, ok := ctx.UserData.(*BoardInstruction)
	if !ok {
		return
	}
	switch node.Hash {
	case hashInstruction:
		out.Circuits = nil
	case hashCircuit:
		if circuit := parseCircuitNode(node); circuit.Name != "" {
			out.Circuits = append(out.Circuits, circuit)
		}
	}
}

func (d *BoardDecoder) VisitTerminal(node *ast.TerminalNode, ctx *ast.VisitorContext) {}

func parseCircuitNode(node *ast.IntermediaryNode) CircuitDecl {
	var out CircuitDecl

	if header := findDirectChildByHash(node, hashCircuitHeader); header != nil {
		if headerIM, ok := header.(*ast.IntermediaryNode); ok {
			if nameNode := findDirectChildByHash(headerIM, hashCircuitName); nameNode != nil {
				out.Name = trimASCIIWS(flattenNodeText(nameNode))
			}
		}
		if out.Name == "" {
			out.Name, _ = parseCircuitHeaderText(flattenNodeText(header))
		}
	}

	for _, child := range node.Children {
		im, ok := child.(*ast.IntermediaryNode)
		if !ok {
			continue
		}

		switch im.Hash {
		case hashInstanceDecl:
			inst := InstanceDecl{}
			aliasNode := findDirectChildByHash(im, hashInstanceAlias)
			typeNode := findDirectChildByHash(im, hashTSIType)
			if aliasNode != nil && typeNode != nil {
				inst.Alias = trimASCIIWS(flattenNodeText(aliasNode))
				inst.TSIType = trimASCIIWS(flattenNodeText(typeNode))
			} else {
				inst, _ = parseInstanceDeclText(flattenNodeText(im))
			}
			if inst.Alias != "" && inst.TSIType != "" {
				out.Instances = append(out.Instances, inst)
			}

		case hashHopDecl:
			fromNode := findDirectChildByHash(im, hashEndpointFrom)
			toNode := findDirectChildByHash(im, hashEndpointTo)
			var hop HopDecl
			ok := false
			if fromNode != nil && toNode != nil {
				from, fromOK := parseEndpointText(flattenNodeText(fromNode))
				to, toOK := parseEndpointText(flattenNodeText(toNode))
				if fromOK && toOK {
					hop = HopDecl{From: from, To: to}
					ok = true
				}
			}
			if !ok {
				hop, ok = parseHopDeclText(flattenNodeText(im))
			}
			if ok {
				out.Hops = append(out.Hops, hop)
			}

		case hashCircuitInvoke:
			nameNode := findDirectChildByHash(im, hashInvokeName)
			payloadNode := findDirectChildByHash(im, hashInvokePayload)
			if nameNode != nil && payloadNode != nil {
				out.InvokeName = trimASCIIWS(flattenNodeText(nameNode))
				out.InvokePayload = trimASCIIWS(flattenNodeText(payloadNode))
			} else {
				out.InvokeName, out.InvokePayload, _ = parseCircuitInvokeText(flattenNodeText(im))
			}
		}
	}

	if out.Name == "" {
		out.Name = out.InvokeName
	}
	if out.InvokeName == "" {
		out.InvokeName = out.Name
	}
	return out
}

// --- tree helpers ---

func findDirectChildByHash(parent *ast.IntermediaryNode, hash uint64) ast.Node {
	for _, ch := range parent.Children {
		if im, ok := ch.(*ast.IntermediaryNode); ok && im.Hash == hash {
			return im
		}
	}
	return nil
}

// flattenNodeText concatenates every descendant terminal's matched text, in
// left-to-right order. TerminalNode.Unit already holds the right content for
// both literal terminals (the fixed keyword/punctuation text) and regex
// terminals (the actual matched lexeme), so no per-kind filtering is needed
// here.
func flattenNodeText(node ast.Node) string {
	var sb strings.Builder
	appendAllTerminals(node, &sb)
	return sb.String()
}

func appendAllTerminals(node ast.Node, sb *strings.Builder) {
	switch n := node.(type) {
	case *ast.TerminalNode:
		sb.WriteString(n.Unit)
	case *ast.RootNode:
		for _, ch := range n.Children {
			appendAllTerminals(ch, sb)
		}
	case *ast.IntermediaryNode:
		for _, ch := range n.Children {
			appendAllTerminals(ch, sb)
		}
	}
}

func trimASCIIWS(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
}

func normalizeLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return trimASCIIWS(s)
}

// --- string-fallback parsers, grounded on the original decoder's
// parse_*_text family ---

func parseEndpointText(text string) (Endpoint, bool) {
	line := normalizeLine(text)
	at := strings.IndexByte(line, '@')
	colon := strings.LastIndexByte(line, ':')
	if at < 0 || colon < 0 || at == 0 || colon <= at+1 || colon+1 >= len(line) {
		return Endpoint{}, false
	}
	out := Endpoint{
		Instance:  trimASCIIWS(line[:at]),
		Directive: trimASCIIWS(line[at+1 : colon]),
		Kind:      trimASCIIWS(line[colon+1:]),
	}
	if out.Instance == "" || out.Directive == "" || out.Kind == "" {
		return Endpoint{}, false
	}
	return out, true
}

func parseInstanceDeclText(text string) (InstanceDecl, bool) {
	line := normalizeLine(text)
	eq := strings.IndexByte(line, '=')
	if eq <= 0 || eq+1 >= len(line) {
		return InstanceDecl{}, false
	}
	out := InstanceDecl{
		Alias:   trimASCIIWS(line[:eq]),
		TSIType: trimASCIIWS(line[eq+1:]),
	}
	if out.Alias == "" || out.TSIType == "" {
		return InstanceDecl{}, false
	}
	return out, true
}

func parseHopDeclText(text string) (HopDecl, bool) {
	line := normalizeLine(text)
	arrow := strings.Index(line, "->")
	if arrow <= 0 || arrow+2 >= len(line) {
		return HopDecl{}, false
	}
	lhs := trimASCIIWS(line[:arrow])
	rhs := trimASCIIWS(line[arrow+2:])
	from, ok := parseEndpointText(lhs)
	if !ok {
		return HopDecl{}, false
	}
	to, ok := parseEndpointText(rhs)
	if !ok {
		return HopDecl{}, false
	}
	return HopDecl{From: from, To: to}, true
}

func parseCircuitHeaderText(text string) (string, bool) {
	line := normalizeLine(text)
	eq := strings.IndexByte(line, '=')
	if eq <= 0 {
		return "", false
	}
	name := trimASCIIWS(line[:eq])
	// the header also carries the literal "circuit" keyword ahead of the
	// name; strip it if the grammar drifted and handed us the whole line.
	name = strings.TrimPrefix(name, "circuit")
	name = trimASCIIWS(name)
	return name, name != ""
}

func parseCircuitInvokeText(text string) (name string, payload string, ok bool) {
	line := normalizeLine(text)
	line = strings.TrimSuffix(trimASCIIWS(line), ";")
	line = trimASCIIWS(line)

	lp := strings.IndexByte(line, '(')
	rp := strings.LastIndexByte(line, ')')
	if lp <= 0 || rp < 0 || rp <= lp {
		return "", "", false
	}
	name = trimASCIIWS(line[:lp])
	payload = trimASCIIWS(line[lp+1 : rp])
	return name, payload, name != ""
}

// ParseDirectiveRef resolves free-form directive text — `payload`, `loss`,
// `meta`, any optionally prefixed with `@` — to its canonical DirectiveID.
func ParseDirectiveRef(s string) (tsiemene.DirectiveID, bool) {
	s = trimASCIIWS(s)
	s = strings.TrimPrefix(s, "@")
	switch s {
	case "payload":
		return tsiemene.DirectivePayload, true
	case "loss":
		return tsiemene.DirectiveLoss, true
	case "meta":
		return tsiemene.DirectiveMeta, true
	default:
		return 0, false
	}
}

// ParseKindRef resolves free-form kind text — `tensor`/`:tensor`,
// `str`/`:str` — to its canonical PayloadKind.
func ParseKindRef(s string) (tsiemene.PayloadKind, bool) {
	s = trimASCIIWS(s)
	switch s {
	case "tensor", ":tensor":
		return tsiemene.KindTensor, true
	case "str", ":str":
		return tsiemene.KindString, true
	default:
		return 0, false
	}
}
