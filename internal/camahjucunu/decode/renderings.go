package decode

import (
	"strconv"
	"strings"
	"sync"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/ast"
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/bnf"
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/parse"
	"github.com/cuwacunu/tsiemene/internal/logging"
)

// RenderingsDecoder turns renderings-DSL text into a RenderingsInstruction,
// mirroring BoardDecoder's shape: one compiled grammar, Visitor-driven
// traversal, hash-based structured lookup per option with a uniform
// flattened-text fallback when the structured lookup comes up empty.
type RenderingsDecoder struct {
	mu     sync.Mutex
	parser *parse.Parser
}

// NewRenderingsDecoder compiles the embedded renderings grammar once.
func NewRenderingsDecoder() (*RenderingsDecoder, error) {
	g, err := bnf.ParseGrammar(strings.NewReader(renderingsGrammarSource))
	if err != nil {
		return nil, err
	}
	logging.Debug("renderings decoder: grammar loaded:\n%s", renderingsGrammarSource)

	p, err := parse.Compile(g)
	if err != nil {
		return nil, err
	}
	return &RenderingsDecoder{parser: p}, nil
}

// Decode parses instruction text and walks the resulting AST into a
// RenderingsInstruction.
func (d *RenderingsDecoder) Decode(instruction string) (*RenderingsInstruction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	logging.Debug("renderings decoder: decoding instruction (%d bytes)", len(instruction))

	root, err := d.parser.Parse(instruction)
	if err != nil {
		return nil, err
	}
	logging.Debug("renderings decoder: parsed AST:\n%s", root.String())

	out := &RenderingsInstruction{}
	ctx := ast.NewVisitorContext(out)
	root.Accept(d, ctx)
	return out, nil
}

func (d *RenderingsDecoder) VisitRoot(node *ast.RootNode, ctx *ast.VisitorContext) {}

func (d *RenderingsDecoder) VisitIntermediary(node *ast.IntermediaryNode, ctx *ast.VisitorContext) {
	out, ok := ctx.UserData.(*RenderingsInstruction)
	if !ok {
		return
	}
	switch node.Hash {
	case hashRenderings:
		out.Screens = nil
	case hashScreen:
		out.Screens = append(out.Screens, parseScreenNode(node))
	}
}

func (d *RenderingsDecoder) VisitTerminal(node *ast.TerminalNode, ctx *ast.VisitorContext) {}

// --- structured decode ---

// collectOpts finds every recognized `*_opt` leaf node under parent,
// indexed by its own production-site hash. Each `screen_opt`/`panel_opt`/
// `figure_opt`/`event_opt` repetition is a thin one-child wrapper around the
// concrete option (key_opt, border_opt, ...); this walks exactly one level
// through that wrapper rather than an unbounded-depth search, since the
// grammar never nests options any deeper. A repeated option overwrites the
// earlier one — last declaration wins, as for the ambient config loader.
func collectOpts(parent *ast.IntermediaryNode) map[uint64]*ast.IntermediaryNode {
	out := make(map[uint64]*ast.IntermediaryNode)
	for _, ch := range parent.Children {
		wrap, ok := ch.(*ast.IntermediaryNode)
		if !ok {
			continue
		}
		for _, inner := range wrap.Children {
			if im, ok := inner.(*ast.IntermediaryNode); ok {
				out[im.Hash] = im
			}
		}
	}
	return out
}

func findKindAmong(parent *ast.IntermediaryNode, kinds map[uint64]string) (string, bool) {
	for _, ch := range parent.Children {
		if im, ok := ch.(*ast.IntermediaryNode); ok {
			if k, ok := kinds[im.Hash]; ok {
				return k, true
			}
		}
	}
	return "", false
}

func parseScreenNode(node *ast.IntermediaryNode) Screen {
	var out Screen
	out.Key = "F0"

	header := findDirectChildByHash(node, hashScreenHeader)
	if headerIM, ok := header.(*ast.IntermediaryNode); ok {
		if nameNode := findDirectChildByHash(headerIM, hashScreenName); nameNode != nil {
			out.Name = trimASCIIWS(flattenNodeText(nameNode))
		}
		opts := collectOpts(headerIM)
		applyCommonOpts(opts, &out.Border, &out.TextColor, &out.BackColor, &out.LineColor, &out.Thickness, nil, nil, nil, nil)
		if keyNode, ok := opts[hashKeyOpt]; ok {
			out.Key = trimASCIIWS(flattenAfterKeyword(keyNode, "__key"))
		}
	}

	for _, child := range node.Children {
		im, ok := child.(*ast.IntermediaryNode)
		if !ok {
			continue
		}
		switch im.Hash {
		case hashPanel:
			out.Panels = append(out.Panels, parsePanelNode(im))
		case hashEvent:
			out.Events = append(out.Events, parseEventNode(im))
		}
	}
	return out
}

func parsePanelNode(node *ast.IntermediaryNode) Panel {
	var out Panel

	header := findDirectChildByHash(node, hashPanelHeader)
	if headerIM, ok := header.(*ast.IntermediaryNode); ok {
		if nameNode := findDirectChildByHash(headerIM, hashPanelName); nameNode != nil {
			out.Name = trimASCIIWS(flattenNodeText(nameNode))
		}
		opts := collectOpts(headerIM)
		applyCommonOpts(opts, &out.Border, &out.TextColor, &out.BackColor, &out.LineColor, &out.Thickness, &out.Coords, &out.Shape, &out.Title, &out.Z)
	}

	for _, child := range node.Children {
		if im, ok := child.(*ast.IntermediaryNode); ok && im.Hash == hashFigure {
			out.Figures = append(out.Figures, parseFigureNode(im))
		}
	}
	return out
}

func parseFigureNode(node *ast.IntermediaryNode) Figure {
	var out Figure

	header := findDirectChildByHash(node, hashFigureHeader)
	headerIM, ok := header.(*ast.IntermediaryNode)
	if !ok {
		return out
	}

	if nameNode := findDirectChildByHash(headerIM, hashFigureName); nameNode != nil {
		out.Name = trimASCIIWS(flattenNodeText(nameNode))
	}
	if kind, ok := findKindAmong(headerIM, figureKindHashes); ok {
		out.Kind = kind
	}

	// figures have no thickness/z-index fields; those options don't apply
	// to this block kind and are simply not collected.
	opts := collectOpts(headerIM)
	applyCommonOpts(opts, &out.Border, &out.TextColor, &out.BackColor, &out.LineColor, nil, &out.Coords, &out.Shape, &out.Title, nil)

	if typeNode, ok := opts[hashTypeOpt]; ok {
		out.Type = unquoteOrEmpty(trimASCIIWS(flattenAfterKeyword(typeNode, "__type")))
	}
	if valueNode, ok := opts[hashValueOpt]; ok {
		out.Value = unquoteOrEmpty(trimASCIIWS(flattenAfterKeyword(valueNode, "__value")))
	}
	if capNode, ok := opts[hashCapacityOpt]; ok {
		if n, ok := parseIntOrEmpty(flattenAfterKeyword(capNode, "__capacity")); ok {
			out.Capacity = n
		}
	}
	if legendNode, ok := opts[hashLegendOpt]; ok {
		out.Legend = unquoteOrEmpty(trimASCIIWS(flattenAfterKeyword(legendNode, "__legend")))
	}
	if trigNode, ok := opts[hashTriggersOpt]; ok {
		out.Triggers = parseTriggerList(flattenNodeText(trigNode))
	}
	return out
}

func parseEventNode(node *ast.IntermediaryNode) Event {
	var out Event

	header := findDirectChildByHash(node, hashEventHeader)
	headerIM, ok := header.(*ast.IntermediaryNode)
	if !ok {
		return out
	}

	if nameNode := findDirectChildByHash(headerIM, hashEventName); nameNode != nil {
		out.Name = trimASCIIWS(flattenNodeText(nameNode))
	}
	if kind, ok := findKindAmong(headerIM, eventKindHashes); ok {
		out.Kind = kind
	}

	opts := collectOpts(headerIM)
	if labelNode, ok := opts[hashLabelOpt]; ok {
		out.Label = unquoteOrEmpty(trimASCIIWS(flattenAfterKeyword(labelNode, "__label")))
	}
	if colorNode, ok := opts[hashColorOpt]; ok {
		out.Color = trimASCIIWS(flattenAfterKeyword(colorNode, "__color"))
	}
	if formNode, ok := opts[hashFormOpt]; ok {
		out.Form = parseFormBindings(formNode)
	}
	return out
}

// applyCommonOpts fills the style/geometry fields shared by screen/panel/
// figure headers. Passing a nil destination pointer skips that field (not
// every block has every option — e.g. screens have no coords/title/z).
func applyCommonOpts(opts map[uint64]*ast.IntermediaryNode, border *bool, textColor, backColor, lineColor *string, thickness *int, coords, shape *Coord, title *string, z *int) {
	if border != nil {
		if n, ok := opts[hashBorderOpt]; ok {
			*border = parseBoolToken(flattenAfterKeyword(n, "__border"))
		}
	}
	if textColor != nil {
		if n, ok := opts[hashTextColorOpt]; ok {
			*textColor = trimASCIIWS(flattenAfterKeyword(n, "__text_color"))
		}
	}
	if backColor != nil {
		if n, ok := opts[hashBackColorOpt]; ok {
			*backColor = trimASCIIWS(flattenAfterKeyword(n, "__back_color"))
		}
	}
	if lineColor != nil {
		if n, ok := opts[hashLineColorOpt]; ok {
			*lineColor = trimASCIIWS(flattenAfterKeyword(n, "__line_color"))
		}
	}
	if thickness != nil {
		if n, ok := opts[hashThicknessOpt]; ok {
			if v, ok := parseIntToken(flattenAfterKeyword(n, "__thickness")); ok {
				*thickness = v
			}
		}
	}
	if coords != nil {
		if n, ok := opts[hashCoordsOpt]; ok {
			if c, ok := parseCoordPair(flattenAfterKeyword(n, "__coords")); ok {
				*coords = c
			}
		}
	}
	if shape != nil {
		if n, ok := opts[hashShapeOpt]; ok {
			if c, ok := parseCoordPair(flattenAfterKeyword(n, "__shape")); ok {
				*shape = c
			}
		}
	}
	if title != nil {
		if n, ok := opts[hashTitleOpt]; ok {
			*title = unquoteOrEmpty(trimASCIIWS(flattenAfterKeyword(n, "__title")))
		}
	}
	if z != nil {
		if n, ok := opts[hashZOpt]; ok {
			if v, ok := parseIntToken(flattenAfterKeyword(n, "__z")); ok {
				*z = v
			}
		}
	}
}

func parseFormBindings(formNode *ast.IntermediaryNode) []FormBinding {
	var out []FormBinding
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		im, ok := n.(*ast.IntermediaryNode)
		if !ok {
			return
		}
		if im.Hash == hashFormBinding {
			if b, ok := parseFormBindingText(flattenNodeText(im)); ok {
				out = append(out, b)
			}
			return
		}
		for _, ch := range im.Children {
			walk(ch)
		}
	}
	for _, ch := range formNode.Children {
		walk(ch)
	}
	return out
}

func parseFormBindingText(text string) (FormBinding, bool) {
	line := normalizeLine(text)
	eq := strings.IndexByte(line, '=')
	if eq <= 0 || eq+1 >= len(line) {
		return FormBinding{}, false
	}
	local := trimASCIIWS(line[:eq])
	path := trimASCIIWS(line[eq+1:])
	if local == "" || path == "" {
		return FormBinding{}, false
	}
	return FormBinding{Local: local, Path: path}, true
}

func parseTriggerList(text string) []string {
	line := normalizeLine(text)
	line = strings.TrimPrefix(line, "__triggers")
	line = trimASCIIWS(line)
	line = strings.TrimPrefix(line, "[")
	line = strings.TrimSuffix(line, "]")
	var out []string
	for _, part := range strings.Split(line, ",") {
		if t := trimASCIIWS(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// flattenAfterKeyword flattens a `__keyword value` opt node's text and
// strips the leading keyword, leaving only the value's own text. Used as
// the uniform fallback path for every option kind instead of one bespoke
// parser per option — every option shares the same `"__x" value` shape.
func flattenAfterKeyword(node *ast.IntermediaryNode, keyword string) string {
	text := normalizeLine(flattenNodeText(node))
	return trimASCIIWS(strings.TrimPrefix(text, keyword))
}

func parseBoolToken(s string) bool {
	switch trimASCIIWS(strings.ToLower(s)) {
	case "on", "true":
		return true
	default:
		return false
	}
}

func parseIntToken(s string) (int, bool) {
	n, err := strconv.Atoi(trimASCIIWS(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseIntOrEmpty(s string) (int, bool) {
	s = trimASCIIWS(s)
	if s == "" || s == "<empty>" {
		return 0, false
	}
	return parseIntToken(s)
}

func parseCoordPair(s string) (Coord, bool) {
	s = trimASCIIWS(s)
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return Coord{}, false
	}
	x, err1 := strconv.ParseFloat(trimASCIIWS(parts[0]), 64)
	y, err2 := strconv.ParseFloat(trimASCIIWS(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return Coord{}, false
	}
	return Coord{X: x, Y: y}, true
}

// unquoteOrEmpty turns `<empty>` into "" and strips a string literal's
// surrounding quotes; any other raw token passes through unchanged.
func unquoteOrEmpty(s string) string {
	s = trimASCIIWS(s)
	if s == "" || s == "<empty>" {
		return ""
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
