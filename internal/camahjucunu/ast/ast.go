// Package ast defines the typed parse tree produced by the instruction
// parser: RootNode, IntermediaryNode, and TerminalNode, with visitor-dispatch
// walking via VisitorContext. Domain decoders (board, renderings) are the
// primary consumers: they implement Visitor and drive a walk over an AST to
// produce a domain instruction structure.
package ast

import (
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/lex"
)

// Node is implemented by every AST node kind. Accept drives visitor dispatch:
// each concrete node calls back the Visitor method matching its own kind,
// pushing itself onto the VisitorContext's ancestor stack for the duration of
// visiting its own children.
type Node interface {
	// Accept dispatches this node (and, for non-terminals, its children) to v.
	Accept(v Visitor, ctx *VisitorContext)

	// String returns a prettified, line-by-line representation of the
	// subtree rooted at this node, suitable for structural comparison.
	String() string
}

// Visitor is implemented by domain decoders walking an AST. A decoder
// typically acts only on the IntermediaryNode.Hash values it recognizes,
// returning quickly for the rest; children are still visited because Accept
// recurses into them unconditionally.
type Visitor interface {
	VisitRoot(node *RootNode, ctx *VisitorContext)
	VisitIntermediary(node *IntermediaryNode, ctx *VisitorContext)
	VisitTerminal(node *TerminalNode, ctx *VisitorContext)
}

// VisitorContext threads state through a walk of an AST: UserData is an
// opaque pointer the visitor uses to accumulate decoded output, and Stack is
// the ancestor chain from the root down to (but not including) the node
// currently being visited. VisitorContext is not safe for concurrent walks;
// callers needing parallel decoding should build one per walk.
type VisitorContext struct {
	UserData any
	Stack    []Node
}

// NewVisitorContext returns a VisitorContext ready to drive a single
// root-to-leaves walk, carrying userData as its opaque user pointer.
func NewVisitorContext(userData any) *VisitorContext {
	return &VisitorContext{UserData: userData}
}

func (ctx *VisitorContext) push(n Node) {
	ctx.Stack = append(ctx.Stack, n)
}

func (ctx *VisitorContext) pop() {
	ctx.Stack = ctx.Stack[:len(ctx.Stack)-1]
}

// Parent returns the immediate ancestor of the node currently being visited,
// or nil if the current node is the root.
func (ctx *VisitorContext) Parent() Node {
	if len(ctx.Stack) == 0 {
		return nil
	}
	return ctx.Stack[len(ctx.Stack)-1]
}

// RootNode is produced once per parsed instruction; its children are the
// nodes produced by matching the grammar's start alternative.
type RootNode struct {
	// LHSInstruction is the name of the start non-terminal this root was
	// parsed against.
	LHSInstruction string
	Children       []Node
}

func (n *RootNode) Accept(v Visitor, ctx *VisitorContext) {
	v.VisitRoot(n, ctx)
	ctx.push(n)
	for _, c := range n.Children {
		c.Accept(v, ctx)
	}
	ctx.pop()
}

func (n *RootNode) String() string {
	return leveledStr(n, "", "")
}

// IntermediaryNode corresponds to one matched alternative of a non-terminal.
// Hash is stable across grammar edits that leave the non-terminal name and
// alternative index unchanged, letting domain decoders look up children by
// hash instead of by fragile positional indexing.
type IntermediaryNode struct {
	NonTerminal string
	Alternative int
	Hash        uint64
	Children    []Node
}

func (n *IntermediaryNode) Accept(v Visitor, ctx *VisitorContext) {
	v.VisitIntermediary(n, ctx)
	ctx.push(n)
	for _, c := range n.Children {
		c.Accept(v, ctx)
	}
	ctx.pop()
}

func (n *IntermediaryNode) String() string {
	return leveledStr(n, "", "")
}

// TerminalNode carries the matched production unit: either literal terminal
// text or a regex capture, together with the lexer token it was matched
// from.
type TerminalNode struct {
	Unit   string
	Source lex.Token
}

func (n *TerminalNode) Accept(v Visitor, ctx *VisitorContext) {
	v.VisitTerminal(n, ctx)
}

func (n *TerminalNode) String() string {
	return leveledStr(n, "", "")
}

// HashProductionSite derives the stable hash IntermediaryNode.Hash is
// stamped with, from the non-terminal name and the index of the matched
// alternative within its production. Domain decoders precompute this same
// hash from grammar literals known at compile time and compare against it on
// walk, so lookup survives reordering of unrelated rules.
func HashProductionSite(nonTerminal string, alternative int) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211

	h := uint64(offset64)
	for i := 0; i < len(nonTerminal); i++ {
		h ^= uint64(nonTerminal[i])
		h *= prime64
	}
	h ^= uint64(alternative)
	h *= prime64
	return h
}
