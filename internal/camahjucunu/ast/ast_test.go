package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingVisitor struct {
	order []string
}

func (v *recordingVisitor) VisitRoot(node *RootNode, ctx *VisitorContext) {
	v.order = append(v.order, "root:"+node.LHSInstruction)
}

func (v *recordingVisitor) VisitIntermediary(node *IntermediaryNode, ctx *VisitorContext) {
	v.order = append(v.order, "im:"+node.NonTerminal)
}

func (v *recordingVisitor) VisitTerminal(node *TerminalNode, ctx *VisitorContext) {
	v.order = append(v.order, "term:"+node.Unit)
}

func tree() *RootNode {
	return &RootNode{
		LHSInstruction: "instruction",
		Children: []Node{
			&IntermediaryNode{
				NonTerminal: "circuit",
				Alternative: 0,
				Hash:        HashProductionSite("circuit", 0),
				Children: []Node{
					&TerminalNode{Unit: "NAME"},
					&TerminalNode{Unit: "="},
				},
			},
		},
	}
}

func Test_Accept_visitsInPreOrder(t *testing.T) {
	assert := assert.New(t)

	v := &recordingVisitor{}
	ctx := NewVisitorContext(nil)

	tree().Accept(v, ctx)

	assert.Equal([]string{"root:instruction", "im:circuit", "term:NAME", "term:="}, v.order)
}

func Test_VisitorContext_stackTracksAncestors(t *testing.T) {
	assert := assert.New(t)

	type captured struct {
		depth int
	}
	var depths []int

	visitor := visitorFunc{
		root: func(n *RootNode, ctx *VisitorContext) {
			depths = append(depths, len(ctx.Stack))
		},
		im: func(n *IntermediaryNode, ctx *VisitorContext) {
			depths = append(depths, len(ctx.Stack))
		},
		term: func(n *TerminalNode, ctx *VisitorContext) {
			depths = append(depths, len(ctx.Stack))
		},
	}

	ctx := NewVisitorContext(nil)
	tree().Accept(visitor, ctx)

	assert.Equal([]int{0, 1, 2, 2}, depths)
	assert.Empty(ctx.Stack, "stack must unwind fully after the walk completes")
}

func Test_Equal(t *testing.T) {
	assert := assert.New(t)

	a := tree()
	b := tree()
	assert.True(Equal(a, b))

	b.Children[0].(*IntermediaryNode).Children[0].(*TerminalNode).Unit = "OTHER"
	assert.False(Equal(a, b))
}

func Test_HashProductionSite_stableAndDistinguishing(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(HashProductionSite("circuit", 0), HashProductionSite("circuit", 0))
	assert.NotEqual(HashProductionSite("circuit", 0), HashProductionSite("circuit", 1))
	assert.NotEqual(HashProductionSite("circuit", 0), HashProductionSite("screen", 0))
}

// visitorFunc is a Visitor built from plain closures, for tests that only
// care about call order/arguments and not about dedicated visitor types.
type visitorFunc struct {
	root func(*RootNode, *VisitorContext)
	im   func(*IntermediaryNode, *VisitorContext)
	term func(*TerminalNode, *VisitorContext)
}

func (v visitorFunc) VisitRoot(n *RootNode, ctx *VisitorContext) { v.root(n, ctx) }
func (v visitorFunc) VisitIntermediary(n *IntermediaryNode, ctx *VisitorContext) {
	v.im(n, ctx)
}
func (v visitorFunc) VisitTerminal(n *TerminalNode, ctx *VisitorContext) { v.term(n, ctx) }
