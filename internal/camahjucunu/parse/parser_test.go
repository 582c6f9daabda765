package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/ast"
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/bnf"
)

func mustGrammar(t *testing.T, src string) *bnf.Grammar {
	t.Helper()
	g, err := bnf.ParseGrammar(strings.NewReader(src))
	if err != nil {
		t.Fatalf("bad fixture grammar: %v", err)
	}
	return g
}

func Test_Parse_simpleSequence(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, `
		instance ::= name "=" name
		name ::= /[A-Za-z_][A-Za-z0-9_]*/
	`)
	p, err := Compile(g)
	if !assert.NoError(err) {
		return
	}

	root, err := p.Parse(`alpha = beta`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("instance", root.LHSInstruction)
	if !assert.Len(root.Children, 1) {
		return
	}
	im, ok := root.Children[0].(*ast.IntermediaryNode)
	if !assert.True(ok) {
		return
	}
	assert.Equal("instance", im.NonTerminal)
	if !assert.Len(im.Children, 3) {
		return
	}
}

func Test_Parse_alternation(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, `
		directive ::= "payload" | "loss" | "meta"
	`)
	p, err := Compile(g)
	if !assert.NoError(err) {
		return
	}

	root, err := p.Parse(`loss`)
	if !assert.NoError(err) {
		return
	}
	im := root.Children[0].(*ast.IntermediaryNode)
	assert.Equal(1, im.Alternative)
}

func Test_Parse_optionalGroupPresentAndAbsent(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, `
		ref ::= name [ "@" name ]
		name ::= /[A-Za-z_][A-Za-z0-9_]*/
	`)
	p, err := Compile(g)
	if !assert.NoError(err) {
		return
	}

	withOpt, err := p.Parse(`alpha @ beta`)
	if assert.NoError(err) {
		im := withOpt.Children[0].(*ast.IntermediaryNode)
		assert.Len(im.Children, 3)
	}

	withoutOpt, err := p.Parse(`alpha`)
	if assert.NoError(err) {
		im := withoutOpt.Children[0].(*ast.IntermediaryNode)
		assert.Len(im.Children, 1)
	}
}

func Test_Parse_repetition(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, `
		list ::= name { "," name }
		name ::= /[A-Za-z_][A-Za-z0-9_]*/
	`)
	p, err := Compile(g)
	if !assert.NoError(err) {
		return
	}

	root, err := p.Parse(`a , b , c`)
	if !assert.NoError(err) {
		return
	}
	im := root.Children[0].(*ast.IntermediaryNode)
	// "a" + ("," "b") + ("," "c") == 5 terminal children
	assert.Len(im.Children, 5)
}

func Test_Parse_failsOnUnmatchedAlternative(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, `directive ::= "payload" | "loss"`)
	p, err := Compile(g)
	if !assert.NoError(err) {
		return
	}

	_, err = p.Parse(`meta`)
	assert.Error(err)
}

func Test_Parse_failsOnTrailingInput(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, `greeting ::= "hello"`)
	p, err := Compile(g)
	if !assert.NoError(err) {
		return
	}

	_, err = p.Parse(`hello world`)
	assert.Error(err)
}

func Test_Parse_nestedNonTerminals(t *testing.T) {
	assert := assert.New(t)

	g := mustGrammar(t, `
		hop ::= endpoint "->" endpoint
		endpoint ::= name "@" name
		name ::= /[A-Za-z_][A-Za-z0-9_]*/
	`)
	p, err := Compile(g)
	if !assert.NoError(err) {
		return
	}

	root, err := p.Parse(`alpha @ payload -> beta @ loss`)
	if !assert.NoError(err) {
		return
	}
	hop := root.Children[0].(*ast.IntermediaryNode)
	if !assert.Len(hop.Children, 3) {
		return
	}
	_, ok := hop.Children[0].(*ast.IntermediaryNode)
	assert.True(ok)
	_, ok = hop.Children[2].(*ast.IntermediaryNode)
	assert.True(ok)
}
