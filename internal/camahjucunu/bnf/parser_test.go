package bnf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseGrammar_simpleAlternatives(t *testing.T) {
	assert := assert.New(t)

	src := `
		instruction ::= circuit
		circuit ::= "circuit" name "=" body
	`

	g, err := ParseGrammar(strings.NewReader(src))
	if !assert.NoError(err) {
		return
	}

	assert.Equal("instruction", g.Start)
	assert.Len(g.Order, 2)

	circuitRule, ok := g.Rule("circuit")
	if !assert.True(ok) {
		return
	}
	if !assert.Len(circuitRule.Alternatives, 1) {
		return
	}
	alt := circuitRule.Alternatives[0]
	if !assert.Len(alt, 4) {
		return
	}
	assert.Equal(UnitTerminal, alt[0].Kind)
	assert.Equal("circuit", alt[0].Literal)
	assert.Equal(UnitNonTerminal, alt[1].Kind)
}

func Test_ParseGrammar_metaGroupsAndAlternation(t *testing.T) {
	assert := assert.New(t)

	src := `directive ::= [ "@" ] ( "payload" | "loss" | "meta" )`

	g, err := ParseGrammar(strings.NewReader(src))
	if !assert.NoError(err) {
		return
	}

	rule, ok := g.Rule("directive")
	if !assert.True(ok) {
		return
	}
	alt := rule.Alternatives[0]
	if !assert.Len(alt, 2) {
		return
	}
	assert.Equal(UnitMeta, alt[0].Kind)
	assert.Equal(MetaOptional, alt[0].MetaOp)
	assert.Equal(UnitMeta, alt[1].Kind)
	assert.Equal(MetaGroup, alt[1].MetaOp)
	if !assert.Len(alt[1].Group, 3) {
		return
	}
	assert.Equal("payload", alt[1].Group[0][0].Literal)
}

func Test_ParseGrammar_startDirective(t *testing.T) {
	assert := assert.New(t)

	src := `
		%start circuit
		instruction ::= circuit
		circuit ::= "circuit" "body"
	`
	g, err := ParseGrammar(strings.NewReader(src))
	if !assert.NoError(err) {
		return
	}
	assert.Equal("circuit", g.Start)
}

func Test_ParseGrammar_undefinedReference(t *testing.T) {
	assert := assert.New(t)

	src := `instruction ::= circuit_that_does_not_exist`
	_, err := ParseGrammar(strings.NewReader(src))
	assert.Error(err)
}

func Test_ParseGrammar_duplicateRuleName(t *testing.T) {
	assert := assert.New(t)

	src := `
		a ::= "x"
		a ::= "y"
	`
	_, err := ParseGrammar(strings.NewReader(src))
	assert.Error(err)
}

func Test_ParseGrammar_regexTerminal(t *testing.T) {
	assert := assert.New(t)

	src := `number ::= /[0-9]+/`
	g, err := ParseGrammar(strings.NewReader(src))
	if !assert.NoError(err) {
		return
	}
	rule, _ := g.Rule("number")
	unit := rule.Alternatives[0][0]
	assert.Equal(UnitRegexTerminal, unit.Kind)
	assert.True(unit.Regex.MatchString("42"))
}
