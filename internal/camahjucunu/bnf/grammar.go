// Package bnf parses BNF grammar documents — `name ::= alt1 | alt2 | …` with
// meta-group operators — into a Grammar the instruction parser compiles
// against.
package bnf

import (
	"fmt"
	"regexp"
	"strings"
)

// UnitKind discriminates the variants a ProductionUnit can take, per the
// lexer tokens' production-unit type variant.
type UnitKind int

const (
	UnitTerminal UnitKind = iota
	UnitNonTerminal
	UnitRegexTerminal
	UnitLiteralTerminal
	UnitMeta
	UnitEnd
)

func (k UnitKind) String() string {
	switch k {
	case UnitTerminal:
		return "terminal"
	case UnitNonTerminal:
		return "non-terminal"
	case UnitRegexTerminal:
		return "regex-terminal"
	case UnitLiteralTerminal:
		return "literal-terminal"
	case UnitMeta:
		return "meta"
	case UnitEnd:
		return "end"
	default:
		return "unknown"
	}
}

// MetaOp discriminates the grouping operator a UnitMeta production unit
// carries: `[ ]` optional, `{ }` repetition, `( )` grouping (no implicit
// cardinality), `|` alternation within a group.
type MetaOp int

const (
	MetaGroup MetaOp = iota
	MetaOptional
	MetaRepetition
)

func (op MetaOp) String() string {
	switch op {
	case MetaGroup:
		return "group"
	case MetaOptional:
		return "optional"
	case MetaRepetition:
		return "repetition"
	default:
		return "unknown"
	}
}

// ProductionUnit is one element of an Alternative: a terminal, a reference
// to another rule, a regex terminal, a literal keyword, a meta-group, or the
// end-of-input marker.
type ProductionUnit struct {
	Kind UnitKind

	// Literal holds the terminal text for UnitTerminal/UnitLiteralTerminal,
	// or the referenced rule name for UnitNonTerminal.
	Literal string

	// Regex holds the compiled pattern for UnitRegexTerminal.
	Regex *regexp.Regexp

	// MetaOp and Group are only meaningful when Kind == UnitMeta: Group
	// holds the alternatives nested inside the `[ ]`/`{ }`/`( )` group.
	MetaOp MetaOp
	Group  []Alternative
}

func (u ProductionUnit) String() string {
	switch u.Kind {
	case UnitTerminal:
		return fmt.Sprintf("%q", u.Literal)
	case UnitLiteralTerminal:
		return u.Literal
	case UnitNonTerminal:
		return u.Literal
	case UnitRegexTerminal:
		return fmt.Sprintf("/%s/", u.Regex.String())
	case UnitEnd:
		return "$end"
	case UnitMeta:
		var open, close string
		switch u.MetaOp {
		case MetaOptional:
			open, close = "[", "]"
		case MetaRepetition:
			open, close = "{", "}"
		default:
			open, close = "(", ")"
		}
		parts := make([]string, len(u.Group))
		for i, alt := range u.Group {
			parts[i] = alt.String()
		}
		return open + strings.Join(parts, " | ") + close
	default:
		return "?"
	}
}

// Alternative is one ordered sequence of production units — one of the
// `|`-separated branches of a rule (or of a meta-group).
type Alternative []ProductionUnit

func (a Alternative) String() string {
	parts := make([]string, len(a))
	for i, u := range a {
		parts[i] = u.String()
	}
	return strings.Join(parts, " ")
}

// Rule is a non-terminal name and its ordered list of alternatives.
type Rule struct {
	NonTerminal  string
	Alternatives []Alternative
}

// Grammar maps non-terminal names to their rules. Grammars are immutable
// after ParseGrammar returns one.
type Grammar struct {
	Rules map[string]Rule

	// Order preserves declaration order, since the start symbol defaults to
	// the first declared rule.
	Order []string

	// Start is the distinguished start symbol: either the first declared
	// rule, or the rule named by a `%start` directive.
	Start string
}

// Rule looks up a non-terminal's rule by name.
func (g *Grammar) Rule(nonTerminal string) (Rule, bool) {
	r, ok := g.Rules[nonTerminal]
	return r, ok
}
