package bnf

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/lex"
	"github.com/cuwacunu/tsiemene/internal/errs"
)

// ParseGrammar consumes a grammar document and returns the Grammar it
// declares. Fails with *errs.GrammarError on an undefined rule reference, a
// duplicate rule name, or a malformed alternative.
func ParseGrammar(source io.Reader) (*Grammar, error) {
	lx := newBNFLexer()
	stream, err := lx.Lex(source)
	if err != nil {
		return nil, err
	}

	p := &parser{stream: stream}
	return p.parseDocument()
}

type parser struct {
	stream  lex.TokenStream
	start   string
	startOK bool
}

func (p *parser) parseDocument() (*Grammar, error) {
	g := &Grammar{Rules: map[string]Rule{}}

	for p.stream.HasNext() {
		tok := p.stream.Peek()
		if tok.Class().ID() == lex.TokenEndOfText.ID() {
			break
		}

		if tok.Class().ID() == classStartDirect {
			p.stream.Next()
			nameTok := p.stream.Next()
			if nameTok.Class().ID() != classIdent {
				return nil, &errs.GrammarError{Rule: "%start", Reason: fmt.Sprintf("expected rule name after %%start, got %q", nameTok.Lexeme())}
			}
			p.start = nameTok.Lexeme()
			p.startOK = true
			continue
		}

		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		if _, exists := g.Rules[rule.NonTerminal]; exists {
			return nil, &errs.GrammarError{Rule: rule.NonTerminal, Reason: "duplicate rule name"}
		}
		g.Rules[rule.NonTerminal] = rule
		g.Order = append(g.Order, rule.NonTerminal)
	}

	if len(g.Order) == 0 {
		return nil, &errs.GrammarError{Rule: "", Reason: "grammar document declares no rules"}
	}

	if p.startOK {
		if _, ok := g.Rules[p.start]; !ok {
			return nil, &errs.GrammarError{Rule: p.start, Reason: "%start names an undeclared rule"}
		}
		g.Start = p.start
	} else {
		g.Start = g.Order[0]
	}

	if err := validateReferences(g); err != nil {
		return nil, err
	}

	return g, nil
}

func (p *parser) parseRule() (Rule, error) {
	nameTok := p.stream.Next()
	if nameTok.Class().ID() != classIdent {
		return Rule{}, &errs.GrammarError{Rule: nameTok.Lexeme(), Reason: fmt.Sprintf("expected a rule name, got %q", nameTok.Lexeme())}
	}
	name := nameTok.Lexeme()

	definesTok := p.stream.Next()
	if definesTok.Class().ID() != classDefines {
		return Rule{}, &errs.GrammarError{Rule: name, Reason: "expected '::=' after rule name"}
	}

	alts, err := p.parseAlternatives(name)
	if err != nil {
		return Rule{}, err
	}

	return Rule{NonTerminal: name, Alternatives: alts}, nil
}

// parseAlternatives reads `alt1 | alt2 | …`, stopping when it sees a token
// that starts a new top-level rule (`ident ::=`) or a group-closing token,
// whichever comes first. At the top level (inGroup == "") only the former
// applies.
func (p *parser) parseAlternatives(ruleName string) ([]Alternative, error) {
	var alts []Alternative

	for {
		alt, err := p.parseAlternative(ruleName)
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)

		if p.stream.HasNext() && p.stream.Peek().Class().ID() == classPipe {
			p.stream.Next()
			continue
		}
		break
	}

	if len(alts) == 0 {
		return nil, &errs.GrammarError{Rule: ruleName, Reason: "rule has no alternatives"}
	}

	return alts, nil
}

func (p *parser) parseAlternative(ruleName string) (Alternative, error) {
	var units Alternative

	for p.stream.HasNext() {
		tok := p.stream.Peek()
		id := tok.Class().ID()

		if id == lex.TokenEndOfText.ID() {
			break
		}
		if id == classPipe || id == classRBracket || id == classRBrace || id == classRParen {
			break
		}
		// a bare ident immediately followed by '::=' starts the next rule,
		// ending this alternative; mark with a bounded lookahead using the
		// stream's offset save/restore.
		if id == classIdent {
			mark := p.stream.Offset()
			p.stream.Next()
			next := p.stream.Peek()
			p.stream.Rewind(mark)
			if next.Class().ID() == classDefines {
				break
			}
		}

		unit, err := p.parseUnit(ruleName)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	if len(units) == 0 {
		return nil, &errs.GrammarError{Rule: ruleName, Reason: "empty alternative"}
	}

	return units, nil
}

func (p *parser) parseUnit(ruleName string) (ProductionUnit, error) {
	tok := p.stream.Next()
	switch tok.Class().ID() {
	case classQuoted:
		return ProductionUnit{Kind: UnitTerminal, Literal: unquote(tok.Lexeme())}, nil
	case classRegexLit:
		src := tok.Lexeme()
		src = src[1 : len(src)-1]
		src = strings.ReplaceAll(src, `\/`, `/`)
		re, err := regexp.Compile(src)
		if err != nil {
			return ProductionUnit{}, &errs.GrammarError{Rule: ruleName, Reason: fmt.Sprintf("malformed regex terminal %q: %s", src, err)}
		}
		return ProductionUnit{Kind: UnitRegexTerminal, Regex: re}, nil
	case classEndMarker:
		return ProductionUnit{Kind: UnitEnd, Literal: "$end"}, nil
	case classIdent:
		return ProductionUnit{Kind: UnitNonTerminal, Literal: tok.Lexeme()}, nil
	case classLBracket:
		return p.parseGroup(ruleName, MetaOptional, classRBracket)
	case classLBrace:
		return p.parseGroup(ruleName, MetaRepetition, classRBrace)
	case classLParen:
		return p.parseGroup(ruleName, MetaGroup, classRParen)
	default:
		return ProductionUnit{}, &errs.GrammarError{Rule: ruleName, Reason: fmt.Sprintf("malformed alternative: unexpected token %q", tok.Lexeme())}
	}
}

func (p *parser) parseGroup(ruleName string, op MetaOp, closeClass string) (ProductionUnit, error) {
	alts, err := p.parseAlternatives(ruleName)
	if err != nil {
		return ProductionUnit{}, err
	}
	closeTok := p.stream.Next()
	if closeTok.Class().ID() != closeClass {
		return ProductionUnit{}, &errs.GrammarError{Rule: ruleName, Reason: fmt.Sprintf("malformed alternative: unterminated group, expected closing bracket, got %q", closeTok.Lexeme())}
	}
	return ProductionUnit{Kind: UnitMeta, MetaOp: op, Group: alts}, nil
}

func unquote(lexeme string) string {
	if len(lexeme) < 2 {
		return lexeme
	}
	inner := lexeme[1 : len(lexeme)-1]
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			switch inner[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(inner[i+1])
			}
			i++
			continue
		}
		sb.WriteByte(inner[i])
	}
	return sb.String()
}

// validateReferences walks every alternative in the grammar (including
// nested meta-groups) and fails with *errs.GrammarError on the first
// non-terminal reference naming an undeclared rule.
func validateReferences(g *Grammar) error {
	for _, name := range g.Order {
		rule := g.Rules[name]
		for _, alt := range rule.Alternatives {
			if err := validateAlternative(g, name, alt); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAlternative(g *Grammar, ruleName string, alt Alternative) error {
	for _, unit := range alt {
		switch unit.Kind {
		case UnitNonTerminal:
			if _, ok := g.Rules[unit.Literal]; !ok {
				return &errs.GrammarError{Rule: ruleName, Reason: fmt.Sprintf("undefined rule reference: %s", unit.Literal)}
			}
		case UnitMeta:
			for _, inner := range unit.Group {
				if err := validateAlternative(g, ruleName, inner); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
