// Package parse implements the general instruction parser: predictive
// recursive descent with single-token lookahead and bounded backtracking on
// alternation, driven against a compiled bnf.Grammar.
package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/ast"
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/bnf"
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/lex"
	"github.com/cuwacunu/tsiemene/internal/errs"
)

// Parser parses instruction text against one compiled Grammar. A Parser is
// immutable once built by Compile and may be reused concurrently, since
// each call to Parse drives its own lex.TokenStream.
type Parser struct {
	grammar *bnf.Grammar
	lexer   lex.Lexer

	literalClass map[string]string
	regexClass   map[string]string
	regexByID    map[string]*regexp.Regexp
}

// Compile builds a Parser for g: it derives the instruction-text lexer by
// registering one lexable pattern per distinct terminal literal and regex
// terminal appearing anywhere in g (including inside meta-groups), using
// the same GNU-lex longest-match-first-defined engine as the rest of the
// camahjucunu core (§4.1's lexer, here configured from grammar literals
// instead of a fixed pattern set).
func Compile(g *bnf.Grammar) (*Parser, error) {
	p := &Parser{
		grammar:      g,
		lexer:        lex.NewLexer(),
		literalClass: map[string]string{},
		regexClass:   map[string]string{},
		regexByID:    map[string]*regexp.Regexp{},
	}

	if err := p.lexer.AddPattern(`[ \t\r\n]+`, lex.Discard(), ""); err != nil {
		return nil, err
	}
	if err := p.lexer.AddPattern(`;`, lex.Discard(), ""); err != nil {
		return nil, err
	}

	for _, name := range g.Order {
		rule, _ := g.Rule(name)
		for _, alt := range rule.Alternatives {
			if err := p.collect(alt); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

func (p *Parser) collect(alt bnf.Alternative) error {
	for _, unit := range alt {
		switch unit.Kind {
		case bnf.UnitTerminal, bnf.UnitLiteralTerminal:
			if _, ok := p.literalClass[unit.Literal]; ok {
				continue
			}
			classID := fmt.Sprintf("term#%d", len(p.literalClass)+len(p.regexClass))
			p.literalClass[unit.Literal] = classID
			p.lexer.AddClass(lex.NewTokenClass(classID, unit.Literal), "")
			if err := p.lexer.AddPattern(regexp.QuoteMeta(unit.Literal), lex.LexAs(classID), ""); err != nil {
				return err
			}
		case bnf.UnitRegexTerminal:
			src := unit.Regex.String()
			if _, ok := p.regexClass[src]; ok {
				continue
			}
			classID := fmt.Sprintf("regex#%d", len(p.literalClass)+len(p.regexClass))
			p.regexClass[src] = classID
			p.regexByID[classID] = unit.Regex
			p.lexer.AddClass(lex.NewTokenClass(classID, src), "")
			if err := p.lexer.AddPattern(src, lex.LexAs(classID), ""); err != nil {
				return err
			}
		case bnf.UnitMeta:
			for _, inner := range unit.Group {
				if err := p.collect(inner); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ParseInstruction compiles g and parses text against it in one call. Most
// callers parse the same grammar repeatedly (one board or renderings
// instruction after another against a grammar loaded once); those callers
// should call Compile themselves and reuse the *Parser instead.
func ParseInstruction(g *bnf.Grammar, text string) (*ast.RootNode, error) {
	p, err := Compile(g)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// Parse performs predictive recursive descent over text against p's
// grammar. On success, the AST's root corresponds to the start symbol and
// the entire input (modulo whitespace and trailing semicolons) has been
// consumed. On failure, reports *errs.ParseError with the offset and
// expected set of the deepest failure reached.
func (p *Parser) Parse(text string) (*ast.RootNode, error) {
	stream, err := p.lexer.Lex(strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	node, err := p.matchNonTerminal(stream, p.grammar.Start)
	if err != nil {
		return nil, err
	}

	tail := stream.Peek()
	if tail.Class().ID() != lex.TokenEndOfText.ID() {
		return nil, &errs.ParseError{
			Offset:   stream.Offset(),
			Line:     tail.Line(),
			Pos:      tail.LinePos(),
			Expected: []string{"end of input"},
			Observed: tail.Lexeme(),
		}
	}

	root := &ast.RootNode{LHSInstruction: p.grammar.Start, Children: []ast.Node{node}}
	return root, nil
}

func (p *Parser) matchNonTerminal(stream lex.TokenStream, nonTerminal string) (*ast.IntermediaryNode, error) {
	rule, ok := p.grammar.Rule(nonTerminal)
	if !ok {
		return nil, &errs.ParseError{Observed: nonTerminal, Expected: []string{"a declared rule"}}
	}

	var lastErr error
	for altIdx, alt := range rule.Alternatives {
		mark := stream.Offset()
		children, err := p.matchAlternative(stream, nonTerminal, alt)
		if err == nil {
			return &ast.IntermediaryNode{
				NonTerminal: nonTerminal,
				Alternative: altIdx,
				Hash:        ast.HashProductionSite(nonTerminal, altIdx),
				Children:    children,
			}, nil
		}
		stream.Rewind(mark)
		lastErr = err
	}
	return nil, lastErr
}

func (p *Parser) matchAlternative(stream lex.TokenStream, nonTerminal string, alt bnf.Alternative) ([]ast.Node, error) {
	var children []ast.Node
	for _, unit := range alt {
		nodes, err := p.matchUnit(stream, nonTerminal, unit)
		if err != nil {
			return nil, err
		}
		children = append(children, nodes...)
	}
	return children, nil
}

func (p *Parser) matchUnit(stream lex.TokenStream, nonTerminal string, unit bnf.ProductionUnit) ([]ast.Node, error) {
	switch unit.Kind {
	case bnf.UnitTerminal, bnf.UnitLiteralTerminal:
		tok := stream.Peek()
		if tok.Class().ID() != p.literalClass[unit.Literal] {
			return nil, p.expectedError(stream, tok, unit.Literal)
		}
		stream.Next()
		return []ast.Node{&ast.TerminalNode{Unit: unit.Literal, Source: tok}}, nil

	case bnf.UnitRegexTerminal:
		tok := stream.Peek()
		if tok.Class().ID() != p.regexClass[unit.Regex.String()] {
			return nil, p.expectedError(stream, tok, "/"+unit.Regex.String()+"/")
		}
		stream.Next()
		return []ast.Node{&ast.TerminalNode{Unit: tok.Lexeme(), Source: tok}}, nil

	case bnf.UnitEnd:
		tok := stream.Peek()
		if tok.Class().ID() != lex.TokenEndOfText.ID() {
			return nil, p.expectedError(stream, tok, "$end")
		}
		return nil, nil

	case bnf.UnitNonTerminal:
		node, err := p.matchNonTerminal(stream, unit.Literal)
		if err != nil {
			return nil, err
		}
		return []ast.Node{node}, nil

	case bnf.UnitMeta:
		return p.matchMeta(stream, nonTerminal, unit)

	default:
		return nil, fmt.Errorf("parse: unhandled production unit kind %v", unit.Kind)
	}
}

func (p *Parser) matchMeta(stream lex.TokenStream, nonTerminal string, unit bnf.ProductionUnit) ([]ast.Node, error) {
	switch unit.MetaOp {
	case bnf.MetaOptional:
		mark := stream.Offset()
		nodes, err := p.matchGroup(stream, nonTerminal, unit.Group)
		if err != nil {
			stream.Rewind(mark)
			return nil, nil
		}
		return nodes, nil

	case bnf.MetaRepetition:
		var all []ast.Node
		for {
			mark := stream.Offset()
			nodes, err := p.matchGroup(stream, nonTerminal, unit.Group)
			if err != nil {
				stream.Rewind(mark)
				break
			}
			if stream.Offset() == mark {
				// zero-width match: stop before looping forever
				break
			}
			all = append(all, nodes...)
		}
		return all, nil

	default: // MetaGroup
		return p.matchGroup(stream, nonTerminal, unit.Group)
	}
}

func (p *Parser) matchGroup(stream lex.TokenStream, nonTerminal string, alts []bnf.Alternative) ([]ast.Node, error) {
	var lastErr error
	for _, alt := range alts {
		mark := stream.Offset()
		nodes, err := p.matchAlternative(stream, nonTerminal, alt)
		if err == nil {
			return nodes, nil
		}
		stream.Rewind(mark)
		lastErr = err
	}
	return nil, lastErr
}

func (p *Parser) expectedError(stream lex.TokenStream, tok lex.Token, expected string) error {
	return &errs.ParseError{
		Offset:   stream.Offset(),
		Line:     tok.Line(),
		Pos:      tok.LinePos(),
		Expected: []string{expected},
		Observed: tok.Lexeme(),
	}
}
