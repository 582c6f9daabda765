package lex

import (
	"fmt"
	"io"
	"regexp"
)

type patAct struct {
	src string
	pat *regexp.Regexp
	act Action
}

// Lexer builds a TokenStream from source text according to the patterns and
// classes registered on it with AddClass and AddPattern. A single Lexer is a
// template: calling Lex (or LazyLex / ImmediatelyLex) against it produces an
// independent, stateful stream that can be driven to completion without
// affecting the template or any other stream derived from it.
type Lexer interface {
	// Lex returns a token stream lexed lazily: tokens (and any LexError) are
	// produced on demand as the returned TokenStream is consumed.
	Lex(input io.Reader) (TokenStream, error)

	// AddClass registers a token class as lexable in the given state. It must
	// be called before any AddPattern that scans to that class in that state.
	AddClass(cl TokenClass, forState string)

	// AddPattern registers one regular expression and the Action to take when
	// it matches, for the given lexer state. Patterns within a state are
	// tried in registration order; ties go to the longest match, then to the
	// first-registered pattern (GNU lex style disambiguation).
	AddPattern(pat string, action Action, forState string) error

	// SetStartingState sets the state the lexer begins in. Defaults to "".
	SetStartingState(state string)

	// StartingState returns the state the lexer begins in.
	StartingState() string
}

type lexerTemplate struct {
	patterns   map[string][]patAct
	startState string

	// classes by ID by state
	classes map[string]map[string]TokenClass
}

// NewLexer returns an empty Lexer template with no patterns or classes
// registered.
func NewLexer() Lexer {
	return &lexerTemplate{
		patterns: map[string][]patAct{},
		classes:  map[string]map[string]TokenClass{},
	}
}

func (lx *lexerTemplate) StartingState() string {
	return lx.startState
}

func (lx *lexerTemplate) SetStartingState(state string) {
	lx.startState = state
}

// Lex returns a lazily-evaluated TokenStream; this is the Lexer contract's
// default mode since most DSL documents are small enough that eager lexing
// offers no real advantage, but callers that want to fail fast on any
// malformed token should use ImmediatelyLex instead.
func (lx *lexerTemplate) Lex(input io.Reader) (TokenStream, error) {
	return lx.LazyLex(input)
}

// AddClass adds the given token class to the lexer. This will mark that
// token class as a lexable token class, and make it available for use in the
// Action of an AddPattern.
//
// If the given token class's ID() returns a string matching one already
// added, the provided one will replace the existing one.
func (lx *lexerTemplate) AddClass(cl TokenClass, forState string) {
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]TokenClass{}
	}

	stateClasses[cl.ID()] = cl
	lx.classes[forState] = stateClasses
}

func (lx *lexerTemplate) AddPattern(pat string, action Action, forState string) error {
	statePatterns, ok := lx.patterns[forState]
	if !ok {
		statePatterns = make([]patAct, 0)
	}
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]TokenClass{}
	}

	compiled, err := regexp.Compile(pat)
	if err != nil {
		return fmt.Errorf("cannot compile regex: %w", err)
	}

	if action.Type == ActionScan || action.Type == ActionScanAndState {
		// check class exists
		id := action.ClassID
		_, ok := stateClasses[id]
		if !ok {
			return fmt.Errorf("%q is not a defined token class on this lexer; add it with AddClass first", id)
		}
	}
	if action.Type == ActionState || action.Type == ActionScanAndState {
		if action.State == "" {
			return fmt.Errorf("action includes state shift but does not define state to shift to (cannot shift to empty state)")
		}
	}

	record := patAct{
		src: pat,
		pat: compiled,
		act: action,
	}
	statePatterns = append(statePatterns, record)

	lx.patterns[forState] = statePatterns
	// not modifying lx.classes so no need to set it again
	return nil
}
