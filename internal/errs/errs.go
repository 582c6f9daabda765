// Package errs defines the error taxonomy shared across the camahjucunu,
// tsiemene, and iinuji subsystems. Each error kind carries enough structured
// detail to let a caller report a precise diagnostic without string parsing.
//
// Lex, grammar, decode, and parse errors fail their caller synchronously.
// Validation errors are collected into a Diagnostics list rather than
// short-circuited, per the "continue after first error" rule in the board and
// rendering validators.
package errs

import "fmt"

// LexError is returned by the lexer on an unterminated quoted string,
// unterminated regex group, or a character outside the declared ignorables.
type LexError struct {
	Line    int
	Pos     int
	Message string
}

func (e *LexError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("lex error: %s", e.Message)
	}
	return fmt.Sprintf("lex error: line %d, char %d: %s", e.Line, e.Pos, e.Message)
}

// GrammarError is returned by the BNF parser on an undefined rule reference,
// a duplicate rule name, or a malformed alternative.
type GrammarError struct {
	Rule   string
	Reason string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar error: rule %q: %s", e.Rule, e.Reason)
}

// ParseError is returned by the instruction parser when no alternative
// matches the input at a given offset.
type ParseError struct {
	Offset     int64
	Line       int
	Pos        int
	Expected   []string
	Observed   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: line %d, char %d: expected one of %v, got %q", e.Line, e.Pos, e.Expected, e.Observed)
}

// DecodeError is returned by a domain decoder when an AST is structurally
// valid but domain-invalid, e.g. an unrecognized directive token.
type DecodeError struct {
	Location string
	Reason   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s: %s", e.Location, e.Reason)
}

// Diagnostic is a single accumulated validation failure.
type Diagnostic struct {
	Message  string
	Location string
}

func (d Diagnostic) String() string {
	if d.Location == "" {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Location, d.Message)
}

// ValidationError wraps a non-empty collection of accumulated Diagnostics.
// The board validator and the rendering-screen validator both deliberately
// keep checking after the first failure so that ValidationError.Diagnostics
// reflects every problem found in one pass, not just the first.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	if len(e.Diagnostics) == 1 {
		return fmt.Sprintf("validation error: %s", e.Diagnostics[0])
	}
	return fmt.Sprintf("validation error: %d problems found, first: %s", len(e.Diagnostics), e.Diagnostics[0])
}

// Add appends a diagnostic. Safe to call on a nil *ValidationError receiver's
// caller site via NewValidator; Add itself requires a non-nil receiver.
func (e *ValidationError) Add(location, message string) {
	e.Diagnostics = append(e.Diagnostics, Diagnostic{Location: location, Message: message})
}

// Empty returns whether no diagnostics have been accumulated.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Diagnostics) == 0
}

// OrNil returns e as an error if it carries any diagnostics, else nil. This
// lets accumulation code unconditionally build a *ValidationError and only
// surface it to the caller when it is non-empty.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// RuntimeError is returned by the TSI scheduler when a node's step panics or
// returns an error; it terminates the current wave but not the runtime.
type RuntimeError struct {
	NodeID string
	Wave   string
	Cause  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: node %s: wave %s: %s", e.NodeID, e.Wave, e.Cause)
}

func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// RenderError is returned by an abstract renderer backend failure, e.g. a
// size query failing or an unsupported glyph being requested.
type RenderError struct {
	Op     string
	Reason string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error: %s: %s", e.Op, e.Reason)
}

// ConfigError is returned by an external collaborator (config file loading,
// dataset access, exchange signing) that the core does not itself implement;
// it is accepted and propagated, never produced, by core code.
type ConfigError struct {
	Source string
	Cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Source, e.Cause)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
