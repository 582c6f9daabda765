// Package lex implements the hand-written lexer used by the camahjucunu
// BNF/DSL core. It turns raw DSL source text into a stream of classified
// tokens that the grammar parser and instruction parser consume.
package lex

import "strings"

// TokenClass identifies the lexical category of a Token, e.g. a keyword, a
// quoted literal, or a regex-matched identifier. A TokenClass ID must uniquely
// identify the class within all terminals of a grammar.
type TokenClass interface {
	// ID returns the ID of the token class. The ID must uniquely identify the
	// token within all terminals of a grammar.
	ID() string

	// Human returns a human-readable name for the token class, for use in
	// contexts such as error reporting.
	Human() string

	// Equal returns whether the TokenClass equals another. If two IDs are the
	// same, Equal must return true.
	Equal(o any) bool
}

type simpleTokenClass string

func (class simpleTokenClass) ID() string {
	return strings.ToLower(string(class))
}

func (class simpleTokenClass) Human() string {
	return string(class)
}

func (class simpleTokenClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		otherPtr, ok := o.(*TokenClass)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return other.ID() == class.ID()
}

const (
	// TokenUndefined is the zero-value placeholder token class.
	TokenUndefined = simpleTokenClass("undefined_token")

	// TokenEndOfText is produced once the lexer has consumed all input.
	TokenEndOfText = simpleTokenClass("$")

	// TokenError is produced in place of a real token when lexing fails; its
	// Lexeme carries the diagnostic message.
	TokenError = simpleTokenClass("lex_error")
)

// MakeDefaultClass takes a string and returns a token class that both uses the
// lower-case version of the string as its ID and the un-modified string as its
// human-readable string.
func MakeDefaultClass(s string) TokenClass {
	return simpleTokenClass(s)
}

// NewTokenClass creates a TokenClass with distinct ID and human-readable name.
func NewTokenClass(id string, human string) TokenClass {
	return lexerClass{id: id, name: human}
}

type lexerClass struct {
	id   string
	name string
}

func (lc lexerClass) ID() string {
	return lc.id
}

func (lc lexerClass) Human() string {
	return lc.name
}

func (lc lexerClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		otherPtr, ok := o.(*TokenClass)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return other.ID() == lc.ID()
}
