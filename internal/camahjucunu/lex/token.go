package lex

import "fmt"

// Token is a lexeme read from text combined with the token class it is as
// well as additional supplementary information gathered during lexing to
// inform error reporting.
type Token interface {
	// Class returns the TokenClass of the Token.
	Class() TokenClass

	// Lexeme returns the text that was lexed as the TokenClass of the Token,
	// as it appears in the source text.
	Lexeme() string

	// LinePos returns the 1-indexed character-of-line that the token appears
	// on in the source text.
	LinePos() int

	// Line returns the 1-indexed line number of the line that the token
	// appears on in the source text.
	Line() int

	// FullLine returns the full text of the line in source that the token
	// appears on, including both anything that came before the token as well
	// as after it on the line.
	FullLine() string

	// Offset returns the byte offset of the start of the token in the source,
	// suitable for use with TokenStream.Rewind.
	Offset() int64

	// String is the string representation.
	String() string
}

// implementation of Token interface for lex package use only.
type lexerToken struct {
	class   TokenClass
	lexed   string
	linePos int
	lineNum int
	line    string
	offset  int64
}

func (lt lexerToken) Class() TokenClass {
	return lt.class
}

func (lt lexerToken) Lexeme() string {
	return lt.lexed
}

func (lt lexerToken) LinePos() int {
	return lt.linePos
}

func (lt lexerToken) Line() int {
	return lt.lineNum
}

func (lt lexerToken) FullLine() string {
	return lt.line
}

func (lt lexerToken) Offset() int64 {
	return lt.offset
}

func (lt lexerToken) String() string {
	return fmt.Sprintf("(%s %q, line %d pos %d)", lt.class.ID(), lt.lexed, lt.lineNum, lt.linePos)
}
