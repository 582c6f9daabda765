package lex

import (
	"io"

	"github.com/cuwacunu/tsiemene/internal/errs"
)

type immediateTokenStream struct {
	tokens []Token
	cur    int
}

func (lx *lexerTemplate) ImmediatelyLex(input io.Reader) (TokenStream, error) {
	// an immediate lexer is simply a 'lazy' lexer that just, keeps going. so
	// make one of those.
	lazyCore, err := lx.LazyLex(input)
	if err != nil {
		return nil, err
	}

	lexedTokens := []Token{}

	for lazyCore.HasNext() {
		tok := lazyCore.Next()

		// if it's an error token, capture that and turn it into a proper
		// 'syntax error' style error (technically it's a lexical specification
		// error but lets not split hairs over that)
		if tok.Class().ID() == TokenError.ID() {
			// stop. do not allow panic mode to continue, lexing has failed.
			return nil, &errs.LexError{
				Line:    tok.Line(),
				Pos:     tok.LinePos(),
				Message: tok.Lexeme(),
			}
		}

		lexedTokens = append(lexedTokens, tok)
	}

	// and we are now done with the pre-lex.
	return &immediateTokenStream{tokens: lexedTokens}, nil
}

// Next returns the next token in the stream and advances the stream by one
// token. If at the end of the stream, this will return a token whose Class()
// is TokenEndOfText. If an error in lexing occurs, it will return a token
// whose Class() is TokenError and whose lexeme is a message explaining
// the error.
func (lx *immediateTokenStream) Next() Token {
	n := lx.atCursor()
	if lx.cur < len(lx.tokens)-1 {
		lx.cur++
	}
	return n
}

// Peek returns the next token in the stream without advancing the stream.
func (lx *immediateTokenStream) Peek() Token {
	return lx.atCursor()
}

func (lx *immediateTokenStream) atCursor() Token {
	if lx.cur >= len(lx.tokens) {
		return lexerToken{class: TokenEndOfText}
	}
	return lx.tokens[lx.cur]
}

// HasNext returns whether the stream has any additional tokens.
func (lx *immediateTokenStream) HasNext() bool {
	return lx.Remaining() > 0
}

func (lx *immediateTokenStream) Remaining() int {
	return len(lx.tokens) - lx.cur
}

// Offset returns the token index of the cursor, reinterpreted as an opaque
// position token for Rewind. The immediate stream has the whole token list
// in memory, so it rewinds by index rather than by source byte offset.
func (lx *immediateTokenStream) Offset() int64 {
	return int64(lx.cur)
}

// Rewind resets the cursor to a position previously returned by Offset.
func (lx *immediateTokenStream) Rewind(offset int64) {
	lx.cur = int(offset)
}
