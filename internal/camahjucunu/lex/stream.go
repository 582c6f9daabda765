package lex

// TokenStream is a stream of tokens read from source text. The stream may be
// lazily-loaded or immediately available.
type TokenStream interface {
	// Next returns the next token in the stream and advances the stream by one
	// token.
	Next() Token

	// Peek returns the next token in the stream without advancing the stream.
	Peek() Token

	// HasNext returns whether the stream has any additional tokens.
	HasNext() bool

	// Offset returns the byte offset into the source that the stream is
	// currently positioned at. Pass it to Rewind to restart lexing from this
	// point.
	Offset() int64

	// Rewind resets the stream to resume lexing at the given byte offset,
	// previously obtained from Offset. It is used by the instruction parser to
	// backtrack across a failed alternative.
	Rewind(offset int64)
}
