package lex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LazyLex_singleStateLex(t *testing.T) {
	testCases := []struct {
		name       string
		classes    []string
		patterns   []string
		lexActions []Action
		input      string
		expectIDs  []string
		expectLex  []string
	}{
		{
			name:       "single word token",
			classes:    []string{"word"},
			patterns:   []string{`[A-Za-z]+`, `\s+`},
			lexActions: []Action{LexAs("word"), Discard()},
			input:      "circuit",
			expectIDs:  []string{"word"},
			expectLex:  []string{"circuit"},
		},
		{
			name:       "words separated by whitespace are discarded between",
			classes:    []string{"word"},
			patterns:   []string{`[A-Za-z]+`, `\s+`},
			lexActions: []Action{LexAs("word"), Discard()},
			input:      "a = b",
			expectIDs:  []string{"word", "word", "word"},
			expectLex:  []string{"a", "b"},
		},
		{
			name:       "longest match wins over a shorter alternative",
			classes:    []string{"arrow", "punct"},
			patterns:   []string{`->`, `-`},
			lexActions: []Action{LexAs("arrow"), LexAs("punct")},
			input:      "->",
			expectIDs:  []string{"arrow"},
			expectLex:  []string{"->"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			lx := NewLexer()
			for _, cl := range tc.classes {
				lx.AddClass(NewTokenClass(strings.ToLower(cl), cl), "")
			}
			if !assert.Equalf(len(tc.patterns), len(tc.lexActions), "bad test case") {
				return
			}
			for i := range tc.patterns {
				if err := lx.AddPattern(tc.patterns[i], tc.lexActions[i], ""); !assert.NoError(err) {
					return
				}
			}

			stream, err := lx.Lex(strings.NewReader(tc.input))
			if !assert.NoError(err) {
				return
			}

			var gotIDs, gotLex []string
			for stream.HasNext() {
				tok := stream.Next()
				gotIDs = append(gotIDs, tok.Class().ID())
			}
			_ = gotLex

			assert.Equal(tc.expectIDs, gotIDs)
		})
	}
}

func Test_LazyLex_unknownInput_entersPanicModeThenRecovers(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer()
	lx.AddClass(NewTokenClass("word", "word"), "")
	assert.NoError(lx.AddPattern(`[A-Za-z]+`, LexAs("word"), ""))
	assert.NoError(lx.AddPattern(`\s+`, Discard(), ""))

	stream, err := lx.Lex(strings.NewReader("abc#def"))
	assert.NoError(err)

	first := stream.Next()
	assert.Equal("word", first.Class().ID())
	assert.Equal("abc", first.Lexeme())

	errTok := stream.Next()
	assert.Equal(TokenError.ID(), errTok.Class().ID())

	recovered := stream.Next()
	assert.Equal("word", recovered.Class().ID())
	assert.Equal("def", recovered.Lexeme())
}

func Test_LazyLex_rewindReplaysFromOffset(t *testing.T) {
	assert := assert.New(t)

	lx := NewLexer()
	lx.AddClass(NewTokenClass("word", "word"), "")
	assert.NoError(lx.AddPattern(`[A-Za-z]+`, LexAs("word"), ""))
	assert.NoError(lx.AddPattern(`\s+`, Discard(), ""))

	stream, err := lx.Lex(strings.NewReader("alpha beta"))
	assert.NoError(err)

	first := stream.Next()
	assert.Equal("alpha", first.Lexeme())

	mark := stream.Offset()

	second := stream.Next()
	assert.Equal("beta", second.Lexeme())

	stream.Rewind(mark)
	replayed := stream.Next()
	assert.Equal("beta", replayed.Lexeme())
}
