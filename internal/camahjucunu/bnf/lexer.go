package bnf

import (
	"github.com/cuwacunu/tsiemene/internal/camahjucunu/lex"
)

// Token classes for the BNF meta-language. Quoted text becomes a terminal
// unit; bare identifiers are non-terminal references (so literal keywords
// in a grammar document must be quoted — see DESIGN.md for why this
// convention was chosen over an unquoted-literal-terminal lexical rule).
const (
	classDefines     = "defines"     // ::=
	classPipe        = "pipe"        // |
	classLBracket    = "lbracket"    // [
	classRBracket    = "rbracket"    // ]
	classLBrace      = "lbrace"      // {
	classRBrace      = "rbrace"      // }
	classLParen      = "lparen"      // (
	classRParen      = "rparen"      // )
	classQuoted      = "quoted"      // "..." or '...'
	classRegexLit    = "regexlit"    // /.../
	classEndMarker   = "endmarker"   // $end
	classIdent       = "ident"       // rule_name / non-terminal reference
	classStartDirect = "startdirect" // %start
)

func newBNFLexer() lex.Lexer {
	lx := lex.NewLexer()

	for _, id := range []string{
		classDefines, classPipe, classLBracket, classRBracket,
		classLBrace, classRBrace, classLParen, classRParen,
		classQuoted, classRegexLit, classEndMarker, classIdent, classStartDirect,
	} {
		lx.AddClass(lex.NewTokenClass(id, id), "")
	}

	must := func(pat string, action lex.Action) {
		if err := lx.AddPattern(pat, action, ""); err != nil {
			panic("bnf: bad built-in pattern " + pat + ": " + err.Error())
		}
	}

	must(`#[^\n]*`, lex.Discard())
	must(`[ \t\r\n]+`, lex.Discard())
	must(`%start`, lex.LexAs(classStartDirect))
	must(`::=`, lex.LexAs(classDefines))
	must(`\$end`, lex.LexAs(classEndMarker))
	must(`"(?:[^"\\]|\\.)*"`, lex.LexAs(classQuoted))
	must(`'(?:[^'\\]|\\.)*'`, lex.LexAs(classQuoted))
	must(`/(?:[^/\\]|\\.)*/`, lex.LexAs(classRegexLit))
	must(`\|`, lex.LexAs(classPipe))
	must(`\[`, lex.LexAs(classLBracket))
	must(`\]`, lex.LexAs(classRBracket))
	must(`\{`, lex.LexAs(classLBrace))
	must(`\}`, lex.LexAs(classRBrace))
	must(`\(`, lex.LexAs(classLParen))
	must(`\)`, lex.LexAs(classRParen))
	must(`[A-Za-z_][A-Za-z0-9_]*`, lex.LexAs(classIdent))

	return lx
}
