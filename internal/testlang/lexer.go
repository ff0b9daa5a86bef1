// Package testlang implements a minimal, single-keyword front-end unit —
// keyword FOO, node-type/tag leaf/FOO_NODE, rule `prog ::= FOO` — wired
// through every registry the kernel offers (symbol table, tree registry,
// DFA substrate, parser frame, language-definition loading, front-end-unit
// glue) so the whole pipeline can be exercised end-to-end by one fixture.
// It is deliberately not a "real" language: no comments, no layout rules,
// a single keyword.
package testlang

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/viant/nocc/internal/symtab"
)

// Lexer tokenises a whitespace-separated stream of FOO keywords.
type Lexer struct {
	stab   *symtab.Table
	file   string
	fields []string
	pos    int
}

// NewLexer creates a Lexer over src's whitespace-separated fields,
// resolving keywords against stab. src with no fields yields a lexer that
// immediately produces an end-of-input token.
func NewLexer(stab *symtab.Table, file, src string) *Lexer {
	return &Lexer{stab: stab, file: file, fields: strings.Fields(src)}
}

// NextToken implements parseframe.Lexer. Once exhausted, it keeps
// returning KindEnd tokens rather than erroring, matching the "end is a
// token, not an exception" idiom the DFA walker expects.
func (l *Lexer) NextToken() (*symtab.Token, error) {
	origin := symtab.Origin{File: l.file, Line: 1, Column: l.pos + 1}
	if l.pos >= len(l.fields) {
		return &symtab.Token{Kind: symtab.KindEnd, Origin: origin}, nil
	}
	word := l.fields[l.pos]
	l.pos++
	kw := l.stab.LookupKeyword(word)
	if kw == nil {
		return nil, errors.Errorf("testlang: %s:%d: unrecognised word %q", l.file, origin.Line, word)
	}
	return &symtab.Token{Kind: symtab.KindKeyword, Kw: kw, Text: word, Origin: origin}, nil
}
