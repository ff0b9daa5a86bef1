// Package parseframe sits between the DFA walker and language-supplied
// reduction functions: the token stream wrapper, list-node builders and
// parser error reporting (§4.D).
package parseframe

import (
	"github.com/viant/nocc/internal/diagnostic"
	"github.com/viant/nocc/internal/symtab"
)

// Lexer is the interface a language front-end's lexer implements; lexer
// internals are an external collaborator (§1) — the core only needs a
// source of tokens.
type Lexer interface {
	// NextToken returns the next token, or a KindEnd token at end of input.
	NextToken() (*symtab.Token, error)
}

// LexFile wraps one source file's lexer together with its authoritative
// per-source error/warning counter (§7).
type LexFile struct {
	Name   string
	Lexer  Lexer
	Errors diagnostic.Counter
}

// NewLexFile wraps lexer for the named source file.
func NewLexFile(name string, lexer Lexer) *LexFile {
	return &LexFile{Name: name, Lexer: lexer}
}

// Origin builds a diagnostic.Origin at the given line/column for this file.
func (lf *LexFile) Origin(line, col int) diagnostic.Origin {
	return diagnostic.Origin{File: lf.Name, Line: line, Column: col}
}
