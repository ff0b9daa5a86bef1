package parseframe

import (
	"github.com/viant/nocc/internal/diagnostic"
	"github.com/viant/nocc/internal/symtab"
)

// Parser (parsepriv) is the per-active-parse token source reductions drive:
// a token stream with LIFO push-back, sitting over one LexFile.
type Parser struct {
	File     *LexFile
	pushback []*symtab.Token
}

// NewParser creates a parser over file.
func NewParser(file *LexFile) *Parser {
	return &Parser{File: file}
}

// GetTok returns the next token: a pushed-back token if any is pending,
// otherwise the next token from the underlying lexer.
func (p *Parser) GetTok() (*symtab.Token, error) {
	if n := len(p.pushback); n > 0 {
		tok := p.pushback[n-1]
		p.pushback = p.pushback[:n-1]
		return tok, nil
	}
	return p.File.Lexer.NextToken()
}

// PushBack restores tok to the front of the stream (LIFO).
func (p *Parser) PushBack(tok *symtab.Token) {
	p.pushback = append(p.pushback, tok)
}

// MarkError records a parse-severity diagnostic and bumps the file's error
// counter; it does not stop parsing (recoverable per §7).
func (p *Parser) MarkError(origin diagnostic.Origin, format string, args ...interface{}) {
	p.File.Errors.Errorf(diagnostic.Parse, origin, format, args...)
}

// CheckError reports whether this parser's file has accumulated any error.
func (p *Parser) CheckError() bool {
	return p.File.Errors.HasErrors()
}

// Error is an alias for MarkError kept for parity with the spec's
// `parser_error(locn, fmt, …)` name.
func (p *Parser) Error(origin diagnostic.Origin, format string, args ...interface{}) {
	p.MarkError(origin, format, args...)
}
