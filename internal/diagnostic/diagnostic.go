// Package diagnostic carries the error taxonomy shared by every stage of the
// compile pipeline: lexing, parsing, semantic passes and the orchestrator.
package diagnostic

import "fmt"

// Severity classifies a diagnostic per the error taxonomy.
type Severity int

const (
	// Warning never fails compilation; counted separately from errors.
	Warning Severity = iota
	// Lex is an invalid character or token.
	Lex
	// Parse is an unexpected token or unresolved DFA arc.
	Parse
	// Semantic comes from a pass reporting a problem with a tree.
	Semantic
	// Serious is recoverable but suspicious; logged and compilation continues.
	Serious
	// Internal is an invariant breach; fatal, never expected in a correct build.
	Internal
	// Fatal is an unrecoverable operational error (missing file, OOM-class).
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Lex:
		return "lex-error"
	case Parse:
		return "parse-error"
	case Semantic:
		return "error"
	case Serious:
		return "serious"
	case Internal:
		return "internal"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Origin identifies a point in a source file.
type Origin struct {
	File   string
	Line   int
	Column int
	Width  int
}

func (o Origin) String() string {
	if o.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", o.File, o.Line, o.Column)
	}
	if o.Line > 0 {
		return fmt.Sprintf("%s:%d", o.File, o.Line)
	}
	return o.File
}

// Diagnostic is a single recoverable-or-not message with its origin.
type Diagnostic struct {
	Severity Severity
	Origin   Origin
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Origin, d.Severity, d.Message)
}

// Counter is the authoritative per-source error/warning tally. A pass "fails"
// when either its function reports a non-zero count or this counter's Errors
// rose during the pass, per the pipeline's failure semantics.
type Counter struct {
	Errors   int
	Warnings int
	Log      []Diagnostic
}

// Add records a diagnostic and bumps the relevant counter.
func (c *Counter) Add(d Diagnostic) {
	c.Log = append(c.Log, d)
	if d.Severity == Warning {
		c.Warnings++
		return
	}
	c.Errors++
}

// Errorf records a diagnostic of the given severity, formatted.
func (c *Counter) Errorf(sev Severity, origin Origin, format string, args ...interface{}) {
	c.Add(Diagnostic{Severity: sev, Origin: origin, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any non-warning diagnostic was recorded.
func (c *Counter) HasErrors() bool {
	return c.Errors > 0
}
