package compiler

import (
	"github.com/viant/nocc/internal/diagnostic"
	"github.com/viant/nocc/internal/parseframe"
	"github.com/viant/nocc/internal/pass"
	"github.com/viant/nocc/internal/tree"
)

// Hooks supplies the language-specific work each generic stage delegates
// to; a nil hook degrades its stage to a no-op. This is how one stage
// table serves every front end without the orchestrator knowing any
// language's lexer, grammar entry point or pass wiring.
type Hooks struct {
	// SetupLanguage registers node types, reducers and DFA transitions
	// for whichever front-end units this compile needs (lext).
	SetupLanguage func() error
	// NewLexer opens a Lexer over a source path (olex).
	NewLexer func(path string) (parseframe.Lexer, error)
	// EntryRule names the top-level non-terminal to walk (parse).
	EntryRule string
	// Walk drives a *parseframe.Parser to a *tree.Node for EntryRule
	// (normally dfa.Walk bound to a *dfa.Builder).
	Walk func(entryRule string, p *parseframe.Parser) (*tree.Node, error)
	// FEPipeline runs the front-end compiler passes (feps); BEPipeline
	// runs the back-end ones (beps) — two separate ordered pass lists
	// per §4.G, not one list run twice.
	FEPipeline *pass.Pipeline
	BEPipeline *pass.Pipeline
	// DumpNodeTypes, DumpShortNodeTypes, DumpShortNodeTags, DumpExtensions
	// and DumpRegFcns back the --dump-* administrative stages.
	DumpNodeTypes      func() error
	DumpShortNodeTypes func() error
	DumpShortNodeTags  func() error
	DumpExtensions     func() error
	DumpRegFcns        func() error
}

// Context (compcxt_t) is the single compile context threaded explicitly
// through every stage function.
type Context struct {
	SourceFiles []string
	FEDefOpts   []string
	Target      *Target
	TargetSpec  string // as given on the command line, before ParseTarget

	Errored  int
	AtStage  int
	StopName string // the <name> of a --stop-<name> option; slex/sparse compare it to their own IDs
	StopAt   int    // the stop-point value itself, 0 means unset

	SrcLexers []*parseframe.LexFile
	SrcTrees  []*tree.Node

	// NotMainModule records that a source file is compiled as part of
	// another module's tree rather than as the module under compilation.
	// No stage in the default stage table reads it.
	NotMainModule bool

	// Interactive-mode-only fields.
	IMode int
	MHook interface{}

	Hooks Hooks
	Diag  diagnostic.Counter
}

// NewContext creates an empty compile context over sourceFiles.
func NewContext(sourceFiles []string) *Context {
	return &Context{SourceFiles: sourceFiles, IMode: -1}
}

// HasErrors reports whether this context, or any of its opened lexfiles,
// has accumulated an error.
func (c *Context) HasErrors() bool {
	if c.Errored > 0 || c.Diag.HasErrors() {
		return true
	}
	for _, lf := range c.SrcLexers {
		if lf.Errors.HasErrors() {
			return true
		}
	}
	return false
}
