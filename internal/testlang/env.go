package testlang

import (
	"os"

	"github.com/viant/nocc/internal/compiler"
	"github.com/viant/nocc/internal/dfa"
	"github.com/viant/nocc/internal/feunit"
	"github.com/viant/nocc/internal/langdef"
	"github.com/viant/nocc/internal/parseframe"
	"github.com/viant/nocc/internal/pass"
	"github.com/viant/nocc/internal/symtab"
	"github.com/viant/nocc/internal/tree"
)

// NewEnvironment builds a fresh langdef.Environment for this language: an
// empty symbol table, tree registry and DFA builder. Ldef registers no
// dfaerr entries, so no ErrorHandler resolver is needed.
func NewEnvironment() *langdef.Environment {
	stab := symtab.New()
	return &langdef.Environment{
		Symtab: stab,
		Tree:   tree.NewRegistry(),
		DFA:    dfa.NewBuilder(stab),
	}
}

// CompilerHooks wires this language's front-end unit into a
// compiler.Context's Hooks (§4.H), so the orchestrator's stage table can
// drive setup/lex/parse for it exactly as it would any other front end,
// rather than only the lower-level feunit/dfa calls used directly in
// tests.
func CompilerHooks(env *langdef.Environment) compiler.Hooks {
	unit := New(env)
	return compiler.Hooks{
		SetupLanguage: func() error {
			return feunit.SetupLanguage([]*feunit.Unit{unit})
		},
		NewLexer: func(path string) (parseframe.Lexer, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return NewLexer(env.Symtab, path, string(data)), nil
		},
		EntryRule: "prog",
		Walk: func(entryRule string, p *parseframe.Parser) (*tree.Node, error) {
			return dfa.Walk(env.DFA, entryRule, p)
		},
		FEPipeline: NewPassPipeline(),
	}
}

// NewPassPipeline builds the front-end pass.Pipeline this language runs
// its trees through: a single no-op "dummy" pass registered with
// stop-point 99, exactly the fixture §8 scenario 3 names ("register a
// pass `dummy` after `parse` with stop-point value 99; run with
// `--stop-dummy`"). A real front end would register its semantic passes
// here, and back-end passes (target-lowering, ArgTarget-shaped) in a
// separate pipeline assigned to Hooks.BEPipeline.
func NewPassPipeline() *pass.Pipeline {
	p := pass.NewPipeline()
	_ = p.Add(&pass.Pass{
		Name:      "dummy",
		FArgs:     pass.ArgTreePtr,
		StopPoint: 99,
		Fn:        func(args *pass.Args) error { return nil },
	})
	return p
}
