package testlang

import (
	"context"
	"os"

	"github.com/viant/afs"

	"github.com/viant/nocc/internal/dfa"
	"github.com/viant/nocc/internal/feunit"
	"github.com/viant/nocc/internal/langdef"
	"github.com/viant/nocc/internal/parseframe"
	"github.com/viant/nocc/internal/tree"
)

// Ldef is the language definition this unit loads: one keyword, one
// node-type/tag pair and one grammar rule — the same shape as
// internal/langdef's own test fixture, packaged here as a reusable unit
// rather than an inline test constant.
const Ldef = `
ident: testlang
desc: minimal single-keyword language used to exercise the kernel end-to-end
section:
  - name: core
    keyword:
      - {name: FOO, tag: FOOTAG}
    tnode:
      - {name: leaf, nsub: 0, nname: 0, nhook: 0}
    ttag:
      - {name: FOO_NODE, type: leaf}
    grule:
      - {name: prog, bnf: "kw:FOO @finish"}
`

// New builds the front-end unit over env.
//
// RegReducers registers the "finish" reduction Ldef's prog rule names by
// name; InitDFATrans then writes Ldef to a temp file and loads it, which
// registers the keyword, node-type/tag and the compiled "prog" DFA in one
// LoadAll call (§4.E bundles node and grammar registration per section).
// The reducer must exist before InitDFATrans runs, since compiling the
// grule looks "finish" up immediately — hence RegReducers preceding it
// rather than InitNodes doing the registration, the one place this unit's
// stage order departs from the nodes-then-reducers-then-dfa default.
func New(env *langdef.Environment) *feunit.Unit {
	var fooTag *tree.TagDef

	return &feunit.Unit{
		Ident:     "testlang",
		EarlyFail: true,
		RegReducers: func() error {
			env.DFA.RegisterReduce("finish", func(st *dfa.State, pp *parseframe.Parser, arg interface{}) error {
				if fooTag == nil {
					fooTag = env.Tree.LookupTagDef("FOO_NODE")
				}
				node, err := tree.NewNode(fooTag, tree.Origin{}, nil, nil)
				if err != nil {
					return err
				}
				st.Local = node
				return nil
			})
			return nil
		},
		InitDFATrans: func() error {
			f, err := os.CreateTemp("", "testlang-*.ldef")
			if err != nil {
				return err
			}
			name := f.Name()
			defer os.Remove(name)
			if _, err := f.WriteString(Ldef); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			return langdef.LoadAll(context.Background(), afs.New(), env, []string{name})
		},
		PostSetup: func() error {
			return env.DFA.ResolveDeferred()
		},
	}
}
