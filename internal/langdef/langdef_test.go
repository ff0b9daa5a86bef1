package langdef

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/afs"
	"golang.org/x/tools/txtar"

	"github.com/viant/nocc/internal/dfa"
	"github.com/viant/nocc/internal/parseframe"
	"github.com/viant/nocc/internal/symtab"
	"github.com/viant/nocc/internal/tree"
)

const fooLdef = `
ident: foo
desc: minimal test language
section:
  - name: core
    keyword:
      - {name: FOO, tag: FOOTAG}
    tnode:
      - {name: leaf, nsub: 0, nname: 0, nhook: 0}
    ttag:
      - {name: LEAF, type: leaf}
    grule:
      - {name: prog, bnf: "kw:FOO @finish"}
`

// multiFileArchive bundles the core "foo" language and a "wrapper"
// section that imports it into one txtar archive, so the cross-file
// import test extracts both fixture files from a single named-text-file
// bundle instead of two hand-written temp files.
const multiFileArchive = `-- foo.ldef --
ident: foo
desc: minimal test language
section:
  - name: core
    keyword:
      - {name: FOO, tag: FOOTAG}
    tnode:
      - {name: leaf, nsub: 0, nname: 0, nhook: 0}
    ttag:
      - {name: LEAF, type: leaf}
    grule:
      - {name: prog, bnf: "kw:FOO @finish"}
-- wrapper.ldef --
ident: wrapper
section:
  - name: outer
    import: [core]
    grule:
      - {name: restart, bnf: "kw:FOO @finish"}
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// extractArchive writes every file in a txtar archive into dir, returning
// each file's written path keyed by its archive name.
func extractArchive(t *testing.T, dir string, archive string) map[string]string {
	t.Helper()
	ar := txtar.Parse([]byte(archive))
	paths := make(map[string]string, len(ar.Files))
	for _, f := range ar.Files {
		paths[f.Name] = writeTemp(t, dir, f.Name, string(f.Data))
	}
	return paths
}

func newEnv() *Environment {
	stab := symtab.New()
	reg := tree.NewRegistry()
	b := dfa.NewBuilder(stab)
	b.RegisterReduce("finish", func(st *dfa.State, pp *parseframe.Parser, arg interface{}) error {
		return nil
	})
	return &Environment{Symtab: stab, Tree: reg, DFA: b}
}

func TestLoadAllRegistersFromSingleFile(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "foo.ldef", fooLdef)

	env := newEnv()
	if err := LoadAll(context.Background(), afs.New(), env, []string{p}); err != nil {
		t.Fatal(err)
	}

	if env.Symtab.LookupKeyword("FOO") == nil {
		t.Fatal("expected FOO keyword to be registered")
	}
	if env.Tree.LookupTypeDef("leaf") == nil {
		t.Fatal("expected leaf node-type to be registered")
	}
	if env.Tree.LookupTagDef("LEAF") == nil {
		t.Fatal("expected LEAF tag to be registered")
	}
	if env.DFA.LookupByName("prog") == nil {
		t.Fatal("expected prog non-terminal to be compiled")
	}
}

func TestLoadAllResolvesImportAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	paths := extractArchive(t, dir, multiFileArchive)

	env := newEnv()
	if err := LoadAll(context.Background(), afs.New(), env, []string{paths["wrapper.ldef"], paths["foo.ldef"]}); err != nil {
		t.Fatal(err)
	}

	if env.Symtab.LookupKeyword("FOO") == nil {
		t.Fatal("expected the imported section's keyword to be registered")
	}
	if env.DFA.LookupByName("restart") == nil {
		t.Fatal("expected the importing section's own rule to be compiled")
	}
}

func TestLoadAllRejectsUnknownImport(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "bad.ldef", `
ident: bad
section:
  - name: s1
    import: [doesnotexist]
`)
	env := newEnv()
	if err := LoadAll(context.Background(), afs.New(), env, []string{p}); err == nil {
		t.Fatal("expected an error for an unresolvable import")
	}
}
