package testlang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/nocc/internal/compiler"
	"github.com/viant/nocc/internal/dfa"
	"github.com/viant/nocc/internal/feunit"
	"github.com/viant/nocc/internal/parseframe"
)

func TestWalkBuildsFooNode(t *testing.T) {
	env := NewEnvironment()
	unit := New(env)
	if err := feunit.SetupLanguage([]*feunit.Unit{unit}); err != nil {
		t.Fatal(err)
	}

	lf := parseframe.NewLexFile("a.foo", NewLexer(env.Symtab, "a.foo", "FOO"))
	p := parseframe.NewParser(lf)
	root, err := dfa.Walk(env.DFA, "prog", p)
	if err != nil {
		t.Fatal(err)
	}
	if root == nil || root.Tag == nil || root.Tag.Name != "FOO_NODE" {
		t.Fatalf("expected a FOO_NODE root, got %+v", root)
	}
}

func TestWalkRejectsEmptySource(t *testing.T) {
	env := NewEnvironment()
	unit := New(env)
	if err := feunit.SetupLanguage([]*feunit.Unit{unit}); err != nil {
		t.Fatal(err)
	}

	lf := parseframe.NewLexFile("empty.foo", NewLexer(env.Symtab, "empty.foo", ""))
	p := parseframe.NewParser(lf)
	if _, err := dfa.Walk(env.DFA, "prog", p); err == nil {
		t.Fatal("expected a parse error for an empty source")
	}
}

func TestWalkRejectsUnknownWord(t *testing.T) {
	env := NewEnvironment()
	unit := New(env)
	if err := feunit.SetupLanguage([]*feunit.Unit{unit}); err != nil {
		t.Fatal(err)
	}

	lf := parseframe.NewLexFile("bad.foo", NewLexer(env.Symtab, "bad.foo", "BAR"))
	p := parseframe.NewParser(lf)
	if _, err := dfa.Walk(env.DFA, "prog", p); err == nil {
		t.Fatal("expected an error for an unrecognised keyword")
	}
}

func TestCompilerHooksDriveFullPipeline(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.foo")
	if err := os.WriteFile(src, []byte("FOO"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := NewEnvironment()
	ctx := compiler.NewContext([]string{src})
	ctx.Hooks = CompilerHooks(env)

	pipeline := compiler.NewPipeline(compiler.DefaultStages())
	res, err := pipeline.RunBatch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res != compiler.AtEnd {
		t.Fatalf("expected the batch run to reach the end cleanly, got %v", res)
	}
	if len(ctx.SrcTrees) != 1 || ctx.SrcTrees[0].Tag.Name != "FOO_NODE" {
		t.Fatalf("expected one FOO_NODE tree, got %+v", ctx.SrcTrees)
	}
}

func TestCompilerHooksReportsParseErrorForBadSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.foo")
	if err := os.WriteFile(src, []byte("BAR"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := NewEnvironment()
	ctx := compiler.NewContext([]string{src})
	ctx.Hooks = CompilerHooks(env)

	pipeline := compiler.NewPipeline(compiler.DefaultStages())
	res, err := pipeline.RunBatch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res != compiler.ErrExit {
		t.Fatalf("expected ErrExit for an unparseable source, got %v", res)
	}
}

func TestDummyPassStopPointHalts(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.foo")
	if err := os.WriteFile(src, []byte("FOO"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := NewEnvironment()
	hooks := CompilerHooks(env)
	stopAt, ok := hooks.FEPipeline.StopPointFor("dummy")
	if !ok || stopAt != 99 {
		t.Fatalf("expected the dummy pass to be registered with stop-point 99, got %d, %v", stopAt, ok)
	}

	ctx := compiler.NewContext([]string{src})
	ctx.Hooks = hooks
	ctx.StopName = "dummy"
	ctx.StopAt = stopAt

	pipeline := compiler.NewPipeline(compiler.DefaultStages())
	res, err := pipeline.RunBatch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res != compiler.AtEnd {
		t.Fatalf("expected a clean run through to the end, got %v", res)
	}
	if len(ctx.SrcTrees) != 1 || ctx.SrcTrees[0].Tag.Name != "FOO_NODE" {
		t.Fatalf("expected the dummy pass to leave the tree untouched, got %+v", ctx.SrcTrees)
	}
}
