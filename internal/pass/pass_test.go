package pass

import (
	"testing"

	"github.com/viant/nocc/internal/tree"
)

func newLeaf(t *testing.T) (*tree.Registry, *tree.Node) {
	reg := tree.NewRegistry()
	td, err := reg.NewTypeDef("leaf", 0, 0, 0, nil, nil, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	tg, err := reg.NewTagDef("LEAF", td, 0)
	if err != nil {
		t.Fatal(err)
	}
	n, err := tree.NewNode(tg, tree.Origin{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return reg, n
}

func TestPipelineRunsInOrderAndHonoursStopPoint(t *testing.T) {
	_, n := newLeaf(t)
	p := NewPipeline()
	var ran []string
	mk := func(name string, stop int) *Pass {
		return &Pass{Name: name, FArgs: ArgTreePtr, StopPoint: stop, Fn: func(args *Args) error {
			ran = append(ran, name)
			return nil
		}}
	}
	if err := p.Add(mk("a", 1)); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(mk("b", 2)); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(mk("c", 3)); err != nil {
		t.Fatal(err)
	}

	if err := p.Run(&Args{TreePtr: &n}, 2, nil); err != nil {
		t.Fatal(err)
	}
	if len(ran) != 2 || ran[0] != "a" || ran[1] != "b" {
		t.Fatalf("expected to stop after pass b, ran=%v", ran)
	}
}

func TestInsertBeforeAndAfter(t *testing.T) {
	p := NewPipeline()
	noop := func(args *Args) error { return nil }
	if err := p.Add(&Pass{Name: "scope", FArgs: ArgTree, Fn: noop}); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(&Pass{Name: "fetrans", FArgs: ArgTreePtr, Fn: noop}); err != nil {
		t.Fatal(err)
	}
	if err := p.InsertBefore("fetrans", &Pass{Name: "pre-check", FArgs: ArgTree, Fn: noop}); err != nil {
		t.Fatal(err)
	}
	if err := p.InsertAfter("scope", &Pass{Name: "type-check", FArgs: ArgTree | ArgLangParser, Fn: noop}); err != nil {
		t.Fatal(err)
	}
	want := []string{"scope", "type-check", "pre-check", "fetrans"}
	got := p.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestUnhandledArgShapeRejected(t *testing.T) {
	p := NewPipeline()
	err := p.Add(&Pass{Name: "bogus", FArgs: ArgLangParser, Fn: func(args *Args) error { return nil }})
	if err == nil {
		t.Fatal("expected an unhandled-argument-shape error")
	}
}

func TestDisabledPassIsSkipped(t *testing.T) {
	_, n := newLeaf(t)
	p := NewPipeline()
	var ran bool
	enabled := false
	if err := p.Add(&Pass{Name: "alias-check", FArgs: ArgTree | ArgLangParser, Enabled: &enabled, Fn: func(args *Args) error {
		ran = true
		return nil
	}}); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(&Args{Tree: n}, 0, nil); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Fatal("expected the disabled pass to be skipped")
	}
}

func TestCheckerInvokedBeforeAndAfterEachPass(t *testing.T) {
	_, n := newLeaf(t)
	p := NewPipeline()
	if err := p.Add(&Pass{Name: "scope", FArgs: ArgTree, Fn: func(args *Args) error { return nil }}); err != nil {
		t.Fatal(err)
	}
	var events []string
	checker := func(name string, when CheckWhen, root *tree.Node) error {
		if when == CheckBefore {
			events = append(events, name+":before")
		} else {
			events = append(events, name+":after")
		}
		return nil
	}
	if err := p.Run(&Args{Tree: n}, 0, checker); err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0] != "scope:before" || events[1] != "scope:after" {
		t.Fatalf("expected before/after checker calls, got %v", events)
	}
}
