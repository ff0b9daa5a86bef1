package interactive

import (
	"strings"
	"testing"

	"github.com/viant/nocc/internal/compiler"
)

func newTestModel(stages []*compiler.Stage) Model {
	p := compiler.NewPipeline(stages)
	ctx := compiler.NewContext([]string{"a.nocc"})
	return New(p, ctx)
}

func TestDispatchStepAdvancesStage(t *testing.T) {
	ran := 0
	m := newTestModel([]*compiler.Stage{
		{ID: "a", Fn: func(ctx *compiler.Context) (compiler.Result, error) { ran++; return compiler.OK, nil }},
		{ID: "b", Fn: func(ctx *compiler.Context) (compiler.Result, error) { ran++; return compiler.OK, nil }},
	})
	out, err := m.dispatch("step")
	if err != nil {
		t.Fatal(err)
	}
	if ran != 1 {
		t.Fatalf("expected exactly one stage to run, ran=%d", ran)
	}
	if !strings.Contains(out, "a") {
		t.Fatalf("expected output to mention stage a, got %q", out)
	}
}

func TestDispatchListStages(t *testing.T) {
	m := newTestModel([]*compiler.Stage{
		{ID: "a", Fn: func(ctx *compiler.Context) (compiler.Result, error) { return compiler.OK, nil }},
		{ID: "b", Fn: func(ctx *compiler.Context) (compiler.Result, error) { return compiler.OK, nil }},
	})
	out, err := m.dispatch("list stages")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Fatalf("expected both stages listed, got %q", out)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	m := newTestModel(nil)
	if _, err := m.dispatch("bogus"); err == nil {
		t.Fatal("expected an error for an unrecognised command")
	}
}

func TestDispatchRunToStopsAtIndex(t *testing.T) {
	ran := 0
	m := newTestModel([]*compiler.Stage{
		{ID: "a", Fn: func(ctx *compiler.Context) (compiler.Result, error) { ran++; return compiler.OK, nil }},
		{ID: "b", Fn: func(ctx *compiler.Context) (compiler.Result, error) { ran++; return compiler.OK, nil }},
		{ID: "c", Fn: func(ctx *compiler.Context) (compiler.Result, error) { ran++; return compiler.OK, nil }},
	})
	if _, err := m.dispatch("runto 2"); err != nil {
		t.Fatal(err)
	}
	if ran != 2 {
		t.Fatalf("expected exactly two stages to run, ran=%d", ran)
	}
}
