package main

import (
	"reflect"
	"testing"

	"github.com/viant/nocc/internal/compiler"
)

func TestExtractStopFlagPullsNamedFlag(t *testing.T) {
	name, rest := extractStopFlag([]string{"a.foo", "--stop-dummy", "-v"})
	if name != "dummy" {
		t.Fatalf("expected passname %q, got %q", "dummy", name)
	}
	if !reflect.DeepEqual(rest, []string{"a.foo", "-v"}) {
		t.Fatalf("expected --stop-dummy removed from args, got %v", rest)
	}
}

func TestExtractStopFlagAbsent(t *testing.T) {
	name, rest := extractStopFlag([]string{"a.foo", "-v"})
	if name != "" {
		t.Fatalf("expected no stop flag, got %q", name)
	}
	if !reflect.DeepEqual(rest, []string{"a.foo", "-v"}) {
		t.Fatalf("expected args unchanged, got %v", rest)
	}
}

func TestExtractStopFlagIgnoresEqualsForm(t *testing.T) {
	// --stop-foo=bar is not this option's syntax (the passname IS the
	// flag name); it is left alone for cobra to reject as unknown.
	name, rest := extractStopFlag([]string{"--stop-foo=bar"})
	if name != "" {
		t.Fatalf("expected the = form to be left untouched, got name %q", name)
	}
	if len(rest) != 1 {
		t.Fatalf("expected the arg preserved, got %v", rest)
	}
}

func TestHasRegisteredExtension(t *testing.T) {
	if !hasRegisteredExtension("prog.foo") {
		t.Fatal("expected .foo to be registered")
	}
	if hasRegisteredExtension("prog.bar") {
		t.Fatal("expected .bar to be unregistered")
	}
}

func TestExitCodeForSuccess(t *testing.T) {
	ctx := compiler.NewContext(nil)
	if got := exitCodeFor(compiler.AtEnd, ctx); got != 0 {
		t.Fatalf("expected exit code 0, got %d", got)
	}
}

func TestExitCodeForErrExit(t *testing.T) {
	ctx := compiler.NewContext(nil)
	if got := exitCodeFor(compiler.ErrExit, ctx); got != 1 {
		t.Fatalf("expected exit code 1, got %d", got)
	}
}

func TestExitCodeForAccumulatedErrors(t *testing.T) {
	ctx := compiler.NewContext(nil)
	ctx.Errored++
	if got := exitCodeFor(compiler.AtEnd, ctx); got != 1 {
		t.Fatalf("expected exit code 1 when the context has accumulated errors, got %d", got)
	}
}

func TestDumpRegisteredExtensionsSorted(t *testing.T) {
	if got := dumpRegisteredExtensions(); got != ".foo" {
		t.Fatalf("expected %q, got %q", ".foo", got)
	}
}
