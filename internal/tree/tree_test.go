package tree

import (
	"testing"
)

func leafType(t *testing.T, r *Registry) *TypeDef {
	t.Helper()
	td, err := r.NewTypeDef("leaf", 0, 0, 0, nil, nil, nil, 0)
	if err != nil {
		t.Fatalf("NewTypeDef: %v", err)
	}
	return td
}

func binType(t *testing.T, r *Registry) *TypeDef {
	t.Helper()
	td, err := r.NewTypeDef("binary", 2, 0, 0, []string{"lhs", "rhs"}, nil, nil, 0)
	if err != nil {
		t.Fatalf("NewTypeDef: %v", err)
	}
	return td
}

func TestNewNodeArity(t *testing.T) {
	r := NewRegistry()
	leaf := leafType(t, r)
	tag, err := r.NewTagDef("A_NODE", leaf, 0)
	if err != nil {
		t.Fatalf("NewTagDef: %v", err)
	}
	if _, err := NewNode(tag, Origin{}, nil, nil); err != nil {
		t.Fatalf("expected arity-correct NewNode to succeed: %v", err)
	}
	if _, err := NewNode(tag, Origin{}, []*Node{{}}, nil); err == nil {
		t.Fatalf("expected arity mismatch (subnodes) to fail")
	}
}

func TestTypeDefReregistrationIdempotent(t *testing.T) {
	r := NewRegistry()
	a, err := r.NewTypeDef("leaf", 0, 0, 0, nil, nil, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.NewTypeDef("leaf", 0, 0, 0, nil, nil, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("compatible re-registration must return the same TypeDef")
	}
	if _, err := r.NewTypeDef("leaf", 1, 0, 0, nil, nil, nil, 0); err == nil {
		t.Fatalf("incompatible re-registration must fail")
	}
}

func TestWalkerCompleteness(t *testing.T) {
	r := NewRegistry()
	leaf := leafType(t, r)
	bin := binType(t, r)
	leafTag, _ := r.NewTagDef("LEAF", leaf, 0)
	binTag, _ := r.NewTagDef("BIN", bin, 0)

	l1, _ := NewNode(leafTag, Origin{}, nil, nil)
	l2, _ := NewNode(leafTag, Origin{}, nil, nil)
	root, _ := NewNode(binTag, Origin{}, []*Node{l1, l2}, nil)

	count := 0
	WalkPre(r, root, func(n *Node) WalkResult {
		count++
		return WalkContinue
	})
	if count != 3 {
		t.Fatalf("expected 3 visits (root + 2 leaves), got %d", count)
	}
}

func TestWalkerReplacement(t *testing.T) {
	r := NewRegistry()
	leaf := leafType(t, r)
	bin := binType(t, r)
	tagA, _ := r.NewTagDef("A", leaf, 0)
	tagB, _ := r.NewTagDef("B", leaf, 0)
	binTag, _ := r.NewTagDef("BIN", bin, 0)

	a1, _ := NewNode(tagA, Origin{}, nil, nil)
	a2, _ := NewNode(tagA, Origin{}, nil, nil)
	root, _ := NewNode(binTag, Origin{}, []*Node{a1, a2}, nil)

	var rootPtr *Node = root
	WalkModifyPre(r, &rootPtr, func(n *Node) (*Node, WalkResult) {
		if n.Tag == tagA {
			repl, _ := NewNode(tagB, n.Origin, nil, nil)
			return repl, WalkContinue
		}
		return nil, WalkContinue
	})

	countA, countB := 0, 0
	WalkPre(r, rootPtr, func(n *Node) WalkResult {
		if n.Tag == tagA {
			countA++
		}
		if n.Tag == tagB {
			countB++
		}
		return WalkContinue
	})
	if countA != 0 || countB != 2 {
		t.Fatalf("expected all A nodes replaced by B: countA=%d countB=%d", countA, countB)
	}
}

func TestWalkModifyPreVisitsLeftToRight(t *testing.T) {
	r := NewRegistry()
	leaf := leafType(t, r)
	bin := binType(t, r)
	leftTag, _ := r.NewTagDef("LEFT", leaf, 0)
	rightTag, _ := r.NewTagDef("RIGHT", leaf, 0)
	binTag, _ := r.NewTagDef("BIN", bin, 0)

	left, _ := NewNode(leftTag, Origin{}, nil, nil)
	right, _ := NewNode(rightTag, Origin{}, nil, nil)
	root, _ := NewNode(binTag, Origin{}, []*Node{left, right}, nil)

	var order []string
	var rootPtr *Node = root
	WalkModifyPre(r, &rootPtr, func(n *Node) (*Node, WalkResult) {
		order = append(order, n.Tag.Name)
		return nil, WalkContinue
	})
	if len(order) != 3 || order[0] != "BIN" || order[1] != "LEFT" || order[2] != "RIGHT" {
		t.Fatalf("expected left-to-right pre-order [BIN LEFT RIGHT], got %v", order)
	}
}

func TestCopyTreeFidelityAndChookCopy(t *testing.T) {
	r := NewRegistry()
	leaf := leafType(t, r)
	tag, _ := r.NewTagDef("LEAF", leaf, 0)

	strChook := r.LookupOrNewChook("label")
	strChook.Copy = func(v interface{}) interface{} {
		s := v.(*string)
		cp := *s
		return &cp
	}

	n, _ := NewNode(tag, Origin{}, nil, nil)
	original := "hello"
	n.SetChook(strChook, &original)

	cp := CopyTree(n)
	if cp == n {
		t.Fatalf("copy must be a distinct node")
	}
	if cp.Tag != n.Tag {
		t.Fatalf("copy must preserve tag")
	}
	cpLabel := cp.GetChook(strChook).(*string)
	if *cpLabel != "hello" {
		t.Fatalf("copy must carry an equal chook payload")
	}

	// mutate the original; the copy must be unaffected because Copy
	// duplicates the string payload.
	original = "mutated"
	if *cpLabel != "hello" {
		t.Fatalf("mutating the original must not affect the copy: got %q", *cpLabel)
	}
}

func TestPromoteChooksPreferInner(t *testing.T) {
	r := NewRegistry()
	leaf := leafType(t, r)
	wrapTag, _ := r.NewTagDef("WRAP", leaf, FlagTransparent)
	innerTag, _ := r.NewTagDef("INNER", leaf, 0)

	shared := r.LookupOrNewChook("shared")
	onlyOuter := r.LookupOrNewChook("onlyOuter")

	wrapper, _ := NewNode(wrapTag, Origin{}, nil, nil)
	inner, _ := NewNode(innerTag, Origin{}, nil, nil)

	wrapper.SetChook(shared, "outer-value")
	wrapper.SetChook(onlyOuter, "outer-only")
	inner.SetChook(shared, "inner-value")

	PromoteChooks(wrapper, inner, PreferInner)

	if inner.GetChook(shared) != "inner-value" {
		t.Fatalf("prefer-inner policy must keep the inner node's colliding hook")
	}
	if inner.GetChook(onlyOuter) != "outer-only" {
		t.Fatalf("non-colliding outer hooks must be adopted by the inner node")
	}
}

func TestFreeInvokesHookCallbacks(t *testing.T) {
	r := NewRegistry()
	freed := false
	hookOps := []HookOps{{Free: func(interface{}) { freed = true }}}
	td, err := r.NewTypeDef("withhook", 0, 0, 1, nil, nil, hookOps, 0)
	if err != nil {
		t.Fatal(err)
	}
	tag, _ := r.NewTagDef("WH", td, 0)
	n, _ := NewNode(tag, Origin{}, nil, []interface{}{"payload"})
	Free(n)
	if !freed {
		t.Fatalf("Free must invoke the hook-slot free callback")
	}
}

func TestOpTableDelegationAndArity(t *testing.T) {
	r := NewRegistry()
	op, err := r.NewCompOp("scopein", nil, 1, "test")
	if err != nil {
		t.Fatal(err)
	}
	parent := NewOpTable("cops", nil)
	parent.Set(op, func(args ...interface{}) (interface{}, error) {
		return "from-parent", nil
	})
	child := NewOpTable("cops", parent)

	if !child.Has(op) {
		t.Fatalf("child table must see parent's op via delegation")
	}
	res, err := child.Call(op, "x")
	if err != nil || res != "from-parent" {
		t.Fatalf("expected delegated call to succeed: res=%v err=%v", res, err)
	}

	if _, err := child.Call(op, "x", "y"); err == nil {
		t.Fatalf("expected arity mismatch to fail")
	}
}

func TestRegistryNameListingsAreSorted(t *testing.T) {
	r := NewRegistry()
	leaf := leafType(t, r)
	if _, err := r.NewTagDef("B_NODE", leaf, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := r.NewTagDef("A_NODE", leaf, 0); err != nil {
		t.Fatal(err)
	}
	r.LookupOrNewChook("z-hook")
	r.LookupOrNewChook("a-hook")

	if got := r.TypeNames(); len(got) != 1 || got[0] != "leaf" {
		t.Fatalf("expected [leaf], got %v", got)
	}
	if got := r.TagNames(); len(got) != 2 || got[0] != "A_NODE" || got[1] != "B_NODE" {
		t.Fatalf("expected sorted [A_NODE B_NODE], got %v", got)
	}
	if got := r.ChookNames(); len(got) != 2 || got[0] != "a-hook" || got[1] != "z-hook" {
		t.Fatalf("expected sorted [a-hook z-hook], got %v", got)
	}
}
