package parseframe

import (
	"testing"

	"github.com/viant/nocc/internal/tree"
)

func TestListBasicOps(t *testing.T) {
	reg := tree.NewRegistry()
	listTag, err := EnsureListTag(reg)
	if err != nil {
		t.Fatal(err)
	}
	leafType, _ := reg.NewTypeDef("leaf", 0, 0, 0, nil, nil, nil, 0)
	leafTag, _ := reg.NewTagDef("LEAF", leafType, 0)

	list, err := NewListNode(listTag, tree.Origin{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := tree.NewNode(leafTag, tree.Origin{}, nil, nil)
	b, _ := tree.NewNode(leafTag, tree.Origin{}, nil, nil)

	if err := AddToList(list, a); err != nil {
		t.Fatal(err)
	}
	if err := AddToList(list, b); err != nil {
		t.Fatal(err)
	}
	if CountList(list) != 2 {
		t.Fatalf("expected 2 items, got %d", CountList(list))
	}
	items := GetListItems(list)
	if items[0] != a || items[1] != b {
		t.Fatalf("insertion order must be preserved")
	}
}

func TestCollapseListIdempotent(t *testing.T) {
	reg := tree.NewRegistry()
	listTag, _ := EnsureListTag(reg)
	leafType, _ := reg.NewTypeDef("leaf", 0, 0, 0, nil, nil, nil, 0)
	leafTag, _ := reg.NewTagDef("LEAF", leafType, 0)

	list, _ := NewListNode(listTag, tree.Origin{})
	x, _ := tree.NewNode(leafTag, tree.Origin{}, nil, nil)
	_ = AddToList(list, x)

	first := CollapseList(list)
	if first != x {
		t.Fatalf("a single-item list must collapse to its item")
	}
	second := CollapseList(first)
	if second != first {
		t.Fatalf("re-collapsing an already-collapsed result must be a no-op")
	}
}

func TestDelAndMergeList(t *testing.T) {
	reg := tree.NewRegistry()
	listTag, _ := EnsureListTag(reg)
	leafType, _ := reg.NewTypeDef("leaf", 0, 0, 0, nil, nil, nil, 0)
	leafTag, _ := reg.NewTagDef("LEAF", leafType, 0)

	l1, _ := NewListNode(listTag, tree.Origin{})
	l2, _ := NewListNode(listTag, tree.Origin{})
	a, _ := tree.NewNode(leafTag, tree.Origin{}, nil, nil)
	b, _ := tree.NewNode(leafTag, tree.Origin{}, nil, nil)
	c, _ := tree.NewNode(leafTag, tree.Origin{}, nil, nil)
	_ = AddToList(l1, a)
	_ = AddToList(l1, b)
	_ = AddToList(l2, c)

	removed, err := DelFromList(l1, 0)
	if err != nil || removed != a {
		t.Fatalf("expected to remove a, got %v err=%v", removed, err)
	}
	if CountList(l1) != 1 {
		t.Fatalf("expected 1 item left")
	}

	if err := MergeInList(l1, l2); err != nil {
		t.Fatal(err)
	}
	if CountList(l1) != 2 || CountList(l2) != 0 {
		t.Fatalf("merge must move items from src to dst: l1=%d l2=%d", CountList(l1), CountList(l2))
	}
}
