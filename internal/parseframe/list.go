package parseframe

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/viant/nocc/internal/tree"
)

// listPayload is the single hook slot a list node carries: its items, in
// insertion order. Iteration order over a list is observable (§4.D).
type listPayload struct {
	items []*tree.Node
}

var listHookOps = tree.HookOps{
	Free: func(v interface{}) { /* items are owned elsewhere once collapsed/merged */ },
	Copy: func(v interface{}) interface{} {
		src := v.(*listPayload)
		cp := &listPayload{items: append([]*tree.Node(nil), src.items...)}
		return cp
	},
}

// EnsureListTag registers (idempotently) the distinguished list node-type
// and tag used by every list-shaped reduction, returning its tag.
func EnsureListTag(reg *tree.Registry) (*tree.TagDef, error) {
	td, err := reg.NewTypeDef("list", 0, 0, 1, nil, nil, []tree.HookOps{listHookOps}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "registering list node-type")
	}
	return reg.NewTagDef("LISTNODE", td, 0)
}

// NewListNode creates a new, empty list node.
func NewListNode(listTag *tree.TagDef, origin tree.Origin) (*tree.Node, error) {
	n, err := tree.NewNode(listTag, origin, nil, []interface{}{&listPayload{}})
	if err != nil {
		return nil, errors.Wrap(err, "creating list node")
	}
	return n, nil
}

func payloadOf(list *tree.Node) (*listPayload, error) {
	p, ok := list.NthHookOf(0).(*listPayload)
	if !ok {
		return nil, errors.New("internal: node is not a list node")
	}
	return p, nil
}

// AddToList appends item to list.
func AddToList(list *tree.Node, item *tree.Node) error {
	p, err := payloadOf(list)
	if err != nil {
		return err
	}
	p.items = append(p.items, item)
	return nil
}

// InsertInList inserts item at position idx (0 == front).
func InsertInList(list *tree.Node, idx int, item *tree.Node) error {
	p, err := payloadOf(list)
	if err != nil {
		return err
	}
	if idx < 0 || idx > len(p.items) {
		return errors.Errorf("internal: list insert index %d out of range [0,%d]", idx, len(p.items))
	}
	p.items = append(p.items, nil)
	copy(p.items[idx+1:], p.items[idx:])
	p.items[idx] = item
	return nil
}

// DelFromList removes and returns the item at idx.
func DelFromList(list *tree.Node, idx int) (*tree.Node, error) {
	p, err := payloadOf(list)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(p.items) {
		return nil, errors.Errorf("internal: list delete index %d out of range [0,%d)", idx, len(p.items))
	}
	item := p.items[idx]
	p.items = append(p.items[:idx], p.items[idx+1:]...)
	return item, nil
}

// MergeInList appends src's items onto dst and empties src.
func MergeInList(dst, src *tree.Node) error {
	dp, err := payloadOf(dst)
	if err != nil {
		return err
	}
	sp, err := payloadOf(src)
	if err != nil {
		return err
	}
	dp.items = append(dp.items, sp.items...)
	sp.items = nil
	return nil
}

// CountList returns the number of items currently in list.
func CountList(list *tree.Node) int {
	p, err := payloadOf(list)
	if err != nil {
		return 0
	}
	return len(p.items)
}

// GetListItems returns list's items, in insertion order. The returned slice
// is a copy; mutating it does not affect the list.
func GetListItems(list *tree.Node) []*tree.Node {
	p, err := payloadOf(list)
	if err != nil {
		return nil
	}
	return append([]*tree.Node(nil), p.items...)
}

// SortList sorts list's items in place using cmp (negative if a<b).
func SortList(list *tree.Node, cmp func(a, b *tree.Node) int) error {
	p, err := payloadOf(list)
	if err != nil {
		return err
	}
	sort.SliceStable(p.items, func(i, j int) bool { return cmp(p.items[i], p.items[j]) < 0 })
	return nil
}

// CollapseList returns list's single item when it holds exactly one, or
// list itself otherwise. Re-collapsing an already-collapsed result (a
// non-list node) is a no-op that returns its argument unchanged, so
// repeated collapse calls are idempotent.
func CollapseList(list *tree.Node) *tree.Node {
	p, err := payloadOf(list)
	if err != nil {
		return list
	}
	if len(p.items) == 1 {
		return p.items[0]
	}
	return list
}

// TrashList discards list's items without freeing the underlying nodes
// (callers that own those nodes elsewhere are responsible for them).
func TrashList(list *tree.Node) error {
	p, err := payloadOf(list)
	if err != nil {
		return err
	}
	p.items = nil
	return nil
}
