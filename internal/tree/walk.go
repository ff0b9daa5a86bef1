package tree

// WalkResult tells a walker how to proceed after visiting a node.
type WalkResult int

const (
	// WalkContinue descends into the visited node's subnodes as usual.
	WalkContinue WalkResult = iota
	// WalkSkip skips the visited node's subnodes but continues the walk
	// elsewhere (siblings of an ancestor, etc).
	WalkSkip
	// WalkStop halts the entire walk immediately.
	WalkStop
)

// VisitFunc is a read-only walker callback.
type VisitFunc func(n *Node) WalkResult

// WalkPre performs a pre-order walk rooted at n, visiting a node before its
// subnodes. Walker completeness: every node reachable by subnode edges from
// root is visited exactly once, short of an early WalkStop.
func WalkPre(reg *Registry, root *Node, visit VisitFunc) {
	if reg != nil {
		reg.enterWalk()
		defer reg.leaveWalk()
	}
	walkPre(root, visit)
}

func walkPre(n *Node, visit VisitFunc) WalkResult {
	if n == nil {
		return WalkContinue
	}
	switch visit(n) {
	case WalkStop:
		return WalkStop
	case WalkSkip:
		return WalkContinue
	}
	for _, sub := range n.Sub {
		if walkPre(sub, visit) == WalkStop {
			return WalkStop
		}
	}
	return WalkContinue
}

// WalkPost performs a post-order walk: a node's subnodes are visited before
// the node itself.
func WalkPost(reg *Registry, root *Node, visit VisitFunc) {
	if reg != nil {
		reg.enterWalk()
		defer reg.leaveWalk()
	}
	walkPost(root, visit)
}

func walkPost(n *Node, visit VisitFunc) WalkResult {
	if n == nil {
		return WalkContinue
	}
	for _, sub := range n.Sub {
		if walkPost(sub, visit) == WalkStop {
			return WalkStop
		}
	}
	switch visit(n) {
	case WalkStop:
		return WalkStop
	}
	return WalkContinue
}

// WalkPrePost performs a combined walk, calling pre before descending into a
// node's subnodes and post after. Either callback may be nil.
func WalkPrePost(reg *Registry, root *Node, pre, post VisitFunc) {
	if reg != nil {
		reg.enterWalk()
		defer reg.leaveWalk()
	}
	walkPrePost(root, pre, post)
}

func walkPrePost(n *Node, pre, post VisitFunc) WalkResult {
	if n == nil {
		return WalkContinue
	}
	if pre != nil {
		switch pre(n) {
		case WalkStop:
			return WalkStop
		case WalkSkip:
			if post != nil {
				post(n)
			}
			return WalkContinue
		}
	}
	for _, sub := range n.Sub {
		if walkPrePost(sub, pre, post) == WalkStop {
			return WalkStop
		}
	}
	if post != nil {
		if post(n) == WalkStop {
			return WalkStop
		}
	}
	return WalkContinue
}

// ModifyFunc is a modifying walker callback: it may return a replacement
// node (nil means "no change") and a WalkResult governing descent. When a
// replacement is returned, the walker descends into the replacement (if
// WalkContinue), not the original.
type ModifyFunc func(n *Node) (replacement *Node, result WalkResult)

// WalkModifyPre performs a modifying pre-order walk using an explicit work
// stack (rather than recursion) so replacing a node mid-walk cannot corrupt
// in-flight call frames that still reference the old subtree. root is
// passed by address so the walker can replace the root itself.
func WalkModifyPre(reg *Registry, root **Node, visit ModifyFunc) {
	if reg != nil {
		reg.enterWalk()
		defer reg.leaveWalk()
	}
	walkModifyPre(root, visit)
}

type modifyFrame struct {
	slot **Node
}

func walkModifyPre(root **Node, visit ModifyFunc) {
	if root == nil || *root == nil {
		return
	}
	stack := []**Node{root}
	for len(stack) > 0 {
		slot := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := *slot
		if n == nil {
			continue
		}
		replacement, result := visit(n)
		if replacement != nil {
			*slot = replacement
			n = replacement
		}
		switch result {
		case WalkStop:
			return
		case WalkSkip:
			continue
		}
		// Push right-to-left so the stack pops subnodes left-to-right,
		// matching WalkPre's recursive declaration order.
		for i := len(n.Sub) - 1; i >= 0; i-- {
			stack = append(stack, subSlot(n, i))
		}
	}
}

func subSlot(n *Node, i int) **Node {
	return &n.Sub[i]
}

// CopyPredicate decides, for a node encountered during a copy, whether it
// should be aliased (shared with the original) instead of deep-copied.
type CopyPredicate func(n *Node) bool

// CopyTree deep-copies n: every reachable node is duplicated, and every
// chook whose ChookDef has a Copy callback is cloned via that callback
// (scalar-valued hooks without a Copy callback are shared by reference,
// matching Go's copy-by-value for plain data).
func CopyTree(n *Node) *Node {
	return CopyOrAliasTree(n, nil)
}

// CopyOrAliasTree deep-copies n, except that any node for which alias
// returns true is shared (not duplicated) with the original tree. Aliased
// subnodes must be reference-safe: every chook they carry must have a
// well-defined Copy (or be safely shareable), since the alias and the
// original will point at the very same Node from here on.
func CopyOrAliasTree(n *Node, alias CopyPredicate) *Node {
	if n == nil {
		return nil
	}
	if alias != nil && alias(n) {
		return n
	}
	cp := &Node{
		Tag:    n.Tag,
		Origin: n.Origin,
		Sub:    make([]*Node, len(n.Sub)),
		Nm:     append([]*Name(nil), n.Nm...),
		Hook:   make([]interface{}, len(n.Hook)),
	}
	for i, sub := range n.Sub {
		cp.Sub[i] = CopyOrAliasTree(sub, alias)
	}
	for i, h := range n.Hook {
		if h == nil {
			cp.Hook[i] = nil
			continue
		}
		if copyFn := n.Tag.Type.HookOps[i].Copy; copyFn != nil {
			cp.Hook[i] = copyFn(h)
		} else {
			cp.Hook[i] = h
		}
	}
	if n.chooks != nil {
		cp.chooks = make(map[*ChookDef]interface{}, len(n.chooks))
		for def, v := range n.chooks {
			if def.Copy != nil {
				cp.chooks[def] = def.Copy(v)
			} else {
				cp.chooks[def] = v
			}
		}
	}
	return cp
}

// ChookCollision decides which payload survives when both a transparent
// wrapper and the node it wraps carry the same chook key.
type ChookCollision int

const (
	// PreferInner keeps the inner node's existing payload for any key both
	// nodes carry; the wrapper's payload is only adopted for keys the inner
	// node does not already have. This is NOCC-GO's chosen policy (see
	// SPEC_FULL.md / DESIGN.md open-question resolution).
	PreferInner ChookCollision = iota
	// PreferOuter keeps the wrapper's payload on collision.
	PreferOuter
)

// PromoteChooks promotes wrapper's chooks onto inner, per policy, when
// wrapper (a transparent node) is unwrapped and inner takes its place.
// Keys present on only one side are copied across unconditionally.
func PromoteChooks(wrapper, inner *Node, policy ChookCollision) {
	if wrapper == nil || inner == nil || wrapper.chooks == nil {
		return
	}
	if inner.chooks == nil {
		inner.chooks = make(map[*ChookDef]interface{}, len(wrapper.chooks))
	}
	for def, v := range wrapper.chooks {
		if _, exists := inner.chooks[def]; exists {
			if policy == PreferOuter {
				inner.chooks[def] = v
			}
			continue
		}
		inner.chooks[def] = v
	}
}
