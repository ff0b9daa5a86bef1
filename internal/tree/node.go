package tree

import "github.com/pkg/errors"

// Origin locates a node (or token) in its source file.
type Origin struct {
	File   string
	Line   int
	Column int
}

// Name is a declared identifier: an owning declaration node, an optional
// type node, an optional name-node reference and a scope level.
type Name struct {
	Text    string
	Decl    *Node
	TypeOf  *Node
	NameRef *Node
	Level   int
}

// Node (tnode) is the central datum of the tree representation. Subnode
// edges are owning; Names and chook payloads may alias.
type Node struct {
	Tag    *TagDef
	Origin Origin

	Sub  []*Node       // len == Tag.Type.NSub, owning
	Nm   []*Name       // len == Tag.Type.NName, non-owning references
	Hook []interface{} // len == Tag.Type.NHook, fixed per-type hook slots

	chooks map[*ChookDef]interface{} // sparse, globally-keyed annotations
}

// NewNode (tnode_create) allocates a node of tag, checking subnode and hook
// arity against tag's node-type. Name slots default to nil and are set
// separately via SetNthName.
func NewNode(tag *TagDef, origin Origin, subs []*Node, hooks []interface{}) (*Node, error) {
	if tag == nil {
		return nil, errors.New("internal: NewNode called with a nil tag")
	}
	td := tag.Type
	if len(subs) != td.NSub {
		return nil, errors.Errorf("internal: tag %q wants %d subnodes, got %d", tag.Name, td.NSub, len(subs))
	}
	if len(hooks) != td.NHook {
		return nil, errors.Errorf("internal: tag %q wants %d hooks, got %d", tag.Name, td.NHook, len(hooks))
	}
	n := &Node{
		Tag:    tag,
		Origin: origin,
		Sub:    append([]*Node(nil), subs...),
		Nm:     make([]*Name, td.NName),
		Hook:   append([]interface{}(nil), hooks...),
	}
	return n, nil
}

// NthSubOf returns the i'th subnode.
func (n *Node) NthSubOf(i int) *Node { return n.Sub[i] }

// SetNthSub replaces the i'th subnode. The caller owns releasing the
// previous subnode unless it was re-inserted elsewhere in the tree.
func (n *Node) SetNthSub(i int, sub *Node) { n.Sub[i] = sub }

// NthNameOf returns the i'th name-slot reference.
func (n *Node) NthNameOf(i int) *Name { return n.Nm[i] }

// SetNthName sets the i'th name-slot reference.
func (n *Node) SetNthName(i int, nm *Name) { n.Nm[i] = nm }

// NthHookOf returns the i'th fixed hook slot's payload.
func (n *Node) NthHookOf(i int) interface{} { return n.Hook[i] }

// SetNthHookOf sets the i'th fixed hook slot's payload, freeing whatever
// was previously there via the node-type's registered free op.
func (n *Node) SetNthHookOf(i int, v interface{}) {
	if free := n.Tag.Type.HookOps[i].Free; free != nil && n.Hook[i] != nil {
		free(n.Hook[i])
	}
	n.Hook[i] = v
}

// SetChook attaches (or replaces) a sparse compiler hook on n.
func (n *Node) SetChook(def *ChookDef, value interface{}) {
	if n.chooks == nil {
		n.chooks = make(map[*ChookDef]interface{})
	}
	if def.Free != nil {
		if old, ok := n.chooks[def]; ok {
			def.Free(old)
		}
	}
	n.chooks[def] = value
}

// GetChook returns the sparse hook's payload, or nil if unset.
func (n *Node) GetChook(def *ChookDef) interface{} {
	if n.chooks == nil {
		return nil
	}
	return n.chooks[def]
}

// HasChook reports whether def is attached to n.
func (n *Node) HasChook(def *ChookDef) bool {
	if n.chooks == nil {
		return false
	}
	_, ok := n.chooks[def]
	return ok
}

// Chooks returns the set of chook defs currently attached to n, for
// iteration (e.g. by Free or PromoteChooks).
func (n *Node) Chooks() map[*ChookDef]interface{} {
	return n.chooks
}

// Free releases n and its owned subnodes, running each attached hook's Free
// callback (both fixed-slot and sparse chooks). Go is garbage collected, so
// Free exists to honour hook lifecycle callbacks (e.g. releasing an
// externally-held resource a hook wraps), not to reclaim node memory.
func Free(n *Node) {
	if n == nil {
		return
	}
	for i, v := range n.Hook {
		if v == nil {
			continue
		}
		if free := n.Tag.Type.HookOps[i].Free; free != nil {
			free(v)
		}
	}
	for def, v := range n.chooks {
		if def.Free != nil {
			def.Free(v)
		}
	}
	for _, sub := range n.Sub {
		Free(sub)
	}
}

// HasCompOp reports whether n's tag's node-type has a usable implementation
// for the given compop.
func (n *Node) HasCompOp(def *OpDef) bool {
	return n.Tag.Type.CompOps.Has(def)
}

// CallCompOp dispatches a compiler-operation on n's node-type.
func (n *Node) CallCompOp(def *OpDef, args ...interface{}) (interface{}, error) {
	return n.Tag.Type.CompOps.Call(def, args...)
}

// HasLangOp reports whether n's tag's node-type has a usable implementation
// for the given langop.
func (n *Node) HasLangOp(def *OpDef) bool {
	return n.Tag.Type.LangOps.Has(def)
}

// CallLangOp dispatches a language-operation on n's node-type.
func (n *Node) CallLangOp(def *OpDef, args ...interface{}) (interface{}, error) {
	return n.Tag.Type.LangOps.Call(def, args...)
}
