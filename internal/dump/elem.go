// Package dump renders a parse/semantic tree as XML or an s-expression
// from one shared intermediate walk (§6, §9's resolved Open Question),
// so the two encodings can never drift apart structurally, plus the
// self-closing XML token-dump stream (§6).
package dump

import (
	"sort"
	"strconv"

	"github.com/viant/nocc/internal/tree"
)

// Attr is one element attribute, kept ordered (unlike a map) so both
// encoders render attributes in the same, deterministic sequence.
type Attr struct {
	Name  string
	Value string
}

// Elem is the shared intermediate form one walk builds and both the XML
// and s-expression encoders render without re-walking the tree.
type Elem struct {
	Name     string
	Attrs    []Attr
	Children []*Elem
	Text     string // not set by BuildNode and not rendered by XML or SExpr
}

func (e *Elem) addAttr(name, value string) {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// BuildNode walks n (pre-order) into the shared Elem form: tag name,
// origin, declared names, fixed hook slots (via the node-type's Dump op)
// and sparse chooks (via each ChookDef's Dump op) become attributes;
// subnodes become children, labelled with the node-type's SubLabels
// where the language-definition declared them.
func BuildNode(n *tree.Node) *Elem {
	if n == nil {
		return &Elem{Name: "nil"}
	}
	td := n.Tag.Type
	e := &Elem{Name: n.Tag.Name}
	if n.Origin.File != "" {
		e.addAttr("origin", n.Origin.File)
	}
	if n.Origin.Line > 0 {
		e.addAttr("line", strconv.Itoa(n.Origin.Line))
	}
	for i, nm := range n.Nm {
		if nm == nil {
			continue
		}
		label := "name"
		if i < len(td.NameLabels) && td.NameLabels[i] != "" {
			label = td.NameLabels[i]
		}
		e.addAttr(label, nm.Text)
	}
	for i, h := range n.Hook {
		if h == nil {
			continue
		}
		if i >= len(td.HookOps) || td.HookOps[i].Dump == nil {
			continue
		}
		e.addAttr(hookLabel(i), td.HookOps[i].Dump(h))
	}
	chooks := n.Chooks()
	defs := make([]*tree.ChookDef, 0, len(chooks))
	for def := range chooks {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	for _, def := range defs {
		if def.Dump == nil {
			continue
		}
		e.addAttr("chook:"+def.Name, def.Dump(chooks[def]))
	}
	for i, sub := range n.Sub {
		child := BuildNode(sub)
		if i < len(td.SubLabels) && td.SubLabels[i] != "" {
			child.addAttr("slot", td.SubLabels[i])
		}
		e.Children = append(e.Children, child)
	}
	return e
}

func hookLabel(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return "hook:" + string(letters[i])
	}
	return "hook:" + strconv.Itoa(i)
}
