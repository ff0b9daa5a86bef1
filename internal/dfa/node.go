// Package dfa implements the DFA substrate: DFA nodes and transition
// tables, table merging, deferred-reference resolution, BNF/transition
// string compilation and the walker that drives parsing (§4.C).
package dfa

import (
	"github.com/viant/nocc/internal/parseframe"
	"github.com/viant/nocc/internal/symtab"
)

// Flag governs how a DFA arc's match is applied.
type Flag int

const (
	FlagNone Flag = 0
	// FlagNoConsume leaves the matched token on the stream (a lookahead arc).
	FlagNoConsume Flag = 1 << iota
	// FlagKeep pushes the matched token back after the arc fires so the
	// reduction invoked on arrival can retrieve it via Parser.GetTok.
	FlagKeep
	// FlagPushStack marks a push-down transition: descend into PushTo,
	// resuming at Target when the pushed non-terminal returns.
	FlagPushStack
	// FlagDeferred marks an arc whose PushTo is still a pending named
	// reference, not yet resolved to a concrete *Node.
	FlagDeferred
)

// ReduceFunc is invoked when a DFA arc fires into a node that carries one;
// it manipulates the parse state's node stack via reductions.
type ReduceFunc func(state *State, pp *parseframe.Parser, arg interface{}) error

// NamedDFA is the registered identity of one non-terminal's DFA network.
type NamedDFA struct {
	Name         string
	Root         *Node
	ErrorHandler ErrorHandler
}

// ErrorHandler is consulted when the current non-terminal's DFA finds no
// matching arc for the next token, before falling back to a generic
// parse-error diagnostic.
type ErrorHandler func(pp *parseframe.Parser, st *State, tok *symtab.Token) error

// Node (dfanode_t) is one state in a DFA network: parallel match/target/
// pushto/flags arrays, plus a default (no-match) arc and an optional
// reduction run on arrival.
type Node struct {
	Owner *NamedDFA

	Match  []*symtab.Token
	Target []*Node
	PushTo []*Node
	Flags  []Flag

	DefaultPush   *Node
	DefaultTarget *Node
	DefaultReturn bool

	Reduce ReduceFunc
	RArg   interface{}

	Incoming int
}

// NewNode allocates an empty DFA node.
func NewNode() *Node { return &Node{} }

// NewNodeInit allocates a DFA node pre-armed with a reduction.
func NewNodeInit(reduce ReduceFunc, arg interface{}) *Node {
	return &Node{Reduce: reduce, RArg: arg}
}

// AddMatch adds a direct (non-push) arc.
func (n *Node) AddMatch(tok *symtab.Token, target *Node, flags Flag) {
	n.Match = append(n.Match, tok)
	n.Target = append(n.Target, target)
	n.PushTo = append(n.PushTo, nil)
	n.Flags = append(n.Flags, flags)
	if target != nil {
		target.Incoming++
	}
}

// AddPush adds a push-down arc: on matching tok, descend into pushto;
// when that pops, continue in target.
func (n *Node) AddPush(tok *symtab.Token, pushto, target *Node, flags Flag) {
	n.Match = append(n.Match, tok)
	n.Target = append(n.Target, target)
	n.PushTo = append(n.PushTo, pushto)
	n.Flags = append(n.Flags, flags|FlagPushStack)
	if target != nil {
		target.Incoming++
	}
	if pushto != nil {
		pushto.Incoming++
	}
}

// DefaultTo configures the default (no-match) direct arc.
func (n *Node) DefaultTo(target *Node) {
	n.DefaultTarget = target
	if target != nil {
		target.Incoming++
	}
}

// SetDefaultPush configures the default (no-match) push arc.
func (n *Node) SetDefaultPush(pushto, target *Node) {
	n.DefaultPush = pushto
	n.DefaultTarget = target
	if pushto != nil {
		pushto.Incoming++
	}
	if target != nil {
		target.Incoming++
	}
}

// SetDefaultReturn marks n as a pop-the-DFA-stack state: reaching n ends
// the current push frame regardless of the next token.
func (n *Node) SetDefaultReturn() { n.DefaultReturn = true }

// FindMatch locates the outgoing arc (tried in insertion order, first match
// wins) whose match token matches tok, falling back to the default arc.
// ok is false when neither a specific nor a default arc applies. viaDefault
// reports whether the arc chosen was the no-match default rather than one
// keyed to tok specifically.
func (n *Node) FindMatch(tok *symtab.Token) (pushTo, target *Node, flags Flag, viaDefault, ok bool) {
	for i, m := range n.Match {
		if symtab.Match(m, tok) {
			return n.PushTo[i], n.Target[i], n.Flags[i], false, true
		}
	}
	if n.DefaultPush != nil {
		return n.DefaultPush, n.DefaultTarget, FlagPushStack, true, true
	}
	if n.DefaultTarget != nil {
		return nil, n.DefaultTarget, FlagNone, true, true
	}
	return nil, nil, 0, true, false
}
