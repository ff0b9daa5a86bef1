package dfa

import (
	"github.com/pkg/errors"
	"github.com/viant/nocc/internal/parseframe"
	"github.com/viant/nocc/internal/tree"
)

// Walk drives pp through the named non-terminal's DFA to completion,
// returning the tree node the top-level frame's reductions produced (nil
// if none was set). It is an error to Walk a Builder with unresolved
// deferred references (call ResolveDeferred first).
func Walk(b *Builder, nonterminal string, pp *parseframe.Parser) (*tree.Node, error) {
	if b.HasUnresolved() {
		return nil, errors.New("dfa: cannot walk, builder has unresolved deferred references")
	}
	root := b.LookupByName(nonterminal)
	if root == nil {
		return nil, errors.Errorf("dfa: unknown non-terminal %q", nonterminal)
	}

	state := NewState(nil)
	state.Cur = root

	for {
		if state.Cur.DefaultReturn {
			popped := state
			parent := popped.Prev
			if parent == nil {
				return popped.Local, nil
			}
			if popped.Local != nil {
				parent.PushNode(popped.Local)
			}
			state = parent
			continue
		}

		tok, err := pp.GetTok()
		if err != nil {
			return nil, err
		}

		pushTo, target, flags, viaDefault, matched := state.Cur.FindMatch(tok)
		if !matched {
			nd := state.Cur.Owner
			if nd != nil && nd.ErrorHandler != nil {
				if herr := nd.ErrorHandler(pp, state, tok); herr != nil {
					return nil, herr
				}
				continue
			}
			return nil, errors.Errorf("dfa: parse error at %s: unexpected %s token", tok.Origin.File, tok.Kind)
		}

		// A default (no-match) push never consumes on the pusher's behalf:
		// the token is left for the pushed non-terminal to see first.
		if viaDefault && pushTo != nil {
			pp.PushBack(tok)
		}
		if flags&FlagNoConsume != 0 {
			pp.PushBack(tok)
		}
		if flags&FlagKeep != 0 {
			pp.PushBack(tok)
		}

		if pushTo != nil {
			state.Cur = target // resume point for when the pushed frame pops
			next := NewState(state)
			next.Cur = pushTo
			state = next
			continue
		}

		if target.Reduce != nil {
			if err := target.Reduce(state, pp, target.RArg); err != nil {
				return nil, err
			}
		}
		state.Cur = target
	}
}
