package dfa

import "github.com/viant/nocc/internal/tree"

// State (dfastate_t) is one frame of an active walk: the DFA node currently
// occupied, the reduction-built tree node this frame is assembling, a
// pointer to the frame that pushed it, and a local node stack reductions
// push/pop against.
type State struct {
	Prev *State
	Cur  *Node

	// Local holds the tree node this frame ultimately produces, set by a
	// reduction before the frame's DFA reaches a return state.
	Local *tree.Node

	nodeStack []*tree.Node
}

// NewState allocates a fresh frame, linked to prev (nil for the outermost).
func NewState(prev *State) *State {
	return &State{Prev: prev}
}

// PushNode pushes n onto this frame's node stack.
func (s *State) PushNode(n *tree.Node) {
	s.nodeStack = append(s.nodeStack, n)
}

// PopNode pops and returns the top of this frame's node stack, or nil if
// empty.
func (s *State) PopNode() *tree.Node {
	if len(s.nodeStack) == 0 {
		return nil
	}
	n := s.nodeStack[len(s.nodeStack)-1]
	s.nodeStack = s.nodeStack[:len(s.nodeStack)-1]
	return n
}

// PeekNode returns the top of this frame's node stack without popping it.
func (s *State) PeekNode() *tree.Node {
	if len(s.nodeStack) == 0 {
		return nil
	}
	return s.nodeStack[len(s.nodeStack)-1]
}

// NodeStackLen reports how many nodes this frame currently holds.
func (s *State) NodeStackLen() int { return len(s.nodeStack) }
