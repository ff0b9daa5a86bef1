package dfa

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/viant/nocc/internal/symtab"
)

type deferredMatch struct {
	node *Node
	idx  int
	name string
}

type deferredDefault struct {
	node *Node
	name string
}

// Builder (component C's registry) holds every named DFA compiled so far,
// the symbol table arcs resolve keyword/symbol literals against, and the
// set of still-unresolved push references left by tables compiled before
// their target non-terminal existed.
type Builder struct {
	mu     sync.Mutex
	symtab *symtab.Table
	named  map[string]*NamedDFA
	reduce map[string]ReduceFunc

	deferredMatches  []*deferredMatch
	deferredDefaults []*deferredDefault
}

// NewBuilder creates an empty registry; stab resolves keyword/symbol
// literals named in compiled tables.
func NewBuilder(stab *symtab.Table) *Builder {
	return &Builder{
		symtab: stab,
		named:  make(map[string]*NamedDFA),
		reduce: make(map[string]ReduceFunc),
	}
}

// RegisterReduce binds name to fn, so tables may refer to fn by name in a
// `reduce NAME` / `@NAME` clause.
func (b *Builder) RegisterReduce(name string, fn ReduceFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reduce[name] = fn
}

func (b *Builder) lookupReduce(name string) (ReduceFunc, error) {
	if name == "" {
		return nil, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	fn, ok := b.reduce[name]
	if !ok {
		return nil, errors.Errorf("dfa: unknown reduction %q", name)
	}
	return fn, nil
}

// RegisterErrorHandler attaches an error handler to the named non-terminal.
func (b *Builder) RegisterErrorHandler(name string, h ErrorHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	nd, ok := b.named[name]
	if !ok {
		return errors.Errorf("dfa: cannot attach error handler, %q is not yet registered", name)
	}
	nd.ErrorHandler = h
	return nil
}

// LookupByName returns the root node of the named DFA, or nil.
func (b *Builder) LookupByName(name string) *Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	if nd, ok := b.named[name]; ok {
		return nd.Root
	}
	return nil
}

// Names returns every registered non-terminal's name, sorted, for
// administrative dumps (`--dump-dfas`/`--dump-grammar`, §6).
func (b *Builder) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.named))
	for name := range b.named {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// lookupNamed returns the NamedDFA registered under name, or nil.
func (b *Builder) lookupNamed(name string) *NamedDFA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.named[name]
}

// Compile compiles tbl into live DFA nodes and registers the result under
// tbl.Name. A tbl.Op of OpAdd extends a previously registered DFA's start
// state (new arcs appended after the existing ones, so existing arcs keep
// first-match priority); OpNew replaces any prior registration outright.
func (b *Builder) Compile(tbl *Table) error {
	states := make(map[int]*Node, tbl.NStates)
	var root *Node
	if tbl.Op == OpAdd {
		if existing := b.lookupNamed(tbl.Name); existing != nil {
			root = existing.Root
			states[0] = root
		}
	}
	getState := func(i int) *Node {
		if n, ok := states[i]; ok {
			return n
		}
		n := NewNode()
		states[i] = n
		return n
	}
	returnNode := NewNode()
	returnNode.SetDefaultReturn()

	for _, e := range tbl.Entries {
		start := getState(e.StartState)
		var target *Node
		if e.EndState == -1 {
			target = returnNode
			if e.ReduceName != "" {
				// each reducing alternative gets its own return node so
				// its reduction is not shadowed by another alternative's
				target = NewNode()
				target.SetDefaultReturn()
			}
		} else {
			target = getState(e.EndState)
		}
		reduce, err := b.lookupReduce(e.ReduceName)
		if err != nil {
			return errors.Wrapf(err, "dfa: compiling %q", tbl.Name)
		}
		if reduce != nil && target.Reduce == nil {
			target.Reduce = reduce
		}

		if e.Match == nil {
			// default arc
			if e.PushName != "" {
				if pushTo := b.LookupByName(e.PushName); pushTo != nil {
					start.SetDefaultPush(pushTo, target)
				} else {
					start.DefaultTarget = target
					b.deferredDefaults = append(b.deferredDefaults, &deferredDefault{node: start, name: e.PushName})
				}
			} else {
				start.DefaultTo(target)
			}
			continue
		}

		tok, err := matchSpecToToken(b.symtab, e.Match)
		if err != nil {
			return errors.Wrapf(err, "dfa: compiling %q", tbl.Name)
		}

		if e.PushName != "" {
			if pushTo := b.LookupByName(e.PushName); pushTo != nil {
				start.AddPush(tok, pushTo, target, e.Flags)
			} else {
				start.AddMatch(tok, target, e.Flags|FlagPushStack|FlagDeferred)
				idx := len(start.Match) - 1
				b.deferredMatches = append(b.deferredMatches, &deferredMatch{node: start, idx: idx, name: e.PushName})
			}
		} else {
			start.AddMatch(tok, target, e.Flags)
		}
	}

	if root == nil {
		root = getState(0)
	}

	b.mu.Lock()
	nd, existed := b.named[tbl.Name]
	if !existed {
		nd = &NamedDFA{Name: tbl.Name, Root: root}
		b.named[tbl.Name] = nd
	} else {
		nd.Root = root
	}
	for _, n := range states {
		n.Owner = nd
	}
	b.mu.Unlock()

	return nil
}

// ResolveDeferred resolves every outstanding push reference left by tables
// compiled before their target non-terminal was registered. It returns an
// error naming the first reference that still cannot be resolved; callers
// must not attempt to Walk while any reference is unresolved.
func (b *Builder) ResolveDeferred() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.deferredMatches {
		nd, ok := b.named[d.name]
		if !ok {
			return errors.Errorf("dfa: unresolved deferred reference to non-terminal %q", d.name)
		}
		d.node.PushTo[d.idx] = nd.Root
		d.node.Flags[d.idx] &^= FlagDeferred
		nd.Root.Incoming++
	}
	b.deferredMatches = nil
	for _, d := range b.deferredDefaults {
		nd, ok := b.named[d.name]
		if !ok {
			return errors.Errorf("dfa: unresolved deferred default reference to non-terminal %q", d.name)
		}
		d.node.DefaultPush = nd.Root
		nd.Root.Incoming++
	}
	b.deferredDefaults = nil
	return nil
}

// HasUnresolved reports whether any deferred reference remains unresolved.
func (b *Builder) HasUnresolved() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.deferredMatches) > 0 || len(b.deferredDefaults) > 0
}
