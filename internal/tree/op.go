package tree

import "github.com/pkg/errors"

// OpFunc is a single operation-table slot's implementation.
type OpFunc func(args ...interface{}) (interface{}, error)

// OpDef is a globally-registered named operation (a compop or a langop),
// e.g. "scopein", "typecheck", "gettype", "bytesfor", "codegen_altenable".
// Arity is fixed at registration and enforced on every call.
type OpDef struct {
	ID       int
	Name     string
	Arity    int
	Fallback OpFunc
	Origin   string
}

func (r *Registry) newOp(table map[string]*OpDef, seq *int, name string, fallback OpFunc, arity int, origin string) (*OpDef, error) {
	if existing, ok := table[name]; ok {
		if existing.Arity != arity {
			return nil, errors.Errorf("internal: op %q re-registered with arity %d, previously %d", name, arity, existing.Arity)
		}
		return existing, nil
	}
	*seq++
	def := &OpDef{ID: *seq, Name: name, Arity: arity, Fallback: fallback, Origin: origin}
	table[name] = def
	return def, nil
}

// NewCompOp registers a compiler-operation name in the comp-op namespace.
func (r *Registry) NewCompOp(name string, fallback OpFunc, arity int, origin string) (*OpDef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guardMutation("register a compop"); err != nil {
		return nil, err
	}
	return r.newOp(r.compOps, &r.compOpSeq, name, fallback, arity, origin)
}

// NewLangOp registers a language-operation name in the lang-op namespace.
func (r *Registry) NewLangOp(name string, fallback OpFunc, arity int, origin string) (*OpDef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guardMutation("register a langop"); err != nil {
		return nil, err
	}
	return r.newOp(r.langOps, &r.langOpSeq, name, fallback, arity, origin)
}

// LookupCompOp returns the registered compop definition, or nil.
func (r *Registry) LookupCompOp(name string) *OpDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compOps[name]
}

// LookupLangOp returns the registered langop definition, or nil.
func (r *Registry) LookupLangOp(name string) *OpDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.langOps[name]
}

// OpTable is an open-ended keyed collection of operation slots with a
// pointer to a "next" table for inheritance-like delegation: a lookup that
// misses locally falls through to next, then to the op's own Fallback.
type OpTable struct {
	kind  string
	slots map[*OpDef]OpFunc
	next  *OpTable
}

// NewOpTable creates an operation table delegating misses to next (nil for
// a root table).
func NewOpTable(kind string, next *OpTable) *OpTable {
	return &OpTable{kind: kind, slots: make(map[*OpDef]OpFunc), next: next}
}

// Set installs fn as def's implementation in this table (overriding any
// inherited implementation for nodes dispatched through this table).
func (t *OpTable) Set(def *OpDef, fn OpFunc) {
	t.slots[def] = fn
}

func (t *OpTable) lookup(def *OpDef) (OpFunc, bool) {
	for cur := t; cur != nil; cur = cur.next {
		if fn, ok := cur.slots[def]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Has reports whether def is callable through this table: defined locally,
// inherited via next, or backed by def's own Fallback.
func (t *OpTable) Has(def *OpDef) bool {
	if def == nil {
		return false
	}
	if t != nil {
		if _, ok := t.lookup(def); ok {
			return true
		}
	}
	return def.Fallback != nil
}

// Call dispatches def with args, enforcing the arity declared at
// registration. A missing implementation with no fallback is a fatal
// internal error (an arity mismatch is always fatal, per §4.B).
func (t *OpTable) Call(def *OpDef, args ...interface{}) (interface{}, error) {
	if def == nil {
		return nil, errors.New("internal: call of a nil op definition")
	}
	if len(args) != def.Arity {
		return nil, errors.Errorf("internal: op %q called with %d args, wants %d", def.Name, len(args), def.Arity)
	}
	if t != nil {
		if fn, ok := t.lookup(def); ok {
			return fn(args...)
		}
	}
	if def.Fallback != nil {
		return def.Fallback(args...)
	}
	return nil, errors.Errorf("internal: op %q has no implementation in this %s table", def.Name, tableKindOrDefault(t))
}

func tableKindOrDefault(t *OpTable) string {
	if t == nil {
		return "op"
	}
	return t.kind
}
