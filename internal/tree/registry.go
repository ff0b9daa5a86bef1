// Package tree implements the uniform parse/semantic tree representation:
// node-type and node-tag registries, compiler-hook registry, the
// compops/langops operation tables, node allocation and the tree walkers
// every pass drives.
package tree

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// TypeFlags classify a node-type. Node-types rarely need flags (tags carry
// the bulk of pipeline-relevant classification) but the slot accepts them
// for symmetry with TagFlags.
type TypeFlags uint32

// TagFlags classify a node-tag for the pipeline, per §4.B.
type TagFlags uint32

const (
	// FlagTransparent marks a wrapper node that most semantic passes should
	// look straight through; its contents are used in its stead.
	FlagTransparent TagFlags = 1 << iota
	// FlagLongDecl marks a long (block-introducing) declaration.
	FlagLongDecl
	// FlagShortDecl marks a short (single-line) declaration.
	FlagShortDecl
	// FlagLongProc marks a long (block) process/statement form.
	FlagLongProc
	// FlagLongAction marks a long action form.
	FlagLongAction
	// FlagSynchronising marks a synchronisation type (e.g. a channel type).
	FlagSynchronising
	// FlagIndentedList marks a tag that introduces an indented list of
	// sub-items; IndentedKind names which kind of list (proc, decl, expr, ...).
	FlagIndentedList
)

// HookOps is the per-slot (free, copy, dump) triple for a node-type's fixed
// hook slots (distinct from the sparse, globally-keyed chook mechanism).
type HookOps struct {
	Free func(interface{})
	Copy func(interface{}) interface{}
	Dump func(interface{}) string
}

// TypeDef (tndef) fixes the shape shared by every node created under it.
type TypeDef struct {
	ID    int
	Name  string
	NSub  int
	NName int
	NHook int

	SubLabels  []string
	NameLabels []string
	HookOps    []HookOps

	Flags TypeFlags

	CompOps *OpTable
	LangOps *OpTable
}

// TagDef (ntdef) is a concrete construct under a TypeDef.
type TagDef struct {
	ID          int
	Name        string
	Type        *TypeDef
	Flags       TagFlags
	IndentedKind string // meaningful only when Flags&FlagIndentedList != 0

	// InvalidBefore/InvalidAfter name passes between which this tag's
	// presence is a tree-checker violation (§4.E treecheck_setup).
	InvalidBeforePass string
	InvalidAfterPass  string
}

// ChookDef is the canonical, globally-keyed descriptor for a sparse
// per-node compiler hook.
type ChookDef struct {
	ID   int
	Name string
	Copy func(interface{}) interface{}
	Free func(interface{})
	Dump func(interface{}) string
}

// Registry owns every node-type, node-tag, chook and operation definition.
// Registries are grow-only and must be frozen (conceptually) before parsing
// begins: attempting to register during an active walk is an internal
// error, matching §5's "re-registration during a walk is an internal
// error" rule. A mutex guards registration; internal/langdef reads and
// parses .ldef files concurrently but registers their content sequentially.
type Registry struct {
	mu sync.Mutex

	types   map[string]*TypeDef
	typeSeq int

	tags   map[string]*TagDef
	tagSeq int

	chooks   map[string]*ChookDef
	chookSeq int

	compOps   map[string]*OpDef
	compOpSeq int
	langOps   map[string]*OpDef
	langOpSeq int

	walking int // depth of active walks across the whole registry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[string]*TypeDef),
		tags:    make(map[string]*TagDef),
		chooks:  make(map[string]*ChookDef),
		compOps: make(map[string]*OpDef),
		langOps: make(map[string]*OpDef),
	}
}

func (r *Registry) enterWalk() {
	r.mu.Lock()
	r.walking++
	r.mu.Unlock()
}

func (r *Registry) leaveWalk() {
	r.mu.Lock()
	r.walking--
	r.mu.Unlock()
}

func (r *Registry) guardMutation(what string) error {
	if r.walking > 0 {
		return errors.Errorf("internal: cannot %s while a tree walk is active", what)
	}
	return nil
}

// NewTypeDef registers a node-type. Re-registration under the same name is
// accepted only when the shape (subnode/name/hook arity) is identical to
// the existing registration, matching the "first-one-wins unless
// incompatible" idiom used throughout the kernel's registries; an
// incompatible re-registration is a fatal internal error.
func (r *Registry) NewTypeDef(name string, nsub, nname, nhook int, subLabels, nameLabels []string, hookOps []HookOps, flags TypeFlags) (*TypeDef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guardMutation("register a node-type"); err != nil {
		return nil, err
	}
	if existing, ok := r.types[name]; ok {
		if existing.NSub != nsub || existing.NName != nname || existing.NHook != nhook {
			return nil, errors.Errorf("internal: node-type %q re-registered with incompatible shape", name)
		}
		return existing, nil
	}
	if len(hookOps) != nhook {
		return nil, errors.Errorf("internal: node-type %q declares %d hook slots but %d hook-op triples were given", name, nhook, len(hookOps))
	}
	r.typeSeq++
	td := &TypeDef{
		ID:         r.typeSeq,
		Name:       name,
		NSub:       nsub,
		NName:      nname,
		NHook:      nhook,
		SubLabels:  subLabels,
		NameLabels: nameLabels,
		HookOps:    hookOps,
		Flags:      flags,
	}
	td.CompOps = NewOpTable("cops", nil)
	td.LangOps = NewOpTable("lops", nil)
	r.types[name] = td
	return td, nil
}

// LookupTypeDef returns the registered type, or nil.
func (r *Registry) LookupTypeDef(name string) *TypeDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.types[name]
}

// SetCompOps installs a full replacement comp-op table on a node-type.
func (td *TypeDef) SetCompOps(ops *OpTable) { td.CompOps = ops }

// SetLangOps installs a full replacement lang-op table on a node-type.
func (td *TypeDef) SetLangOps(ops *OpTable) { td.LangOps = ops }

// InsertCompOps creates a fresh comp-op table whose delegation parent is the
// node-type's current table, enabling inherit-then-override composition.
func (td *TypeDef) InsertCompOps() *OpTable {
	td.CompOps = NewOpTable("cops", td.CompOps)
	return td.CompOps
}

// InsertLangOps is InsertCompOps for the lang-op table.
func (td *TypeDef) InsertLangOps() *OpTable {
	td.LangOps = NewOpTable("lops", td.LangOps)
	return td.LangOps
}

// NewTagDef registers a tag under a node-type.
func (r *Registry) NewTagDef(name string, typ *TypeDef, flags TagFlags) (*TagDef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guardMutation("register a node-tag"); err != nil {
		return nil, err
	}
	if typ == nil {
		return nil, errors.Errorf("internal: node-tag %q registered with a nil node-type", name)
	}
	if existing, ok := r.tags[name]; ok {
		if existing.Type != typ {
			return nil, errors.Errorf("internal: node-tag %q re-registered under a different node-type", name)
		}
		return existing, nil
	}
	r.tagSeq++
	tg := &TagDef{ID: r.tagSeq, Name: name, Type: typ, Flags: flags}
	r.tags[name] = tg
	return tg, nil
}

// LookupTagDef returns the registered tag, or nil.
func (r *Registry) LookupTagDef(name string) *TagDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tags[name]
}

// TypeNames returns every registered node-type's name, sorted, for
// administrative dumps (`--dump-node-types`, §6).
func (r *Registry) TypeNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TagNames returns every registered node-tag's name, sorted.
func (r *Registry) TagNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.tags))
	for name := range r.tags {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ChookNames returns every registered sparse compiler-hook's name, sorted,
// for `--dump-chooks` (§6).
func (r *Registry) ChookNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.chooks))
	for name := range r.chooks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LookupOrNewChook returns the canonical hook descriptor for name, creating
// it on first use. The caller typically sets Copy/Free/Dump on the result
// immediately after.
func (r *Registry) LookupOrNewChook(name string) *ChookDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chooks[name]; ok {
		return c
	}
	r.chookSeq++
	c := &ChookDef{ID: r.chookSeq, Name: name}
	r.chooks[name] = c
	return c
}
