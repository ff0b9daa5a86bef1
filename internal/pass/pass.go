// Package pass implements the named, ordered compiler-pass pipeline:
// insertion before/after a named pass, per-pass argument-shape validation,
// stop-points and tree-checker integration (§4.G).
package pass

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/viant/nocc/internal/parseframe"
	"github.com/viant/nocc/internal/tree"
)

// ArgShape is a bitfield describing which arguments a pass function needs,
// mirroring the original's comppassarg_t (CPASS_TREE, CPASS_TREEPTR, ...).
type ArgShape uint32

const (
	ArgTree ArgShape = 1 << iota
	ArgTreePtr
	ArgLangParser
	ArgLexFile
	ArgTarget
)

// validShapes enumerates the argument combinations the pipeline actually
// dispatches, grounded on nocc_init_cpasses's front-/back-end pass table;
// any other bit combination is rejected at registration time (the Go
// equivalent of the original's "unhandled compiler-pass argument
// combination" fatal, made fail-fast instead of a runtime surprise).
var validShapes = map[ArgShape]bool{
	ArgTree | ArgLangParser:             true,
	ArgTreePtr | ArgLangParser:          true,
	ArgTreePtr:                          true,
	ArgTree:                             true,
	ArgTreePtr | ArgTarget:              true,
	ArgTreePtr | ArgLexFile | ArgTarget: true,
}

// Args bundles every argument a pass function might need. The caller fills
// in the fields it has and every pass receives the same bundle; before a
// pass whose FArgs includes ArgTree, Run sets Tree from TreePtr when
// TreePtr is non-nil.
type Args struct {
	Tree       *tree.Node
	TreePtr    **tree.Node
	LangParser interface{}
	LexFile    *parseframe.LexFile
	Target     interface{}
}

// Func is one pass's body.
type Func func(args *Args) error

// Pass (compilerpass_t) is one named, ordered pipeline stage.
type Pass struct {
	Name      string
	Fn        Func
	FArgs     ArgShape
	StopPoint int
	Enabled   *bool // nil means always enabled
}

func (p *Pass) enabled() bool { return p.Enabled == nil || *p.Enabled }

// CheckWhen identifies which side of a pass a Checker call represents.
type CheckWhen int

const (
	CheckBefore CheckWhen = iota
	CheckAfter
)

// Checker validates a tree against tag before/after-pass invariants
// immediately before and after a named pass runs
// (tree.TagDef.InvalidBeforePass/InvalidAfterPass, §4.B/§4.G).
type Checker func(passName string, when CheckWhen, root *tree.Node) error

// Pipeline is an ordered, named sequence of passes.
type Pipeline struct {
	mu     sync.Mutex
	passes []*Pass
	byName map[string]*Pass
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{byName: make(map[string]*Pass)}
}

// Add appends ps to the end of the pipeline.
func (p *Pipeline) Add(ps *Pass) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.insertAt(ps, len(p.passes))
}

// InsertBefore inserts ps immediately before the pass named other.
func (p *Pipeline) InsertBefore(other string, ps *Pass) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, err := p.indexOf(other)
	if err != nil {
		return err
	}
	return p.insertAt(ps, idx)
}

// InsertAfter inserts ps immediately after the pass named other.
func (p *Pipeline) InsertAfter(other string, ps *Pass) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, err := p.indexOf(other)
	if err != nil {
		return err
	}
	return p.insertAt(ps, idx+1)
}

func (p *Pipeline) indexOf(name string) (int, error) {
	for i, ps := range p.passes {
		if ps.Name == name {
			return i, nil
		}
	}
	return 0, errors.Errorf("pass: cannot insert relative to unknown pass %q", name)
}

func (p *Pipeline) insertAt(ps *Pass, idx int) error {
	if _, exists := p.byName[ps.Name]; exists {
		return errors.Errorf("pass: %q already registered", ps.Name)
	}
	if !validShapes[ps.FArgs] {
		return errors.Errorf("pass: %q declares an unhandled argument combination 0x%x", ps.Name, uint32(ps.FArgs))
	}
	p.passes = append(p.passes, nil)
	copy(p.passes[idx+1:], p.passes[idx:])
	p.passes[idx] = ps
	p.byName[ps.Name] = ps
	return nil
}

// Names returns the pipeline's pass names in run order.
func (p *Pipeline) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.passes))
	for i, ps := range p.passes {
		out[i] = ps.Name
	}
	return out
}

// StopPointFor returns the named pass's registered stop-point, for
// resolving a `--stop-<passname>` command-line option (§6) into the
// numeric value Run's stopPoint argument expects.
func (p *Pipeline) StopPointFor(name string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ps, ok := p.byName[name]
	if !ok {
		return 0, false
	}
	return ps.StopPoint, true
}

// Disable toggles the named pass's Enabled flag off, backing the
// `--no-<check>-check` family of options (§6). It returns false if no pass
// with that name is registered.
func (p *Pipeline) Disable(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	ps, ok := p.byName[name]
	if !ok {
		return false
	}
	disabled := false
	ps.Enabled = &disabled
	return true
}

// Run executes every enabled pass in order, invoking checker (if non-nil)
// immediately before and after each one. If stopPoint is non-zero, the
// pipeline halts right after the pass whose StopPoint equals it.
func (p *Pipeline) Run(args *Args, stopPoint int, checker Checker) error {
	p.mu.Lock()
	passes := append([]*Pass(nil), p.passes...)
	p.mu.Unlock()

	for _, ps := range passes {
		if !ps.enabled() {
			continue
		}
		root := dispatchTree(args)
		if checker != nil {
			if err := checker(ps.Name, CheckBefore, root); err != nil {
				return errors.Wrapf(err, "pre-pass check for %s", ps.Name)
			}
		}
		if ps.FArgs&ArgTree != 0 && args.TreePtr != nil {
			args.Tree = *args.TreePtr
		}
		if err := ps.Fn(args); err != nil {
			return errors.Wrapf(err, "pass %s failed", ps.Name)
		}
		if checker != nil {
			if err := checker(ps.Name, CheckAfter, dispatchTree(args)); err != nil {
				return errors.Wrapf(err, "post-pass check for %s", ps.Name)
			}
		}
		if stopPoint != 0 && stopPoint == ps.StopPoint {
			break
		}
	}
	return nil
}

func dispatchTree(args *Args) *tree.Node {
	if args.TreePtr != nil {
		return *args.TreePtr
	}
	return args.Tree
}
