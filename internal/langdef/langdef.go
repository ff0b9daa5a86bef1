// Package langdef loads YAML-formatted `.ldef` language-definition files
// and drives symbol-table, tree-registry and DFA registration from their
// declarative content (§4.E).
package langdef

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/viant/nocc/internal/dfa"
	"github.com/viant/nocc/internal/symtab"
	"github.com/viant/nocc/internal/tree"
)

// File is the top-level shape of one `.ldef` document.
type File struct {
	Ident      string    `yaml:"ident"`
	Desc       string    `yaml:"desc"`
	Maintainer string    `yaml:"maintainer"`
	Section    []Section `yaml:"section"`
}

// Section is one named, independently importable grammar fragment.
type Section struct {
	Name    string       `yaml:"name"`
	Import  []string     `yaml:"import"`
	Before  []string     `yaml:"before"`
	After   []string     `yaml:"after"`
	Symbol  []string     `yaml:"symbol"`
	Keyword []KeywordDef `yaml:"keyword"`
	TNode   []TNodeDef   `yaml:"tnode"`
	TTag    []TTagDef    `yaml:"ttag"`
	GRule   []GRuleDef   `yaml:"grule"`
	Table   []TableDef   `yaml:"table"`
	DFAErr  []DFAErrDef  `yaml:"dfaerr"`
}

// KeywordDef registers one reserved word.
type KeywordDef struct {
	Name string `yaml:"name"`
	Tag  string `yaml:"tag"`
}

// TNodeDef registers one node-type (§3's `tndef`). Node-types rarely carry
// flags of their own (tags do the pipeline-relevant classification), so
// unlike TTagDef there is no Flags field here.
type TNodeDef struct {
	Name  string `yaml:"name"`
	NSub  int    `yaml:"nsub"`
	NName int    `yaml:"nname"`
	NHook int    `yaml:"nhook"`
}

// TTagDef registers one node-tag (§3's `ntdef`) over an already-registered
// node-type.
type TTagDef struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Flags []string `yaml:"flags"`
}

// GRuleDef is one non-terminal's grammar, compiled with dfa.ParseBNFTable.
type GRuleDef struct {
	Name string `yaml:"name"`
	BNF  string `yaml:"bnf"`
	Op   string `yaml:"op"` // "new" (default) or "add"
}

// TableDef is one non-terminal's grammar, compiled with
// dfa.ParseTransTable — used when a rule needs explicit state numbers
// BNF alternatives cannot express.
type TableDef struct {
	Name  string `yaml:"name"`
	Trans string `yaml:"trans"`
	Op    string `yaml:"op"`
}

// DFAErrDef attaches a named, externally-supplied error handler to a
// non-terminal.
type DFAErrDef struct {
	Name    string `yaml:"name"`
	Handler string `yaml:"handler"`
}

// tagFlagByName names the tree.TagFlags bits a `.ldef` file may request.
var tagFlagByName = map[string]tree.TagFlags{
	"transparent":    tree.FlagTransparent,
	"longdecl":       tree.FlagLongDecl,
	"shortdecl":      tree.FlagShortDecl,
	"longproc":       tree.FlagLongProc,
	"longaction":     tree.FlagLongAction,
	"synchronising":  tree.FlagSynchronising,
	"indentedlist":   tree.FlagIndentedList,
}

func mergeOp(name string) dfa.MergeOp {
	if name == "add" {
		return dfa.OpAdd
	}
	return dfa.OpNew
}

// Environment is the set of registries and caller-supplied hooks a `.ldef`
// load targets. Reduces and ErrorHandlers are populated by the front-end
// unit before loading — the loader only resolves grule/table/dfaerr
// entries by the names they list.
type Environment struct {
	Symtab       *symtab.Table
	Tree         *tree.Registry
	DFA          *dfa.Builder
	ErrorHandler func(name string) (dfa.ErrorHandler, bool)
}

// LoadAll reads and parses every path concurrently (I/O-bound, read-only
// work), then applies every file's sections in a stable, deterministic
// order — registration is the grow-only setup phase §5 permits, done once
// all files have been read so that cross-file `import` references resolve
// regardless of read order.
func LoadAll(ctx context.Context, fs afs.Service, env *Environment, paths []string) error {
	files := make([]*File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			data, err := fs.DownloadWithURL(gctx, p)
			if err != nil {
				return errors.Wrapf(err, "langdef: reading %s", p)
			}
			f := &File{}
			if err := yaml.Unmarshal(data, f); err != nil {
				return errors.Wrapf(err, "langdef: parsing %s", p)
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	byName := make(map[string]*Section)
	var order []string
	for _, f := range files {
		for i := range f.Section {
			s := &f.Section[i]
			byName[s.Name] = s
			order = append(order, s.Name)
		}
	}
	sort.Strings(order)

	applied := make(map[string]bool)
	var apply func(name string, trail []string) error
	apply = func(name string, trail []string) error {
		if applied[name] {
			return nil
		}
		for _, t := range trail {
			if t == name {
				return errors.Errorf("langdef: cyclic import involving section %q", name)
			}
		}
		sec, ok := byName[name]
		if !ok {
			return errors.Errorf("langdef: import of unknown section %q", name)
		}
		for _, imp := range sec.Import {
			if err := apply(imp, append(trail, name)); err != nil {
				return err
			}
		}
		if err := applySection(env, sec); err != nil {
			return errors.Wrapf(err, "langdef: applying section %q", name)
		}
		applied[name] = true
		return nil
	}

	for _, name := range order {
		if err := apply(name, nil); err != nil {
			return err
		}
	}
	return nil
}

func applySection(env *Environment, sec *Section) error {
	for _, sym := range sec.Symbol {
		env.Symtab.LookupSymbol(sym, true)
	}
	for _, kw := range sec.Keyword {
		env.Symtab.AddKeyword(kw.Name, kw.Tag, sec.Name)
	}

	typesByName := map[string]*tree.TypeDef{}
	for _, tn := range sec.TNode {
		hooks := make([]tree.HookOps, tn.NHook)
		td, err := env.Tree.NewTypeDef(tn.Name, tn.NSub, tn.NName, tn.NHook, nil, nil, hooks, 0)
		if err != nil {
			return err
		}
		typesByName[tn.Name] = td
	}
	for _, tg := range sec.TTag {
		td, ok := typesByName[tg.Type]
		if !ok {
			return errors.Errorf("langdef: tag %q names undeclared node-type %q", tg.Name, tg.Type)
		}
		var flags tree.TagFlags
		for _, f := range tg.Flags {
			flags |= tagFlagByName[f]
		}
		if _, err := env.Tree.NewTagDef(tg.Name, td, flags); err != nil {
			return err
		}
	}

	for _, gr := range sec.GRule {
		tbl, err := dfa.ParseBNFTable(gr.Name, mergeOp(gr.Op), gr.BNF)
		if err != nil {
			return err
		}
		if err := env.DFA.Compile(tbl); err != nil {
			return err
		}
	}
	for _, tb := range sec.Table {
		tbl, err := dfa.ParseTransTable(tb.Name, mergeOp(tb.Op), tb.Trans)
		if err != nil {
			return err
		}
		if err := env.DFA.Compile(tbl); err != nil {
			return err
		}
	}
	for _, de := range sec.DFAErr {
		if env.ErrorHandler == nil {
			return errors.Errorf("langdef: dfaerr %q requires an environment ErrorHandler resolver", de.Name)
		}
		h, ok := env.ErrorHandler(de.Handler)
		if !ok {
			return errors.Errorf("langdef: unknown error handler %q", de.Handler)
		}
		if err := env.DFA.RegisterErrorHandler(de.Name, h); err != nil {
			return err
		}
	}
	return nil
}
