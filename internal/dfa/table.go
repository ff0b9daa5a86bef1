package dfa

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/nocc/internal/symtab"
)

// MatchSpec names the token an Entry's arc matches, independent of any
// concrete *symtab.Token — it is resolved against a symbol table when the
// owning Table is compiled into live DFA nodes.
type MatchSpec struct {
	Kind    symtab.Kind
	Literal string // keyword name (KindKeyword) or symbol text (KindSymbol)
	Name    string // non-empty only for the specially-marked identifier case
	Wild    bool
}

// Entry (dfattblent_t) is one row of a textual transition table: a
// start/end state pair, the token it matches (nil Match means this is the
// state's default arc), an optional push into another named non-terminal,
// and an optional reduction to run on arrival.
type Entry struct {
	StartState int
	EndState   int // -1 denotes a return (pop) arc
	Match      *MatchSpec
	PushName   string // non-empty: this arc pushes into the named non-terminal
	ReduceName string
	Flags      Flag
}

// Table (dfattbl_t) is a named, unresolved transition table: a sequence of
// entries over a small set of integer states, compiled into live DFA nodes
// by Builder.Compile.
type Table struct {
	Name    string
	Op      MergeOp
	NStates int
	Entries []*Entry
}

// MergeOp selects how a table combines with a previously compiled DFA of
// the same name.
type MergeOp int

const (
	// OpNew replaces any existing DFA registered under Name.
	OpNew MergeOp = iota
	// OpAdd extends an existing DFA's start state with this table's arcs,
	// earlier (already-registered) arcs keeping priority.
	OpAdd
)

// parseMatchToken parses one whitespace-delimited token-spec atom used by
// both ParseTransTable and ParseBNFTable:
//
//	kw:NAME     keyword NAME
//	sym:TEXT    symbol TEXT
//	name:TEXT   the specially-marked identifier token TEXT
//	name        generic "any name" wildcard
//	int real string comment newline indent outdent end
//	            generic wildcard of that kind
//	*NonTerm    push into the named non-terminal (no token is consumed here;
//	            only legal as an alternative's own element in BNF form)
func parseMatchToken(atom string) (spec *MatchSpec, pushName string, err error) {
	switch {
	case strings.HasPrefix(atom, "*"):
		return nil, strings.TrimPrefix(atom, "*"), nil
	case strings.HasPrefix(atom, "kw:"):
		return &MatchSpec{Kind: symtab.KindKeyword, Literal: strings.TrimPrefix(atom, "kw:")}, "", nil
	case strings.HasPrefix(atom, "sym:"):
		return &MatchSpec{Kind: symtab.KindSymbol, Literal: strings.TrimPrefix(atom, "sym:")}, "", nil
	case strings.HasPrefix(atom, "name:"):
		return &MatchSpec{Kind: symtab.KindName, Name: strings.TrimPrefix(atom, "name:")}, "", nil
	case atom == "name":
		return &MatchSpec{Kind: symtab.KindName, Wild: true}, "", nil
	case atom == "int":
		return &MatchSpec{Kind: symtab.KindInteger, Wild: true}, "", nil
	case atom == "real":
		return &MatchSpec{Kind: symtab.KindReal, Wild: true}, "", nil
	case atom == "string":
		return &MatchSpec{Kind: symtab.KindString, Wild: true}, "", nil
	case atom == "comment":
		return &MatchSpec{Kind: symtab.KindComment, Wild: true}, "", nil
	case atom == "newline":
		return &MatchSpec{Kind: symtab.KindNewline, Wild: true}, "", nil
	case atom == "indent":
		return &MatchSpec{Kind: symtab.KindIndent, Wild: true}, "", nil
	case atom == "outdent":
		return &MatchSpec{Kind: symtab.KindOutdent, Wild: true}, "", nil
	case atom == "end":
		return &MatchSpec{Kind: symtab.KindEnd, Wild: true}, "", nil
	default:
		return nil, "", errors.Errorf("dfa: unrecognised match atom %q", atom)
	}
}

// ParseTransTable compiles a line-oriented textual transition spec into a
// Table. Each non-blank, non-comment ('#'-led) line has the form:
//
//	START ATOM -> END [push NAME] [reduce NAME]
//
// START/END are small integers; END may be "return" (-1). ATOM is anything
// parseMatchToken accepts, or "default" for the state's no-match arc.
func ParseTransTable(name string, op MergeOp, spec string) (*Table, error) {
	tbl := &Table{Name: name, Op: op}
	maxState := 0
	for lineNo, raw := range strings.Split(spec, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[2] != "->" {
			return nil, errors.Errorf("dfa: %s line %d: malformed transition %q", name, lineNo+1, raw)
		}
		start, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Errorf("dfa: %s line %d: bad start state: %v", name, lineNo+1, err)
		}
		e := &Entry{StartState: start}
		if fields[1] != "default" {
			ms, pushName, err := parseMatchToken(fields[1])
			if err != nil {
				return nil, errors.Wrapf(err, "dfa: %s line %d", name, lineNo+1)
			}
			e.Match = ms
			e.PushName = pushName
		}
		if fields[3] == "return" {
			e.EndState = -1
		} else {
			end, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, errors.Errorf("dfa: %s line %d: bad end state: %v", name, lineNo+1, err)
			}
			e.EndState = end
			if end > maxState {
				maxState = end
			}
		}
		for i := 4; i < len(fields); i++ {
			switch fields[i] {
			case "push":
				i++
				if i >= len(fields) {
					return nil, errors.Errorf("dfa: %s line %d: push without a name", name, lineNo+1)
				}
				e.PushName = fields[i]
			case "reduce":
				i++
				if i >= len(fields) {
					return nil, errors.Errorf("dfa: %s line %d: reduce without a name", name, lineNo+1)
				}
				e.ReduceName = fields[i]
			default:
				return nil, errors.Errorf("dfa: %s line %d: unexpected clause %q", name, lineNo+1, fields[i])
			}
		}
		if start > maxState {
			maxState = start
		}
		tbl.Entries = append(tbl.Entries, e)
	}
	tbl.NStates = maxState + 1
	return tbl, nil
}

// ParseBNFTable compiles a `ALT1 | ALT2 | ...` production into a Table, one
// state chain per alternative, all starting from shared state 0 and ending
// in a return arc. Each alternative is a space-separated sequence of
// parseMatchToken atoms, optionally suffixed with `@reduceName` to run a
// reduction when the alternative completes. Earlier alternatives take arc
// priority at any state they share (insertion order mirrors listed order).
func ParseBNFTable(name string, op MergeOp, bnf string) (*Table, error) {
	tbl := &Table{Name: name, Op: op}
	nextState := 1
	for _, altRaw := range strings.Split(bnf, "|") {
		alt := strings.TrimSpace(altRaw)
		if alt == "" {
			continue
		}
		atoms := strings.Fields(alt)
		var reduceName string
		if last := atoms[len(atoms)-1]; strings.HasPrefix(last, "@") {
			reduceName = strings.TrimPrefix(last, "@")
			atoms = atoms[:len(atoms)-1]
		}
		if len(atoms) == 0 {
			return nil, errors.Errorf("dfa: %s: empty alternative", name)
		}
		cur := 0
		for i, atom := range atoms {
			isLast := i == len(atoms)-1
			ms, pushName, err := parseMatchToken(atom)
			if err != nil {
				return nil, errors.Wrapf(err, "dfa: %s", name)
			}
			end := -1
			if !isLast {
				end = nextState
				nextState++
			}
			e := &Entry{StartState: cur, EndState: end, Match: ms, PushName: pushName}
			if isLast {
				e.ReduceName = reduceName
			}
			tbl.Entries = append(tbl.Entries, e)
			if !isLast {
				cur = end
			}
		}
	}
	tbl.NStates = nextState
	return tbl, nil
}

func matchSpecToToken(stab *symtab.Table, ms *MatchSpec) (*symtab.Token, error) {
	if ms.Wild {
		return symtab.Wildcard(ms.Kind), nil
	}
	switch ms.Kind {
	case symtab.KindKeyword:
		kw := stab.LookupKeyword(ms.Literal)
		if kw == nil {
			return nil, errors.Errorf("dfa: unknown keyword %q in match spec", ms.Literal)
		}
		return &symtab.Token{Kind: symtab.KindKeyword, Kw: kw}, nil
	case symtab.KindSymbol:
		sym := stab.LookupSymbol(ms.Literal, false)
		if sym == nil {
			return nil, errors.Errorf("dfa: unknown symbol %q in match spec", ms.Literal)
		}
		return &symtab.Token{Kind: symtab.KindSymbol, Sym: sym}, nil
	case symtab.KindName:
		return &symtab.Token{Kind: symtab.KindName, Text: ms.Name}, nil
	default:
		return symtab.Wildcard(ms.Kind), nil
	}
}
