// Package symtab interns multi-character operator symbols and reserved
// keywords so that two descriptors are equal iff they are the same pointer,
// and fabricates/matches the tokens lexers hand to the DFA substrate.
package symtab

import (
	"github.com/minio/highwayhash"
)

var hashKey = []byte("NOCC-symtab-hash-key-0123456789a")

func fastHash(s string) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// hashKey length is fixed and valid; this cannot happen.
		panic(err)
	}
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Symbol is a canonical, pointer-comparable descriptor for an operator
// symbol (e.g. "+", "::=", "<-").
type Symbol struct {
	Text string
	hash uint64
}

// Keyword is a canonical, pointer-comparable descriptor for a reserved word.
type Keyword struct {
	Name   string
	Tag    string
	Origin string
}

// Table interns symbols and keywords. The zero value is not usable; use New.
type Table struct {
	symbols  map[string]*Symbol
	keywords map[string]*Keyword
}

// New creates an empty interning table.
func New() *Table {
	return &Table{
		symbols:  make(map[string]*Symbol),
		keywords: make(map[string]*Keyword),
	}
}

// LookupSymbol returns the canonical Symbol for text, creating it if create
// is true and it is not yet registered. Two Symbol pointers are equal iff
// they denote the same text.
func (t *Table) LookupSymbol(text string, create bool) *Symbol {
	if s, ok := t.symbols[text]; ok {
		return s
	}
	if !create {
		return nil
	}
	s := &Symbol{Text: text, hash: fastHash(text)}
	t.symbols[text] = s
	return s
}

// AddKeyword registers a keyword. Per spec, the first registration wins;
// a later registration under the same name is a no-op that returns the
// original descriptor (no counter bumped, nothing mutated).
func (t *Table) AddKeyword(name, tag, origin string) *Keyword {
	if k, ok := t.keywords[name]; ok {
		return k
	}
	k := &Keyword{Name: name, Tag: tag, Origin: origin}
	t.keywords[name] = k
	return k
}

// LookupKeyword returns the canonical descriptor for name, or nil.
func (t *Table) LookupKeyword(name string) *Keyword {
	return t.keywords[name]
}

// Kind enumerates token kinds a lexer may produce.
type Kind int

const (
	KindNone Kind = iota
	KindKeyword
	KindSymbol
	KindInteger
	KindReal
	KindString
	KindName
	KindComment
	KindNewline
	KindIndent
	KindOutdent
	KindEnd
	KindLanguage // language-specific token, opaque payload
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindKeyword:
		return "keyword"
	case KindSymbol:
		return "symbol"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindName:
		return "name"
	case KindComment:
		return "comment"
	case KindNewline:
		return "newline"
	case KindIndent:
		return "indent"
	case KindOutdent:
		return "outdent"
	case KindEnd:
		return "end"
	case KindLanguage:
		return "language"
	default:
		return "unknown"
	}
}

// Origin is where a token came from in its source file.
type Origin struct {
	File   string
	Line   int
	Column int
	Width  int
}

// Token is the typed variant a lexer produces, or a wildcard match-template
// used on a DFA arc.
type Token struct {
	Kind Kind
	Sym  *Symbol  // KindSymbol
	Kw   *Keyword // KindKeyword
	Text string   // KindName/KindString/KindLanguage payload, or literal text
	Wild bool     // true when this token is a match-template wildcard
	Origin
	// LangFree, if set, releases a language-private payload attached via Text
	// or an opaque pointer a language front-end stashed alongside this token.
	LangFree func(*Token)
}

// New fabricates a token, typically used as a DFA match-template.
func New(kind Kind) *Token {
	return &Token{Kind: kind}
}

// Wildcard fabricates a wildcard match-template for kind: it matches any
// token of that kind regardless of payload.
func Wildcard(kind Kind) *Token {
	return &Token{Kind: kind, Wild: true}
}

// Match reports whether actual satisfies formal as a DFA arc's match
// template: true when formal is a wildcard of its kind, or when both match
// on type and type-specific payload. Pointer-equality is used for
// keywords/symbols; integer/real/string/name/comment/newline/indent/
// outdent/end formal tokens (without Wild set explicitly but without a
// payload to compare) always match their kind; name tokens require a
// byte-exact match only when both sides carry a non-empty Text (the
// "specially-marked identifier-name token" case).
func Match(formal, actual *Token) bool {
	if formal == nil || actual == nil {
		return false
	}
	if formal.Kind != actual.Kind {
		return false
	}
	if formal.Wild {
		return true
	}
	switch formal.Kind {
	case KindKeyword:
		return formal.Kw == actual.Kw
	case KindSymbol:
		return formal.Sym == actual.Sym
	case KindName:
		// A name token with empty Text is the generic "any name" template;
		// only when both sides carry text (the specially-marked identifier
		// token) is a byte-exact comparison required. Written as an OR so
		// the relation stays symmetric regardless of which side is generic.
		if formal.Text == "" || actual.Text == "" {
			return true
		}
		return formal.Text == actual.Text
	case KindInteger, KindReal, KindString, KindComment, KindNewline, KindIndent, KindOutdent, KindEnd:
		return true
	case KindLanguage:
		return formal.Text == actual.Text
	default:
		return true
	}
}

// Free releases a token, invoking its language-specific free callback for
// language-private payloads.
func Free(tok *Token) {
	if tok == nil {
		return
	}
	if tok.LangFree != nil {
		tok.LangFree(tok)
	}
}
