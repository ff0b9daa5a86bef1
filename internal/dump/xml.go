package dump

import (
	"fmt"
	"strings"

	"github.com/viant/nocc/internal/tree"
)

// Source pairs one parsed tree with the source path it came from, the
// unit a treedump describes.
type Source struct {
	Path string
	Tree *tree.Node
}

// XML renders a tree dump as `<nocc:treedump version="…">` wrapping one
// `<nocc:parsetree src="…">` per source, with every registered namespace
// declared on the root element in registration order.
func XML(version string, ns *Namespaces, sources []Source) string {
	var b strings.Builder
	b.WriteString("<nocc:treedump version=\"")
	b.WriteString(escapeAttr(version))
	b.WriteByte('"')
	for _, n := range ns.Ordered() {
		b.WriteString(" xmlns:")
		b.WriteString(n.Prefix)
		b.WriteString("=\"")
		b.WriteString(escapeAttr(n.URI))
		b.WriteByte('"')
	}
	b.WriteString(">\n")
	for _, src := range sources {
		b.WriteString("  <nocc:parsetree src=\"")
		b.WriteString(escapeAttr(src.Path))
		b.WriteString("\">\n")
		writeElemXML(&b, BuildNode(src.Tree), 4)
		b.WriteString("  </nocc:parsetree>\n")
	}
	b.WriteString("</nocc:treedump>\n")
	return b.String()
}

func writeElemXML(b *strings.Builder, e *Elem, indent int) {
	pad := strings.Repeat(" ", indent)
	b.WriteString(pad)
	b.WriteByte('<')
	b.WriteString(e.Name)
	for _, a := range e.Attrs {
		fmt.Fprintf(b, " %s=%q", a.Name, escapeAttr(a.Value))
	}
	if len(e.Children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	for _, c := range e.Children {
		writeElemXML(b, c, indent+2)
	}
	b.WriteString(pad)
	b.WriteString("</")
	b.WriteString(e.Name)
	b.WriteString(">\n")
}

func escapeAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}

// Token is one lexed token's self-closing dump record (§6's token-dump
// stream); inner included tokens are transparent to the dump, so callers
// only ever hand Token top-level lexer output.
type Token struct {
	Kind  string
	Attrs []Attr
}

// TokenXML renders a single self-closing `<token type="…" … />` element,
// as emitted into the configured `--dump-tokens-to` file as each
// top-level token is produced.
func TokenXML(tok Token) string {
	var b strings.Builder
	b.WriteString("<token type=\"")
	b.WriteString(escapeAttr(tok.Kind))
	b.WriteByte('"')
	for _, a := range tok.Attrs {
		fmt.Fprintf(&b, " %s=%q", a.Name, escapeAttr(a.Value))
	}
	b.WriteString("/>\n")
	return b.String()
}
