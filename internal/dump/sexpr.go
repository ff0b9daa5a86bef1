package dump

import (
	"strings"

	"github.com/viant/nocc/internal/tree"
)

// SExpr renders the same intermediate walk XML draws from as
// `(nocc:treedump (version "…") (nocc:parsetree (src "…") …) …)`, each
// node printed as `(<tag> subnodes… names… hooks…)`.
func SExpr(version string, sources []Source) string {
	var b strings.Builder
	b.WriteString("(nocc:treedump (version \"")
	b.WriteString(version)
	b.WriteString("\")")
	for _, src := range sources {
		b.WriteString(" (nocc:parsetree (src \"")
		b.WriteString(src.Path)
		b.WriteString("\") ")
		writeElemSExpr(&b, BuildNode(src.Tree))
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

func writeElemSExpr(b *strings.Builder, e *Elem) {
	b.WriteByte('(')
	b.WriteString(e.Name)
	for _, c := range e.Children {
		b.WriteByte(' ')
		writeElemSExpr(b, c)
	}
	for _, a := range e.Attrs {
		b.WriteString(" (")
		b.WriteString(a.Name)
		b.WriteString(" \"")
		b.WriteString(escapeSExprString(a.Value))
		b.WriteString("\")")
	}
	b.WriteByte(')')
}

func escapeSExprString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(s)
}
