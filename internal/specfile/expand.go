package specfile

import (
	"os"
	"strings"

	"github.com/viant/nocc/internal/diagnostic"
)

// ExpandEnv applies specfile_stringdupenv's two substitutions to s: a
// backslash escape (`\\`, `\$`, `\n`, `\r`, `\t`) and `$NAME` expansion
// from the process environment. An unset $NAME expands to empty and an
// unhandled escape character is dropped, each recording a warning on
// diag when non-nil.
func ExpandEnv(s string, diag *diagnostic.Counter) string {
	if !strings.ContainsAny(s, "\\$") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\\':
			i++
			if i >= len(s) {
				break
			}
			switch s[i] {
			case '\\':
				b.WriteByte('\\')
			case '$':
				b.WriteByte('$')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				if diag != nil {
					diag.Errorf(diagnostic.Warning, diagnostic.Origin{}, "specfile: unhandled escape character %q", s[i])
				}
			}
			i++
		case '$':
			i++
			start := i
			for i < len(s) && isEnvNameByte(s[i], i > start) {
				i++
			}
			name := s[start:i]
			val, ok := os.LookupEnv(name)
			if !ok && diag != nil {
				diag.Errorf(diagnostic.Warning, diagnostic.Origin{}, "specfile: environment variable %q is not set", name)
			}
			b.WriteString(val)
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func isEnvNameByte(c byte, allowDigit bool) bool {
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_' {
		return true
	}
	return allowDigit && c >= '0' && c <= '9'
}
