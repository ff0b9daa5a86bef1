package specfile

import (
	"os"
	"testing"

	"github.com/viant/nocc/internal/diagnostic"
)

func TestExpandEnvSubstitutesVariable(t *testing.T) {
	os.Setenv("NOCC_TEST_VAR", "gumbo")
	defer os.Unsetenv("NOCC_TEST_VAR")

	got := ExpandEnv("path/$NOCC_TEST_VAR/lib", nil)
	if got != "path/gumbo/lib" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandEnvEscapes(t *testing.T) {
	got := ExpandEnv(`line1\nline2\ttabbed\$literal`, nil)
	want := "line1\nline2\ttabbed$literal"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExpandEnvUnsetVariableWarns(t *testing.T) {
	os.Unsetenv("NOCC_TEST_UNSET_VAR")
	var diag diagnostic.Counter
	got := ExpandEnv("$NOCC_TEST_UNSET_VAR", &diag)
	if got != "" {
		t.Fatalf("expected empty expansion, got %q", got)
	}
	if diag.Warnings != 1 {
		t.Fatalf("expected one warning, got %d", diag.Warnings)
	}
}

func TestParseDecodesKnownElements(t *testing.T) {
	os.Setenv("NOCC_TEST_VAR", "xyz")
	defer os.Unsetenv("NOCC_TEST_VAR")

	doc := []byte(`<specs>
		<target>avr-atmel-none</target>
		<maintainer>team@example.com</maintainer>
		<epath>/opt/$NOCC_TEST_VAR/ext</epath>
		<epath>/opt/more</epath>
		<trustedkey>KEY1</trustedkey>
		<cachedir cow="yes" pref="no">/var/cache/nocc</cachedir>
		<bogus>ignored</bogus>
	</specs>`)

	var diag diagnostic.Counter
	spec, err := Parse(doc, &diag)
	if err != nil {
		t.Fatal(err)
	}
	if spec.Target != "avr-atmel-none" {
		t.Fatalf("unexpected target: %q", spec.Target)
	}
	if len(spec.EPath) != 2 || spec.EPath[0] != "/opt/xyz/ext" {
		t.Fatalf("unexpected epath: %v", spec.EPath)
	}
	if len(spec.TrustedKeys) != 1 || spec.TrustedKeys[0] != "KEY1" {
		t.Fatalf("unexpected trusted keys: %v", spec.TrustedKeys)
	}
	if spec.CacheDir == nil || !spec.CacheDir.COW || spec.CacheDir.Pref {
		t.Fatalf("unexpected cachedir: %+v", spec.CacheDir)
	}
	if diag.Warnings != 1 {
		t.Fatalf("expected one warning for the unknown <bogus> element, got %d", diag.Warnings)
	}
}
