package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"rpgscribe/internal/variant"
)

func TestCorpusDeduplicates(t *testing.T) {
	t.Parallel()

	c := New("Maps")
	for _, line := range []string{"Hello", "World", "Hello", "", "World", "Again"} {
		c.Add(line)
	}
	want := []string{"Hello", "World", "Again"}
	if !reflect.DeepEqual(c.Lines(), want) {
		t.Errorf("Lines() = %v, want %v", c.Lines(), want)
	}
}

func TestOrderedCorpusKeepsDuplicatesAndEmpties(t *testing.T) {
	t.Parallel()

	c := NewOrdered("Scripts")
	for _, line := range []string{"code", "", "code"} {
		c.Add(line)
	}
	want := []string{"code", "", "code"}
	if !reflect.DeepEqual(c.Lines(), want) {
		t.Errorf("Lines() = %v, want %v", c.Lines(), want)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		escaped string
	}{
		{name: "plain", in: "Hello", escaped: "Hello"},
		{name: "one break", in: "Hello\nWorld", escaped: `Hello\#World`},
		{name: "crlf folds", in: "Hello\r\nWorld", escaped: `Hello\#World`},
		{name: "trailing break", in: "Hello\n", escaped: `Hello\#`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Escape(tt.in)
			if got != tt.escaped {
				t.Fatalf("Escape(%q) = %q, want %q", tt.in, got, tt.escaped)
			}
			if tt.name == "crlf folds" {
				return // unescape restores \n, not \r\n
			}
			if back := Unescape(got); back != tt.in {
				t.Errorf("Unescape(%q) = %q, want %q", got, back, tt.in)
			}
		})
	}
}

func TestKeyAppliesVariantThenEscape(t *testing.T) {
	t.Parallel()

	got := Key(variant.LegacyPrefix, "\\>Yes\nNo")
	if got != `Yes\#No` {
		t.Errorf("Key = %q, want %q", got, `Yes\#No`)
	}
	if Key(variant.Identity, "\\>Yes") != `\>Yes` {
		t.Error("identity variant must not strip the token")
	}
}

func TestWriteFilesAlignment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := New("Items")
	c.Add("Potion")
	c.Add("Restores 50 HP.")

	if err := WriteFiles(dir, c); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}

	src, trans, err := ReadPair(dir, "Items")
	if err != nil {
		t.Fatalf("ReadPair: %v", err)
	}
	if !reflect.DeepEqual(src, []string{"Potion", "Restores 50 HP."}) {
		t.Errorf("src = %v", src)
	}
	if len(trans) != len(src) {
		t.Fatalf("stub has %d lines, corpus has %d", len(trans), len(src))
	}
	for i, line := range trans {
		if line != "" {
			t.Errorf("stub line %d = %q, want empty", i, line)
		}
	}
}

func TestReadPairMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, SourceFile(dir, "Maps"), "a\nb\nc\n")
	writeFile(t, TranslationFile(dir, "Maps"), "x\n")

	_, _, err := ReadPair(dir, "Maps")
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("ReadPair err = %v, want ErrMismatch", err)
	}
}

func TestReadPairMissing(t *testing.T) {
	t.Parallel()

	_, _, err := ReadPair(t.TempDir(), "Maps")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadPair err = %v, want fs.ErrNotExist", err)
	}
}

func TestNewIndex(t *testing.T) {
	t.Parallel()

	src := []string{"Hello", "World", "", "Hello"}
	trans := []string{"Bonjour", "", "ignored", "Salut"}

	index := NewIndex(src, trans)
	want := map[string]string{"Hello": "Bonjour"}
	if !reflect.DeepEqual(index, want) {
		t.Errorf("NewIndex = %v, want %v", index, want)
	}
}

func TestAuditControls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		trans   string
		missing []string
	}{
		{name: "all preserved", source: `\C[2]Hello\C[0]`, trans: `\C[2]Bonjour\C[0]`},
		{name: "one dropped", source: `\C[2]Hello`, trans: "Bonjour", missing: []string{`\C[2]`}},
		{name: "count matters", source: `\.\.\.Hi`, trans: `\.Salut`, missing: []string{`\.`, `\.`}},
		{name: "plain text", source: "Hi", trans: "Salut"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AuditControls(tt.source, tt.trans)
			if !reflect.DeepEqual(got, tt.missing) {
				t.Errorf("AuditControls = %v, want %v", got, tt.missing)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
