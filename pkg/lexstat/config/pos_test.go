package config

import (
	"path/filepath"
	"testing"
)

func TestLoadPOSAliases(t *testing.T) {
	path := writeYAML(t, t.TempDir(), "pos.yaml", `aliases:
  noun:
    - n
    - NN
    - subst
  verb:
    - v
    - VB
`)

	pa, err := LoadPOSAliases(path)
	if err != nil {
		t.Fatalf("LoadPOSAliases: %v", err)
	}

	tests := []struct {
		tag  string
		want string
	}{
		{"noun", "noun"},
		{"NN", "noun"},
		{" n ", "noun"},
		{"Subst", "noun"},
		{"VB", "verb"},
		{"adj", "adj"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := pa.Canonical(tt.tag); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestPOSAliasesMatcher(t *testing.T) {
	pa := NewPOSAliases(map[string][]string{"noun": {"n", "NN"}})
	match := pa.Matcher("noun")

	for _, tag := range []string{"noun", "n", "NN", "Noun"} {
		if !match(tag) {
			t.Errorf("expected %q to match noun", tag)
		}
	}
	for _, tag := range []string{"verb", "", "nn-x"} {
		if match(tag) {
			t.Errorf("expected %q not to match noun", tag)
		}
	}
}

func TestPOSAliasesNilTable(t *testing.T) {
	var pa *POSAliases
	match := pa.Matcher("noun")
	if !match("NOUN") {
		t.Error("nil table should still fold case")
	}
	if match("n") {
		t.Error("nil table has no aliases")
	}
}

func TestLoadPOSAliasesMissingFile(t *testing.T) {
	if _, err := LoadPOSAliases(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
