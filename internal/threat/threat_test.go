package threat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultBlocksEval(t *testing.T) {
	d := NewDefault()

	pat, hit := d.Match("eval(user_input)")
	if !hit {
		t.Fatal("expected eval( to be dangerous")
	}
	if pat != "eval(" {
		t.Errorf("expected eval( pattern, got %q", pat)
	}
}

func TestDefaultBlocksSubprocess(t *testing.T) {
	d := NewDefault()

	if !d.IsDangerous("subprocess.run(['ls'])") {
		t.Error("expected subprocess. to be dangerous")
	}
	if !d.IsDangerous("os.system('rm -rf /')") {
		t.Error("expected os.system( to be dangerous")
	}
	if !d.IsDangerous("__import__('os')") {
		t.Error("expected __import__ to be dangerous")
	}
}

func TestSafeReplacementAllowed(t *testing.T) {
	d := NewDefault()

	if d.IsDangerous("print") {
		t.Error("expected print to be safe")
	}
	if d.IsDangerous("lambda") {
		t.Error("expected lambda to be safe")
	}
	if d.IsDangerous("evaluate_model") {
		t.Error("expected evaluate_model to be safe: no call paren")
	}
}

func TestMatchCaseSensitive(t *testing.T) {
	d := NewDefault()

	if d.IsDangerous("EVAL(x)") {
		t.Error("expected uppercase EVAL( to pass: matching is case-sensitive")
	}
}

func TestNewDropsEmptyEntries(t *testing.T) {
	d := New(Patterns{Constructs: []string{"bad(", "", "worse("}})

	if d.Len() != 2 {
		t.Errorf("expected empty entries dropped, got %d patterns", d.Len())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.IsDangerous("eval(x)") {
		t.Error("expected defaults when file is missing")
	}
}

func TestLoadCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denylist.yaml")
	if err := os.WriteFile(path, []byte("constructs:\n  - \"forbidden(\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.IsDangerous("forbidden(1)") {
		t.Error("expected custom pattern to match")
	}
	if d.IsDangerous("eval(x)") {
		t.Error("expected custom list to replace defaults")
	}
}

func TestLoadEmptyListFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denylist.yaml")
	if err := os.WriteFile(path, []byte("constructs: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.IsDangerous("eval(x)") {
		t.Error("expected defaults for an empty constructs list")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denylist.yaml")
	if err := os.WriteFile(path, []byte(":\t bogus ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
