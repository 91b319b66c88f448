package profile

import (
	"testing"
)

func TestLoadBuiltinPhicode(t *testing.T) {
	p, err := Load("phicode")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != "phicode" {
		t.Errorf("unexpected name %q", p.Name)
	}
	if p.Symbols["λ"] != "lambda" {
		t.Errorf("expected λ→lambda, got %q", p.Symbols["λ"])
	}
	if p.Symbols["ƒ"] != "def" {
		t.Errorf("expected ƒ→def, got %q", p.Symbols["ƒ"])
	}
}

func TestLoadBuiltinOperators(t *testing.T) {
	p, err := Load("operators")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Symbols["≥"] != ">=" {
		t.Errorf("expected ≥→>=, got %q", p.Symbols["≥"])
	}
}

func TestLoadUnknownProfile(t *testing.T) {
	if _, err := Load("no-such-profile"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestMapping(t *testing.T) {
	p := &Profile{Name: "x", Symbols: map[string]string{"a": "b"}}

	m := p.Mapping()
	if m["a"] != "b" {
		t.Errorf("unexpected mapping %v", m)
	}
}

func TestListIncludesBuiltins(t *testing.T) {
	names := List()

	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["phicode"] || !seen["operators"] {
		t.Errorf("expected built-in profiles in list, got %v", names)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(&Profile{Name: "ok", Symbols: map[string]string{"a": "b"}}); err != nil {
		t.Errorf("expected valid profile, got %v", err)
	}
	if err := Validate(&Profile{Symbols: map[string]string{"a": "b"}}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := Validate(&Profile{Name: "bad", Symbols: map[string]string{"": "b"}}); err == nil {
		t.Error("expected error for empty symbol key")
	}
}

func TestBuiltinProfilesCompile(t *testing.T) {
	// Every embedded profile must parse, validate, and produce a non-empty
	// mapping.
	for name := range builtinProfiles {
		p, err := Load(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if err := Validate(p); err != nil {
			t.Errorf("validate %s: %v", name, err)
		}
		if len(p.Symbols) == 0 {
			t.Errorf("profile %s has no symbols", name)
		}
	}
}
