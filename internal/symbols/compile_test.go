package symbols

import (
	"errors"
	"testing"
)

func mustCompile(t *testing.T, m Mapping, s Strategy) *Compiled {
	t.Helper()
	c, err := Compile(m, s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return c
}

func TestCompileEmptyMapping(t *testing.T) {
	c := mustCompile(t, Mapping{}, StrategyRegex)
	if !c.Empty() {
		t.Error("expected empty sentinel")
	}
	if _, ok := c.Find("anything", 0); ok {
		t.Error("expected no matches from empty mapping")
	}
}

func TestCompileEmptyKeyRejected(t *testing.T) {
	_, err := Compile(Mapping{"": "x"}, StrategyRegex)
	if err == nil {
		t.Fatal("expected error for empty symbol key")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Errorf("expected *CompileError, got %T", err)
	}
}

func TestCompileUnknownStrategy(t *testing.T) {
	_, err := Compile(Mapping{"a": "b"}, Strategy("bogus"))
	if err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestLongestMatchWins(t *testing.T) {
	for _, s := range []Strategy{StrategyRegex, StrategyAutomaton} {
		c := mustCompile(t, Mapping{"≥": ">=", "≥≤": "BOTH"}, s)

		m, ok := c.Find("x ≥≤ y", 0)
		if !ok {
			t.Fatalf("%s: expected a match", s)
		}
		if m.Symbol != "≥≤" {
			t.Errorf("%s: expected longest symbol to win, got %q", s, m.Symbol)
		}
	}
}

func TestWordSymbolBoundary(t *testing.T) {
	for _, s := range []Strategy{StrategyRegex, StrategyAutomaton} {
		c := mustCompile(t, Mapping{"if": "WHEN"}, s)

		if _, ok := c.Find("gift", 0); ok {
			t.Errorf("%s: expected no match inside gift", s)
		}
		m, ok := c.Find("if x:", 0)
		if !ok || m.Start != 0 || m.End != 2 {
			t.Errorf("%s: expected match at start of 'if x:', got %v ok=%v", s, m, ok)
		}
	}
}

func TestWordSymbolBoundaryMidText(t *testing.T) {
	// The scan advances into the text; a word symbol preceded by a word
	// byte must still be rejected.
	for _, s := range []Strategy{StrategyRegex, StrategyAutomaton} {
		c := mustCompile(t, Mapping{"in": "IN"}, s)

		if _, ok := c.Find("begin", 0); ok {
			t.Errorf("%s: expected no match inside begin", s)
		}
		m, ok := c.Find("x in y", 0)
		if !ok || m.Start != 2 {
			t.Errorf("%s: expected match at offset 2, got %v ok=%v", s, m, ok)
		}
	}
}

func TestGlyphSymbolNoBoundary(t *testing.T) {
	for _, s := range []Strategy{StrategyRegex, StrategyAutomaton} {
		c := mustCompile(t, Mapping{"≥": ">="}, s)

		m, ok := c.Find("a≥b", 0)
		if !ok {
			t.Fatalf("%s: expected glyph to match between word bytes", s)
		}
		if m.Start != 1 {
			t.Errorf("%s: expected match at offset 1, got %d", s, m.Start)
		}
	}
}

func TestMayContainNoFalseNegative(t *testing.T) {
	// All-ASCII symbols must still trip the precheck; a high-bytes-only
	// check would silently skip them.
	c := mustCompile(t, Mapping{"if": "WHEN"}, StrategyRegex)

	if !c.MayContain("if x:") {
		t.Error("expected precheck to pass for source containing a symbol byte")
	}
	if c.MayContain("zzz yyy") {
		t.Error("expected precheck to fail for source with no symbol bytes")
	}
}

func TestStrategiesAgree(t *testing.T) {
	m := Mapping{"ƒ": "def", "λ": "lambda", "if": "WHEN", "in": "IN", "≥": ">=", "≥≤": "BOTH"}
	text := "ƒ f(x): return x ≥≤ y if x in gift λ begin ≥"

	regex := mustCompile(t, m, StrategyRegex)
	trie := mustCompile(t, m, StrategyAutomaton)

	pos := 0
	for {
		rm, rok := regex.Find(text, pos)
		tm, tok := trie.Find(text, pos)
		if rok != tok {
			t.Fatalf("strategies disagree on match presence at %d: regex=%v trie=%v", pos, rok, tok)
		}
		if !rok {
			break
		}
		if rm != tm {
			t.Fatalf("strategies disagree at %d: regex=%v trie=%v", pos, rm, tm)
		}
		pos = rm.End
	}
}

func TestReplacementLookup(t *testing.T) {
	c := mustCompile(t, Mapping{"π": "print"}, StrategyRegex)

	rep, ok := c.Replacement("π")
	if !ok || rep != "print" {
		t.Errorf("expected print, got %q ok=%v", rep, ok)
	}
	if _, ok := c.Replacement("missing"); ok {
		t.Error("expected miss for unconfigured symbol")
	}
}

func TestKeysPriorityOrder(t *testing.T) {
	c := mustCompile(t, Mapping{"a": "1", "abc": "3"}, StrategyRegex)

	keys := c.Keys()
	if keys[0] != "abc" {
		t.Errorf("expected longest first, got %v", keys)
	}
}
