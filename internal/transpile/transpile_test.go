package transpile

import (
	"errors"
	"strings"
	"testing"

	"github.com/Varietyz/phigo-transpiler/internal/symbols"
	"github.com/Varietyz/phigo-transpiler/internal/threat"
)

func compile(t testing.TB, m symbols.Mapping) *symbols.Compiled {
	t.Helper()
	c, err := symbols.Compile(m, symbols.StrategyRegex)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return c
}

func TestBasicSubstitution(t *testing.T) {
	c := compile(t, symbols.Mapping{"λ": "lambda", "π": "print"})

	out, err := Text("f = λ x: π(x)", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "f = lambda x: print(x)" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLongestMatchFirst(t *testing.T) {
	c := compile(t, symbols.Mapping{"ab": "X", "abc": "Y"})

	out, err := Text("abc.", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "Y." {
		t.Errorf("expected longest symbol to win, got %q", out)
	}
}

func TestWordBoundary(t *testing.T) {
	c := compile(t, symbols.Mapping{"if": "WHEN"})
	det := threat.NewDefault()

	out, err := Text("gift", c, det, false)
	if err != nil || out != "gift" {
		t.Errorf("expected gift unchanged, got %q err=%v", out, err)
	}

	out, err = Text("if x:", c, det, false)
	if err != nil || out != "WHEN x:" {
		t.Errorf("expected WHEN x:, got %q err=%v", out, err)
	}
}

func TestLiteralsUntouched(t *testing.T) {
	c := compile(t, symbols.Mapping{"λ": "lambda"})

	out, err := Text("s = 'λ stays'\nf = λ x: x", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "s = 'λ stays'\nf = lambda x: x" {
		t.Errorf("expected literal untouched, got %q", out)
	}
}

func TestCommentsUntouched(t *testing.T) {
	c := compile(t, symbols.Mapping{"λ": "lambda"})

	out, err := Text("# λ comment\nλ x", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "# λ comment\nlambda x" {
		t.Errorf("expected comment untouched, got %q", out)
	}
}

func TestDigitSymbolNeverFiresInsidePlaceholders(t *testing.T) {
	// A digit-only symbol must not corrupt placeholder markers, which carry
	// digits between NUL delimiters.
	c := compile(t, symbols.Mapping{"0": "ZERO"})

	out, err := Text("x = 0  # first\ny = 0  # second\n", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "x = ZERO  # first\ny = ZERO  # second\n" {
		t.Errorf("placeholder corrupted: %q", out)
	}
}

func TestBlockedReplacement(t *testing.T) {
	c := compile(t, symbols.Mapping{"⚡": "eval("})

	_, err := Run("x = ⚡y)", c, threat.NewDefault(), false)
	if err == nil {
		t.Fatal("expected security block")
	}
	var blocked *SecurityBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected *SecurityBlockedError, got %T", err)
	}
	if blocked.Symbol != "⚡" || blocked.Pattern != "eval(" {
		t.Errorf("unexpected block details %+v", blocked)
	}
}

func TestBlockedProducesNoOutput(t *testing.T) {
	c := compile(t, symbols.Mapping{"π": "print", "⚡": "eval("})

	res, err := Run("π(1)\n⚡x)", c, threat.NewDefault(), false)
	if err == nil {
		t.Fatal("expected security block")
	}
	if res.Output != "" {
		t.Errorf("expected no partial output, got %q", res.Output)
	}
}

func TestBypassSkipsGate(t *testing.T) {
	c := compile(t, symbols.Mapping{"⚡": "eval("})

	out, err := Text("x = ⚡y)", c, threat.NewDefault(), true)
	if err != nil {
		t.Fatalf("run with bypass: %v", err)
	}
	if out != "x = eval(y)" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDangerousSymbolInLiteralAllowed(t *testing.T) {
	// The dangerous symbol sits inside a string literal, so no substitution
	// happens and the gate never fires.
	c := compile(t, symbols.Mapping{"⚡": "eval("})

	out, err := Text("s = '⚡ spark'", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "s = '⚡ spark'" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestReplacementResemblingPlaceholder(t *testing.T) {
	// A replacement value carrying a placeholder-shaped token must come out
	// verbatim and must not capture a literal during restoration.
	c := compile(t, symbols.Mapping{"X": "\x000\x00"})

	out, err := Text("X 'lit'", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "\x000\x00 'lit'" {
		t.Errorf("literal restored into replacement text: %q", out)
	}
}

func TestReplacementResemblingLaterPlaceholder(t *testing.T) {
	// The fake token names a span that sits after it in the text.
	c := compile(t, symbols.Mapping{"X": "\x001\x00"})

	out, err := Text("'a' X 'b'", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "'a' \x001\x00 'b'" {
		t.Errorf("later literal captured by replacement text: %q", out)
	}
}

func TestNULByteSourceRejected(t *testing.T) {
	c := compile(t, symbols.Mapping{"λ": "lambda"})

	_, err := Run("λ x\x00y", c, threat.NewDefault(), false)
	if !errors.Is(err, ErrNULSource) {
		t.Fatalf("expected ErrNULSource, got %v", err)
	}
}

func TestNULByteSourcePassesFastPath(t *testing.T) {
	// No-op idempotence holds for all inputs: when no symbol byte occurs,
	// the pipeline never runs and NUL-bearing source passes through as-is.
	c := compile(t, symbols.Mapping{"λ": "lambda"})

	res, err := Run("plain\x00text", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Skipped || res.Output != "plain\x00text" {
		t.Errorf("expected untouched fast-path output, got %+v", res)
	}
}

func TestNoRecursiveExpansion(t *testing.T) {
	c := compile(t, symbols.Mapping{"a": "b", "b": "c"})

	out, err := Text("a b", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "b c" {
		t.Errorf("expected single-pass substitution, got %q", out)
	}
}

func TestEmptyMappingIsIdentity(t *testing.T) {
	c := compile(t, symbols.Mapping{})

	res, err := Run("anything # at all\n'even this'", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Skipped {
		t.Error("expected fast-path skip")
	}
	if res.Output != "anything # at all\n'even this'" {
		t.Errorf("expected identity, got %q", res.Output)
	}
}

func TestFastPathEquivalence(t *testing.T) {
	c := compile(t, symbols.Mapping{"≥": ">="})

	// No symbol byte present: skipped, output identical.
	res, err := Run("plain text only", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Skipped || res.Output != "plain text only" {
		t.Errorf("expected skip with identity output, got %+v", res)
	}

	// Symbol present: full pipeline.
	res, err = Run("a ≥ b", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Skipped || res.Output != "a >= b" {
		t.Errorf("expected substitution, got %+v", res)
	}
}

func TestMatchCount(t *testing.T) {
	c := compile(t, symbols.Mapping{"π": "print"})

	res, err := Run("π(1)\nπ(2)\nπ(3)\n", c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Matches != 3 {
		t.Errorf("expected 3 matches, got %d", res.Matches)
	}
}

func TestMixedDocument(t *testing.T) {
	c := compile(t, symbols.Mapping{
		"ƒ": "def", "⟲": "return", "¿": "if", "≥": ">=",
	})
	src := "ƒ clamp(x):\n    # ≥ guard\n    ¿ x ≥ 10:\n        ⟲ \"x ≥ 10\"\n    ⟲ x\n"
	want := "def clamp(x):\n    # ≥ guard\n    if x >= 10:\n        return \"x ≥ 10\"\n    return x\n"

	out, err := Text(src, c, threat.NewDefault(), false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", out, want)
	}
}

func BenchmarkRun(b *testing.B) {
	c := compile(b, symbols.Mapping{
		"ƒ": "def", "λ": "lambda", "π": "print", "∀": "for", "∈": "in",
		"¿": "if", "≥": ">=", "⟲": "return",
	})
	det := threat.NewDefault()
	src := strings.Repeat("∀ item ∈ items:\n    ¿ item ≥ limit:  # guard\n        π('item', item)\n", 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(src, c, det, false); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(len(src)))
}
