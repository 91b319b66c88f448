// Package transpile runs the protect → substitute → restore pipeline over a
// source document using a compiled symbol matcher and a threat detector.
package transpile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Varietyz/phigo-transpiler/internal/protect"
	"github.com/Varietyz/phigo-transpiler/internal/symbols"
	"github.com/Varietyz/phigo-transpiler/internal/threat"
)

// ErrNULSource is returned when the pipeline would run over source text
// containing a NUL byte. NUL delimits placeholders, so a raw NUL in a code
// region would corrupt the segment walk; rejecting it keeps the contract
// explicit instead of silently mis-substituting.
var ErrNULSource = errors.New("transpile: source contains a NUL byte")

// SecurityBlockedError is returned when a substitution's replacement text
// matches the threat denylist. The whole call fails; no partial output is
// produced.
type SecurityBlockedError struct {
	Symbol      string
	Replacement string
	Pattern     string
}

func (e *SecurityBlockedError) Error() string {
	return fmt.Sprintf("transpile blocked: replacement for %q matches dangerous pattern %q", e.Symbol, e.Pattern)
}

// Result describes a completed transpilation.
type Result struct {
	Output  string
	Matches int
	Skipped bool // fast path: no symbol byte present, pipeline not run
}

// Run transpiles source. With bypass=false a dangerous replacement aborts
// the call with *SecurityBlockedError; with bypass=true the detector never
// blocks. Source containing a NUL byte is rejected with ErrNULSource unless
// the fast path already proves no substitution can occur.
func Run(source string, c *symbols.Compiled, det *threat.Detector, bypass bool) (Result, error) {
	// Cheap single-pass precheck: if no byte of any symbol occurs in the
	// source, no symbol can match and the pipeline is skipped outright.
	// Behaviorally identical to running it.
	if c.Empty() || !c.MayContain(source) {
		return Result{Output: source, Skipped: true}, nil
	}

	if strings.Contains(source, "\x00") {
		return Result{}, ErrNULSource
	}

	p := protect.Extract(source)

	// Placeholders are \x00-delimited and the source is NUL-free, so
	// splitting the protected text on NUL alternates code segments (even
	// indices) with placeholder indices (odd indices). Substitution and
	// restoration happen in one walk: each code segment is substituted,
	// each placeholder is replaced by its span text directly. Restoring by
	// position rather than by searching the substituted output means a
	// replacement value that resembles a placeholder token cannot capture
	// a later span.
	segs := strings.Split(p.Text, "\x00")
	var b strings.Builder
	matches := 0
	for i, seg := range segs {
		if i%2 == 1 {
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(p.Spans) {
				// Placeholders are machine-generated from NUL-free source;
				// a bad index is a defect in the protector, not user input.
				return Result{}, fmt.Errorf("transpile: malformed placeholder %q", seg)
			}
			b.WriteString(p.Spans[idx].Text)
			continue
		}
		out, n, err := substitute(seg, c, det, bypass)
		if err != nil {
			return Result{}, err
		}
		b.WriteString(out)
		matches += n
	}

	return Result{Output: b.String(), Matches: matches}, nil
}

// Text is Run reduced to the output string.
func Text(source string, c *symbols.Compiled, det *threat.Detector, bypass bool) (string, error) {
	r, err := Run(source, c, det, bypass)
	if err != nil {
		return "", err
	}
	return r.Output, nil
}

// substitute replaces symbol occurrences left to right, non-overlapping.
// A matched span is fully consumed; replacement text is never rescanned,
// so replacements do not expand recursively.
func substitute(text string, c *symbols.Compiled, det *threat.Detector, bypass bool) (string, int, error) {
	var b strings.Builder
	pos := 0
	n := 0
	for {
		m, ok := c.Find(text, pos)
		if !ok {
			break
		}
		repl, known := c.Replacement(m.Symbol)
		if !known {
			// The matcher only reports configured symbols; a miss here is
			// a defect in the matcher, not a user error.
			return "", 0, fmt.Errorf("transpile: matcher reported unknown symbol %q", m.Symbol)
		}
		if !bypass {
			if pat, hit := det.Match(repl); hit {
				return "", 0, &SecurityBlockedError{Symbol: m.Symbol, Replacement: repl, Pattern: pat}
			}
		}
		b.WriteString(text[pos:m.Start])
		b.WriteString(repl)
		pos = m.End
		n++
	}
	b.WriteString(text[pos:])
	return b.String(), n, nil
}
