package symbols

import "fmt"

// Strategy selects the matcher implementation. Both honor the same
// longest-match and word-boundary contract; they differ only in how the
// scan is executed.
type Strategy string

const (
	// StrategyRegex compiles one alternation with symbols sorted by
	// descending length. Default.
	StrategyRegex Strategy = "regex"
	// StrategyAutomaton walks a byte trie with explicit longest-match and
	// boundary logic. No pattern compilation involved.
	StrategyAutomaton Strategy = "automaton"
)

// CompileError reports a symbol set that cannot be compiled into a matcher.
type CompileError struct {
	Reason string
	Err    error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("symbols: %s: %v", e.Reason, e.Err)
	}
	return "symbols: " + e.Reason
}

func (e *CompileError) Unwrap() error { return e.Err }

// Match is one located occurrence of a configured symbol.
type Match struct {
	Symbol string
	Start  int
	End    int
}

// matcher finds the next symbol occurrence at or after from.
type matcher interface {
	next(text string, from int) (Match, bool)
}

// Compiled is the read-only result of compiling a Mapping. It is immutable
// after Compile returns and safe to share across concurrent calls.
type Compiled struct {
	mapping  Mapping
	matcher  matcher
	keyBytes [256]bool
	empty    bool
}

// Compile builds a Compiled matcher from the mapping. An empty mapping
// compiles to a matcher that matches nothing. An empty symbol, or a symbol
// set the chosen strategy cannot compile, yields a *CompileError and no
// matcher is installed.
func Compile(m Mapping, strategy Strategy) (*Compiled, error) {
	if len(m) == 0 {
		return &Compiled{mapping: Mapping{}, empty: true}, nil
	}

	for k := range m {
		if k == "" {
			return nil, &CompileError{Reason: "empty symbol key"}
		}
	}

	c := &Compiled{mapping: m}
	for k := range m {
		for i := 0; i < len(k); i++ {
			c.keyBytes[k[i]] = true
		}
	}

	keys := m.Keys()
	switch strategy {
	case StrategyAutomaton:
		c.matcher = newTrieMatcher(keys)
	case StrategyRegex, "":
		rm, err := newRegexMatcher(keys)
		if err != nil {
			return nil, &CompileError{Reason: "pattern compilation failed", Err: err}
		}
		c.matcher = rm
	default:
		return nil, &CompileError{Reason: fmt.Sprintf("unknown strategy %q", strategy)}
	}

	return c, nil
}

// Empty reports whether the mapping compiled to the match-nothing sentinel.
func (c *Compiled) Empty() bool { return c.empty }

// Len returns the number of configured symbols.
func (c *Compiled) Len() int { return len(c.mapping) }

// Keys returns the configured symbols in match-priority order.
func (c *Compiled) Keys() []string { return c.mapping.Keys() }

// Replacement returns the configured replacement for a symbol.
func (c *Compiled) Replacement(symbol string) (string, bool) {
	v, ok := c.mapping[symbol]
	return v, ok
}

// MayContain is the fast-path precheck: it scans the source once and
// reports whether any byte of any configured symbol occurs in it. A false
// result proves no symbol can match; a true result proves nothing. The
// table holds every distinct byte of every key, so unlike a high-bytes-only
// check it cannot produce a false negative for all-ASCII symbol sets.
func (c *Compiled) MayContain(source string) bool {
	if c.empty {
		return false
	}
	for i := 0; i < len(source); i++ {
		if c.keyBytes[source[i]] {
			return true
		}
	}
	return false
}

// Find returns the next symbol occurrence at or after from.
func (c *Compiled) Find(text string, from int) (Match, bool) {
	if c.empty || from >= len(text) {
		return Match{}, false
	}
	return c.matcher.next(text, from)
}
