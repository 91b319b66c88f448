package phigo

import "fmt"

// Result is a completed transpilation.
type Result struct {
	Output  string
	Matches int
}

// BlockedError is returned when a substitution's replacement text matches
// the threat denylist.
type BlockedError struct {
	Symbol      string
	Replacement string
	Pattern     string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("phigo blocked: replacement for %q matches dangerous pattern %q", e.Symbol, e.Pattern)
}
