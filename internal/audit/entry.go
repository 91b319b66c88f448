// Package audit writes an append-only, hash-chained JSONL record of
// transpile decisions and verifies chain integrity.
package audit

// Decision values recorded per transpile call.
const (
	DecisionOK      = "ok"
	DecisionBlocked = "blocked"
	DecisionError   = "error"
)

// Entry is one transpile call in the audit log.
type Entry struct {
	Timestamp      string `json:"ts"`
	SourceHash     string `json:"source_hash"`
	Profile        string `json:"profile,omitempty"`
	Symbols        int    `json:"symbols"`
	Matches        int    `json:"matches"`
	Decision       string `json:"decision"`
	BlockedSymbol  string `json:"blocked_symbol,omitempty"`
	BlockedPattern string `json:"blocked_pattern,omitempty"`
	Bypass         bool   `json:"bypass,omitempty"`
	DurationMS     int64  `json:"duration_ms"`
	PrevHash       string `json:"prev_hash"`
}
