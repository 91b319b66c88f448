// Package threat flags replacement text that contains a denylisted
// dangerous construct. Matching is case-sensitive substring containment:
// the entries carry enough context (usually a trailing parenthesis) to keep
// false positives low without boundary logic.
package threat

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Patterns holds the raw denylist entries.
type Patterns struct {
	Constructs []string `yaml:"constructs"`
}

// Detector scans candidate replacement text against a fixed denylist.
// Immutable after construction; safe to share across concurrent calls.
type Detector struct {
	patterns []string
}

// New creates a Detector from raw patterns. Empty entries are dropped.
func New(p Patterns) *Detector {
	d := &Detector{}
	for _, c := range p.Constructs {
		if c != "" {
			d.patterns = append(d.patterns, c)
		}
	}
	return d
}

// NewDefault creates a Detector with the built-in default patterns.
func NewDefault() *Detector {
	return New(DefaultPatterns)
}

// Load reads a denylist from a YAML file. An empty path falls back to
// PHIGO_DENYLIST, then ~/.phigo/denylist.yaml; defaults apply when the file
// doesn't exist.
func Load(path string) (*Detector, error) {
	if path == "" {
		path = os.Getenv("PHIGO_DENYLIST")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return NewDefault(), nil
		}
		path = filepath.Join(home, ".phigo", "denylist.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, err
	}

	var p Patterns
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if len(p.Constructs) == 0 {
		p = DefaultPatterns
	}

	return New(p), nil
}

// IsDangerous reports whether text contains any denylisted construct.
func (d *Detector) IsDangerous(text string) bool {
	_, hit := d.Match(text)
	return hit
}

// Match returns the first denylisted construct contained in text.
func (d *Detector) Match(text string) (string, bool) {
	for _, p := range d.patterns {
		if strings.Contains(text, p) {
			return p, true
		}
	}
	return "", false
}

// Len returns the number of active patterns.
func (d *Detector) Len() int { return len(d.patterns) }
