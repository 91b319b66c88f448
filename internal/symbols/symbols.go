// Package symbols compiles a symbol→replacement mapping into a matcher that
// finds non-overlapping occurrences with longest-match priority.
package symbols

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Mapping is the configured symbol→replacement table. Keys are non-empty;
// values are arbitrary replacement text.
type Mapping map[string]string

// Keys returns the symbols sorted by descending length, ties broken
// lexicographically. This is the priority order used by both matcher
// strategies: when two symbols could match at the same position, the
// longer one wins.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Merge overlays other onto m, other's entries winning on collision.
func (m Mapping) Merge(other Mapping) Mapping {
	out := make(Mapping, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// ParseJSON decodes a JSON object of symbol→replacement pairs. Duplicate
// keys in the document collapse to the last occurrence, which is the
// behavior of encoding/json and the documented contract of the tool.
func ParseJSON(data []byte) (Mapping, error) {
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("symbols: parse JSON mapping: %w", err)
	}
	return m, nil
}

// ParseYAML decodes a YAML mapping of symbol→replacement pairs.
func ParseYAML(data []byte) (Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("symbols: parse YAML mapping: %w", err)
	}
	return m, nil
}

// LoadFile reads a mapping from a .json, .yaml or .yml file.
func LoadFile(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("symbols: read %s: %w", path, err)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// isWordSymbol reports whether a symbol consists entirely of ASCII letters,
// digits, and underscores. Such symbols match only at word boundaries so
// that "if" never fires inside "gift". Symbols with any other byte
// (operator glyphs, punctuation, non-ASCII glyphs) match as plain
// substrings, since symbolic operators legitimately abut other tokens.
func isWordSymbol(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) {
			return false
		}
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
