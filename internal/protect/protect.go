// Package protect extracts string literals and comments from source text,
// replacing each with a numbered placeholder so that substitution never
// touches literal content, and restores them afterwards byte-for-byte.
package protect

import (
	"fmt"
	"strconv"
	"strings"
)

// Span is one extracted literal/comment region. Spans are numbered in
// first-to-last textual order and consumed exactly once during restore.
type Span struct {
	Index int
	Text  string
}

// Protected pairs the placeholder-substituted text with its spans.
type Protected struct {
	Text  string
	Spans []Span
}

// RestoreError reports a placeholder that could not be found during
// restoration. Protection and restoration are driven by the same span list,
// so this indicates a defect, not a recoverable input condition.
type RestoreError struct {
	Index int
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("protect: placeholder %d missing during restore", e.Index)
}

// Placeholder returns the marker inserted for span i. NUL delimiters keep
// the marker out of the space of text that can occur in a code region.
func Placeholder(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}

// stringPrefix reports whether b is a raw/byte/unicode/format string prefix
// letter.
func stringPrefix(b byte) bool {
	switch b {
	case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
		return true
	}
	return false
}

// Extract scans source left to right under the source language's lexical
// rules and lifts every string literal and line comment into a span.
// Scanning is first-rule-wins; a triple-quote opener is checked before the
// single-quote rule since the former is a valid prefix of the latter.
// An unterminated literal or comment at end-of-input is still protected up
// to end-of-input.
func Extract(source string) Protected {
	var out strings.Builder
	var spans []Span

	emit := func(text string) {
		spans = append(spans, Span{Index: len(spans), Text: text})
		out.WriteString(Placeholder(len(spans) - 1))
	}

	i := 0
	for i < len(source) {
		c := source[i]

		// Line comment: marker through end of line, newline stays code.
		if c == '#' {
			end := i
			for end < len(source) && source[end] != '\n' {
				end++
			}
			emit(source[i:end])
			i = end
			continue
		}

		// String start, with up to two prefix letters before the quote.
		// A prefix glued to a preceding identifier byte is ordinary code.
		start := i
		j := i
		if stringPrefix(c) && (i == 0 || !identByte(source[i-1])) {
			j++
			if j < len(source) && stringPrefix(source[j]) {
				j++
			}
		}
		if j < len(source) && (source[j] == '"' || source[j] == '\'') {
			end := scanString(source, j)
			emit(source[start:end])
			i = end
			continue
		}

		out.WriteByte(c)
		i++
	}

	return Protected{Text: out.String(), Spans: spans}
}

// scanString returns the index just past the string literal opening at
// `open` (which indexes the first quote byte). Escaped quotes do not close
// the literal. A single-line literal ends at an unescaped closing quote,
// at a newline (unterminated), or at end-of-input. A triple-quoted literal
// ends at its closer or at end-of-input.
func scanString(source string, open int) int {
	q := source[open]
	triple := strings.HasPrefix(source[open:], strings.Repeat(string(q), 3))

	if triple {
		closer := strings.Repeat(string(q), 3)
		i := open + 3
		for i < len(source) {
			if source[i] == '\\' {
				i += 2
				continue
			}
			if strings.HasPrefix(source[i:], closer) {
				return i + 3
			}
			i++
		}
		return len(source)
	}

	i := open + 1
	for i < len(source) {
		switch source[i] {
		case '\\':
			i += 2
		case q:
			return i + 1
		case '\n':
			// Unterminated at end of line: the literal token stops here
			// and the newline stays code.
			return i
		default:
			i++
		}
	}
	return len(source)
}

// Restore inverts Extract: it replaces each placeholder with its original
// span text, in index order, in a single left-to-right pass. Restored
// content is written out, never rescanned, so a span whose text happens to
// resemble a placeholder cannot corrupt later restores. The input's code
// regions must carry placeholders as their only NUL-bearing tokens; callers
// that rewrite code regions with text that may itself contain NUL must
// restore positionally instead, the way the substitution engine does.
func Restore(text string, spans []Span) (string, error) {
	var b strings.Builder
	rest := text
	for _, sp := range spans {
		ph := Placeholder(sp.Index)
		idx := strings.Index(rest, ph)
		if idx < 0 {
			return "", &RestoreError{Index: sp.Index}
		}
		b.WriteString(rest[:idx])
		b.WriteString(sp.Text)
		rest = rest[idx+len(ph):]
	}
	b.WriteString(rest)
	return b.String(), nil
}

func identByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
