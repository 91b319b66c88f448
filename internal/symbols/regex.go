package symbols

import (
	"regexp"
	"strings"
)

// regexMatcher scans with a single alternation. Alternatives are listed in
// descending key length and Go's regexp prefers the first alternative that
// matches, so the longer of two overlapping symbols always wins.
type regexMatcher struct {
	re *regexp.Regexp
}

func newRegexMatcher(keys []string) (*regexMatcher, error) {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		esc := regexp.QuoteMeta(k)
		if isWordSymbol(k) {
			esc = `\b` + esc + `\b`
		}
		parts = append(parts, esc)
	}
	re, err := regexp.Compile("(" + strings.Join(parts, "|") + ")")
	if err != nil {
		return nil, err
	}
	return &regexMatcher{re: re}, nil
}

func (m *regexMatcher) next(text string, from int) (Match, bool) {
	// The pattern's \b sees a word boundary at the start of a subslice even
	// when the full text has a word byte just before it, so a word-like
	// match flush against the scan position is re-checked here and skipped
	// if it actually sits inside a longer identifier.
	pos := from
	for pos < len(text) {
		loc := m.re.FindStringIndex(text[pos:])
		if loc == nil {
			return Match{}, false
		}
		start, end := pos+loc[0], pos+loc[1]
		sym := text[start:end]
		if loc[0] == 0 && pos > 0 && isWordSymbol(sym) && isWordByte(text[pos-1]) {
			pos = start + 1
			continue
		}
		return Match{Symbol: sym, Start: start, End: end}, true
	}
	return Match{}, false
}
