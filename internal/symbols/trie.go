package symbols

// trieMatcher walks a byte trie at each scan position and keeps the deepest
// terminal whose boundary rule holds, so the longest valid symbol wins even
// when a shorter symbol with a different boundary rule matches at the same
// position.
type trieMatcher struct {
	root *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	terminal bool
	word     bool // boundary rule applies to this symbol
}

func newTrieMatcher(keys []string) *trieMatcher {
	root := &trieNode{children: make(map[byte]*trieNode)}
	for _, k := range keys {
		node := root
		for i := 0; i < len(k); i++ {
			child := node.children[k[i]]
			if child == nil {
				child = &trieNode{children: make(map[byte]*trieNode)}
				node.children[k[i]] = child
			}
			node = child
		}
		node.terminal = true
		node.word = isWordSymbol(k)
	}
	return &trieMatcher{root: root}
}

func (m *trieMatcher) next(text string, from int) (Match, bool) {
	for i := from; i < len(text); i++ {
		node := m.root
		best := -1
		for j := i; j < len(text); j++ {
			node = node.children[text[j]]
			if node == nil {
				break
			}
			if node.terminal && (!node.word || wordBoundaryOK(text, i, j+1)) {
				best = j + 1
			}
		}
		if best >= 0 {
			return Match{Symbol: text[i:best], Start: i, End: best}, true
		}
	}
	return Match{}, false
}

// wordBoundaryOK reports whether [start,end) is not flanked by ASCII word
// bytes in the full text.
func wordBoundaryOK(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}
