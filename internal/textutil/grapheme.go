package textutil

import "github.com/rivo/uniseg"

// NextGraphemeBoundary returns the byte offset just past the grapheme cluster
// that starts at or contains off. At the end of text it returns len(text).
func NextGraphemeBoundary(text string, off int) int {
	off = FloorCharBoundary(text, off)
	pos := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := pos + len(cluster)
		if next > off {
			return next
		}
		pos = next
	}
	return len(text)
}

// PrevGraphemeBoundary returns the byte offset where the grapheme cluster
// ending before off begins. At the start of text it returns 0.
func PrevGraphemeBoundary(text string, off int) int {
	off = CeilCharBoundary(text, off)
	pos := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := pos + len(cluster)
		if next >= off {
			return pos
		}
		pos = next
	}
	return pos
}
