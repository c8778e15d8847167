package markdown

import (
	"fmt"
	"math"
	"strings"
)

// OutlineItem is one heading in a document outline.
type OutlineItem struct {
	Index  int
	Level  HeadingLevel
	Title  string
	Line   int // 1-indexed
	Offset int // byte offset of the heading line
}

// Outline lists the headings of a document in order.
type Outline struct {
	Items           []OutlineItem
	ReadTimeMinutes int
}

const wordsPerMinute = 200

// ExtractOutline builds the outline from a parsed tree. Headings inside code
// blocks are never reported because they are not heading nodes.
func ExtractOutline(t *Tree) Outline {
	var out Outline
	lineOffsets := lineStartOffsets(t.Source)
	for _, h := range t.Headings() {
		heading := h.Type.(Heading)
		offset := 0
		if h.StartLine-1 < len(lineOffsets) {
			offset = lineOffsets[h.StartLine-1]
		}
		out.Items = append(out.Items, OutlineItem{
			Index:  len(out.Items),
			Level:  heading.Level,
			Title:  strings.TrimSpace(h.TextContent()),
			Line:   h.StartLine,
			Offset: offset,
		})
	}
	words := len(strings.Fields(t.Source))
	out.ReadTimeMinutes = max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
	return out
}

func lineStartOffsets(s string) []int {
	offsets := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func (o Outline) Empty() bool {
	return len(o.Items) == 0
}

// LevelCounts returns the number of headings per level, H1 first.
func (o Outline) LevelCounts() [6]int {
	var counts [6]int
	for _, item := range o.Items {
		if item.Level >= 1 && item.Level <= 6 {
			counts[item.Level-1]++
		}
	}
	return counts
}

// Summary renders counts like "1 H1, 3 H2".
func (o Outline) Summary() string {
	var parts []string
	for i, n := range o.LevelCounts() {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d H%d", n, i+1))
		}
	}
	if len(parts) == 0 {
		return "No headings"
	}
	return strings.Join(parts, ", ")
}

// CurrentSection returns the index of the last heading starting at or before
// line, or -1 when line precedes every heading.
func (o Outline) CurrentSection(line int) int {
	current := -1
	for i, item := range o.Items {
		if item.Line > line {
			break
		}
		current = i
	}
	return current
}

// HasChildren reports whether the heading at index is followed by a deeper one.
func (o Outline) HasChildren(index int) bool {
	if index < 0 || index+1 >= len(o.Items) {
		return false
	}
	return o.Items[index+1].Level > o.Items[index].Level
}
