package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const DefaultTabWidth = 4

// ExpandTabs replaces tab characters with spaces respecting terminal column width.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			spaces := tabWidth - (column % tabWidth)
			builder.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		builder.WriteRune(ru)
		column += runeCells(ru)
	}
	return builder.String()
}

// DisplayWidth reports the printable width of text, measuring whole grapheme
// clusters so emoji sequences count as a single wide cell pair.
func DisplayWidth(text string) int {
	return uniseg.StringWidth(text)
}

// DisplayColumn returns the terminal cell column of byte offset off within its
// line, expanding tabs to tabWidth stops. The offset is floored to a character
// boundary first.
func DisplayColumn(text string, off, tabWidth int) int {
	start, _ := LineBounds(text, off)
	off = FloorCharBoundary(text, off)
	column := 0
	for _, ru := range text[start:off] {
		if ru == '\t' && tabWidth > 0 {
			column += tabWidth - (column % tabWidth)
			continue
		}
		column += runeCells(ru)
	}
	return column
}

// TruncateWidth shortens text to at most width cells, appending tail when cut.
func TruncateWidth(text string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, tail)
}

func runeCells(ru rune) int {
	w := runewidth.RuneWidth(ru)
	if w < 1 {
		w = 1
	}
	return w
}
