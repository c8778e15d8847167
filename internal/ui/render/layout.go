package render

import (
	"strings"

	"github.com/kk-code-lab/mdsync/internal/textutil"
)

const (
	headerRows = 1
	footerRows = 2 // status line + help line
)

// BodyHeight is the number of document rows visible on a screen of height h.
func BodyHeight(h int) int {
	return max(h-headerRows-footerRows, 1)
}

// ScrollTop returns the first visible line (0-indexed) that keeps cursorLine
// on screen, moving as little as possible from top.
func ScrollTop(top, cursorLine, height int) int {
	if height < 1 {
		height = 1
	}
	if cursorLine < top {
		return max(cursorLine, 0)
	}
	if cursorLine >= top+height {
		return cursorLine - height + 1
	}
	return max(top, 0)
}

// OffsetAt maps a screen cell inside the document body back to a byte offset
// in source. Rows below the last line land on the end of the text; columns
// past the line end land on the line end. A click on the right half of a wide
// cell selects the character itself, never the one after it.
func OffsetAt(source string, top, x, y, tabWidth int) int {
	line := top + y - headerRows
	if line < 0 {
		return 0
	}
	start := textutil.LineColToByteOffset(source, line, 0)
	if strings.Count(source, "\n") < line {
		return len(source)
	}
	end := len(source)
	if i := strings.IndexByte(source[start:], '\n'); i >= 0 {
		end = start + i
	}

	column := 0
	for off := start; off < end; {
		next := textutil.NextGraphemeBoundary(source, off)
		if next > end {
			next = end
		}
		width := textutil.DisplayWidth(source[off:next])
		if source[off] == '\t' && tabWidth > 0 {
			width = tabWidth - (column % tabWidth)
		}
		if x < column+width {
			return off
		}
		column += width
		off = next
	}
	return end
}
