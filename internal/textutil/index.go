package textutil

import (
	"strings"
	"unicode/utf8"
)

// CharToByteIndex converts a character (rune) index into a byte offset.
// Indices beyond the text return len(s).
func CharToByteIndex(s string, charIdx int) int {
	if charIdx <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == charIdx {
			return i
		}
		n++
	}
	return len(s)
}

// ByteToCharIndex counts the characters before byteIdx. A byteIdx inside a
// multi-byte character counts up to, not including, that character.
func ByteToCharIndex(s string, byteIdx int) int {
	return utf8.RuneCountInString(s[:FloorCharBoundary(s, byteIdx)])
}

// CharIndexToLineCol converts a character index into a 0-indexed (line, column)
// pair, columns counted in characters.
func CharIndexToLineCol(s string, charIdx int) (int, int) {
	line, col, n := 0, 0, 0
	for _, r := range s {
		if n >= charIdx {
			break
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		n++
	}
	return line, col
}

// LineColToCharIndex converts a 0-indexed (line, column) pair to a character
// index. A column past the end of its line lands on the line end; a line past
// the end of the text returns the total character count.
func LineColToCharIndex(s string, line, col int) int {
	curLine, curCol, n := 0, 0, 0
	for _, r := range s {
		if curLine == line && curCol == col {
			return n
		}
		if r == '\n' {
			if curLine == line {
				return n
			}
			curLine++
			curCol = 0
		} else if curLine == line {
			curCol++
		}
		n++
	}
	return n
}

// LineToCharIndex returns the character index of the first character on the
// 1-indexed line. Lines past the end return the character count of s.
func LineToCharIndex(s string, line int) int {
	if line <= 1 {
		return 0
	}
	cur, n := 1, 0
	for _, r := range s {
		n++
		if r == '\n' {
			cur++
			if cur >= line {
				return n
			}
		}
	}
	return n
}

// ByteOffsetToLineCol converts a byte offset into a 0-indexed line and a byte
// column within that line. The offset is floored to a character boundary.
func ByteOffsetToLineCol(s string, off int) (int, int) {
	off = FloorCharBoundary(s, off)
	before := s[:off]
	line := strings.Count(before, "\n")
	col := off - (strings.LastIndexByte(before, '\n') + 1)
	return line, col
}

// LineColToByteOffset converts a 0-indexed line and byte column into an
// absolute byte offset. Columns are clamped to the line and floored to a
// character boundary; lines past the end return len(s).
func LineColToByteOffset(s string, line, col int) int {
	start := 0
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(s[start:], '\n')
		if nl < 0 {
			return len(s)
		}
		start += nl + 1
	}
	end := len(s)
	if nl := strings.IndexByte(s[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	if col < 0 {
		col = 0
	}
	off := start + col
	if off > end {
		off = end
	}
	return FloorCharBoundary(s, off)
}

// LineBounds returns the byte offsets of the start and end (exclusive, before
// the newline) of the line containing off.
func LineBounds(s string, off int) (int, int) {
	off = FloorCharBoundary(s, off)
	start := strings.LastIndexByte(s[:off], '\n') + 1
	end := len(s)
	if nl := strings.IndexByte(s[off:], '\n'); nl >= 0 {
		end = off + nl
	}
	return start, end
}
