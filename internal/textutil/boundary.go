package textutil

// isCharStart reports whether b begins a UTF-8 sequence (anything but a
// 10xxxxxx continuation byte).
func isCharStart(b byte) bool {
	return b&0xC0 != 0x80
}

// FloorCharBoundary returns the largest index <= idx that lies on a character
// boundary of s. Indices past the end clamp to len(s), negative ones to 0.
func FloorCharBoundary(s string, idx int) int {
	if idx <= 0 {
		return 0
	}
	if idx >= len(s) {
		return len(s)
	}
	for idx > 0 && !isCharStart(s[idx]) {
		idx--
	}
	return idx
}

// CeilCharBoundary returns the smallest index >= idx that lies on a character
// boundary of s. Indices past the end clamp to len(s), negative ones to 0.
func CeilCharBoundary(s string, idx int) int {
	if idx <= 0 {
		return 0
	}
	if idx >= len(s) {
		return len(s)
	}
	for idx < len(s) && !isCharStart(s[idx]) {
		idx++
	}
	return idx
}

// IsCharBoundary reports whether slicing s at idx is safe. 0 and len(s) always are.
func IsCharBoundary(s string, idx int) bool {
	if idx <= 0 || idx >= len(s) {
		return idx == 0 || idx == len(s)
	}
	return isCharStart(s[idx])
}

// CharLenAt returns the byte length of the character starting at idx, or 0
// when idx is out of range or points into the middle of a character.
func CharLenAt(s string, idx int) int {
	if idx < 0 || idx >= len(s) {
		return 0
	}
	b := s[idx]
	switch {
	case !isCharStart(b):
		return 0
	case b < 0x80:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// ClampRange snaps a caller supplied byte range onto character boundaries.
// start is floored, end is ceiled, and the pair is swapped when reversed.
func ClampRange(s string, start, end int) (int, int) {
	start = FloorCharBoundary(s, start)
	end = CeilCharBoundary(s, end)
	if start > end {
		start, end = end, start
	}
	return start, end
}

// SafeSlice returns s[start:end] after flooring start and ceiling end. An empty
// string is returned when the adjusted range is empty or reversed.
func SafeSlice(s string, start, end int) string {
	start = FloorCharBoundary(s, start)
	end = CeilCharBoundary(s, end)
	if start >= end {
		return ""
	}
	return s[start:end]
}

// SafeSliceTo returns s[:end] with end floored to a boundary.
func SafeSliceTo(s string, end int) string {
	return s[:FloorCharBoundary(s, end)]
}

// SafeSliceFrom returns s[start:] with start ceiled to a boundary.
func SafeSliceFrom(s string, start int) string {
	return s[CeilCharBoundary(s, start):]
}
