package markdown

import (
	"strings"
	"unicode"
)

// MarkerKind classifies the structural prefix of a source line.
type MarkerKind int

const (
	MarkerNone MarkerKind = iota
	MarkerBullet
	MarkerTask
	MarkerOrdered
	MarkerQuote
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerBullet:
		return "bullet"
	case MarkerTask:
		return "task"
	case MarkerOrdered:
		return "ordered"
	case MarkerQuote:
		return "quote"
	default:
		return "none"
	}
}

// LineMarker is a recognised line prefix. Prefix holds the leading
// indentation, the marker and its trailing space exactly as written.
type LineMarker struct {
	Kind      MarkerKind
	Prefix    string
	Indent    string
	Bullet    byte
	Number    uint64
	Delimiter byte
	Checked   bool
}

// Marker returns the prefix without its indentation.
func (m LineMarker) Marker() string {
	return m.Prefix[len(m.Indent):]
}

// IsList reports whether the marker opens a list item.
func (m LineMarker) IsList() bool {
	return m.Kind == MarkerBullet || m.Kind == MarkerTask || m.Kind == MarkerOrdered
}

// TrimIndent strips leading Unicode whitespace.
func TrimIndent(line string) string {
	return strings.TrimLeftFunc(line, unicode.IsSpace)
}

// IsBlankLine reports whether line holds only whitespace.
func IsBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// ScanListMarker recognises task (`- [ ] `, `- [x] `), bullet (`- `, `* `,
// `+ `) and ordered (`12. `, `3) `) markers after optional indentation.
func ScanListMarker(line string) (LineMarker, bool) {
	trimmed := TrimIndent(line)
	indent := line[:len(line)-len(trimmed)]
	mk := func(kind MarkerKind, n int) LineMarker {
		return LineMarker{Kind: kind, Prefix: line[:len(indent)+n], Indent: indent}
	}

	for _, box := range [...]string{"- [ ] ", "- [x] ", "- [X] "} {
		if strings.HasPrefix(trimmed, box) {
			m := mk(MarkerTask, len(box))
			m.Bullet = '-'
			m.Checked = box[3] != ' '
			return m, true
		}
	}
	if len(trimmed) >= 2 && isBulletChar(trimmed[0]) && trimmed[1] == ' ' {
		m := mk(MarkerBullet, 2)
		m.Bullet = trimmed[0]
		return m, true
	}
	if n, num, delim, ok := scanOrdered(trimmed); ok {
		m := mk(MarkerOrdered, n)
		m.Number = num
		m.Delimiter = delim
		return m, true
	}
	return LineMarker{}, false
}

// ScanLineMarker is ScanListMarker extended with the blockquote marker `> `.
func ScanLineMarker(line string) (LineMarker, bool) {
	if m, ok := ScanListMarker(line); ok {
		return m, true
	}
	trimmed := TrimIndent(line)
	if strings.HasPrefix(trimmed, "> ") {
		indent := line[:len(line)-len(trimmed)]
		return LineMarker{Kind: MarkerQuote, Prefix: line[:len(indent)+2], Indent: indent}, true
	}
	return LineMarker{}, false
}

// SplitLinePrefix returns the structural prefix of line and the content
// after it. Lines without a marker have an empty prefix.
func SplitLinePrefix(line string) (prefix, content string) {
	m, ok := ScanLineMarker(line)
	if !ok {
		return "", line
	}
	return m.Prefix, line[len(m.Prefix):]
}

// SplitListPrefix is SplitLinePrefix restricted to list markers.
func SplitListPrefix(line string) (prefix, content string) {
	m, ok := ScanListMarker(line)
	if !ok {
		return "", line
	}
	return m.Prefix, line[len(m.Prefix):]
}

// IsBulletItem reports whether an indentation-trimmed line starts with a
// bullet or task marker.
func IsBulletItem(trimmed string) bool {
	m, ok := ScanListMarker(trimmed)
	return ok && (m.Kind == MarkerBullet || m.Kind == MarkerTask)
}

// IsOrderedItem reports whether an indentation-trimmed line starts with an
// ordered list marker.
func IsOrderedItem(trimmed string) bool {
	_, _, _, ok := scanOrdered(trimmed)
	return ok
}

// StripListMarker removes a leading list marker from an indentation-trimmed
// line. Lines without one are returned unchanged.
func StripListMarker(trimmed string) string {
	m, ok := ScanListMarker(trimmed)
	if !ok || m.Indent != "" {
		return trimmed
	}
	return trimmed[len(m.Prefix):]
}

// HeadingHashes counts the `#` run that opens an indentation-trimmed line.
func HeadingHashes(trimmed string) int {
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	return n
}

// ATXHeadingLevel reports the level of an ATX heading line: one to six `#`
// followed by a space.
func ATXHeadingLevel(line string) (HeadingLevel, bool) {
	trimmed := TrimIndent(line)
	n := HeadingHashes(trimmed)
	if n < 1 || n > 6 || n >= len(trimmed) || trimmed[n] != ' ' {
		return 0, false
	}
	return HeadingLevel(n), true
}

// IsFenceLine reports whether a line opens or closes a backtick fence.
func IsFenceLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

// IsClosingFence reports whether line is a bare backtick fence.
func IsClosingFence(line string) bool {
	return strings.TrimSpace(line) == "```"
}

// fenceRun returns the fence character and run length when line opens a
// backtick or tilde fence of at least three characters.
func fenceRun(line string) (byte, int) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return 0, 0
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return 0, 0
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0
	}
	return ch, n
}

func isBulletChar(c byte) bool {
	return c == '-' || c == '*' || c == '+'
}

// scanOrdered matches `<digits><.|)> ` and returns the marker width.
// maxOrderedDigits is the longest number an ordered list marker may carry.
const maxOrderedDigits = 9

func scanOrdered(trimmed string) (width int, number uint64, delim byte, ok bool) {
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		if i == maxOrderedDigits {
			return 0, 0, 0, false
		}
		number = number*10 + uint64(trimmed[i]-'0')
		i++
	}
	if i == 0 || i+1 >= len(trimmed) {
		return 0, 0, 0, false
	}
	if trimmed[i] != '.' && trimmed[i] != ')' {
		return 0, 0, 0, false
	}
	if trimmed[i+1] != ' ' {
		return 0, 0, 0, false
	}
	return i + 2, number, trimmed[i], true
}
