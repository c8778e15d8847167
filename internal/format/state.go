package format

import (
	"regexp"
	"strings"

	"github.com/kk-code-lab/mdsync/internal/markdown"
	"github.com/kk-code-lab/mdsync/internal/textutil"
)

// State describes the formatting around a cursor, for toolbar reflection.
// HeadingLevel is 0 outside headings.
type State struct {
	Bold          bool
	Italic        bool
	InlineCode    bool
	Strikethrough bool
	Link          bool
	Image         bool
	CodeBlock     bool
	HeadingLevel  markdown.HeadingLevel
	BulletList    bool
	NumberedList  bool
	Blockquote    bool
}

var linkPattern = regexp.MustCompile(`!?\[[^\]\n]*\]\([^)\n]*\)`)

// Detect reports the formatting state at a byte cursor. Line-level state is
// read from the cursor's line; fenced code is tracked by counting fences from
// the start of the buffer. Inline state is a same-line heuristic: an odd
// number of delimiters before the cursor and at least one after it.
func Detect(text string, cursor int) State {
	cursor = textutil.FloorCharBoundary(text, cursor)
	lineStart, lineEnd := textutil.LineBounds(text, cursor)
	line := text[lineStart:lineEnd]
	trimmed := markdown.TrimIndent(line)

	var st State
	if level, ok := markdown.ATXHeadingLevel(trimmed); ok {
		st.HeadingLevel = level
	}
	st.Blockquote = strings.HasPrefix(trimmed, "> ")
	st.BulletList = markdown.IsBulletItem(trimmed)
	st.NumberedList = markdown.IsOrderedItem(trimmed)
	st.CodeBlock = insideFence(text[:cursor])

	before := text[lineStart:cursor]
	after := text[cursor:lineEnd]
	st.Bold = balancedMarker(before, after, "**")
	st.Italic = !st.Bold && balancedMarker(before, after, "*")
	st.InlineCode = !st.CodeBlock && balancedMarker(before, after, "`")
	st.Strikethrough = balancedMarker(before, after, "~~")

	col := cursor - lineStart
	for _, loc := range linkPattern.FindAllStringIndex(line, -1) {
		if col > loc[0] && col < loc[1] {
			if line[loc[0]] == '!' {
				st.Image = true
			} else {
				st.Link = true
			}
			break
		}
	}
	return st
}

// Active reports whether cmd is already in effect for this state.
func (s State) Active(cmd Command) bool {
	switch cmd.Kind {
	case KindBold:
		return s.Bold
	case KindItalic:
		return s.Italic
	case KindInlineCode:
		return s.InlineCode
	case KindStrikethrough:
		return s.Strikethrough
	case KindLink:
		return s.Link
	case KindImage:
		return s.Image
	case KindCodeBlock:
		return s.CodeBlock
	case KindHeading:
		return s.HeadingLevel != 0 && s.HeadingLevel == markdown.ClampHeadingLevel(cmd.Level)
	case KindBulletList:
		return s.BulletList
	case KindNumberedList:
		return s.NumberedList
	case KindBlockquote:
		return s.Blockquote
	default:
		return false
	}
}

func insideFence(before string) bool {
	in := false
	for _, line := range strings.Split(before, "\n") {
		if markdown.IsFenceLine(line) {
			in = !in
		}
	}
	return in
}

func balancedMarker(before, after, marker string) bool {
	return strings.Count(before, marker)%2 == 1 && strings.Contains(after, marker)
}
