package format

import (
	"strconv"
	"strings"

	"github.com/kk-code-lab/mdsync/internal/markdown"
	"github.com/kk-code-lab/mdsync/internal/textutil"
)

// Selection is a byte range into the buffer. Start may exceed End and either
// end may fall inside a multi-byte character; Apply normalises both.
type Selection struct {
	Start int
	End   int
}

// Empty reports whether the selection is a bare cursor.
func (s Selection) Empty() bool {
	return s.Start == s.End
}

// Result is the outcome of a formatting command. Text is always the complete
// buffer. Applied is false when formatting was removed or nothing happened.
type Result struct {
	Text      string
	Cursor    int
	Selection *Selection
	Applied   bool
}

func withCursor(text string, cursor int) Result {
	return Result{Text: text, Cursor: cursor, Applied: true}
}

func withSelection(text string, start, end int) Result {
	return Result{Text: text, Cursor: end, Selection: &Selection{Start: start, End: end}, Applied: true}
}

func (r Result) toggledOff() Result {
	r.Applied = false
	return r
}

// Apply runs cmd against text. A nil selection places the cursor at the end of
// the buffer. Offsets are bytes and are snapped onto character boundaries
// before the buffer is touched, so any pair of integers is accepted.
func Apply(text string, sel *Selection, cmd Command) Result {
	start, end := len(text), len(text)
	if sel != nil {
		start, end = sel.Start, sel.End
	}
	// Checked before clamping: a bare cursor inside a multi-byte character
	// stays a bare cursor.
	if start == end && cmd.IsInline() {
		return withCursor(text, textutil.FloorCharBoundary(text, start)).toggledOff()
	}
	start, end = textutil.ClampRange(text, start, end)

	switch cmd.Kind {
	case KindBold:
		return applyInline(text, start, end, "**", "**")
	case KindItalic:
		return applyInline(text, start, end, "*", "*")
	case KindInlineCode:
		return applyInline(text, start, end, "`", "`")
	case KindStrikethrough:
		return applyInline(text, start, end, "~~", "~~")
	case KindLink:
		return applyLink(text, start, end, "[")
	case KindImage:
		return applyLink(text, start, end, "![")
	case KindCodeBlock:
		return applyCodeBlock(text, start, end)
	case KindHeading:
		return applyHeading(text, start, int(markdown.ClampHeadingLevel(cmd.Level)))
	case KindBulletList:
		return applyList(text, start, end, false)
	case KindNumberedList:
		return applyList(text, start, end, true)
	case KindBlockquote:
		return applyBlockquote(text, start, end)
	default:
		return withCursor(text, start).toggledOff()
	}
}

func applyInline(text string, start, end int, prefix, suffix string) Result {
	if start == end {
		return withCursor(text, start).toggledOff()
	}
	selected := text[start:end]

	if len(selected) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(selected, prefix) && strings.HasSuffix(selected, suffix) {
		inner := selected[len(prefix) : len(selected)-len(suffix)]
		return withSelection(text[:start]+inner+text[end:], start, start+len(inner)).toggledOff()
	}

	if strings.HasSuffix(text[:start], prefix) && strings.HasPrefix(text[end:], suffix) {
		outer := start - len(prefix)
		updated := text[:outer] + selected + text[end+len(suffix):]
		return withSelection(updated, outer, outer+len(selected)).toggledOff()
	}

	updated := text[:start] + prefix + selected + suffix + text[end:]
	return withCursor(updated, start+len(prefix)+len(selected)+len(suffix))
}

const urlPlaceholder = "url"

func applyLink(text string, start, end int, prefix string) Result {
	if start == end {
		return withCursor(text, start).toggledOff()
	}
	selected := text[start:end]
	updated := text[:start] + prefix + selected + "](" + urlPlaceholder + ")" + text[end:]
	urlStart := start + len(prefix) + len(selected) + 2
	return withSelection(updated, urlStart, urlStart+len(urlPlaceholder))
}

// coveredLines extends [start, end) to whole lines. A selection ending right
// after a newline does not pull in the following line.
func coveredLines(text string, start, end int) (int, int) {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	if end > start && text[end-1] == '\n' {
		end--
	}
	lineEnd := len(text)
	if i := strings.IndexByte(text[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}
	return lineStart, lineEnd
}

func applyCodeBlock(text string, start, end int) Result {
	lineStart, lineEnd := coveredLines(text, start, end)
	block := text[lineStart:lineEnd]
	lines := strings.Split(block, "\n")

	if len(lines) >= 2 && markdown.IsFenceLine(lines[0]) && markdown.IsClosingFence(lines[len(lines)-1]) {
		inner := strings.Join(lines[1:len(lines)-1], "\n")
		return withCursor(text[:lineStart]+inner+text[lineEnd:], lineStart).toggledOff()
	}

	updated := text[:lineStart] + "```\n" + block + "\n```" + text[lineEnd:]
	return withCursor(updated, lineStart+3)
}

func applyHeading(text string, start, level int) Result {
	lineStart, lineEnd := textutil.LineBounds(text, start)
	trimmed := markdown.TrimIndent(text[lineStart:lineEnd])
	existing := markdown.HeadingHashes(trimmed)
	content := trimmed
	if existing > 0 {
		content = markdown.TrimIndent(trimmed[existing:])
	}

	if existing == level {
		return withCursor(text[:lineStart]+content+text[lineEnd:], lineStart).toggledOff()
	}

	line := strings.Repeat("#", level) + " " + content
	return withCursor(text[:lineStart]+line+text[lineEnd:], lineStart+len(line))
}

func applyList(text string, start, end int, numbered bool) Result {
	lineStart, lineEnd := coveredLines(text, start, end)
	lines := strings.Split(text[lineStart:lineEnd], "\n")

	isItem := markdown.IsBulletItem
	if numbered {
		isItem = markdown.IsOrderedItem
	}
	all := true
	for _, line := range lines {
		if !isItem(markdown.TrimIndent(line)) {
			all = false
			break
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		content := markdown.StripListMarker(markdown.TrimIndent(line))
		switch {
		case all:
			out[i] = content
		case numbered:
			out[i] = strconv.Itoa(i+1) + ". " + content
		default:
			out[i] = "- " + content
		}
	}
	return replaceLines(text, lineStart, lineEnd, out, all)
}

func applyBlockquote(text string, start, end int) Result {
	lineStart, lineEnd := coveredLines(text, start, end)
	lines := strings.Split(text[lineStart:lineEnd], "\n")

	all := true
	for _, line := range lines {
		if !strings.HasPrefix(markdown.TrimIndent(line), "> ") {
			all = false
			break
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if all {
			out[i] = strings.TrimPrefix(markdown.TrimIndent(line), "> ")
		} else {
			out[i] = "> " + line
		}
	}
	return replaceLines(text, lineStart, lineEnd, out, all)
}

// replaceLines swaps text[lineStart:lineEnd] for the joined lines and leaves
// the cursor at the end of the rewritten block.
func replaceLines(text string, lineStart, lineEnd int, lines []string, removed bool) Result {
	block := strings.Join(lines, "\n")
	res := withCursor(text[:lineStart]+block+text[lineEnd:], lineStart+len(block))
	if removed {
		return res.toggledOff()
	}
	return res
}
