package structure

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kk-code-lab/mdsync/internal/markdown"
	"github.com/kk-code-lab/mdsync/internal/textutil"
)

// splitAt cuts text at a byte offset snapped to a character boundary and
// trims the whitespace facing the cut.
func splitAt(text string, offset int) (before, after string) {
	cut := textutil.FloorCharBoundary(text, offset)
	return strings.TrimRightFunc(text[:cut], unicode.IsSpace), strings.TrimLeftFunc(text[cut:], unicode.IsSpace)
}

// SplitParagraph splits a paragraph at the cursor into two paragraphs
// separated by a blank line. The cursor lands at the start of the second.
func SplitParagraph(source string, ctx EditContext) StructuralEdit {
	if ctx.Kind != KindParagraph {
		return NoOp()
	}
	doc := splitSource(source)
	idx := lineIndex(ctx.StartLine)
	if idx >= len(doc.lines) {
		return NoOp()
	}
	before, after := splitAt(ctx.Text, ctx.CursorOffset)

	out := make([]string, 0, len(doc.lines)+2)
	out = append(out, doc.lines[:idx]...)
	if before != "" {
		out = append(out, strings.Split(before, "\n")...)
	}
	out = append(out, "")
	newLine := len(out) + 1
	out = append(out, strings.Split(after, "\n")...)
	if ctx.EndLine < len(doc.lines) {
		out = append(out, doc.lines[max(ctx.EndLine, idx+1):]...)
	}
	return success(doc.join(out), CursorPosition{Line: newLine, Hint: paragraphHint()})
}

// InsertParagraphAfter adds a blank separator and an empty paragraph line
// after the node's last line.
func InsertParagraphAfter(source string, ctx EditContext) StructuralEdit {
	doc := splitSource(source)
	end := min(max(ctx.EndLine, 0), len(doc.lines))

	out := make([]string, 0, len(doc.lines)+2)
	out = append(out, doc.lines[:end]...)
	out = append(out, "")
	newLine := len(out) + 1
	out = append(out, "")
	out = append(out, doc.lines[end:]...)
	return success(doc.join(out), CursorPosition{Line: newLine, Hint: paragraphHint()})
}

// HeadingEnter handles Enter inside a heading. Headings are never split; a new
// paragraph is opened below instead.
func HeadingEnter(source string, ctx EditContext) StructuralEdit {
	if ctx.Kind != KindHeading {
		return NoOp()
	}
	return InsertParagraphAfter(source, ctx)
}

// SplitListItem splits an item at the cursor. The first half keeps the
// original marker; the second half gets the next marker: the same bullet, a
// fresh unchecked box for tasks, or the previous number plus one. Items
// further down are not renumbered.
func SplitListItem(source string, ctx EditContext) StructuralEdit {
	if ctx.Kind != KindListItem {
		return NoOp()
	}
	doc := splitSource(source)
	idx := lineIndex(ctx.StartLine)
	if idx >= len(doc.lines) {
		return NoOp()
	}
	marker, ok := markdown.ScanListMarker(doc.lines[idx])
	if !ok {
		return NoOp()
	}
	before, after := splitAt(ctx.Text, ctx.CursorOffset)

	out := make([]string, 0, len(doc.lines)+1)
	out = append(out, doc.lines[:idx]...)
	out = append(out, marker.Prefix+before)
	newLine := len(out) + 1
	out = append(out, nextListMarker(marker)+after)
	out = append(out, doc.lines[idx+1:]...)

	lt := ctx.ListType
	if marker.Kind == markdown.MarkerOrdered && !lt.Ordered {
		lt = markdown.OrderedList(uint32(min(marker.Number, 1<<32-1)), marker.Delimiter)
	}
	return success(doc.join(out), CursorPosition{Line: newLine, Hint: listItemHint(lt, ctx.ItemIndex+1)})
}

// nextListMarker derives the following item's marker from the line itself,
// so the delimiter and bullet are kept verbatim.
func nextListMarker(m markdown.LineMarker) string {
	switch m.Kind {
	case markdown.MarkerOrdered:
		return m.Indent + strconv.FormatUint(m.Number+1, 10) + string(m.Delimiter) + " "
	case markdown.MarkerTask:
		return m.Indent + string(m.Bullet) + " [ ] "
	default:
		return m.Indent + string(m.Bullet) + " "
	}
}

// ExitListToParagraph replaces an empty item with a blank line and an empty
// paragraph, ending the list. Items with text are left alone.
func ExitListToParagraph(source string, ctx EditContext) StructuralEdit {
	if ctx.Kind != KindListItem || strings.TrimSpace(ctx.Text) != "" {
		return NoOp()
	}
	doc := splitSource(source)
	idx := lineIndex(ctx.StartLine)
	if idx >= len(doc.lines) {
		return NoOp()
	}

	out := make([]string, 0, len(doc.lines)+1)
	out = append(out, doc.lines[:idx]...)
	out = append(out, "")
	newLine := len(out) + 1
	out = append(out, "")
	out = append(out, doc.lines[idx+1:]...)
	return success(doc.join(out), CursorPosition{Line: newLine, Hint: paragraphHint()})
}

// MergeWithPreviousListItem handles Backspace at the start of an item. The
// item's text is appended to the previous item after a space. The first item
// of a list, or one that follows a non-item line, becomes a paragraph.
func MergeWithPreviousListItem(source string, ctx EditContext) StructuralEdit {
	if ctx.Kind != KindListItem || ctx.CursorOffset != 0 {
		return NoOp()
	}
	doc := splitSource(source)
	idx := lineIndex(ctx.StartLine)
	if idx >= len(doc.lines) {
		return NoOp()
	}
	if idx == 0 {
		return ConvertListItemToParagraph(source, ctx)
	}
	prevPrefix, prevContent := ExtractListPrefix(doc.lines[idx-1])
	if prevPrefix == "" {
		return ConvertListItemToParagraph(source, ctx)
	}

	head := strings.TrimRightFunc(prevContent, unicode.IsSpace)
	merged := prevContent
	if ctx.Text != "" {
		merged = head + " " + strings.TrimLeftFunc(ctx.Text, unicode.IsSpace)
	}

	out := make([]string, 0, len(doc.lines))
	out = append(out, doc.lines[:idx-1]...)
	out = append(out, prevPrefix+merged)
	mergedLine := len(out)
	out = append(out, doc.lines[idx+1:]...)

	cursor := CursorPosition{
		Line:   mergedLine,
		Offset: min(len(head)+1, len(merged)),
		Hint:   listItemHint(ctx.ListType, max(ctx.ItemIndex-1, 0)),
	}
	return success(doc.join(out), cursor)
}

// ConvertListItemToParagraph drops the item's marker, keeping its text as a
// plain paragraph line.
func ConvertListItemToParagraph(source string, ctx EditContext) StructuralEdit {
	if ctx.Kind != KindListItem {
		return NoOp()
	}
	doc := splitSource(source)
	idx := lineIndex(ctx.StartLine)
	if idx >= len(doc.lines) {
		return NoOp()
	}
	out := make([]string, 0, len(doc.lines))
	out = append(out, doc.lines[:idx]...)
	out = append(out, ctx.Text)
	line := len(out)
	out = append(out, doc.lines[idx+1:]...)
	return success(doc.join(out), CursorPosition{Line: line, Hint: paragraphHint()})
}

// IndentListItem nests an item one level deeper by adding two spaces of
// indentation in front of its marker.
func IndentListItem(source string, ctx EditContext) StructuralEdit {
	if ctx.Kind != KindListItem {
		return NoOp()
	}
	return reindent(source, ctx, 2)
}

// OutdentListItem removes two spaces of indentation. Top level items
// (NestingDepth 0) are never outdented, whatever their indentation.
func OutdentListItem(source string, ctx EditContext) StructuralEdit {
	if ctx.Kind != KindListItem || ctx.NestingDepth == 0 {
		return NoOp()
	}
	return reindent(source, ctx, -2)
}

// markdownTabStop is the tab width CommonMark uses for block indentation.
const markdownTabStop = 4

func reindent(source string, ctx EditContext, delta int) StructuralEdit {
	doc := splitSource(source)
	idx := lineIndex(ctx.StartLine)
	if idx >= len(doc.lines) {
		return NoOp()
	}
	m, ok := markdown.ScanListMarker(doc.lines[idx])
	if !ok {
		return NoOp()
	}
	width := max(utf8.RuneCountInString(textutil.ExpandTabs(m.Indent, markdownTabStop))+delta, 0)
	lines := append([]string(nil), doc.lines...)
	lines[idx] = strings.Repeat(" ", width) + m.Marker() + lines[idx][len(m.Prefix):]
	return success(doc.join(lines), CursorPosition{Line: ctx.StartLine, Offset: ctx.CursorOffset})
}
