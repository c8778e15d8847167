package session

import (
	"strings"

	"github.com/kk-code-lab/mdsync/internal/markdown"
	"github.com/kk-code-lab/mdsync/internal/structure"
	"github.com/kk-code-lab/mdsync/internal/textutil"
)

// FocusContext describes the node under the cursor for the structural engine.
func (s *Session) FocusContext() (structure.EditContext, bool) {
	line, col := s.Position()
	return s.FocusContextAt(line, col)
}

// FocusContextAt derives the EditContext for a 1-indexed line and a byte
// column. Text holds the node's raw source (inline markup included) with the
// line's list, quote or heading marker removed, and CursorOffset indexes it.
// It fails when the tree is unavailable or the line is outside any block.
func (s *Session) FocusContextAt(line, col int) (structure.EditContext, bool) {
	if s.tree == nil {
		return structure.EditContext{}, false
	}
	path := s.tree.Root.BlockAt(line)
	if len(path) < 2 {
		return structure.EditContext{}, false
	}
	raw := sourceLine(s.source, line)
	col = textutil.FloorCharBoundary(raw, col)

	for i := len(path) - 1; i > 0; i-- {
		n := path[i]
		switch t := n.Type.(type) {
		case markdown.Item, markdown.TaskItem:
			return listItemContext(path[:i+1], line, raw, col), true
		case markdown.Paragraph:
			if isItem(path[i-1]) {
				continue
			}
			kind := structure.KindParagraph
			if inQuote(path[:i]) {
				kind = structure.KindBlockQuote
			}
			return s.paragraphContext(n, kind, line, col), true
		case markdown.Heading:
			prefix := ""
			if !t.Setext {
				prefix = headingPrefix(raw)
			}
			return structure.EditContext{
				Kind:         structure.KindHeading,
				HeadingLevel: t.Level,
				StartLine:    n.StartLine,
				EndLine:      n.EndLine,
				CursorOffset: max(col-len(prefix), 0),
				Text:         strings.TrimRight(raw[len(prefix):], " \t"),
			}, true
		case markdown.CodeBlock:
			return structure.EditContext{
				Kind:      structure.KindCodeBlock,
				StartLine: n.StartLine,
				EndLine:   n.EndLine,
				Text:      t.Literal,
			}, true
		case markdown.TableCell, markdown.TableRow, markdown.Table:
			return structure.EditContext{
				Kind:         structure.KindTableCell,
				StartLine:    line,
				EndLine:      line,
				CursorOffset: col,
				Text:         raw,
			}, true
		case markdown.BlockQuote:
			return s.paragraphContext(n, structure.KindBlockQuote, line, col), true
		}
	}
	return structure.EditContext{}, false
}

func (s *Session) paragraphContext(n *markdown.Node, kind structure.NodeKind, line, col int) structure.EditContext {
	text := structure.ExtractParagraphContent(s.source, n.StartLine, n.EndLine)
	offset := col
	for l := n.StartLine; l < line; l++ {
		offset += len(sourceLine(s.source, l)) + 1
	}
	return structure.EditContext{
		Kind:         kind,
		StartLine:    n.StartLine,
		EndLine:      n.EndLine,
		CursorOffset: min(offset, len(text)),
		Text:         text,
	}
}

// listItemContext focuses a single line of the innermost item in path. The
// item's index and list type come from the enclosing List node; depth counts
// the lists above it.
func listItemContext(path []*markdown.Node, line int, raw string, col int) structure.EditContext {
	prefix, content := structure.ExtractListPrefix(raw)
	ctx := structure.EditContext{
		Kind:         structure.KindListItem,
		StartLine:    line,
		EndLine:      line,
		CursorOffset: max(col-len(prefix), 0),
		Text:         content,
	}
	item := path[len(path)-1]
	depth := -1
	for i, n := range path {
		list, ok := n.Type.(markdown.List)
		if !ok {
			continue
		}
		depth++
		if i+1 < len(path) && path[i+1] == item {
			ctx.ListType = list.ListType
			for idx, child := range n.Children {
				if child == item {
					ctx.ItemIndex = idx
				}
			}
		}
	}
	ctx.NestingDepth = max(depth, 0)
	return ctx
}

func isItem(n *markdown.Node) bool {
	switch n.Type.(type) {
	case markdown.Item, markdown.TaskItem:
		return true
	}
	return false
}

func inQuote(path []*markdown.Node) bool {
	for _, n := range path {
		if _, ok := n.Type.(markdown.BlockQuote); ok {
			return true
		}
	}
	return false
}

// headingPrefix returns the leading indentation, hashes and spaces of an ATX
// heading line.
func headingPrefix(raw string) string {
	trimmed := strings.TrimLeft(raw, " ")
	rest := strings.TrimLeft(trimmed, "#")
	rest = strings.TrimLeft(rest, " \t")
	return raw[:len(raw)-len(rest)]
}

// sourceLine returns the 1-indexed line of source without its newline.
func sourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	for i := 1; i < line; i++ {
		nl := strings.IndexByte(source, '\n')
		if nl < 0 {
			return ""
		}
		source = source[nl+1:]
	}
	if nl := strings.IndexByte(source, '\n'); nl >= 0 {
		return source[:nl]
	}
	return source
}
