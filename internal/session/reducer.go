package session

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/mdsync/internal/format"
	"github.com/kk-code-lab/mdsync/internal/structure"
	"github.com/kk-code-lab/mdsync/internal/textutil"
)

// Dispatch applies action to the session. It reports whether the source or
// cursor changed; unknown actions are an error.
func (s *Session) Dispatch(action Action) (bool, error) {
	before := snapshot{source: s.source, cursor: s.cursor}
	anchor := s.anchor
	name, err := s.reduce(action)
	if err != nil {
		return false, err
	}
	changed := s.source != before.source || s.cursor != before.cursor || s.anchor != anchor
	s.log.Debug().
		Str("action", name).
		Bool("changed", changed).
		Int("cursor", s.cursor).
		Int("bytes", len(s.source)).
		Msg("dispatch")
	return changed, nil
}

func (s *Session) reduce(action Action) (string, error) {
	switch a := action.(type) {

	// ===== CURSOR =====

	case MoveCursorAction:
		s.moveCursor(a.Direction, a.Extend)
		return "move-" + a.Direction, nil

	case SetCursorAction:
		s.clearSelection()
		s.setCursor(min(max(a.Offset, 0), len(s.source)))
		return "set-cursor", nil

	case SelectAction:
		start, end := textutil.ClampRange(s.source, a.Start, a.End)
		s.anchor = start
		s.cursor = end
		return "select", nil

	case SelectAllAction:
		s.anchor = 0
		s.cursor = len(s.source)
		return "select-all", nil

	case ClearSelectionAction:
		s.clearSelection()
		return "clear-selection", nil

	// ===== TEXT =====

	case InsertTextAction:
		s.insert(a.Text)
		return "insert", nil

	case DeleteBackwardAction:
		if s.Selection() == nil && s.structuralKey(structure.KeyBackspaceAtStart) {
			return "merge", nil
		}
		s.deleteBackward()
		return "delete-backward", nil

	case DeleteForwardAction:
		s.deleteForward()
		return "delete-forward", nil

	// ===== STRUCTURE =====

	case NewlineAction:
		if s.Selection() == nil && s.structuralKey(structure.KeyEnter) {
			return "enter", nil
		}
		s.insert("\n")
		return "newline", nil

	case IndentAction:
		if s.Selection() == nil && s.structuralKey(structure.KeyTab) {
			return "indent", nil
		}
		s.insert("\t")
		return "tab", nil

	case OutdentAction:
		s.structuralKey(structure.KeyShiftTab)
		return "outdent", nil

	// ===== FORMAT =====

	case FormatAction:
		s.applyFormat(a.Command)
		return a.Command.String(), nil

	// ===== HISTORY =====

	case UndoAction:
		s.restore(&s.undo, &s.redo)
		return "undo", nil

	case RedoAction:
		s.restore(&s.redo, &s.undo)
		return "redo", nil

	// ===== DOCUMENT =====

	case ReplaceSourceAction:
		s.clearSelection()
		s.setSource(a.Source, min(s.cursor, len(a.Source)))
		return "replace", nil

	case MarkSavedAction:
		s.dirty = false
		return "mark-saved", nil

	// ===== HOST =====

	case SaveAction:
		return "save", nil
	case CopySelectionAction:
		return "copy", nil
	case ExternalEditAction:
		return "external-edit", nil
	}
	return "", fmt.Errorf("unknown action %T", action)
}

// insert replaces the selection (or nothing) with text, leaving the cursor
// after it.
func (s *Session) insert(text string) {
	start, end := s.cursor, s.cursor
	if sel := s.Selection(); sel != nil {
		start, end = sel.Start, sel.End
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	s.clearSelection()
	s.setSource(s.source[:start]+text+s.source[end:], start+len(text))
}

func (s *Session) deleteBackward() {
	if sel := s.Selection(); sel != nil {
		s.insert("")
		return
	}
	s.clearSelection()
	if s.cursor == 0 {
		return
	}
	prev := textutil.PrevGraphemeBoundary(s.source, s.cursor)
	s.setSource(s.source[:prev]+s.source[s.cursor:], prev)
}

func (s *Session) deleteForward() {
	if sel := s.Selection(); sel != nil {
		s.insert("")
		return
	}
	s.clearSelection()
	if s.cursor >= len(s.source) {
		return
	}
	next := textutil.NextGraphemeBoundary(s.source, s.cursor)
	s.setSource(s.source[:s.cursor]+s.source[next:], s.cursor)
}

// applyFormat runs the formatting engine on the selection, or on an empty
// selection at the cursor. Toggling markup off is not reported as Applied
// but still rewrites the buffer.
func (s *Session) applyFormat(cmd format.Command) {
	sel := s.Selection()
	if sel == nil {
		sel = &format.Selection{Start: s.cursor, End: s.cursor}
	}
	res := format.Apply(s.source, sel, cmd)
	if res.Text == s.source && !res.Applied {
		return
	}
	s.clearSelection()
	if res.Selection != nil {
		s.setSource(res.Text, res.Selection.End)
		s.anchor = res.Selection.Start
		return
	}
	s.setSource(res.Text, res.Cursor)
}

// structuralKey runs the structural engine for the focused node and reports
// whether it rewrote the buffer.
func (s *Session) structuralKey(key structure.Key) bool {
	ctx, ok := s.FocusContext()
	if !ok {
		return false
	}
	if key == structure.KeyBackspaceAtStart && ctx.CursorOffset != 0 {
		return false
	}
	edit := structure.HandleKey(s.source, ctx, key)
	s.log.Debug().
		Str("key", key.String()).
		Str("node", ctx.Kind.String()).
		Int("line", ctx.StartLine).
		Bool("performed", edit.Performed).
		Msg("structural key")
	if !edit.Performed {
		return false
	}
	s.clearSelection()
	s.setSource(edit.NewSource, cursorOffset(edit.NewSource, edit.Cursor))
	return true
}

// cursorOffset maps an engine cursor (line plus offset within the node's
// editable text) back to a byte offset in source.
func cursorOffset(source string, pos structure.CursorPosition) int {
	raw := sourceLine(source, pos.Line)
	start := textutil.LineColToByteOffset(source, max(pos.Line-1, 0), 0)
	var prefix string
	switch pos.Hint.Kind {
	case structure.HintParagraph:
	case structure.HintHeading:
		prefix = headingPrefix(raw)
	default:
		prefix, _ = structure.ExtractLinePrefix(raw)
	}
	return start + min(len(prefix)+pos.Offset, len(raw))
}

func (s *Session) moveCursor(direction string, extend bool) {
	if extend {
		if s.anchor < 0 {
			s.anchor = s.cursor
		}
	} else if sel := s.Selection(); sel != nil && (direction == "left" || direction == "right") {
		s.clearSelection()
		if direction == "left" {
			s.cursor = sel.Start
		} else {
			s.cursor = sel.End
		}
		return
	} else {
		s.clearSelection()
	}

	switch direction {
	case "left":
		s.cursor = textutil.PrevGraphemeBoundary(s.source, s.cursor)
	case "right":
		s.cursor = textutil.NextGraphemeBoundary(s.source, s.cursor)
	case "home":
		s.cursor, _ = textutil.LineBounds(s.source, s.cursor)
	case "end":
		_, s.cursor = textutil.LineBounds(s.source, s.cursor)
	case "top":
		s.cursor = 0
	case "bottom":
		s.cursor = len(s.source)
	case "up", "down":
		s.cursor = s.verticalTarget(direction == "up")
	}
}

// verticalTarget keeps the display column when moving between lines.
func (s *Session) verticalTarget(up bool) int {
	lineStart, lineEnd := textutil.LineBounds(s.source, s.cursor)
	col := textutil.DisplayColumn(s.source[lineStart:lineEnd], s.cursor-lineStart, s.tabWidth)
	var target int
	if up {
		if lineStart == 0 {
			return 0
		}
		target = lineStart - 1
	} else {
		if lineEnd >= len(s.source) {
			return len(s.source)
		}
		target = lineEnd + 1
	}
	start, end := textutil.LineBounds(s.source, target)
	line := s.source[start:end]
	off := 0
	for off < len(line) {
		next := textutil.NextGraphemeBoundary(line, off)
		if textutil.DisplayColumn(line, next, s.tabWidth) > col {
			break
		}
		off = next
	}
	return start + off
}
