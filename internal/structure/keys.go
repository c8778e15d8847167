package structure

import "strings"

// Key is a key press with structural meaning in rendered editing.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyBackspaceAtStart
	KeyTab
	KeyShiftTab
)

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeyBackspaceAtStart:
		return "backspace"
	case KeyTab:
		return "tab"
	case KeyShiftTab:
		return "shift-tab"
	default:
		return "none"
	}
}

// HandleKey picks the operation for key given the focused node:
//
//	Enter      paragraph split, heading enter, list item split or list exit
//	Backspace  merge with the previous list item (cursor at offset 0)
//	Tab        indent list item
//	Shift+Tab  outdent list item
//
// Combinations without a structural meaning return NoOp.
func HandleKey(source string, ctx EditContext, key Key) StructuralEdit {
	switch key {
	case KeyEnter:
		switch ctx.Kind {
		case KindParagraph:
			return SplitParagraph(source, ctx)
		case KindHeading:
			return HeadingEnter(source, ctx)
		case KindListItem:
			if strings.TrimSpace(ctx.Text) == "" {
				return ExitListToParagraph(source, ctx)
			}
			return SplitListItem(source, ctx)
		}
	case KeyBackspaceAtStart:
		if ctx.Kind == KindListItem {
			return MergeWithPreviousListItem(source, ctx)
		}
	case KeyTab:
		return IndentListItem(source, ctx)
	case KeyShiftTab:
		return OutdentListItem(source, ctx)
	}
	return NoOp()
}
