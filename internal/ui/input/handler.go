package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/mdsync/internal/format"
	"github.com/kk-code-lab/mdsync/internal/session"
)

// InputHandler converts tcell events to session actions
type InputHandler struct {
	actionChan chan session.Action
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan session.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event asks the editor to stop.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	default:
		return true
	}
}

func (ih *InputHandler) emit(a session.Action) bool {
	ih.actionChan <- a
	return true
}

// processKeyEvent handles keyboard input. Terminals cannot report
// Ctrl+Shift chords or Ctrl+I (it arrives as Tab), so those commands are
// bound to Alt instead.
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	mod := ev.Modifiers()
	shift := mod&tcell.ModShift != 0
	ctrl := mod&tcell.ModCtrl != 0

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false

	case tcell.KeyEscape:
		return ih.emit(session.ClearSelectionAction{})

	// ===== STRUCTURE =====

	case tcell.KeyEnter:
		return ih.emit(session.NewlineAction{})
	case tcell.KeyTab:
		return ih.emit(session.IndentAction{})
	case tcell.KeyBacktab:
		return ih.emit(session.OutdentAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ih.emit(session.DeleteBackwardAction{})
	case tcell.KeyDelete:
		return ih.emit(session.DeleteForwardAction{})

	// ===== CURSOR =====

	case tcell.KeyLeft:
		return ih.emit(session.MoveCursorAction{Direction: "left", Extend: shift})
	case tcell.KeyRight:
		return ih.emit(session.MoveCursorAction{Direction: "right", Extend: shift})
	case tcell.KeyUp:
		return ih.emit(session.MoveCursorAction{Direction: "up", Extend: shift})
	case tcell.KeyDown:
		return ih.emit(session.MoveCursorAction{Direction: "down", Extend: shift})
	case tcell.KeyHome:
		if ctrl {
			return ih.emit(session.MoveCursorAction{Direction: "top", Extend: shift})
		}
		return ih.emit(session.MoveCursorAction{Direction: "home", Extend: shift})
	case tcell.KeyEnd:
		if ctrl {
			return ih.emit(session.MoveCursorAction{Direction: "bottom", Extend: shift})
		}
		return ih.emit(session.MoveCursorAction{Direction: "end", Extend: shift})
	case tcell.KeyCtrlA:
		return ih.emit(session.SelectAllAction{})

	// ===== FORMAT / HISTORY =====

	case tcell.KeyCtrlB:
		return ih.emit(session.FormatAction{Command: format.Bold})
	case tcell.KeyCtrlK:
		return ih.emit(session.FormatAction{Command: format.Link})
	case tcell.KeyCtrlQ:
		return ih.emit(session.FormatAction{Command: format.Blockquote})
	case tcell.KeyCtrlZ:
		return ih.emit(session.UndoAction{})
	case tcell.KeyCtrlY:
		return ih.emit(session.RedoAction{})

	// ===== HOST =====

	case tcell.KeyCtrlS:
		return ih.emit(session.SaveAction{})
	case tcell.KeyCtrlE:
		return ih.emit(session.ExternalEditAction{})

	case tcell.KeyRune:
		return ih.processRune(ev.Rune(), mod)
	}
	return true
}

// altCommands maps Alt+rune chords to formatting commands.
var altCommands = map[rune]format.Command{
	'i': format.Italic,
	'`': format.InlineCode,
	's': format.Strikethrough,
	'k': format.Image,
	'c': format.CodeBlock,
	'b': format.BulletList,
	'n': format.NumberedList,
	'q': format.Blockquote,
	'1': format.Heading(1),
	'2': format.Heading(2),
	'3': format.Heading(3),
	'4': format.Heading(4),
	'5': format.Heading(5),
	'6': format.Heading(6),
}

func (ih *InputHandler) processRune(r rune, mod tcell.ModMask) bool {
	if mod&tcell.ModCtrl != 0 {
		// Some terminals report Ctrl+letter as a rune with the Ctrl modifier.
		switch r {
		case 'b', 'B':
			return ih.emit(session.FormatAction{Command: format.Bold})
		case 'k', 'K':
			return ih.emit(session.FormatAction{Command: format.Link})
		case 'q', 'Q':
			return ih.emit(session.FormatAction{Command: format.Blockquote})
		case 'z', 'Z':
			return ih.emit(session.UndoAction{})
		case 'y', 'Y':
			return ih.emit(session.RedoAction{})
		case 's', 'S':
			return ih.emit(session.SaveAction{})
		case 'e', 'E':
			return ih.emit(session.ExternalEditAction{})
		case 'c', 'C':
			return false
		}
		return true
	}
	if mod&tcell.ModAlt != 0 {
		lower := unicode.ToLower(r)
		if cmd, ok := altCommands[lower]; ok {
			return ih.emit(session.FormatAction{Command: cmd})
		}
		if lower == 'w' {
			return ih.emit(session.CopySelectionAction{})
		}
		return true
	}
	return ih.emit(session.InsertTextAction{Text: string(r)})
}
