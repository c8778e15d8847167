package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/mdsync/internal/format"
	"github.com/kk-code-lab/mdsync/internal/session"
)

func nextAction(t *testing.T, ch chan session.Action) session.Action {
	t.Helper()
	select {
	case action := <-ch:
		return action
	default:
		t.Fatal("Expected an action to be emitted")
		return nil
	}
}

func TestStructuralKeysEmitActions(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		want session.Action
	}{
		{tcell.KeyEnter, session.NewlineAction{}},
		{tcell.KeyTab, session.IndentAction{}},
		{tcell.KeyBacktab, session.OutdentAction{}},
		{tcell.KeyBackspace2, session.DeleteBackwardAction{}},
		{tcell.KeyBackspace, session.DeleteBackwardAction{}},
		{tcell.KeyDelete, session.DeleteForwardAction{}},
		{tcell.KeyEscape, session.ClearSelectionAction{}},
		{tcell.KeyCtrlZ, session.UndoAction{}},
		{tcell.KeyCtrlY, session.RedoAction{}},
		{tcell.KeyCtrlA, session.SelectAllAction{}},
	}
	for _, tc := range cases {
		actionChan := make(chan session.Action, 1)
		handler := NewInputHandler(actionChan)
		if !handler.ProcessEvent(tcell.NewEventKey(tc.key, 0, tcell.ModNone)) {
			t.Fatalf("key %v stopped the handler", tc.key)
		}
		if got := nextAction(t, actionChan); got != tc.want {
			t.Fatalf("key %v: got %#v want %#v", tc.key, got, tc.want)
		}
	}
}

func TestFormatChords(t *testing.T) {
	cases := []struct {
		name string
		ev   *tcell.EventKey
		want format.Command
	}{
		{"ctrl+b", tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), format.Bold},
		{"ctrl+k", tcell.NewEventKey(tcell.KeyCtrlK, 0, tcell.ModCtrl), format.Link},
		{"ctrl+q", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), format.Blockquote},
		{"ctrl rune b", tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModCtrl), format.Bold},
		{"alt+i", tcell.NewEventKey(tcell.KeyRune, 'i', tcell.ModAlt), format.Italic},
		{"alt+shift+I", tcell.NewEventKey(tcell.KeyRune, 'I', tcell.ModAlt|tcell.ModShift), format.Italic},
		{"alt+`", tcell.NewEventKey(tcell.KeyRune, '`', tcell.ModAlt), format.InlineCode},
		{"alt+3", tcell.NewEventKey(tcell.KeyRune, '3', tcell.ModAlt), format.Heading(3)},
		{"alt+n", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModAlt), format.NumberedList},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actionChan := make(chan session.Action, 1)
			NewInputHandler(actionChan).ProcessEvent(tc.ev)
			got, ok := nextAction(t, actionChan).(session.FormatAction)
			if !ok || got.Command != tc.want {
				t.Fatalf("got %#v want %v", got, tc.want)
			}
		})
	}
}

func TestShiftArrowsExtendSelection(t *testing.T) {
	actionChan := make(chan session.Action, 1)
	handler := NewInputHandler(actionChan)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift))
	move, ok := nextAction(t, actionChan).(session.MoveCursorAction)
	if !ok || move.Direction != "right" || !move.Extend {
		t.Fatalf("unexpected action %#v", move)
	}

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModCtrl))
	move, ok = nextAction(t, actionChan).(session.MoveCursorAction)
	if !ok || move.Direction != "bottom" || move.Extend {
		t.Fatalf("unexpected action %#v", move)
	}
}

func TestRunesInsertText(t *testing.T) {
	actionChan := make(chan session.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone))
	insert, ok := nextAction(t, actionChan).(session.InsertTextAction)
	if !ok || insert.Text != "é" {
		t.Fatalf("unexpected action %#v", insert)
	}
}

func TestCtrlCStops(t *testing.T) {
	actionChan := make(chan session.Action, 1)
	handler := NewInputHandler(actionChan)
	if handler.ProcessEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Fatal("Ctrl+C should stop the handler")
	}
	select {
	case action := <-actionChan:
		t.Fatalf("unexpected action %#v", action)
	default:
	}
}

func TestUnboundKeysEmitNothing(t *testing.T) {
	actionChan := make(chan session.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone))
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt))
	handler.ProcessEvent(tcell.NewEventResize(80, 24))
	select {
	case action := <-actionChan:
		t.Fatalf("unexpected action %#v", action)
	default:
	}
}

func TestHostChords(t *testing.T) {
	cases := []struct {
		name string
		ev   *tcell.EventKey
		want session.Action
	}{
		{"ctrl+s", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), session.SaveAction{}},
		{"ctrl rune s", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModCtrl), session.SaveAction{}},
		{"ctrl+e", tcell.NewEventKey(tcell.KeyCtrlE, 0, tcell.ModCtrl), session.ExternalEditAction{}},
		{"alt+w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModAlt), session.CopySelectionAction{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actionChan := make(chan session.Action, 1)
			NewInputHandler(actionChan).ProcessEvent(tc.ev)
			if got := nextAction(t, actionChan); got != tc.want {
				t.Fatalf("got %#v want %#v", got, tc.want)
			}
		})
	}
}
