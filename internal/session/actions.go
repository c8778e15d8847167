package session

import (
	"github.com/kk-code-lab/mdsync/internal/format"
)

// Action is the base interface for all session mutations
type Action interface{}

// ===== CURSOR ACTIONS =====

type MoveCursorAction struct {
	Direction string // "left", "right", "up", "down", "home", "end", "top", "bottom"
	Extend    bool   // grow the selection instead of collapsing it
}
type SetCursorAction struct {
	Offset int
}
type SelectAction struct {
	Start int
	End   int
}
type SelectAllAction struct{}
type ClearSelectionAction struct{}

// ===== TEXT ACTIONS =====

type InsertTextAction struct {
	Text string
}
type DeleteBackwardAction struct{}
type DeleteForwardAction struct{}

// ===== STRUCTURAL ACTIONS =====

type NewlineAction struct{}
type IndentAction struct{}
type OutdentAction struct{}

// ===== FORMAT ACTIONS =====

type FormatAction struct {
	Command format.Command
}

// ===== HISTORY ACTIONS =====

type UndoAction struct{}
type RedoAction struct{}

// ===== DOCUMENT ACTIONS =====

type ReplaceSourceAction struct {
	Source string
}
type MarkSavedAction struct{}

// ===== HOST ACTIONS =====
// Handled by the program embedding the session; Dispatch accepts them
// without changing anything.

type SaveAction struct{}
type CopySelectionAction struct{}
type ExternalEditAction struct{}
