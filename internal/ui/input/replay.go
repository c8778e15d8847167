package input

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/mdsync/internal/session"
)

// Replay feeds events through an InputHandler into s, stopping early when an
// event asks to quit. It returns the number of events consumed.
func Replay(s *session.Session, events []*tcell.EventKey) (int, error) {
	actions := make(chan session.Action, 1)
	handler := NewInputHandler(actions)
	for i, ev := range events {
		more := handler.ProcessEvent(ev)
		select {
		case a := <-actions:
			if _, err := s.Dispatch(a); err != nil {
				return i, fmt.Errorf("key %s: %w", ev.Name(), err)
			}
		default:
		}
		if !more {
			return i + 1, nil
		}
	}
	return len(events), nil
}
