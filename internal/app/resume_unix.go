//go:build !windows

package app

import "github.com/gdamore/tcell/v2"

// resumeAfterStop redraws after the process was stopped and continued from
// outside (kill -STOP / kill -CONT).
func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	// Re-enable mouse reporting after resume
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	return true
}
