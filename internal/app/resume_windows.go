//go:build windows

package app

func (app *Application) resumeAfterStop() bool {
	return false
}
