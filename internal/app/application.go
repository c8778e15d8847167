package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	fsutil "github.com/kk-code-lab/mdsync/internal/fs"
	"github.com/kk-code-lab/mdsync/internal/session"
	inputui "github.com/kk-code-lab/mdsync/internal/ui/input"
	renderui "github.com/kk-code-lab/mdsync/internal/ui/render"
)

// Options configures a new Application.
type Options struct {
	// Path is where ^S writes. Empty or "-" leaves the buffer unnamed.
	Path     string
	Document *fsutil.Document
	KeepCRLF bool
	Logger   zerolog.Logger
	Session  []session.Option

	// EditorCommand and ClipboardCommand override the detected programs.
	EditorCommand    string
	ClipboardCommand string
}

// Application is the interactive terminal editor.
type Application struct {
	screen   tcell.Screen
	session  *session.Session
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan session.Action
	log      zerolog.Logger

	doc      *fsutil.Document
	path     string
	keepCRLF bool

	top        int
	message    string
	isError    bool
	quitArmed  bool
	shouldQuit bool

	clipboardCmd []string
	editorCmd    []string
}

// Close cleans up resources.
func (app *Application) Close() error {
	close(app.actionCh)
	app.screen.Fini()
	return nil
}

// Session exposes the edited buffer.
func (app *Application) Session() *session.Session {
	return app.session
}

// named reports whether the buffer has a file to save to.
func (app *Application) named() bool {
	return app.path != "" && app.path != "-"
}

func (app *Application) setMessage(msg string) {
	app.message = msg
	app.isError = false
}

func (app *Application) setError(err error) {
	app.message = err.Error()
	app.isError = true
	app.log.Warn().Err(err).Msg("editor action failed")
}
