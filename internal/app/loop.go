package app

import (
	"os"
	"os/signal"
	"slices"

	"github.com/gdamore/tcell/v2"

	fsutil "github.com/kk-code-lab/mdsync/internal/fs"
	"github.com/kk-code-lab/mdsync/internal/session"
	inputui "github.com/kk-code-lab/mdsync/internal/ui/input"
	renderui "github.com/kk-code-lab/mdsync/internal/ui/render"
)

const scrollStep = 3

// NewApplication prepares the editor on screen, creating a terminal screen
// when screen is nil.
func NewApplication(screen tcell.Screen, opts Options) (*Application, error) {
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so clicks don't leak as key events.
	screen.EnableMouse()

	doc := opts.Document
	if doc == nil {
		doc = &fsutil.Document{}
	}
	sessOpts := append(slices.Clone(opts.Session), session.WithLogger(opts.Logger))

	actionCh := make(chan session.Action, 10)
	tools := systemTools()

	return &Application{
		screen:       screen,
		session:      session.New(doc.Text, sessOpts...),
		renderer:     renderui.NewRenderer(screen),
		input:        inputui.NewInputHandler(actionCh),
		actionCh:     actionCh,
		log:          opts.Logger,
		doc:          doc,
		path:         opts.Path,
		keepCRLF:     opts.KeepCRLF,
		clipboardCmd: tools.clipboard(opts.ClipboardCommand),
		editorCmd:    tools.editor(opts.EditorCommand),
	}, nil
}

// Run processes events until the user quits.
func (app *Application) Run() {
	defer app.screen.Fini()

	app.render()
	renderPending := false

	done := make(chan struct{})
	defer close(done)
	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) render() {
	_, h := app.screen.Size()
	line, _ := app.session.Position()
	app.top = renderui.ScrollTop(app.top, line-1, renderui.BodyHeight(h))
	app.renderer.Render(renderui.View{
		Path:      app.path,
		Session:   app.session,
		Top:       app.top,
		Message:   app.message,
		IsError:   app.isError,
		Clipboard: len(app.clipboardCmd) > 0,
		Editor:    len(app.editorCmd) > 0 && app.named(),
	})
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !app.input.ProcessEvent(ev) {
			app.requestQuit()
		}
	case *tcell.EventResize:
		app.screen.Sync()
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse moves the cursor on primary clicks and scrolls on the wheel.
// Shift+click extends the selection from the cursor.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	_, h := app.screen.Size()
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.top = max(app.top-scrollStep, 0)
		return app.moveIntoView(h)
	case buttons&tcell.WheelDown != 0:
		app.top += scrollStep
		return app.moveIntoView(h)
	case buttons&tcell.Button1 == 0:
		return false
	}

	x, y := ev.Position()
	if y < 1 || y > renderui.BodyHeight(h) {
		return false
	}
	offset := renderui.OffsetAt(app.session.Source(), app.top, x, y, app.session.TabWidth())
	var action session.Action = session.SetCursorAction{Offset: offset}
	if ev.Modifiers()&tcell.ModShift != 0 {
		anchor := app.session.Cursor()
		if sel := app.session.Selection(); sel != nil {
			anchor = sel.Start
			if sel.Start == app.session.Cursor() {
				anchor = sel.End
			}
		}
		action = session.SelectAction{Start: anchor, End: offset}
	}
	app.actionCh <- action
	return true
}

// moveIntoView keeps the cursor inside the scrolled viewport.
func (app *Application) moveIntoView(h int) bool {
	source := app.session.Source()
	height := renderui.BodyHeight(h)
	lastLine := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lastLine++
		}
	}
	app.top = min(app.top, max(lastLine-height+1, 0))

	line, _ := app.session.Position()
	switch {
	case line-1 < app.top:
		app.actionCh <- session.SetCursorAction{Offset: renderui.OffsetAt(source, app.top, 0, 1, app.session.TabWidth())}
	case line-1 >= app.top+height:
		app.actionCh <- session.SetCursorAction{Offset: renderui.OffsetAt(source, app.top, 0, height, app.session.TabWidth())}
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// requestQuit stops the loop, asking for confirmation once when the buffer
// has unsaved changes.
func (app *Application) requestQuit() {
	if app.session.Dirty() && !app.quitArmed {
		app.quitArmed = true
		app.setMessage("Unsaved changes: ^S to save, ^C again to quit")
		return
	}
	app.shouldQuit = true
}

func (app *Application) handleAction(action session.Action) bool {
	if action == nil {
		return false
	}
	app.quitArmed = false
	app.message = ""

	switch action.(type) {
	case session.SaveAction:
		return app.handleSave()
	case session.CopySelectionAction:
		return app.handleCopy()
	case session.ExternalEditAction:
		return app.handleExternalEdit()
	}

	if _, err := app.session.Dispatch(action); err != nil {
		app.setError(err)
	}
	return true
}
