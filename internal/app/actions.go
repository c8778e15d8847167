package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"unicode/utf8"

	fsutil "github.com/kk-code-lab/mdsync/internal/fs"
	"github.com/kk-code-lab/mdsync/internal/session"
)

var commandBuilder = exec.Command

var errUnnamed = errors.New("buffer has no file name; start with mdsync open FILE")

func (app *Application) handleSave() bool {
	if !app.named() {
		app.setError(errUnnamed)
		return true
	}
	source := app.session.Source()
	if err := app.doc.Save(app.path, source, app.keepCRLF); err != nil {
		app.setError(err)
		return true
	}
	if _, err := app.session.Dispatch(session.MarkSavedAction{}); err != nil {
		app.setError(err)
		return true
	}
	app.log.Info().Str("path", app.path).Int("bytes", len(source)).Msg("saved document")
	app.setMessage(fmt.Sprintf("Saved %s", app.path))
	return true
}

func (app *Application) handleCopy() bool {
	text := app.session.SelectedText()
	if text == "" {
		app.setMessage("Nothing selected")
		return true
	}
	if len(app.clipboardCmd) == 0 {
		app.setError(errors.New("no clipboard command available (set editor.clipboard)"))
		return true
	}
	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		app.setError(fmt.Errorf("%s: %w", app.clipboardCmd[0], err))
		return true
	}
	app.setMessage(fmt.Sprintf("Copied %d characters", utf8.RuneCountInString(text)))
	return true
}

// handleExternalEdit hands the saved file to $VISUAL/$EDITOR and reloads it
// afterwards. Unsaved changes must be saved first so nothing is lost.
func (app *Application) handleExternalEdit() bool {
	switch {
	case !app.named():
		app.setError(errUnnamed)
		return true
	case len(app.editorCmd) == 0:
		app.setError(errors.New("no editor configured (set editor.command, $VISUAL or $EDITOR)"))
		return true
	case app.session.Dirty():
		app.setMessage("Save before editing externally (^S)")
		return true
	}

	if err := app.openFileInEditor(app.path); err != nil {
		app.setError(err)
		return true
	}
	if err := app.reload(); err != nil {
		app.setError(err)
	}
	return true
}

// reload replaces the buffer with the file on disk, keeping undo history.
func (app *Application) reload() error {
	doc, err := fsutil.Load(app.path)
	if err != nil {
		return err
	}
	app.doc = doc
	if doc.Text == app.session.Source() {
		return nil
	}
	if _, err := app.session.Dispatch(session.ReplaceSourceAction{Source: doc.Text}); err != nil {
		return err
	}
	if _, err := app.session.Dispatch(session.MarkSavedAction{}); err != nil {
		return err
	}
	app.setMessage(fmt.Sprintf("Reloaded %s", app.path))
	return nil
}

func (app *Application) openFileInEditor(filePath string) error {
	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	var err error

	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	runErr := cmd.Run()
	_ = flushConsoleInput()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("%s: %w", editorArgs[0], runErr)
	}
	return nil
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
