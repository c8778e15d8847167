package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// hostTools resolves the external programs the editor hands text to.
type hostTools struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
}

func systemTools() hostTools {
	return hostTools{goos: runtime.GOOS, getenv: os.Getenv, lookPath: exec.LookPath}
}

// clipboard returns a command that copies its stdin to the clipboard. A
// configured command wins over the platform candidates.
func (h hostTools) clipboard(configured string) []string {
	if args := h.resolve(configured); args != nil {
		return args
	}

	var candidates [][]string
	if strings.EqualFold(h.goos, "windows") {
		candidates = append(candidates,
			[]string{"clip.exe"},
			[]string{"clip"},
			[]string{"powershell", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
			[]string{"pwsh", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
		)
	}
	candidates = append(candidates,
		[]string{"pbcopy"},
		[]string{"wl-copy"},
		[]string{"xclip", "-selection", "clipboard"},
		[]string{"xsel", "--clipboard", "--input"},
	)
	return h.first(candidates)
}

// editor resolves the configured command, then $VISUAL, then $EDITOR, then a
// platform default.
func (h hostTools) editor(configured string) []string {
	for _, command := range []string{configured, h.getenv("VISUAL"), h.getenv("EDITOR")} {
		if args := h.resolve(command); args != nil {
			return args
		}
	}

	if strings.EqualFold(h.goos, "windows") {
		return h.first([][]string{
			{"code", "--wait"},
			{"notepad++.exe"},
			{"notepad.exe"},
		})
	}
	return h.first([][]string{{"vim"}, {"nano"}, {"vi"}})
}

// resolve splits a shell-like command line and looks up its program.
func (h hostTools) resolve(command string) []string {
	args := splitCommandLine(command)
	if len(args) == 0 {
		return nil
	}
	path, ok := h.lookup(args[0])
	if !ok {
		return nil
	}
	args[0] = path
	return args
}

func (h hostTools) first(candidates [][]string) []string {
	for _, candidate := range candidates {
		if len(candidate) == 0 {
			continue
		}
		if path, ok := h.lookup(candidate[0]); ok {
			return append([]string{path}, candidate[1:]...)
		}
	}
	return nil
}

func (h hostTools) lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	path, err := h.lookPath(expandHome(name))
	if err != nil || path == "" {
		return "", false
	}
	return path, true
}

// splitCommandLine splits on unquoted whitespace. Single and double quotes
// group words and are removed; each protects the other kind.
func splitCommandLine(command string) []string {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		quoting rune
	)
	for _, r := range strings.TrimSpace(command) {
		switch {
		case quoting != 0 && r == quoting:
			quoting = 0
		case quoting == 0 && (r == '\'' || r == '"'):
			quoting = r
			inWord = true
		case quoting == 0 && unicode.IsSpace(r):
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, word.String())
	}
	if len(args) > 0 {
		args[0] = expandHome(args[0])
	}
	return args
}

// expandHome replaces a leading ~ or ~/ with the home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != '\\' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}
