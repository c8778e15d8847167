package app

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func fakeTools(goos string, env map[string]string, available ...string) hostTools {
	return hostTools{
		goos:   goos,
		getenv: func(key string) string { return env[key] },
		lookPath: func(name string) (string, error) {
			for _, a := range available {
				if a == name {
					return "/bin/" + name, nil
				}
			}
			return "", errors.New("not found")
		},
	}
}

func TestSplitCommandLine(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"vim", []string{"vim"}},
		{"code --wait", []string{"code", "--wait"}},
		{`"my editor" -n`, []string{"my editor", "-n"}},
		{`subl -w 'it''s'`, []string{"subl", "-w", "its"}},
		{`nano "say 'hi'"`, []string{"nano", "say 'hi'"}},
		{`emacs ""`, []string{"emacs", ""}},
	}
	for _, tc := range cases {
		got := splitCommandLine(tc.in)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
			t.Fatalf("splitCommandLine(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	if got := expandHome("~"); got != home {
		t.Fatalf("expandHome(~)=%q want %q", got, home)
	}
	if got := expandHome("~/bin/ed"); got != filepath.Join(home, "bin", "ed") {
		t.Fatalf("expandHome(~/bin/ed)=%q", got)
	}
	if got := expandHome("~other/ed"); got != "~other/ed" {
		t.Fatalf("expandHome(~other/ed)=%q", got)
	}
}

func TestEditorResolution(t *testing.T) {
	cases := []struct {
		name       string
		goos       string
		configured string
		env        map[string]string
		available  []string
		want       []string
	}{
		{"configured wins", "linux", "hx --vsplit", map[string]string{"VISUAL": "vim"}, []string{"hx", "vim"}, []string{"/bin/hx", "--vsplit"}},
		{"visual before editor", "linux", "", map[string]string{"VISUAL": "emacs -nw", "EDITOR": "nano"}, []string{"emacs", "nano"}, []string{"/bin/emacs", "-nw"}},
		{"missing visual falls through", "linux", "", map[string]string{"VISUAL": "ghost", "EDITOR": "nano"}, []string{"nano"}, []string{"/bin/nano"}},
		{"unix default", "linux", "", nil, []string{"nano"}, []string{"/bin/nano"}},
		{"windows default", "windows", "", nil, []string{"code", "notepad.exe"}, []string{"/bin/code", "--wait"}},
		{"nothing available", "linux", "", nil, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fakeTools(tc.goos, tc.env, tc.available...).editor(tc.configured)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
				t.Fatalf("editor=%q want %q", got, tc.want)
			}
		})
	}
}

func TestClipboardResolution(t *testing.T) {
	cases := []struct {
		name       string
		goos       string
		configured string
		available  []string
		want       []string
	}{
		{"macOS", "darwin", "", []string{"pbcopy"}, []string{"/bin/pbcopy"}},
		{"xclip selects the clipboard", "linux", "", []string{"xclip"}, []string{"/bin/xclip", "-selection", "clipboard"}},
		{"wayland before x11", "linux", "", []string{"xsel", "wl-copy"}, []string{"/bin/wl-copy"}},
		{"powershell fallback", "windows", "", []string{"pwsh"}, []string{"/bin/pwsh", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}},
		{"configured", "linux", "tee /tmp/clip", []string{"tee", "xclip"}, []string{"/bin/tee", "/tmp/clip"}},
		{"none", "linux", "", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fakeTools(tc.goos, nil, tc.available...).clipboard(tc.configured)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
				t.Fatalf("clipboard=%q want %q", got, tc.want)
			}
		})
	}
}

func TestEditorArgsWithFile(t *testing.T) {
	app := &Application{editorCmd: []string{"code", "--wait"}}
	args := app.editorArgsWithFile("notes.md")
	if strings.Join(args, " ") != "code --wait notes.md" {
		t.Fatalf("args=%q", args)
	}
	if len(app.editorCmd) != 2 {
		t.Fatalf("editor command mutated: %q", app.editorCmd)
	}
}
