package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFormatFromStdin(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "hello world", "format", "-", "-c", "bold", "--start", "0", "--end", "5")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out != "**hello** world" {
		t.Fatalf("out=%q", out)
	}

	out, _, err = run(t, "żółw i kot", "format", "-", "-c", "italic", "--start", "0", "--end", "4", "--chars")
	if err != nil {
		t.Fatalf("format --chars: %v", err)
	}
	if out != "*żółw* i kot" {
		t.Fatalf("out=%q", out)
	}
}

func TestFormatRejectsUnknownCommand(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "x", "format", "-", "-c", "sparkle")
	if err == nil || !strings.Contains(err.Error(), "sparkle") {
		t.Fatalf("err=%v", err)
	}
}

func TestEditWritesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "list.md")
	writeFile(t, path, "- First item\n- Second item")

	out, _, err := run(t, "", "edit", path, "--line", "1", "--col", "7", "--key", "enter", "--write")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if out != "" {
		t.Fatalf("--write should not print, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "- First\n- item\n- Second item"; string(data) != want {
		t.Fatalf("file=%q want %q", data, want)
	}
}

func TestEditWithoutStructuralMeaning(t *testing.T) {
	isolate(t)
	out, stderr, err := run(t, "plain text\n", "edit", "-", "--line", "1", "--col", "3", "--key", "tab")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if out != "plain text\n" || !strings.Contains(stderr, "no structural edit") {
		t.Fatalf("out=%q stderr=%q", out, stderr)
	}

	if _, _, err := run(t, "x", "edit", "-", "--key", "escape"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestKeysReplay(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "- First item\n- Second item", "keys", "-", "--offset", "0", "--script", "end enter type:new")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if want := "- First item\n- new\n- Second item"; out != want {
		t.Fatalf("out=%q want %q", out, want)
	}
}

func TestStateListsActiveFormats(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "a **bold** b", "state", "-", "--offset", "5")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if strings.TrimSpace(out) != "bold" {
		t.Fatalf("out=%q", out)
	}

	out, _, _ = run(t, "plain", "state", "-", "--offset", "2")
	if strings.TrimSpace(out) != "none" {
		t.Fatalf("out=%q", out)
	}
}

func TestTreeShowsSpans(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "# Title\n\ntext\n", "tree", "-")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	for _, want := range []string{"Document [", "  Heading [1-1] level=1", "  Paragraph [3-3]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestTreeShowsFootnoteLabels(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "Text[^note].\n\n[^note]: Details.\n", "tree", "-")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	for _, want := range []string{"FootnoteReference [1-1] label=note", "FootnoteDefinition [3-"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tree output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "label=note"); n != 2 {
		t.Fatalf("label shown %d times:\n%s", n, out)
	}
}

func TestOutlineWalksDirectories(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "docs", "a.md"), "# Title\n\n## Part\n")
	writeFile(t, filepath.Join(dir, "docs", "b.md"), "no headings\n")
	writeFile(t, filepath.Join(dir, "docs", "skip.txt"), "# not markdown\n")

	out, _, err := run(t, "", "outline", "docs")
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	want := strings.Join([]string{
		"== " + filepath.Join("docs", "a.md"),
		"- Title (line 1)",
		"  - Part (line 3)",
		"1 H1, 1 H2, 1 min read",
		"",
		"== " + filepath.Join("docs", "b.md"),
		"No headings, 1 min read",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("out=\n%s\nwant\n%s", out, want)
	}
}

func TestStats(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "hello world\n", "stats", "-")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.HasPrefix(out, "-: 2 words | ") {
		t.Fatalf("out=%q", out)
	}

	out, _, err = run(t, "hello world\n", "stats", "-", "--table")
	if err != nil {
		t.Fatalf("stats --table: %v", err)
	}
	if !strings.Contains(out, "PARAGRAPHS") || !strings.Contains(out, "-     2") {
		t.Fatalf("out=%q", out)
	}
}

func TestCommandsListing(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "commands")
	if err != nil {
		t.Fatalf("commands: %v", err)
	}
	for _, want := range []string{"bold", "h6", "blockquote"} {
		if !strings.Contains(out, want) {
			t.Fatalf("commands missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "mdsync.yaml")

	out, _, err := run(t, "", "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("out=%q", out)
	}
	if _, _, err := run(t, "", "--config", path, "config", "init"); err == nil {
		t.Fatalf("second init should refuse to overwrite")
	}

	t.Setenv("MDSYNC_EDITOR_TAB_WIDTH", "2")
	out, _, err = run(t, "", "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "tab_width: 2") || !strings.Contains(out, "tables: true") {
		t.Fatalf("out=%s", out)
	}
}

func TestMissingConfigFails(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "x", "--config", "nope.yaml", "stats", "-")
	if err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
