package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/mdsync/internal/markdown"
	"github.com/kk-code-lab/mdsync/internal/session"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init screen: %v", err)
	}
	t.Cleanup(func() {
		screen.Fini()
	})
	screen.SetSize(w, h)
	return screen
}

func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, combc, _, width := screen.GetContent(x, y)
		if width == 0 {
			continue
		}
		b.WriteRune(mainc)
		for _, c := range combc {
			b.WriteRune(c)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func TestTruncateTextToWidth(t *testing.T) {
	r := NewRenderer(nil)

	tests := []struct {
		name   string
		text   string
		width  int
		expect string
	}{
		{"fits without truncation", "notes.md", 20, "notes.md"},
		{"adds ellipsis when needed", "verylongname", 6, "veryl…"},
		{"only ellipsis when width too small", "example", 1, "…"},
		{"multi-byte characters respected", "你好世界", 5, "你好…"},
		{"returns empty when width is zero", "anything", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := r.truncateTextToWidth(tt.text, tt.width)
			if actual != tt.expect {
				t.Fatalf("expected %q, got %q (width %d)", tt.expect, actual, tt.width)
			}
		})
	}
}

func TestMeasureTextWidth(t *testing.T) {
	r := NewRenderer(nil)

	if got := r.measureTextWidth("abc"); got != 3 {
		t.Fatalf("expected ASCII width 3, got %d", got)
	}
	if got := r.measureTextWidth("你好"); got != 4 {
		t.Fatalf("expected wide rune width 4, got %d", got)
	}
}

func TestRenderDrawsFrame(t *testing.T) {
	screen := newTestScreen(t, 120, 6)
	r := NewRenderer(screen)
	s := session.New("# Title\n\nbody")

	r.Render(View{Path: "doc.md", Session: s})

	header := rowText(screen, 0)
	if !strings.HasPrefix(header, "mdsync doc.md") || !strings.HasSuffix(header, "Title") {
		t.Fatalf("header=%q", header)
	}
	if got := rowText(screen, 1); got != "# Title" {
		t.Fatalf("row 1=%q", got)
	}
	if got := rowText(screen, 3); got != "body" {
		t.Fatalf("row 3=%q", got)
	}
	status := rowText(screen, 4)
	if !strings.Contains(status, "Ln 1, Col 1") || !strings.Contains(status, "[H1]") || !strings.Contains(status, "3 words") {
		t.Fatalf("status=%q", status)
	}
	if footer := rowText(screen, 5); !strings.Contains(footer, "^S: save") || strings.Contains(footer, "^E") {
		t.Fatalf("footer=%q", footer)
	}

	_, _, style, _ := screen.GetContent(0, 1)
	if fg, _, _ := style.Decompose(); fg != r.theme.HeadingFg {
		t.Fatalf("heading foreground=%v", fg)
	}
	if x, y, visible := screen.GetCursor(); !visible || x != 0 || y != 1 {
		t.Fatalf("cursor=(%d,%d) visible=%v", x, y, visible)
	}
}

func TestRenderDirtyMarkerAndMessage(t *testing.T) {
	screen := newTestScreen(t, 40, 5)
	r := NewRenderer(screen)
	s := session.New("text")
	if _, err := s.Dispatch(session.InsertTextAction{Text: "more "}); err != nil {
		t.Fatal(err)
	}

	r.Render(View{Path: "doc.md", Session: s, Message: "write failed", IsError: true})

	if header := rowText(screen, 0); !strings.Contains(header, "doc.md [+]") {
		t.Fatalf("header=%q", header)
	}
	if footer := rowText(screen, 4); footer != " write failed" {
		t.Fatalf("footer=%q", footer)
	}
	_, _, style, _ := screen.GetContent(1, 4)
	if _, bg, _ := style.Decompose(); bg != r.theme.ErrorBg {
		t.Fatalf("error background=%v", bg)
	}
}

func TestRenderScrollsAndHidesCursor(t *testing.T) {
	screen := newTestScreen(t, 20, 6)
	r := NewRenderer(screen)
	s := session.New("l0\nl1\nl2\nl3\nl4\nl5\nl6")

	r.Render(View{Session: s, Top: 4})

	for row, want := range []string{"l4", "l5", "l6"} {
		if got := rowText(screen, 1+row); got != want {
			t.Fatalf("row %d=%q want %q", 1+row, got, want)
		}
	}
	if header := rowText(screen, 0); !strings.Contains(header, "[stdin]") {
		t.Fatalf("header=%q", header)
	}
	if _, _, visible := screen.GetCursor(); visible {
		t.Fatalf("cursor on line 1 should be hidden when scrolled past")
	}
}

func TestRenderSelectionAndTabs(t *testing.T) {
	screen := newTestScreen(t, 100, 5)
	r := NewRenderer(screen)
	s := session.New("abc\n\tx", session.WithTabWidth(4))
	if _, err := s.Dispatch(session.SelectAction{Start: 0, End: 2}); err != nil {
		t.Fatal(err)
	}

	r.Render(View{Session: s, Clipboard: true})

	for x, want := range []bool{true, true, false} {
		_, _, style, _ := screen.GetContent(x, 1)
		_, bg, _ := style.Decompose()
		if (bg == r.theme.SelectionBg) != want {
			t.Fatalf("cell %d selected=%v want %v", x, bg == r.theme.SelectionBg, want)
		}
	}
	if got := rowText(screen, 2); got != "    x" {
		t.Fatalf("tab row=%q", got)
	}
	if footer := rowText(screen, 4); !strings.Contains(footer, "Alt+W: copy") {
		t.Fatalf("footer=%q", footer)
	}
	if status := rowText(screen, 3); !strings.Contains(status, "(2 selected)") {
		t.Fatalf("status=%q", status)
	}

	if _, err := s.Dispatch(session.SetCursorAction{Offset: 5}); err != nil {
		t.Fatal(err)
	}
	r.Render(View{Session: s})
	if x, y, _ := screen.GetCursor(); x != 4 || y != 2 {
		t.Fatalf("cursor=(%d,%d) want (4,2)", x, y)
	}
}

func TestScrollTop(t *testing.T) {
	cases := []struct {
		top, line, height, want int
	}{
		{0, 0, 5, 0},
		{0, 4, 5, 0},
		{0, 5, 5, 1},
		{10, 3, 5, 3},
		{2, 20, 5, 16},
		{0, 3, 0, 3},
	}
	for _, tc := range cases {
		if got := ScrollTop(tc.top, tc.line, tc.height); got != tc.want {
			t.Fatalf("ScrollTop(%d,%d,%d)=%d want %d", tc.top, tc.line, tc.height, got, tc.want)
		}
	}
	if BodyHeight(2) != 1 || BodyHeight(24) != 21 {
		t.Fatalf("BodyHeight=%d,%d", BodyHeight(2), BodyHeight(24))
	}
}

func TestOffsetAt(t *testing.T) {
	source := "ab\n\tc\n你好"
	cases := []struct {
		name      string
		x, y, top int
		want      int
	}{
		{"inside first line", 1, 1, 0, 1},
		{"past line end", 10, 1, 0, 2},
		{"on a tab", 2, 2, 0, 3},
		{"after a tab", 4, 2, 0, 4},
		{"right half of wide rune", 1, 3, 0, 6},
		{"second wide rune", 2, 3, 0, 9},
		{"scrolled", 0, 1, 2, 6},
		{"below the text", 0, 9, 0, len(source)},
		{"header row", 5, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OffsetAt(source, tc.top, tc.x, tc.y, 4); got != tc.want {
				t.Fatalf("OffsetAt(%d,%d)=%d want %d", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestLineKinds(t *testing.T) {
	source := "---\ntitle: x\n---\n# H\n\n> q\n\n```\ncode\n```\n"
	tree, err := markdown.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lines := strings.Split(source, "\n")
	got := lineKinds(tree, len(lines))
	want := []lineKind{
		lineFrontMatter, lineFrontMatter, lineFrontMatter,
		lineHeading, lineText, lineQuote, lineText,
		lineCode, lineCode, lineCode, lineText,
	}
	if len(got) != len(want) {
		t.Fatalf("kinds=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d kind=%v want %v (all %v)", i+1, got[i], want[i], got)
		}
	}

	if kinds := lineKinds(nil, 3); len(kinds) != 3 || kinds[0] != lineText {
		t.Fatalf("nil tree kinds=%v", kinds)
	}
}

func TestFooterHelpSegments(t *testing.T) {
	s := session.New("abc")
	got := buildFooterHelpSegments(View{Session: s, Editor: true})
	want := []string{"↵: split", "Tab/S-Tab: nest", "Alt+1-6: heading", "Alt+B/N: list", "^Z/^Y: undo/redo", "^S: save", "^E: edit externally", "^C: quit"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("help=%q want %q", got, want)
	}
	if text := buildFooterHelpText(View{Session: s}); !strings.HasPrefix(text, " ↵: split  ") {
		t.Fatalf("help text=%q", text)
	}
}
