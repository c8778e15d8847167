package render

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/mdsync/internal/session"
	"github.com/kk-code-lab/mdsync/internal/textutil"
)

// View is everything one frame shows.
type View struct {
	Path    string
	Session *session.Session
	Top     int // first visible line, 0-indexed
	Message string
	IsError bool

	Clipboard bool // copying the selection is available
	Editor    bool // an external editor is available
}

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the header, the visible document lines, the status line and
// the footer, then places the terminal cursor.
func (r *Renderer) Render(v View) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if v.Session == nil || w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	r.drawHeader(v, w)
	r.drawBody(v, w, h)
	r.drawStatusLine(v, w, h)
	r.drawFooter(v, w, h)
	r.placeCursor(v, w, h)

	r.screen.Show()
}

// drawHeader renders the top bar with the file name and current section.
func (r *Renderer) drawHeader(v View, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	title := "mdsync"
	x := r.drawTextLine(0, 0, w, title, style.Bold(true))
	if x < w {
		r.screen.SetContent(x, 0, ' ', nil, style)
		x++
	}

	name := textutil.PrintableLiteral(v.Path)
	if name == "" {
		name = "[stdin]"
	}
	if v.Session.Dirty() {
		name += " [+]"
	}

	section := ""
	line, _ := v.Session.Position()
	outline := v.Session.Outline()
	if idx := outline.CurrentSection(line); idx >= 0 {
		section = textutil.PrintableLiteral(outline.Items[idx].Title)
	}

	sectionWidth := 0
	if section != "" {
		section = r.truncateTextToWidth(section, max(w/3, 1))
		sectionWidth = r.measureTextWidth(section) + 1
	}
	x = r.drawTextLine(x, 0, max(w-x-sectionWidth, 0), r.truncateTextToWidth(name, max(w-x-sectionWidth, 0)), style)
	r.fillLine(x, 0, w, style)
	if section != "" && w-sectionWidth+1 > x {
		r.drawTextLine(w-sectionWidth+1, 0, sectionWidth, section, style.Foreground(r.theme.HeadingFg))
	}
}

// drawBody renders the visible slice of the document. Block kinds color
// whole lines; the selection is painted over them.
func (r *Renderer) drawBody(v View, w, h int) {
	source := v.Session.Source()
	lines := strings.Split(source, "\n")
	kinds := lineKinds(v.Session.Tree(), len(lines))
	sel := v.Session.Selection()
	selStyle := tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	tabWidth := v.Session.TabWidth()

	lineStart := 0
	for i := 0; i < v.Top && i < len(lines); i++ {
		lineStart += len(lines[i]) + 1
	}

	for row := 0; row < BodyHeight(h); row++ {
		y := headerRows + row
		idx := v.Top + row
		base := r.theme.lineStyle(lineText)
		if idx >= len(lines) {
			r.fillLine(0, y, w, base)
			continue
		}
		base = r.theme.lineStyle(kinds[idx])
		text := lines[idx]

		x := 0
		for off, ru := range text {
			if x >= w {
				break
			}
			style := base
			abs := lineStart + off
			if sel != nil && abs >= sel.Start && abs < sel.End {
				style = selStyle
			}
			if ru == '\t' {
				stop := x + max(tabWidth, 1) - x%max(tabWidth, 1)
				for ; x < stop && x < w; x++ {
					r.screen.SetContent(x, y, ' ', nil, style)
				}
				continue
			}
			if r.cachedRuneWidth(ru) == 0 && x > 0 {
				// Combining marks and joiners stay with the previous cell.
				mainc, combc, prev, _ := r.screen.GetContent(x-1, y)
				r.screen.SetContent(x-1, y, mainc, append(combc, ru), prev)
				continue
			}
			x = r.drawStyledRune(x, y, w, ru, style)
		}
		fill := base
		if sel != nil && lineStart+len(text) >= sel.Start && lineStart+len(text) < sel.End {
			fill = selStyle
		}
		if x < w {
			r.screen.SetContent(x, y, ' ', nil, fill)
			r.fillLine(x+1, y, w, base)
		}
		lineStart += len(text) + 1
	}
}

// drawStatusLine shows the cursor position, active formats and counters.
func (r *Renderer) drawStatusLine(v View, w, h int) {
	y := h - 2
	if y < headerRows {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Reverse(true)

	left := " " + formatPosition(v.Session)
	if formats := activeFormats(v.Session); formats != "" {
		left += "  " + formats
	}
	right := v.Session.Stats().Compact() + " "

	x := r.drawTextLine(0, y, w, r.truncateTextToWidth(left, w), style)
	r.fillLine(x, y, w, style)
	if rw := r.measureTextWidth(right); x+rw+1 <= w {
		r.drawTextLine(w-rw, y, rw, right, style)
	}
}

// drawFooter shows the pending message, or contextual key help.
func (r *Renderer) drawFooter(v View, w, h int) {
	y := h - 1
	if y < headerRows {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	text := buildFooterHelpText(v)
	if v.Message != "" {
		text = " " + textutil.PrintableLiteral(v.Message)
		if v.IsError {
			style = style.Background(r.theme.ErrorBg).Foreground(r.theme.ErrorFg)
		}
	}
	x := r.drawTextLine(0, y, w, r.truncateTextToWidth(text, w), style)
	r.fillLine(x, y, w, style)
}

func (r *Renderer) placeCursor(v View, w, h int) {
	line, _ := v.Session.Position()
	row := line - 1 - v.Top
	if row < 0 || row >= BodyHeight(h) {
		r.screen.HideCursor()
		return
	}
	col := textutil.DisplayColumn(v.Session.Source(), v.Session.Cursor(), v.Session.TabWidth())
	if col >= w {
		col = w - 1
	}
	r.screen.ShowCursor(col, headerRows+row)
}

// formatPosition renders "Ln 3, Col 5" with a 1-indexed character column,
// plus the selection size when there is one.
func formatPosition(s *session.Session) string {
	line, col := s.Position()
	source := s.Source()
	lineStart := s.Cursor() - col
	text := fmt.Sprintf("Ln %d, Col %d", line, utf8.RuneCountInString(source[lineStart:s.Cursor()])+1)
	if sel := s.Selection(); sel != nil {
		text += fmt.Sprintf(" (%d selected)", utf8.RuneCountInString(source[sel.Start:sel.End]))
	}
	return text
}

// activeFormats lists the formatting commands in effect at the cursor.
func activeFormats(s *session.Session) string {
	st := s.State()
	var names []string
	if st.HeadingLevel != 0 {
		names = append(names, fmt.Sprintf("H%d", st.HeadingLevel))
	}
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{st.Bold, "bold"},
		{st.Italic, "italic"},
		{st.InlineCode, "code"},
		{st.Strikethrough, "strike"},
		{st.Link, "link"},
		{st.Image, "image"},
		{st.CodeBlock, "code block"},
		{st.BulletList, "bullets"},
		{st.NumberedList, "numbered"},
		{st.Blockquote, "quote"},
	} {
		if flag.on {
			names = append(names, flag.name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "[" + strings.Join(names, " ") + "]"
}
