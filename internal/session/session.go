// Package session owns an editable Markdown buffer. It keeps the source, the
// cursor and selection, and the parsed tree for the current snapshot, and
// routes editor actions to the formatting and structural engines.
//
// A Session is not safe for concurrent use.
package session

import (
	"github.com/rs/zerolog"

	"github.com/kk-code-lab/mdsync/internal/format"
	"github.com/kk-code-lab/mdsync/internal/markdown"
	"github.com/kk-code-lab/mdsync/internal/textutil"
)

const (
	defaultTabWidth = 4
	historyLimit    = 200
)

type snapshot struct {
	source string
	cursor int
}

// Session is the single source of truth for one open document.
type Session struct {
	source string
	cursor int
	anchor int // selection anchor, -1 when nothing is selected

	parser   *markdown.Parser
	tree     *markdown.Tree
	parseErr error

	undo  []snapshot
	redo  []snapshot
	dirty bool

	tabWidth int
	log      zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes action logs to log. The default logger discards output.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithParser replaces the default parser.
func WithParser(p *markdown.Parser) Option {
	return func(s *Session) {
		if p != nil {
			s.parser = p
		}
	}
}

// WithTabWidth sets the width used for vertical cursor movement.
func WithTabWidth(width int) Option {
	return func(s *Session) {
		if width > 0 {
			s.tabWidth = width
		}
	}
}

// New opens source with the cursor at the start of the buffer.
func New(source string, opts ...Option) *Session {
	s := &Session{
		source:   source,
		anchor:   -1,
		parser:   markdown.NewParser(markdown.DefaultOptions()),
		tabWidth: defaultTabWidth,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reparse()
	return s
}

func (s *Session) Source() string { return s.source }

func (s *Session) Cursor() int { return s.cursor }

// Tree returns the parse of the current source, or nil when the last parse
// failed; ParseErr then holds the failure.
func (s *Session) Tree() *markdown.Tree { return s.tree }

func (s *Session) ParseErr() error { return s.parseErr }

// Dirty reports whether the source changed since it was opened or last
// marked saved.
func (s *Session) Dirty() bool { return s.dirty }

// TabWidth is the tab stop width used for display columns.
func (s *Session) TabWidth() int { return s.tabWidth }

func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Selection returns the ordered selection, or nil when nothing is selected.
func (s *Session) Selection() *format.Selection {
	if s.anchor < 0 || s.anchor == s.cursor {
		return nil
	}
	return &format.Selection{Start: min(s.anchor, s.cursor), End: max(s.anchor, s.cursor)}
}

// SelectedText returns the selected slice of the source.
func (s *Session) SelectedText() string {
	sel := s.Selection()
	if sel == nil {
		return ""
	}
	return s.source[sel.Start:sel.End]
}

// Position returns the cursor as a 1-indexed line and a byte column.
func (s *Session) Position() (line, col int) {
	l, c := textutil.ByteOffsetToLineCol(s.source, s.cursor)
	return l + 1, c
}

// State reports the formatting active at the cursor.
func (s *Session) State() format.State {
	return format.Detect(s.source, s.cursor)
}

// Outline lists the headings of the current tree.
func (s *Session) Outline() markdown.Outline {
	if s.tree == nil {
		return markdown.Outline{}
	}
	return markdown.ExtractOutline(s.tree)
}

func (s *Session) Stats() markdown.Stats {
	return markdown.ComputeStats(s.source)
}

func (s *Session) reparse() {
	tree, err := s.parser.Parse(s.source)
	s.tree, s.parseErr = tree, err
	if err != nil {
		s.log.Warn().Err(err).Msg("parse failed, structural editing disabled")
	}
}

// setSource replaces the buffer, records the previous snapshot for undo and
// re-parses. The cursor is clamped onto a character boundary.
func (s *Session) setSource(source string, cursor int) {
	if source == s.source {
		s.setCursor(cursor)
		return
	}
	s.pushHistory(&s.undo, snapshot{source: s.source, cursor: s.cursor})
	s.redo = s.redo[:0]
	s.source = source
	s.dirty = true
	s.setCursor(cursor)
	s.reparse()
}

func (s *Session) setCursor(off int) {
	s.cursor = textutil.FloorCharBoundary(s.source, off)
	if s.anchor > len(s.source) {
		s.anchor = -1
	}
}

func (s *Session) clearSelection() {
	s.anchor = -1
}

func (s *Session) pushHistory(stack *[]snapshot, snap snapshot) {
	*stack = append(*stack, snap)
	if len(*stack) > historyLimit {
		*stack = append((*stack)[:0], (*stack)[len(*stack)-historyLimit:]...)
	}
}

func (s *Session) restore(from, to *[]snapshot) bool {
	if len(*from) == 0 {
		return false
	}
	snap := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	s.pushHistory(to, snapshot{source: s.source, cursor: s.cursor})
	s.source = snap.source
	s.dirty = true
	s.clearSelection()
	s.setCursor(snap.cursor)
	s.reparse()
	return true
}
