package markdown

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Options selects the Markdown extensions the parser understands.
type Options struct {
	Tables           bool `mapstructure:"tables" yaml:"tables"`
	Strikethrough    bool `mapstructure:"strikethrough" yaml:"strikethrough"`
	Autolink         bool `mapstructure:"autolink" yaml:"autolink"`
	TaskList         bool `mapstructure:"tasklist" yaml:"tasklist"`
	Footnotes        bool `mapstructure:"footnotes" yaml:"footnotes"`
	DescriptionLists bool `mapstructure:"description_lists" yaml:"description_lists"`
	FrontMatter      bool `mapstructure:"front_matter" yaml:"front_matter"`
}

// DefaultOptions enables everything except description lists.
func DefaultOptions() Options {
	return Options{
		Tables:        true,
		Strikethrough: true,
		Autolink:      true,
		TaskList:      true,
		Footnotes:     true,
		FrontMatter:   true,
	}
}

func (o Options) extenders() []goldmark.Extender {
	var exts []goldmark.Extender
	if o.Tables {
		exts = append(exts, extension.Table)
	}
	if o.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if o.Autolink {
		exts = append(exts, extension.Linkify)
	}
	if o.TaskList {
		exts = append(exts, extension.TaskList)
	}
	if o.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	if o.DescriptionLists {
		exts = append(exts, extension.DefinitionList)
	}
	return exts
}

// ParseError reports a failure inside the tokenizer. Callers are expected to
// fall back to showing the raw text.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "markdown parse failed: " + e.Msg
}

// Tree is a parsed snapshot of a source buffer. Its line numbers are only
// valid for Source; any edit requires a fresh parse.
type Tree struct {
	Root        *Node
	Source      string
	FrontMatter *FrontMatterBlock
}

// Headings returns every heading node in document order.
func (t *Tree) Headings() []*Node {
	var out []*Node
	Walk(t.Root, func(n *Node, _ int) bool {
		if _, ok := n.Type.(Heading); ok {
			out = append(out, n)
			return false
		}
		return n.IsBlock()
	})
	return out
}

// Parser converts Markdown source into position-tracked trees.
type Parser struct {
	opts Options
	md   goldmark.Markdown
}

func NewParser(opts Options) *Parser {
	return &Parser{
		opts: opts,
		md:   goldmark.New(goldmark.WithExtensions(opts.extenders()...)),
	}
}

var defaultParser = sync.OnceValue(func() *Parser {
	return NewParser(DefaultOptions())
})

// Parse parses source with DefaultOptions.
func Parse(source string) (*Tree, error) {
	return defaultParser().Parse(source)
}

func (p *Parser) Options() Options {
	return p.opts
}

// Parse tokenizes source and converts the result. A front matter block, when
// enabled, is removed before tokenizing and reported on the tree; node lines
// still index the full source.
func (p *Parser) Parse(source string) (tree *Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			tree = nil
			err = &ParseError{Msg: fmt.Sprint(r)}
		}
	}()

	var fm *FrontMatterBlock
	body := source
	if p.opts.FrontMatter {
		fm, body = SplitFrontMatter(source)
	}

	src := []byte(body)
	root := p.md.Parser().Parse(text.NewReader(src))
	c := newConverter(src)
	c.collectFootnotes(root)

	doc := NewNode(Document{}, 1, max(1, countLines(source)))
	c.blockChildren(root, doc, 1)
	slices.SortStableFunc(doc.Children, func(a, b *Node) int {
		return cmp.Compare(a.StartLine, b.StartLine)
	})

	if fm != nil {
		for _, child := range doc.Children {
			shiftLines(child, fm.Lines)
		}
		fmNode := NewNode(FrontMatter{Literal: fm.Raw}, 1, fm.Lines)
		doc.Children = append([]*Node{fmNode}, doc.Children...)
	}
	return &Tree{Root: doc, Source: source, FrontMatter: fm}, nil
}

func shiftLines(n *Node, by int) {
	Walk(n, func(m *Node, _ int) bool {
		m.StartLine += by
		m.EndLine += by
		return true
	})
}

// countLines counts lines the way a line iterator does: a trailing newline
// does not open an extra line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

type converter struct {
	src        []byte
	lineStarts []int
	footnotes  map[int]string
}

func newConverter(src []byte) *converter {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &converter{src: src, lineStarts: starts, footnotes: map[int]string{}}
}

func (c *converter) collectFootnotes(root ast.Node) {
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*extast.Footnote); ok && entering {
			c.footnotes[fn.Index] = string(fn.Ref)
		}
		return ast.WalkContinue, nil
	})
}

func (c *converter) numLines() int {
	return len(c.lineStarts)
}

// lineOf maps a byte position to its 1-indexed line.
func (c *converter) lineOf(pos int) int {
	return sort.Search(len(c.lineStarts), func(i int) bool {
		return c.lineStarts[i] > pos
	})
}

func (c *converter) line(n int) string {
	if n < 1 || n > len(c.lineStarts) {
		return ""
	}
	start := c.lineStarts[n-1]
	end := len(c.src)
	if n < len(c.lineStarts) {
		end = c.lineStarts[n] - 1
	}
	return strings.TrimSuffix(string(c.src[start:end]), "\r")
}

// scanNonBlank finds the first non-blank line at or after from. Nodes that
// carry no source segments are located this way.
func (c *converter) scanNonBlank(from int) int {
	from = max(from, 1)
	for l := from; l <= c.numLines(); l++ {
		if !IsBlankLine(c.line(l)) {
			return l
		}
	}
	return min(from, c.numLines())
}

func (c *converter) segmentsSpan(lines *text.Segments) (int, int, bool) {
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return c.lineOf(first.Start), c.lineOf(max(last.Start, last.Stop-1)), true
}

func (c *converter) blockChildren(parent ast.Node, out *Node, next int) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if list, ok := child.(*extast.FootnoteList); ok {
			c.blockChildren(list, out, next)
			continue
		}
		node := c.block(child, next)
		if node == nil {
			continue
		}
		out.AppendChild(node)
		if node.EndLine >= next {
			next = node.EndLine + 1
		}
	}
}

// spanChildren sets n's lines from its children, or from the next non-blank
// line when it has none.
func (c *converter) spanChildren(n *Node, next int) {
	if len(n.Children) == 0 {
		n.StartLine = c.scanNonBlank(next)
		n.EndLine = n.StartLine
		return
	}
	n.StartLine = n.Children[0].StartLine
	n.EndLine = n.Children[0].EndLine
	for _, child := range n.Children[1:] {
		n.StartLine = min(n.StartLine, child.StartLine)
		n.EndLine = max(n.EndLine, child.EndLine)
	}
}

func (c *converter) container(t NodeType, gn ast.Node, next int) *Node {
	node := &Node{Type: t}
	c.blockChildren(gn, node, next)
	c.spanChildren(node, next)
	return node
}

func (c *converter) textBlock(t NodeType, gn ast.Node, next int) *Node {
	start, end, ok := c.segmentsSpan(gn.Lines())
	if !ok {
		start = c.scanNonBlank(next)
		end = start
	}
	node := NewNode(t, start, end)
	c.inlines(gn, node)
	return node
}

func (c *converter) block(gn ast.Node, next int) *Node {
	switch n := gn.(type) {
	case *ast.Paragraph:
		return c.textBlock(Paragraph{}, n, next)
	case *ast.TextBlock:
		return c.textBlock(Paragraph{}, n, next)
	case *ast.Heading:
		node := c.textBlock(Heading{Level: ClampHeadingLevel(n.Level)}, n, next)
		if !isATXLine(c.line(node.StartLine)) {
			node.Type = Heading{Level: ClampHeadingLevel(n.Level), Setext: true}
			node.EndLine = min(node.EndLine+1, c.numLines())
		}
		return node
	case *ast.ThematicBreak:
		line := c.scanNonBlank(next)
		return NewNode(ThematicBreak{}, line, line)
	case *ast.CodeBlock:
		start, end, ok := c.segmentsSpan(n.Lines())
		if !ok {
			start = c.scanNonBlank(next)
			end = start
		}
		return NewNode(CodeBlock{Literal: string(n.Lines().Value(c.src))}, start, end)
	case *ast.FencedCodeBlock:
		return c.fencedCode(n, next)
	case *ast.HTMLBlock:
		start, end, ok := c.segmentsSpan(n.Lines())
		literal := string(n.Lines().Value(c.src))
		if n.HasClosure() {
			closure := c.lineOf(n.ClosureLine.Start)
			if !ok {
				start = closure
			}
			end = closure
			ok = true
			literal += string(n.ClosureLine.Value(c.src))
		}
		if !ok {
			start = c.scanNonBlank(next)
			end = start
		}
		return NewNode(HTMLBlock{Literal: literal}, start, end)
	case *ast.Blockquote:
		return c.container(BlockQuote{}, n, next)
	case *ast.List:
		lt := BulletList
		if n.IsOrdered() {
			lt = OrderedList(uint32(max(n.Start, 0)), n.Marker)
		}
		return c.container(List{ListType: lt, Tight: n.IsTight}, n, next)
	case *ast.ListItem:
		var t NodeType = Item{}
		if box := taskCheckBox(n); box != nil {
			t = TaskItem{Checked: box.IsChecked}
		}
		return c.container(t, n, next)
	case *extast.Table:
		return c.table(n, next)
	case *extast.Footnote:
		return c.container(FootnoteDefinition{Label: string(n.Ref)}, n, next)
	case *extast.DefinitionList:
		return c.descriptionList(n, next)
	default:
		return nil
	}
}

func isATXLine(line string) bool {
	trimmed := TrimIndent(line)
	n := HeadingHashes(trimmed)
	if n < 1 || n > 6 {
		return false
	}
	return n == len(trimmed) || trimmed[n] == ' ' || trimmed[n] == '\t'
}

func taskCheckBox(item *ast.ListItem) *extast.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	box, _ := first.FirstChild().(*extast.TaskCheckBox)
	return box
}

// fenceLine strips container markers before matching a fence run.
func fenceLine(line string) (byte, int, string) {
	stripped := strings.TrimLeft(line, " \t>")
	if m, ok := ScanListMarker(stripped); ok {
		stripped = strings.TrimLeft(stripped[len(m.Prefix):], " \t")
	}
	ch, n := fenceRun(stripped)
	if n == 0 {
		return 0, 0, ""
	}
	return ch, n, stripped[n:]
}

func (c *converter) fencedCode(n *ast.FencedCodeBlock, next int) *Node {
	info := ""
	open := 0
	if n.Info != nil {
		info = string(n.Info.Segment.Value(c.src))
		open = c.lineOf(n.Info.Segment.Start)
	}
	contentStart, contentEnd, hasContent := c.segmentsSpan(n.Lines())
	if open == 0 {
		if hasContent {
			open = contentStart - 1
		} else {
			open = c.scanNonBlank(next)
		}
	}
	open = max(open, 1)

	end := open
	if hasContent {
		end = contentEnd
	}
	if ch, width, _ := fenceLine(c.line(open)); width > 0 && end+1 <= c.numLines() {
		closeCh, closeWidth, rest := fenceLine(c.line(end + 1))
		if closeCh == ch && closeWidth >= width && strings.TrimSpace(rest) == "" {
			end++
		}
	}

	return NewNode(CodeBlock{
		Language: string(n.Language(c.src)),
		Info:     info,
		Literal:  string(n.Lines().Value(c.src)),
	}, open, end)
}

func (c *converter) table(n *extast.Table, next int) *Node {
	alignments := make([]TableAlignment, len(n.Alignments))
	for i, a := range n.Alignments {
		switch a {
		case extast.AlignLeft:
			alignments[i] = AlignLeft
		case extast.AlignCenter:
			alignments[i] = AlignCenter
		case extast.AlignRight:
			alignments[i] = AlignRight
		default:
			alignments[i] = AlignNone
		}
	}
	node := &Node{Type: Table{Alignments: alignments, NumColumns: len(alignments)}}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			node.AppendChild(c.tableRow(row, true, next))
		case *extast.TableRow:
			node.AppendChild(c.tableRow(row, false, next))
		default:
			continue
		}
		last := node.Children[len(node.Children)-1]
		next = last.EndLine + 1
		if last.Type.(TableRow).Header {
			next++ // delimiter row
		}
	}
	c.spanChildren(node, next)
	if len(node.Children) == 1 {
		node.EndLine = min(node.EndLine+1, c.numLines())
	}
	return node
}

func (c *converter) tableRow(row ast.Node, header bool, next int) *Node {
	line := 0
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if start, _, ok := c.segmentsSpan(cell.Lines()); ok {
			line = start
			break
		}
	}
	if line == 0 {
		line = c.scanNonBlank(next)
	}
	node := NewNode(TableRow{Header: header}, line, line)
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cellNode := NewNode(TableCell{}, line, line)
		c.inlines(cell, cellNode)
		node.AppendChild(cellNode)
	}
	return node
}

// descriptionList regroups the flat term/description sequence into items.
func (c *converter) descriptionList(n *extast.DefinitionList, next int) *Node {
	list := &Node{Type: DescriptionList{}}
	var item *Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *extast.DefinitionTerm:
			term := c.textBlock(DescriptionTerm{}, child, next)
			item = &Node{Type: DescriptionItem{}}
			item.AppendChild(term)
			list.AppendChild(item)
			next = term.EndLine + 1
		case *extast.DefinitionDescription:
			details := c.container(DescriptionDetails{}, child, next)
			if item == nil {
				item = &Node{Type: DescriptionItem{}}
				list.AppendChild(item)
			}
			item.AppendChild(details)
			next = details.EndLine + 1
		}
	}
	for _, it := range list.Children {
		c.spanChildren(it, next)
	}
	c.spanChildren(list, next)
	return list
}

func (c *converter) inlines(parent ast.Node, out *Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		c.inline(child, out)
	}
}

func (c *converter) inlineContainer(t NodeType, gn ast.Node, out *Node) {
	node := NewNode(t, out.StartLine, out.StartLine)
	c.inlines(gn, node)
	if len(node.Children) > 0 {
		c.spanChildren(node, out.StartLine)
	}
	out.AppendChild(node)
}

func (c *converter) inline(gn ast.Node, out *Node) {
	switch n := gn.(type) {
	case *ast.Text:
		line := c.lineOf(n.Segment.Start)
		out.AppendChild(NewNode(Text{Literal: string(n.Value(c.src))}, line, line))
		switch {
		case n.HardLineBreak():
			out.AppendChild(NewNode(LineBreak{}, line, line))
		case n.SoftLineBreak():
			out.AppendChild(NewNode(SoftBreak{}, line, line))
		}
	case *ast.String:
		out.AppendChild(NewNode(Text{Literal: string(n.Value)}, out.StartLine, out.StartLine))
	case *ast.CodeSpan:
		var b strings.Builder
		line := out.StartLine
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.Text:
				if b.Len() == 0 {
					line = c.lineOf(t.Segment.Start)
				}
				b.Write(t.Segment.Value(c.src))
			case *ast.String:
				b.Write(t.Value)
			}
		}
		literal := strings.ReplaceAll(b.String(), "\n", " ")
		out.AppendChild(NewNode(Code{Literal: literal}, line, line))
	case *ast.Emphasis:
		if n.Level >= 2 {
			c.inlineContainer(Strong{}, n, out)
		} else {
			c.inlineContainer(Emphasis{}, n, out)
		}
	case *extast.Strikethrough:
		c.inlineContainer(Strikethrough{}, n, out)
	case *ast.Link:
		c.inlineContainer(Link{URL: string(n.Destination), Title: string(n.Title)}, n, out)
	case *ast.Image:
		c.inlineContainer(Image{URL: string(n.Destination), Title: string(n.Title)}, n, out)
	case *ast.AutoLink:
		link := NewNode(Link{URL: string(n.URL(c.src))}, out.StartLine, out.StartLine)
		link.AppendChild(NewNode(Text{Literal: string(n.Label(c.src))}, out.StartLine, out.StartLine))
		out.AppendChild(link)
	case *ast.RawHTML:
		line := out.StartLine
		literal := ""
		if n.Segments != nil && n.Segments.Len() > 0 {
			line = c.lineOf(n.Segments.At(0).Start)
			literal = string(n.Segments.Value(c.src))
		}
		out.AppendChild(NewNode(HTMLInline{Literal: literal}, line, line))
	case *extast.FootnoteLink:
		out.AppendChild(NewNode(FootnoteReference{Label: c.footnotes[n.Index]}, out.StartLine, out.StartLine))
	case *extast.TaskCheckBox, *extast.FootnoteBacklink:
	default:
		c.inlines(gn, out)
	}
}
