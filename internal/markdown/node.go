package markdown

import "strings"

// Node is one element of the position-tracked tree. StartLine and EndLine are
// 1-indexed and inclusive, covering the node's own markup.
type Node struct {
	Type      NodeType
	Children  []*Node
	StartLine int
	EndLine   int
}

// NodeType is the closed set of node kinds. Only the types in this file
// implement it; consumers switch on the concrete type.
type NodeType interface {
	nodeType()
	Name() string
}

// HeadingLevel is an ATX/setext heading depth between 1 and 6.
type HeadingLevel int

// ClampHeadingLevel folds any integer into the 1..6 range.
func ClampHeadingLevel(level int) HeadingLevel {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	default:
		return HeadingLevel(level)
	}
}

// ListType distinguishes bullet lists from ordered ones. The zero value is a
// bullet list.
type ListType struct {
	Ordered   bool
	Start     uint32
	Delimiter byte // '.' or ')' for ordered lists
}

// BulletList is the ListType of an unordered list.
var BulletList = ListType{}

// OrderedList builds an ordered ListType, defaulting the delimiter to '.'.
func OrderedList(start uint32, delimiter byte) ListType {
	if delimiter != ')' {
		delimiter = '.'
	}
	return ListType{Ordered: true, Start: start, Delimiter: delimiter}
}

type TableAlignment int

const (
	AlignNone TableAlignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

type (
	Document   struct{}
	BlockQuote struct{}
	List       struct {
		ListType ListType
		Tight    bool
	}
	Item      struct{}
	CodeBlock struct {
		Language string
		Info     string
		Literal  string
	}
	HTMLBlock struct{ Literal string }
	Paragraph struct{}
	Heading   struct {
		Level  HeadingLevel
		Setext bool
	}
	ThematicBreak struct{}
	Table         struct {
		Alignments []TableAlignment
		NumColumns int
	}
	TableRow           struct{ Header bool }
	TableCell          struct{}
	Text               struct{ Literal string }
	TaskItem           struct{ Checked bool }
	SoftBreak          struct{}
	LineBreak          struct{}
	Code               struct{ Literal string }
	HTMLInline         struct{ Literal string }
	Emphasis           struct{}
	Strong             struct{}
	Strikethrough      struct{}
	Superscript        struct{}
	Link               struct{ URL, Title string }
	Image              struct{ URL, Title string }
	FootnoteReference  struct{ Label string }
	FootnoteDefinition struct{ Label string }
	DescriptionList    struct{}
	DescriptionItem    struct{}
	DescriptionTerm    struct{}
	DescriptionDetails struct{}
	FrontMatter        struct{ Literal string }
)

func (Document) nodeType()           {}
func (BlockQuote) nodeType()         {}
func (List) nodeType()               {}
func (Item) nodeType()               {}
func (CodeBlock) nodeType()          {}
func (HTMLBlock) nodeType()          {}
func (Paragraph) nodeType()          {}
func (Heading) nodeType()            {}
func (ThematicBreak) nodeType()      {}
func (Table) nodeType()              {}
func (TableRow) nodeType()           {}
func (TableCell) nodeType()          {}
func (Text) nodeType()               {}
func (TaskItem) nodeType()           {}
func (SoftBreak) nodeType()          {}
func (LineBreak) nodeType()          {}
func (Code) nodeType()               {}
func (HTMLInline) nodeType()         {}
func (Emphasis) nodeType()           {}
func (Strong) nodeType()             {}
func (Strikethrough) nodeType()      {}
func (Superscript) nodeType()        {}
func (Link) nodeType()               {}
func (Image) nodeType()              {}
func (FootnoteReference) nodeType()  {}
func (FootnoteDefinition) nodeType() {}
func (DescriptionList) nodeType()    {}
func (DescriptionItem) nodeType()    {}
func (DescriptionTerm) nodeType()    {}
func (DescriptionDetails) nodeType() {}
func (FrontMatter) nodeType()        {}

func (Document) Name() string           { return "Document" }
func (BlockQuote) Name() string         { return "BlockQuote" }
func (List) Name() string               { return "List" }
func (Item) Name() string               { return "Item" }
func (CodeBlock) Name() string          { return "CodeBlock" }
func (HTMLBlock) Name() string          { return "HtmlBlock" }
func (Paragraph) Name() string          { return "Paragraph" }
func (Heading) Name() string            { return "Heading" }
func (ThematicBreak) Name() string      { return "ThematicBreak" }
func (Table) Name() string              { return "Table" }
func (TableRow) Name() string           { return "TableRow" }
func (TableCell) Name() string          { return "TableCell" }
func (Text) Name() string               { return "Text" }
func (TaskItem) Name() string           { return "TaskItem" }
func (SoftBreak) Name() string          { return "SoftBreak" }
func (LineBreak) Name() string          { return "LineBreak" }
func (Code) Name() string               { return "Code" }
func (HTMLInline) Name() string         { return "HtmlInline" }
func (Emphasis) Name() string           { return "Emphasis" }
func (Strong) Name() string             { return "Strong" }
func (Strikethrough) Name() string      { return "Strikethrough" }
func (Superscript) Name() string        { return "Superscript" }
func (Link) Name() string               { return "Link" }
func (Image) Name() string              { return "Image" }
func (FootnoteReference) Name() string  { return "FootnoteReference" }
func (FootnoteDefinition) Name() string { return "FootnoteDefinition" }
func (DescriptionList) Name() string    { return "DescriptionList" }
func (DescriptionItem) Name() string    { return "DescriptionItem" }
func (DescriptionTerm) Name() string    { return "DescriptionTerm" }
func (DescriptionDetails) Name() string { return "DescriptionDetails" }
func (FrontMatter) Name() string        { return "FrontMatter" }

// NewNode creates a node spanning the given lines. An end before start is
// collapsed onto start.
func NewNode(t NodeType, startLine, endLine int) *Node {
	if endLine < startLine {
		endLine = startLine
	}
	return &Node{Type: t, StartLine: startLine, EndLine: endLine}
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// IsBlock reports whether the node is block-level markup.
func (n *Node) IsBlock() bool {
	switch n.Type.(type) {
	case Document, BlockQuote, List, Item, TaskItem, CodeBlock, HTMLBlock, Paragraph,
		Heading, ThematicBreak, Table, TableRow, TableCell, FootnoteDefinition,
		DescriptionList, DescriptionItem, DescriptionTerm, DescriptionDetails, FrontMatter:
		return true
	default:
		return false
	}
}

// TextContent concatenates the text of n and its descendants. Soft breaks
// read as spaces and hard breaks as newlines.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	switch t := n.Type.(type) {
	case Text:
		b.WriteString(t.Literal)
	case Code:
		b.WriteString(t.Literal)
	case SoftBreak:
		b.WriteByte(' ')
	case LineBreak:
		b.WriteByte('\n')
	}
	for _, child := range n.Children {
		child.collectText(b)
	}
}

// WalkFunc is called for every node in document order. Returning false skips
// the node's children.
type WalkFunc func(n *Node, depth int) bool

// Walk visits n and its descendants depth first.
func Walk(n *Node, fn WalkFunc) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn WalkFunc) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// BlockAt returns the chain of block nodes whose line span contains line,
// outermost first. The Document itself is always the first element when the
// line is inside the document.
func (n *Node) BlockAt(line int) []*Node {
	if n == nil || line < n.StartLine || line > n.EndLine {
		return nil
	}
	path := []*Node{n}
	cur := n
	for {
		var next *Node
		for _, child := range cur.Children {
			if child.IsBlock() && line >= child.StartLine && line <= child.EndLine {
				next = child
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
		cur = next
	}
}
