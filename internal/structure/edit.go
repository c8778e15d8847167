// Package structure rewrites whole lines of a Markdown buffer to split, merge,
// indent and outdent paragraphs and list items. Every operation is a pure
// function of the source and an EditContext and returns a fresh buffer.
package structure

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/mdsync/internal/markdown"
)

// NodeKind is the kind of block the cursor is focused in.
type NodeKind int

const (
	KindParagraph NodeKind = iota
	KindHeading
	KindListItem
	KindCodeBlock
	KindBlockQuote
	KindTableCell
)

func (k NodeKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list-item"
	case KindCodeBlock:
		return "code-block"
	case KindBlockQuote:
		return "blockquote"
	case KindTableCell:
		return "table-cell"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, error) {
	for k := KindParagraph; k <= KindTableCell; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// EditContext describes the focused node. Lines are 1-indexed and inclusive.
// CursorOffset is a byte offset into Text. ListType, ItemIndex and
// NestingDepth only apply to list items; depth 0 is the top level.
type EditContext struct {
	Kind         NodeKind
	HeadingLevel markdown.HeadingLevel
	StartLine    int
	EndLine      int
	CursorOffset int
	Text         string
	ListType     markdown.ListType
	ItemIndex    int
	NestingDepth int
}

// HintKind tells the caller which kind of node should receive focus.
type HintKind int

const (
	HintNone HintKind = iota
	HintParagraph
	HintHeading
	HintListItem
)

func (k HintKind) String() string {
	switch k {
	case HintParagraph:
		return "paragraph"
	case HintHeading:
		return "heading"
	case HintListItem:
		return "list-item"
	default:
		return "none"
	}
}

type NodeHint struct {
	Kind     HintKind
	Level    markdown.HeadingLevel
	ListType markdown.ListType
	Index    int
}

func paragraphHint() NodeHint {
	return NodeHint{Kind: HintParagraph}
}

func listItemHint(lt markdown.ListType, index int) NodeHint {
	return NodeHint{Kind: HintListItem, ListType: lt, Index: index}
}

// CursorPosition is where focus lands after an edit: a 1-indexed line and a
// byte offset within that node's editable text.
type CursorPosition struct {
	Line   int
	Offset int
	Hint   NodeHint
}

// StructuralEdit is the result of an operation. When Performed is false the
// caller must ignore NewSource.
type StructuralEdit struct {
	NewSource string
	Cursor    CursorPosition
	Performed bool
}

// NoOp is the result of an operation that does not apply.
func NoOp() StructuralEdit {
	return StructuralEdit{}
}

func success(source string, cursor CursorPosition) StructuralEdit {
	return StructuralEdit{NewSource: source, Cursor: cursor, Performed: true}
}
