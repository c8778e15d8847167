package render

import "github.com/kk-code-lab/mdsync/internal/markdown"

type lineKind int

const (
	lineText lineKind = iota
	lineHeading
	lineCode
	lineQuote
	lineRule
	lineTable
	lineFrontMatter
)

// lineKinds classifies each of the n source lines by the innermost styled
// block covering it. A nil tree leaves every line plain.
func lineKinds(tree *markdown.Tree, n int) []lineKind {
	kinds := make([]lineKind, n)
	if tree == nil {
		return kinds
	}
	markdown.Walk(tree.Root, func(node *markdown.Node, _ int) bool {
		if !node.IsBlock() {
			return false
		}
		kind := lineText
		switch node.Type.(type) {
		case markdown.Heading:
			kind = lineHeading
		case markdown.CodeBlock, markdown.HTMLBlock:
			kind = lineCode
		case markdown.BlockQuote:
			kind = lineQuote
		case markdown.ThematicBreak:
			kind = lineRule
		case markdown.Table:
			kind = lineTable
		case markdown.FrontMatter:
			kind = lineFrontMatter
		default:
			return true
		}
		for line := node.StartLine; line <= node.EndLine; line++ {
			if line >= 1 && line <= n {
				kinds[line-1] = kind
			}
		}
		return true
	})
	return kinds
}
