package structure

import (
	"strings"

	"github.com/kk-code-lab/mdsync/internal/markdown"
)

// document is a source buffer split into lines. A final newline is not a
// line of its own; it is remembered and restored by join.
type document struct {
	lines           []string
	trailingNewline bool
}

func splitSource(source string) document {
	if source == "" {
		return document{}
	}
	trailing := strings.HasSuffix(source, "\n")
	if trailing {
		source = source[:len(source)-1]
	}
	return document{lines: strings.Split(source, "\n"), trailingNewline: trailing}
}

func (d document) join(lines []string) string {
	out := strings.Join(lines, "\n")
	if d.trailingNewline {
		out += "\n"
	}
	return out
}

// contentLines splits replacement text into lines, ignoring one trailing
// newline. Empty text yields no lines.
func contentLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// lineIndex converts a 1-indexed line to a slice index, treating 0 as line 1.
func lineIndex(line int) int {
	return max(line-1, 0)
}

// ExtractListPrefix splits a line into its list marker prefix (indentation,
// marker and following space) and the content after it. Lines that are not
// list items return an empty prefix.
func ExtractListPrefix(line string) (prefix, content string) {
	return markdown.SplitListPrefix(line)
}

// ExtractLinePrefix is ExtractListPrefix that also recognises a `> ` quote.
func ExtractLinePrefix(line string) (prefix, content string) {
	return markdown.SplitLinePrefix(line)
}

// FormatHeading renders an ATX heading line.
func FormatHeading(text string, level markdown.HeadingLevel) string {
	return strings.Repeat("#", int(markdown.ClampHeadingLevel(int(level)))) + " " + strings.TrimSpace(text)
}

// UpdateSourceLine replaces a single 1-indexed line. Out of range lines leave
// the source untouched.
func UpdateSourceLine(source string, line int, content string) string {
	doc := splitSource(source)
	if line < 1 || line > len(doc.lines) {
		return source
	}
	lines := append([]string(nil), doc.lines...)
	lines[line-1] = content
	return doc.join(lines)
}

// UpdateSourceRange replaces lines start..end with content while keeping the
// structural prefix of the original first line. The first new line gets that
// prefix back; further lines are indented by the prefix's indentation plus
// two spaces so they stay inside the list item or quote.
func UpdateSourceRange(source string, start, end int, content string) string {
	doc := splitSource(source)
	if start < 1 || start > len(doc.lines) {
		return source
	}
	prefix, _ := ExtractLinePrefix(doc.lines[start-1])
	indent := prefix[:len(prefix)-len(markdown.TrimIndent(prefix))]

	out := make([]string, 0, len(doc.lines))
	out = append(out, doc.lines[:start-1]...)
	body := contentLines(content)
	for i, line := range body {
		switch {
		case prefix == "":
			out = append(out, line)
		case i == 0:
			out = append(out, prefix+line)
		default:
			out = append(out, indent+"  "+line)
		}
	}
	if len(body) == 0 && prefix != "" {
		out = append(out, prefix)
	}
	if from := max(end, start); from < len(doc.lines) {
		out = append(out, doc.lines[from:]...)
	}
	return doc.join(out)
}

// UpdateCodeBlock rewrites a fenced code block spanning start..end.
func UpdateCodeBlock(source string, start, end int, language, content string) string {
	doc := splitSource(source)
	if start < 1 || end > len(doc.lines) || end < start {
		return source
	}
	out := make([]string, 0, len(doc.lines)+2)
	out = append(out, doc.lines[:start-1]...)
	out = append(out, "```"+language)
	out = append(out, contentLines(content)...)
	out = append(out, "```")
	out = append(out, doc.lines[end:]...)
	return doc.join(out)
}

// UpdateTable swaps the lines start..end for a re-rendered table.
func UpdateTable(source string, start, end int, table string) string {
	doc := splitSource(source)
	if start < 1 || start > len(doc.lines) {
		return source
	}
	out := make([]string, 0, len(doc.lines))
	out = append(out, doc.lines[:start-1]...)
	out = append(out, contentLines(table)...)
	if from := max(end, start); from < len(doc.lines) {
		out = append(out, doc.lines[from:]...)
	}
	return doc.join(out)
}

// LinkEdit describes a change to one link. Autolinks only have their URL
// replaced so no bracket syntax is introduced.
type LinkEdit struct {
	OldText  string
	OldURL   string
	NewText  string
	NewURL   string
	Title    string
	Autolink bool
}

func (e LinkEdit) markup() string {
	if e.Title == "" {
		return "[" + e.NewText + "](" + e.NewURL + ")"
	}
	return "[" + e.NewText + "](" + e.NewURL + " \"" + e.Title + "\")"
}

// UpdateLink rewrites a link found on lines start..end. Line 0 is read as
// line 1.
func UpdateLink(source string, start, end int, edit LinkEdit) string {
	doc := splitSource(source)
	start, end = max(start, 1), max(end, 1)
	if start > len(doc.lines) {
		return source
	}
	lines := append([]string(nil), doc.lines...)
	for i := start - 1; i < min(end, len(lines)); i++ {
		lines[i] = rewriteLink(lines[i], edit)
	}
	return doc.join(lines)
}

func rewriteLink(line string, e LinkEdit) string {
	if e.Autolink {
		if e.OldURL == "" {
			return line
		}
		return strings.ReplaceAll(line, e.OldURL, e.NewURL)
	}

	simple := "[" + e.OldText + "](" + e.OldURL + ")"
	titled := "[" + e.OldText + "](" + e.OldURL + " \""
	if at := strings.Index(line, titled); at >= 0 {
		rest := line[at+len(titled):]
		if q := strings.IndexByte(rest, '"'); q >= 0 && strings.HasPrefix(rest[q+1:], ")") {
			end := at + len(titled) + q + 2
			return line[:at] + e.markup() + line[end:]
		}
	}
	if strings.Contains(line, simple) {
		return strings.ReplaceAll(line, simple, e.markup())
	}

	oldTarget := "](" + e.OldURL + ")"
	if e.OldText == e.NewText && strings.Contains(line, oldTarget) {
		return strings.ReplaceAll(line, oldTarget, "]("+e.NewURL+")")
	}
	if e.OldURL != "" && strings.Contains(line, e.OldText) && strings.Contains(line, e.OldURL) {
		line = strings.ReplaceAll(line, "["+e.OldText+"]", "["+e.NewText+"]")
		return strings.ReplaceAll(line, e.OldURL, e.NewURL)
	}
	return line
}

// ExtractListItemContent returns a line's text after its list or quote
// marker. Line is 1-indexed.
func ExtractListItemContent(source string, line int) string {
	doc := splitSource(source)
	if line < 1 || line > len(doc.lines) {
		return ""
	}
	_, content := ExtractLinePrefix(doc.lines[line-1])
	return content
}

// ExtractParagraphContent returns lines start..end joined by newlines.
func ExtractParagraphContent(source string, start, end int) string {
	doc := splitSource(source)
	if start < 1 || start > len(doc.lines) {
		return ""
	}
	end = max(min(end, len(doc.lines)), start)
	return strings.Join(doc.lines[start-1:end], "\n")
}
