package textutil

import "strings"

var formattingRuneLabels = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x00AD: "⟪SHY⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// PrintableLiteral renders node text on a single terminal line: line breaks
// and tabs become visible escapes, other control bytes become '?', and
// bidi/zero-width formatting runes are labelled so they cannot reorder output.
func PrintableLiteral(text string) string {
	clean := true
	for _, r := range text {
		if needsEscape(r) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	for _, r := range text {
		if label, ok := formattingRuneLabels[r]; ok {
			b.WriteString(label)
			continue
		}
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasFormattingRunes reports whether text contains bidi or zero-width formatting runes.
func HasFormattingRunes(text string) bool {
	for _, r := range text {
		if _, ok := formattingRuneLabels[r]; ok {
			return true
		}
	}
	return false
}

func needsEscape(r rune) bool {
	if _, ok := formattingRuneLabels[r]; ok {
		return true
	}
	return r < 0x20 || r == 0x7f
}
