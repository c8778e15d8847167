package markdown

import (
	"fmt"
	"strings"
	"unicode"
)

// Stats holds the status-bar counters for a buffer.
type Stats struct {
	Words              int
	Characters         int
	CharactersNoSpaces int
	Lines              int
	Paragraphs         int
}

// ComputeStats counts words, characters, lines and paragraphs in one pass.
// Paragraphs are runs of non-blank lines; an empty buffer still has one line.
func ComputeStats(text string) Stats {
	if text == "" {
		return Stats{Lines: 1}
	}
	s := Stats{Lines: strings.Count(text, "\n") + 1}

	inWord := false
	inParagraph := false
	newlines := 0
	lineHasContent := false
	for _, r := range text {
		s.Characters++
		if !unicode.IsSpace(r) {
			s.CharactersNoSpaces++
			newlines = 0
			lineHasContent = true
			if !inWord {
				inWord = true
				s.Words++
			}
			continue
		}

		inWord = false
		if r != '\n' {
			newlines = 0
			continue
		}
		newlines++
		if lineHasContent && !inParagraph {
			inParagraph = true
			s.Paragraphs++
		}
		if newlines >= 2 {
			inParagraph = false
		}
		lineHasContent = false
	}
	if lineHasContent && !inParagraph {
		s.Paragraphs++
	}
	return s
}

// Compact formats the counters like "150 words | 892 chars | 25 lines".
func (s Stats) Compact() string {
	return fmt.Sprintf("%d words | %d chars | %d lines", s.Words, s.Characters, s.Lines)
}
