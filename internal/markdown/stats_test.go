package markdown

import "testing"

func TestComputeStats(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Stats
	}{
		{"empty", "", Stats{Lines: 1}},
		{"single word", "Hello", Stats{Words: 1, Characters: 5, CharactersNoSpaces: 5, Lines: 1, Paragraphs: 1}},
		{"sentence", "Hello, World!", Stats{Words: 2, Characters: 13, CharactersNoSpaces: 12, Lines: 1, Paragraphs: 1}},
		{"trailing newline", "Hello\n", Stats{Words: 1, Characters: 6, CharactersNoSpaces: 5, Lines: 2, Paragraphs: 1}},
		{"only whitespace", "   \n\n   ", Stats{Characters: 8, Lines: 3}},
		{"only newlines", "\n\n\n", Stats{Characters: 3, Lines: 4}},
		{"unicode", "Привет мир! 你好世界", Stats{Words: 3, Characters: 16, CharactersNoSpaces: 14, Lines: 1, Paragraphs: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeStats(tc.text); got != tc.want {
				t.Fatalf("ComputeStats(%q)=%+v want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestComputeStatsParagraphs(t *testing.T) {
	cases := map[string]int{
		"Line one\nLine two\nLine three":                                              1,
		"First paragraph.\n\nSecond paragraph.":                                       2,
		"Paragraph one here.\n\nParagraph two.\nStill paragraph two.\n\nParagraph three.": 3,
		"word1  word2\t\tword3":                                                       1,
	}
	for text, want := range cases {
		if got := ComputeStats(text).Paragraphs; got != want {
			t.Fatalf("paragraphs(%q)=%d want %d", text, got, want)
		}
	}
}

func TestStatsCompact(t *testing.T) {
	s := Stats{Words: 150, Characters: 892, CharactersNoSpaces: 743, Lines: 25, Paragraphs: 5}
	if got := s.Compact(); got != "150 words | 892 chars | 25 lines" {
		t.Fatalf("Compact()=%q", got)
	}
}
