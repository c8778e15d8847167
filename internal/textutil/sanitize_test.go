package textutil

import (
	"strings"
	"testing"
)

func TestPrintableLiteralLeavesSafeInput(t *testing.T) {
	input := "plain *text* 你好"
	if got := PrintableLiteral(input); got != input {
		t.Fatalf("expected %q to remain untouched, got %q", input, got)
	}
}

func TestPrintableLiteralEscapesLineBreaks(t *testing.T) {
	got := PrintableLiteral("a\nb\tc\x1b[31m")
	if got != `a\nb\tc?[31m` {
		t.Fatalf("PrintableLiteral = %q", got)
	}
}

func TestPrintableLiteralLabelsFormattingRunes(t *testing.T) {
	input := "a" + string(rune(0x202E)) + "b" + string(rune(0x200B))
	got := PrintableLiteral(input)
	if !strings.Contains(got, "⟪RLO⟫") || !strings.Contains(got, "⟪ZWSP⟫") {
		t.Fatalf("expected formatting runes to be labeled, got %q", got)
	}
	if HasFormattingRunes(got) {
		t.Fatalf("labelled output still contains formatting runes: %q", got)
	}
}

func TestHasFormattingRunes(t *testing.T) {
	if HasFormattingRunes("plain") {
		t.Fatalf("expected plain text to have no formatting runes")
	}
	if !HasFormattingRunes("hi" + string(rune(0x2067))) {
		t.Fatalf("expected formatting runes to be detected")
	}
}
