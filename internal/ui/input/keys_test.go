package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/mdsync/internal/session"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		token string
		key   tcell.Key
		r     rune
		mod   tcell.ModMask
	}{
		{"Enter", tcell.KeyEnter, 0, tcell.ModNone},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone},
		{"return", tcell.KeyEnter, 0, tcell.ModNone},
		{"Backtab", tcell.KeyBacktab, 0, tcell.ModNone},
		{"shift+tab", tcell.KeyBacktab, 0, tcell.ModNone},
		{"ctrl+b", tcell.KeyCtrlB, 0, tcell.ModCtrl},
		{"Ctrl+Z", tcell.KeyCtrlZ, 0, tcell.ModCtrl},
		{"alt+1", tcell.KeyRune, '1', tcell.ModAlt},
		{"shift+right", tcell.KeyRight, 0, tcell.ModShift},
		{"ctrl+home", tcell.KeyHome, 0, tcell.ModCtrl},
		{"space", tcell.KeyRune, ' ', tcell.ModNone},
		{"A", tcell.KeyRune, 'A', tcell.ModNone},
		{"ż", tcell.KeyRune, 'ż', tcell.ModNone},
		{"delete", tcell.KeyDelete, 0, tcell.ModNone},
	}
	for _, tc := range cases {
		ev, err := ParseKey(tc.token)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", tc.token, err)
		}
		if ev.Key() != tc.key || ev.Modifiers() != tc.mod {
			t.Fatalf("ParseKey(%q)=key %v mod %v want key %v mod %v", tc.token, ev.Key(), ev.Modifiers(), tc.key, tc.mod)
		}
		if tc.key == tcell.KeyRune && ev.Rune() != tc.r {
			t.Fatalf("ParseKey(%q) rune=%q want %q", tc.token, ev.Rune(), tc.r)
		}
	}
}

func TestParseKeyRejectsUnknown(t *testing.T) {
	for _, token := range []string{"hyper+x", "nosuchkey", "ctrl+"} {
		if _, err := ParseKey(token); err == nil {
			t.Fatalf("ParseKey(%q) should fail", token)
		}
	}
}

func TestParseKeysTypesText(t *testing.T) {
	events, err := ParseKeys("type:hi enter  ctrl+b")
	if err != nil {
		t.Fatalf("ParseKeys: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("events=%d want 4", len(events))
	}
	if events[0].Rune() != 'h' || events[1].Rune() != 'i' || events[2].Key() != tcell.KeyEnter {
		t.Fatalf("unexpected events %v %v %v", events[0].Name(), events[1].Name(), events[2].Name())
	}
}

func TestReplayDrivesSession(t *testing.T) {
	s := session.New("- First item\n- Second item")
	events, err := ParseKeys("right right right right right right right enter")
	if err != nil {
		t.Fatalf("ParseKeys: %v", err)
	}
	n, err := Replay(s, events)
	if err != nil || n != len(events) {
		t.Fatalf("Replay=%d,%v", n, err)
	}
	if want := "- First\n- item\n- Second item"; s.Source() != want {
		t.Fatalf("source=%q want %q", s.Source(), want)
	}

	events, _ = ParseKeys("ctrl+a ctrl+b ctrl+c type:ignored")
	n, err = Replay(s, events)
	if err != nil || n != 3 {
		t.Fatalf("Replay should stop at ctrl+c, consumed %d err %v", n, err)
	}
	if want := "**- First\n- item\n- Second item**"; s.Source() != want {
		t.Fatalf("source=%q want %q", s.Source(), want)
	}
}
