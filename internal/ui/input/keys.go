package input

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

var keyAliases = map[string]string{
	"escape":    "esc",
	"return":    "enter",
	"del":       "delete",
	"bs":        "backspace2",
	"backspace": "backspace2",
	"shift-tab": "backtab",
	"pageup":    "pgup",
	"pagedown":  "pgdn",
}

// namedKeys is tcell.KeyNames keyed by lower-case name.
var namedKeys = sync.OnceValue(func() map[string]tcell.Key {
	out := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		out[strings.ToLower(name)] = k
	}
	return out
})

// ParseKeys turns a whitespace separated key script into events. Tokens are
// tcell key names ("Enter", "Backtab", "Ctrl-B"), modifier chords such as
// "ctrl+b", "alt+1" or "shift+right", "space", or "type:<text>" which types
// each rune of text.
func ParseKeys(script string) ([]*tcell.EventKey, error) {
	var events []*tcell.EventKey
	for _, token := range strings.Fields(script) {
		if text, ok := strings.CutPrefix(token, "type:"); ok {
			for _, r := range text {
				events = append(events, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
			}
			continue
		}
		ev, err := ParseKey(token)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

var modifierPrefixes = []struct {
	prefix string
	mod    tcell.ModMask
}{
	{"ctrl+", tcell.ModCtrl},
	{"alt+", tcell.ModAlt},
	{"shift+", tcell.ModShift},
}

// ParseKey parses a single key token.
func ParseKey(token string) (*tcell.EventKey, error) {
	rest := token
	var mod tcell.ModMask
	for stripped := true; stripped; {
		stripped = false
		for _, m := range modifierPrefixes {
			if len(rest) > len(m.prefix) && strings.EqualFold(rest[:len(m.prefix)], m.prefix) {
				mod |= m.mod
				rest = rest[len(m.prefix):]
				stripped = true
			}
		}
	}

	name := strings.ToLower(rest)
	if alias, ok := keyAliases[name]; ok {
		name = alias
	}
	switch {
	case name == "space":
		return tcell.NewEventKey(tcell.KeyRune, ' ', mod), nil
	case name == "tab" && mod&tcell.ModShift != 0:
		return tcell.NewEventKey(tcell.KeyBacktab, 0, mod&^tcell.ModShift), nil
	}

	if utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		if mod&tcell.ModCtrl != 0 && r < utf8.RuneSelf && unicode.IsLetter(r) {
			return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(unicode.ToLower(r)-'a'), 0, mod), nil
		}
		return tcell.NewEventKey(tcell.KeyRune, r, mod), nil
	}
	if k, ok := namedKeys()[name]; ok {
		return tcell.NewEventKey(k, 0, mod), nil
	}
	return nil, fmt.Errorf("unknown key %q", token)
}
