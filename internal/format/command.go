package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a formatting command.
type Kind int

const (
	KindBold Kind = iota
	KindItalic
	KindInlineCode
	KindStrikethrough
	KindLink
	KindImage
	KindCodeBlock
	KindHeading
	KindBulletList
	KindNumberedList
	KindBlockquote
)

// Command is a formatting command. Level is only meaningful for headings and
// is clamped to 1..6 when the command is applied.
type Command struct {
	Kind  Kind
	Level int
}

var (
	Bold          = Command{Kind: KindBold}
	Italic        = Command{Kind: KindItalic}
	InlineCode    = Command{Kind: KindInlineCode}
	Strikethrough = Command{Kind: KindStrikethrough}
	Link          = Command{Kind: KindLink}
	Image         = Command{Kind: KindImage}
	CodeBlock     = Command{Kind: KindCodeBlock}
	BulletList    = Command{Kind: KindBulletList}
	NumberedList  = Command{Kind: KindNumberedList}
	Blockquote    = Command{Kind: KindBlockquote}
)

// Heading returns the heading command for level.
func Heading(level int) Command {
	return Command{Kind: KindHeading, Level: level}
}

// Commands lists every command in toolbar order.
func Commands() []Command {
	return []Command{
		Bold, Italic, InlineCode, Strikethrough, Link, Image, CodeBlock,
		Heading(1), Heading(2), Heading(3), Heading(4), Heading(5), Heading(6),
		BulletList, NumberedList, Blockquote,
	}
}

// IsInline reports whether the command needs a non-empty selection.
func (c Command) IsInline() bool {
	switch c.Kind {
	case KindBold, KindItalic, KindInlineCode, KindStrikethrough, KindLink, KindImage:
		return true
	default:
		return false
	}
}

func (c Command) String() string {
	switch c.Kind {
	case KindBold:
		return "bold"
	case KindItalic:
		return "italic"
	case KindInlineCode:
		return "inline-code"
	case KindStrikethrough:
		return "strikethrough"
	case KindLink:
		return "link"
	case KindImage:
		return "image"
	case KindCodeBlock:
		return "code-block"
	case KindHeading:
		return "h" + strconv.Itoa(c.Level)
	case KindBulletList:
		return "bullet-list"
	case KindNumberedList:
		return "numbered-list"
	case KindBlockquote:
		return "blockquote"
	default:
		return fmt.Sprintf("command(%d)", int(c.Kind))
	}
}

// ShortcutLabel is the human readable key chord shown next to the command.
func (c Command) ShortcutLabel() string {
	switch c.Kind {
	case KindBold:
		return "Ctrl+B"
	case KindItalic:
		return "Ctrl+I"
	case KindInlineCode:
		return "Ctrl+`"
	case KindStrikethrough:
		return "Ctrl+Shift+S"
	case KindLink:
		return "Ctrl+K"
	case KindImage:
		return "Ctrl+Shift+K"
	case KindCodeBlock:
		return "Ctrl+Shift+C"
	case KindHeading:
		if c.Level >= 1 && c.Level <= 6 {
			return "Ctrl+" + strconv.Itoa(c.Level)
		}
		return "Ctrl+1-6"
	case KindBulletList:
		return "Ctrl+Shift+B"
	case KindNumberedList:
		return "Ctrl+Shift+N"
	case KindBlockquote:
		return "Ctrl+Q"
	default:
		return ""
	}
}

func (c Command) Icon() string {
	switch c.Kind {
	case KindBold:
		return "𝐁"
	case KindItalic:
		return "𝐼"
	case KindInlineCode:
		return "</>"
	case KindStrikethrough:
		return "S̶"
	case KindLink:
		return "🔗"
	case KindImage:
		return "🖼"
	case KindCodeBlock:
		return "{ }"
	case KindHeading:
		if c.Level >= 1 && c.Level <= 6 {
			return "H" + strconv.Itoa(c.Level)
		}
		return "H"
	case KindBulletList:
		return "•"
	case KindNumberedList:
		return "1."
	case KindBlockquote:
		return "❝"
	default:
		return ""
	}
}

// Tooltip combines the command title with its shortcut, e.g. "Bold (Ctrl+B)".
func (c Command) Tooltip() string {
	var name string
	switch c.Kind {
	case KindBold:
		name = "Bold"
	case KindItalic:
		name = "Italic"
	case KindInlineCode:
		name = "Inline Code"
	case KindStrikethrough:
		name = "Strikethrough"
	case KindLink:
		name = "Insert Link"
	case KindImage:
		name = "Insert Image"
	case KindCodeBlock:
		name = "Code Block"
	case KindHeading:
		name = "Heading " + strconv.Itoa(c.Level)
	case KindBulletList:
		name = "Bullet List"
	case KindNumberedList:
		name = "Numbered List"
	case KindBlockquote:
		name = "Blockquote"
	}
	return fmt.Sprintf("%s (%s)", name, c.ShortcutLabel())
}

var commandAliases = map[string]Command{
	"bold":          Bold,
	"b":             Bold,
	"italic":        Italic,
	"i":             Italic,
	"code":          InlineCode,
	"inline-code":   InlineCode,
	"strike":        Strikethrough,
	"strikethrough": Strikethrough,
	"link":          Link,
	"image":         Image,
	"img":           Image,
	"codeblock":     CodeBlock,
	"code-block":    CodeBlock,
	"fence":         CodeBlock,
	"bullet":        BulletList,
	"bullet-list":   BulletList,
	"ul":            BulletList,
	"numbered":      NumberedList,
	"numbered-list": NumberedList,
	"ol":            NumberedList,
	"quote":         Blockquote,
	"blockquote":    Blockquote,
}

// ParseCommand resolves a command name as printed by String, plus a few short
// aliases ("b", "ul", "quote"). Headings are written h1..h6 or heading1..heading6.
func ParseCommand(name string) (Command, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if cmd, ok := commandAliases[key]; ok {
		return cmd, nil
	}
	for _, prefix := range []string{"heading", "h"} {
		if rest, ok := strings.CutPrefix(key, prefix); ok {
			level, err := strconv.Atoi(rest)
			if err == nil && level >= 1 && level <= 6 {
				return Heading(level), nil
			}
		}
	}
	return Command{}, fmt.Errorf("unknown format command %q", name)
}
