package markdown

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type FrontMatterFormat int

const (
	FrontMatterYAML FrontMatterFormat = iota + 1
	FrontMatterTOML
)

func (f FrontMatterFormat) String() string {
	switch f {
	case FrontMatterYAML:
		return "yaml"
	case FrontMatterTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FrontMatterBlock is a metadata header cut from the top of a document.
// Raw keeps the delimiter lines; Content is what sits between them.
type FrontMatterBlock struct {
	Format  FrontMatterFormat
	Raw     string
	Content string
	Lines   int
}

// SplitFrontMatter detects a leading `---` (YAML) or `+++` (TOML) block and
// returns it together with the remaining body. Without a closed block the
// source is returned untouched.
func SplitFrontMatter(source string) (*FrontMatterBlock, string) {
	first, rest, ok := strings.Cut(source, "\n")
	if !ok {
		return nil, source
	}
	var format FrontMatterFormat
	switch strings.TrimRight(first, " \t\r") {
	case "---":
		format = FrontMatterYAML
	case "+++":
		format = FrontMatterTOML
	default:
		return nil, source
	}

	pos := len(first) + 1
	lines := 1
	for len(rest) > 0 {
		line, tail, found := strings.Cut(rest, "\n")
		lines++
		end := pos + len(line)
		if found {
			end++
		}
		if isFrontMatterClose(format, line) {
			return &FrontMatterBlock{
				Format:  format,
				Raw:     source[:end],
				Content: source[len(first)+1 : pos],
				Lines:   lines,
			}, source[end:]
		}
		pos = end
		rest = tail
		if !found {
			break
		}
	}
	return nil, source
}

func isFrontMatterClose(format FrontMatterFormat, line string) bool {
	line = strings.TrimRight(line, " \t\r")
	if format == FrontMatterTOML {
		return line == "+++"
	}
	return line == "---" || line == "..."
}

// Decode parses the block into a generic map.
func (f *FrontMatterBlock) Decode() (map[string]any, error) {
	out := map[string]any{}
	if f == nil || strings.TrimSpace(f.Content) == "" {
		return out, nil
	}
	switch f.Format {
	case FrontMatterTOML:
		if err := toml.Unmarshal([]byte(f.Content), &out); err != nil {
			return nil, fmt.Errorf("decode toml front matter: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(f.Content), &out); err != nil {
			return nil, fmt.Errorf("decode yaml front matter: %w", err)
		}
	}
	return out, nil
}

// Title returns the string `title` key, if any.
func (f *FrontMatterBlock) Title() string {
	meta, err := f.Decode()
	if err != nil {
		return ""
	}
	if title, ok := meta["title"].(string); ok {
		return title
	}
	return ""
}
