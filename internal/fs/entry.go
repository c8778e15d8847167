package fs

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry describes a Markdown file on disk.
type Entry struct {
	Name     string
	FullPath string
	Size     int64
	Modified time.Time
	Mode     os.FileMode
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.FullPath, e.Name)
}

func entryFromInfo(path string, info os.FileInfo) Entry {
	return Entry{
		Name:     info.Name(),
		FullPath: path,
		Size:     info.Size(),
		Modified: info.ModTime(),
		Mode:     info.Mode(),
	}
}

var markdownExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".mdown":    {},
	".mkd":      {},
	".mdx":      {},
}

// IsMarkdownPath reports whether path has a Markdown file extension.
func IsMarkdownPath(path string) bool {
	_, ok := markdownExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
