package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrBinary is returned when a file does not look like text.
var ErrBinary = errors.New("not a text file")

// Document is a Markdown file decoded for editing. Text always uses "\n"
// line endings; the original encoding and line ending style are remembered
// so Bytes can restore them.
type Document struct {
	Entry
	Text     string
	Encoding Encoding
	CRLF     bool
}

// Load reads and decodes the file at path.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := FromBytes(path, content)
	if err != nil {
		return nil, err
	}
	doc.Entry = entryFromInfo(path, info)
	return doc, nil
}

// Read decodes a document from r. Name is only used for messages and binary
// extension checks.
func Read(r io.Reader, name string) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return FromBytes(name, content)
}

// FromBytes decodes raw file content.
func FromBytes(name string, content []byte) (*Document, error) {
	if !IsTextFile(name, content) {
		return nil, fmt.Errorf("%s: %w", name, ErrBinary)
	}
	text, enc, err := Decode(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	doc := &Document{
		Entry:    Entry{Name: filepath.Base(name), FullPath: name, Size: int64(len(content))},
		Encoding: enc,
	}
	doc.Text, doc.CRLF = normalizeLineEndings(text)
	return doc, nil
}

// normalizeLineEndings converts CRLF and lone CR to LF. A document counts as
// CRLF when the first line break is CRLF.
func normalizeLineEndings(text string) (string, bool) {
	crlf := false
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		crlf = true
	}
	if !strings.ContainsRune(text, '\r') {
		return text, crlf
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, crlf
}

// Bytes encodes text the way the document was loaded. When keepCRLF is
// false line endings stay "\n".
func (d *Document) Bytes(text string, keepCRLF bool) ([]byte, error) {
	if keepCRLF && d.CRLF {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	return Encode(text, d.Encoding)
}

// Save writes text to path through a temporary file in the same directory,
// so readers never observe a half written document. The original file mode
// is kept when known. Concurrent mdsync writers are serialised through a
// lock file and give up with ErrLocked.
func (d *Document) Save(path, text string, keepCRLF bool) error {
	data, err := d.Bytes(text, keepCRLF)
	if err != nil {
		return err
	}
	if err := withLock(path, func() error { return d.replace(path, data) }); err != nil {
		return err
	}
	d.Text = text
	d.Size = int64(len(data))
	return nil
}

func (d *Document) replace(path string, data []byte) error {
	mode := d.Mode.Perm()
	if mode == 0 {
		mode = 0o644
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
