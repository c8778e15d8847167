package fs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func TestIsTextFileDetectsUTF16LE(t *testing.T) {
	content := []byte{0xFF, 0xFE, 0x41, 0x00, 0x0D, 0x00, 0x0A, 0x00}
	if !IsTextFile("notes.md", content) {
		t.Fatalf("expected UTF-16 LE content to be treated as text")
	}
}

func TestIsTextFileRejectsBinary(t *testing.T) {
	if IsTextFile("image.png", []byte("# looks like markdown")) {
		t.Fatalf("binary extension should short-circuit")
	}
	if IsTextFile("notes.md", []byte{'a', 0x00, 'b'}) {
		t.Fatalf("NUL bytes should mark content as binary")
	}
}

func TestDecodeEncodings(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
		want    string
		enc     Encoding
	}{
		{"utf8", []byte("# Title"), "# Title", EncodingUTF8},
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, '#', ' ', 'T'}, "# T", EncodingUTF8BOM},
		{"utf16le", []byte{0xFF, 0xFE, 0x41, 0x00, 0x0D, 0x00, 0x0A, 0x00}, "A\r\n", EncodingUTF16LE},
		{"utf16be", []byte{0xFE, 0xFF, 0x00, 0x41, 0x00, 0x42}, "AB", EncodingUTF16BE},
		{"invalid utf8", []byte{'a', 0xFF, 'b'}, "a�b", EncodingUTF8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, enc, err := Decode(tc.content)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tc.want || enc != tc.enc {
				t.Fatalf("Decode=%q,%v want %q,%v", got, enc, tc.want, tc.enc)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{EncodingUTF8, EncodingUTF8BOM, EncodingUTF16LE, EncodingUTF16BE} {
		text := "# Zażółć\n\n- item 👍\n"
		data, err := Encode(text, enc)
		if err != nil {
			t.Fatalf("Encode(%v): %v", enc, err)
		}
		if got := DetectEncoding(data); got != enc {
			t.Fatalf("DetectEncoding after Encode(%v)=%v", enc, got)
		}
		back, _, err := Decode(data)
		if err != nil || back != text {
			t.Fatalf("round trip %v=%q err %v", enc, back, err)
		}
	}
}

func TestFromBytesNormalizesLineEndings(t *testing.T) {
	doc, err := FromBytes("a.md", []byte("one\r\ntwo\r\n"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if doc.Text != "one\ntwo\n" || !doc.CRLF {
		t.Fatalf("text=%q crlf=%v", doc.Text, doc.CRLF)
	}
	data, err := doc.Bytes("one\ntwo\nthree\n", true)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(data) != "one\r\ntwo\r\nthree\r\n" {
		t.Fatalf("Bytes=%q", data)
	}
	plain, _ := doc.Bytes("x\n", false)
	if string(plain) != "x\n" {
		t.Fatalf("Bytes without CRLF=%q", plain)
	}

	lf, _ := FromBytes("b.md", []byte("a\nb\r\n"))
	if lf.CRLF || lf.Text != "a\nb\n" {
		t.Fatalf("first break decides style: crlf=%v text=%q", lf.CRLF, lf.Text)
	}
}

func TestFromBytesRejectsBinary(t *testing.T) {
	_, err := FromBytes("x.md", []byte{0x00, 0x01, 0x02})
	if !errors.Is(err, ErrBinary) {
		t.Fatalf("err=%v want ErrBinary", err)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	original := append([]byte{0xEF, 0xBB, 0xBF}, "# Hi\r\n\r\ntext\r\n"...)
	if err := os.WriteFile(path, original, 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Text != "# Hi\n\ntext\n" || doc.Encoding != EncodingUTF8BOM || !doc.CRLF {
		t.Fatalf("doc=%+v", doc)
	}
	if doc.Name != "doc.md" || doc.Mode.Perm() != 0o600 {
		t.Fatalf("entry=%+v", doc.Entry)
	}

	if err := doc.Save(path, "# Hi\n\nmore text\n", true); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0xEF, 0xBB, 0xBF}, "# Hi\r\n\r\nmore text\r\n"...)
	if !bytes.Equal(saved, want) {
		t.Fatalf("saved=%q want %q", saved, want)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode=%v", info.Mode())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %d entries", len(entries))
	}

	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Fatalf("Load(dir) err=%v", err)
	}
}

func TestRead(t *testing.T) {
	doc, err := Read(strings.NewReader("stdin text"), "-")
	if err != nil || doc.Text != "stdin text" {
		t.Fatalf("Read=%+v err %v", doc, err)
	}
}

func TestFindMarkdown(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"b.md",
		"a.markdown",
		"notes.txt",
		".hidden.md",
		filepath.Join("sub", "c.MD"),
		filepath.Join(".git", "d.md"),
	}
	for _, f := range files {
		p := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("# x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := FindMarkdown(dir, false)
	if err != nil {
		t.Fatalf("FindMarkdown: %v", err)
	}
	var names []string
	for _, e := range entries {
		rel, _ := filepath.Rel(dir, e.FullPath)
		names = append(names, filepath.ToSlash(rel))
	}
	if got := strings.Join(names, ","); got != "a.markdown,b.md,sub/c.MD" {
		t.Fatalf("FindMarkdown=%s", got)
	}

	all, err := FindMarkdown(dir, true)
	if err != nil {
		t.Fatalf("FindMarkdown hidden: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("with hidden=%d want 5", len(all))
	}
}

func TestSaveWaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	doc := &Document{}
	if err := doc.Save(path, "first\n", false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	held := flock.New(lockPath(path))
	if err := held.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	orig := lockTimeout
	lockTimeout = 50 * time.Millisecond
	defer func() {
		lockTimeout = orig
	}()

	err := doc.Save(path, "second\n", false)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("Save err=%v want ErrLocked", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "first\n" {
		t.Fatalf("locked save wrote %q", data)
	}

	if err := held.Unlock(); err != nil {
		t.Fatal(err)
	}
	if err := doc.Save(path, "second\n", false); err != nil {
		t.Fatalf("Save after unlock: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "second\n" {
		t.Fatalf("saved=%q", data)
	}
	if _, err := os.Stat(lockPath(path)); !os.IsNotExist(err) {
		t.Fatalf("lock file left behind: %v", err)
	}
}
