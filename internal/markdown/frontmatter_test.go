package markdown

import "testing"

func TestSplitFrontMatterYAML(t *testing.T) {
	fm, body := SplitFrontMatter("---\ntitle: Notes\ntags: [a, b]\n---\n# Body\n")
	if fm == nil {
		t.Fatalf("expected front matter")
	}
	if fm.Format != FrontMatterYAML || fm.Lines != 4 {
		t.Fatalf("front matter=%#v", fm)
	}
	if fm.Content != "title: Notes\ntags: [a, b]\n" {
		t.Fatalf("content=%q", fm.Content)
	}
	if fm.Raw != "---\ntitle: Notes\ntags: [a, b]\n---\n" {
		t.Fatalf("raw=%q", fm.Raw)
	}
	if body != "# Body\n" {
		t.Fatalf("body=%q", body)
	}
	meta, err := fm.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta["title"] != "Notes" {
		t.Fatalf("title=%v", meta["title"])
	}
	if tags, ok := meta["tags"].([]any); !ok || len(tags) != 2 {
		t.Fatalf("tags=%#v", meta["tags"])
	}
}

func TestSplitFrontMatterTOML(t *testing.T) {
	fm, body := SplitFrontMatter("+++\ntitle = \"Plan\"\ndraft = true\n+++\ntext")
	if fm == nil || fm.Format != FrontMatterTOML {
		t.Fatalf("expected toml front matter, got %#v", fm)
	}
	if body != "text" {
		t.Fatalf("body=%q", body)
	}
	meta, err := fm.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta["title"] != "Plan" || meta["draft"] != true {
		t.Fatalf("meta=%#v", meta)
	}
}

func TestSplitFrontMatterRejectsUnclosedAndLateBlocks(t *testing.T) {
	cases := []string{
		"---\ntitle: open\n",
		"text\n---\na: 1\n---\n",
		"---",
		"",
		"--- \nnot closed",
	}
	for _, src := range cases {
		fm, body := SplitFrontMatter(src)
		if fm != nil || body != src {
			t.Fatalf("SplitFrontMatter(%q)=(%#v,%q) want untouched", src, fm, body)
		}
	}
}

func TestSplitFrontMatterAcceptsYAMLDocumentEnd(t *testing.T) {
	fm, body := SplitFrontMatter("---\na: 1\n...\nrest")
	if fm == nil || body != "rest" {
		t.Fatalf("expected block closed by ..., got %#v body=%q", fm, body)
	}
}

func TestFrontMatterDecodeErrors(t *testing.T) {
	fm := &FrontMatterBlock{Format: FrontMatterYAML, Content: "a: [unclosed\n"}
	if _, err := fm.Decode(); err == nil {
		t.Fatalf("expected yaml error")
	}
	tomlBlock := &FrontMatterBlock{Format: FrontMatterTOML, Content: "a = = 1\n"}
	if _, err := tomlBlock.Decode(); err == nil {
		t.Fatalf("expected toml error")
	}
	var empty *FrontMatterBlock
	if meta, err := empty.Decode(); err != nil || len(meta) != 0 {
		t.Fatalf("nil block decode=(%v,%v)", meta, err)
	}
}
