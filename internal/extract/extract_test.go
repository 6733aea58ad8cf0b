package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("plain text", func(t *testing.T) {
		content := "Hello world this is a test."
		path := filepath.Join(tmpDir, "test.txt")
		os.WriteFile(path, []byte(content), 0644)

		got, err := Text(path)
		if err != nil {
			t.Fatalf("Text: %v", err)
		}
		if got != content {
			t.Errorf("got %q, want %q", got, content)
		}
	})

	t.Run("unknown extension reads raw", func(t *testing.T) {
		content := "raw bytes here"
		path := filepath.Join(tmpDir, "notes.log")
		os.WriteFile(path, []byte(content), 0644)

		got, err := Text(path)
		if err != nil {
			t.Fatalf("Text: %v", err)
		}
		if got != content {
			t.Errorf("got %q, want %q", got, content)
		}
	})

	t.Run("nonexistent file", func(t *testing.T) {
		if _, err := Text(filepath.Join(tmpDir, "nope.txt")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestEPUBRegistration(t *testing.T) {
	f := EPUB{}
	if f.Name() != "EPUB" {
		t.Errorf("Name() = %q, want EPUB", f.Name())
	}
	if exts := f.Extensions(); len(exts) != 1 || exts[0] != ".epub" {
		t.Errorf("Extensions() = %v, want [.epub]", exts)
	}
}

func TestSupported(t *testing.T) {
	supported := Supported()
	if len(supported) == 0 {
		t.Fatal("no formats registered")
	}
	found := map[string]bool{}
	for _, s := range supported {
		found[s] = true
	}
	if !found["EPUB (.epub)"] {
		t.Errorf("EPUB not registered: %v", supported)
	}
	if !found["Markdown (.md, .markdown)"] {
		t.Errorf("Markdown not registered: %v", supported)
	}
}

func TestHTMLText(t *testing.T) {
	got := htmlText("<html><body><h1>Title</h1><p>Hello <b>bold</b> world.</p></body></html>")
	want := "Title Hello bold world."
	if got != want {
		t.Errorf("htmlText = %q, want %q", got, want)
	}
}

func TestMarkdownExtract(t *testing.T) {
	tmpDir := t.TempDir()

	src := strings.Join([]string{
		"# Chapter One",
		"",
		"Some **bold** and *italic* text with `code`.",
		"A [link](https://example.com) too.",
		"",
		"```",
		"skipped := true",
		"```",
		"",
		"## Section",
		"Plain closing line.",
	}, "\n")

	path := filepath.Join(tmpDir, "doc.md")
	os.WriteFile(path, []byte(src), 0644)

	got, err := Markdown{}.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, want := range []string{"Chapter One", "Some bold and italic text with code.", "A link too.", "Section", "Plain closing line."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	for _, reject := range []string{"#", "**", "`", "skipped", "https://example.com"} {
		if strings.Contains(got, reject) {
			t.Errorf("output should not contain %q:\n%s", reject, got)
		}
	}
}
