package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUB extracts text from EPUB books, one spine document per line.
type EPUB struct{}

func init() {
	Register(EPUB{})
}

func (EPUB) Name() string         { return "EPUB" }
func (EPUB) Extensions() []string { return []string{".epub"} }

func (EPUB) Extract(filename string) (string, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return "", fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return "", fmt.Errorf("epub %q has no rootfiles", filename)
	}

	var docs []string
	for _, ref := range rc.Rootfiles[0].Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		if text := htmlText(string(data)); text != "" {
			docs = append(docs, text)
		}
	}

	// Documents joined by newlines, mirroring the per-page contract of the
	// external PDF collaborator.
	return strings.Join(docs, "\n"), nil
}

// htmlText flattens an HTML document to its visible text.
func htmlText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var words []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			words = append(words, strings.Fields(n.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(words, " ")
}
