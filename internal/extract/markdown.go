package extract

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

// Markdown extracts text from Markdown files, dropping the markup that would
// otherwise get flashed as words.
type Markdown struct{}

func init() {
	Register(Markdown{})
}

func (Markdown) Name() string         { return "Markdown" }
func (Markdown) Extensions() []string { return []string{".md", ".markdown"} }

var (
	headingPrefix = regexp.MustCompile(`^#{1,6}\s+`)
	linkPattern   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	emphasisRunes = strings.NewReplacer("**", "", "__", "", "*", "", "`", "")
)

func (Markdown) Extract(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	inFence := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		line = headingPrefix.ReplaceAllString(line, "")
		line = linkPattern.ReplaceAllString(line, "$1")
		line = emphasisRunes.Replace(line)
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
