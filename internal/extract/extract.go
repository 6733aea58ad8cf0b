// Package extract pulls readable text out of input files. Formats register
// themselves by extension; anything unrecognized is read as plain text.
package extract

import (
	"os"
	"path/filepath"
	"strings"
)

// Format reads the text of one file type. Extraction collaborators that live
// outside this module (a PDF parser, say) plug in through the same seam.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (string, error)
}

var formats []Format

// Register adds a format to the extension dispatch table.
func Register(f Format) {
	formats = append(formats, f)
}

// Text extracts readable text from filename. Unknown extensions fall back to
// a raw file read.
func Text(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range formats {
		for _, e := range f.Extensions() {
			if ext == e {
				return f.Extract(filename)
			}
		}
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Supported lists registered format names with their extensions.
func Supported() []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
