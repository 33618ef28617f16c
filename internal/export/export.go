// Package export writes the server-rendered document body to a local file,
// the terminal equivalent of the browser download at the end of the export
// flow.
package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Filename derives the download name from the project's declared document
// type, used as the file extension ("document.docx", "document.pptx", ...).
func Filename(docType string) string {
	ext := strings.TrimSpace(strings.TrimPrefix(docType, "."))
	if ext == "" {
		ext = "bin"
	}
	return "document." + ext
}

// Write stores body under dir using the doc-type derived filename and
// returns the full path. An existing file is replaced, like a repeated
// browser download overwriting its target.
func Write(dir, docType string, body []byte) (string, error) {
	if len(body) == 0 {
		return "", errors.New("empty export body")
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(docType))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
