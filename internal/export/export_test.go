package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		docType string
		want    string
	}{
		{"docx", "document.docx"},
		{"pptx", "document.pptx"},
		{".docx", "document.docx"},
		{"", "document.bin"},
		{"  ", "document.bin"},
	}
	for _, tc := range cases {
		if got := Filename(tc.docType); got != tc.want {
			t.Fatalf("Filename(%q): expected %q, got %q", tc.docType, tc.want, got)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, "docx", []byte("binary-ish"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "document.docx" {
		t.Fatalf("expected doc-type derived name, got %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "binary-ish" {
		t.Fatalf("expected body written verbatim, got %q", b)
	}

	// Repeated export overwrites.
	if _, err := Write(dir, "docx", []byte("second")); err != nil {
		t.Fatalf("Write (overwrite): %v", err)
	}
	b, _ = os.ReadFile(path)
	if string(b) != "second" {
		t.Fatalf("expected overwrite, got %q", b)
	}
}

func TestWriteRejectsEmptyBody(t *testing.T) {
	if _, err := Write(t.TempDir(), "docx", nil); err == nil {
		t.Fatalf("expected error for empty body")
	}
}
