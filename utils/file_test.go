package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FileSHA256(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got != want {
		t.Errorf("FileSHA256 = %s, want %s", got, want)
	}

	// Same bytes under a different name hash identically.
	other := filepath.Join(dir, "b.pdf")
	if err := os.WriteFile(other, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}
	if otherHash, _ := FileSHA256(other); otherHash != got {
		t.Errorf("identical content should produce identical hashes, got %s and %s", got, otherHash)
	}

	if _, err := FileSHA256(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveReaderWithTimestamp(t *testing.T) {
	uploadDir := t.TempDir()

	path, err := SaveReaderWithTimestamp(strings.NewReader("document bytes"), "my report (final).pdf", uploadDir)
	if err != nil {
		t.Fatal(err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "my_report__final__") {
		t.Errorf("unexpected sanitized name %q", name)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("extension not preserved in %q", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "document bytes" {
		t.Errorf("saved content = %q", data)
	}
}

func TestGetFileNameWithoutExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/uploads/report_1700000000.pdf", "report_1700000000"},
		{"plain", "plain"},
		{"archive.tar.gz", "archive.tar"},
	}
	for _, tt := range tests {
		if got := GetFileNameWithoutExt(tt.path); got != tt.want {
			t.Errorf("GetFileNameWithoutExt(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
