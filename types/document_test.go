package types

import (
	"strings"
	"testing"
)

func TestOriginalContentPersistedForm(t *testing.T) {
	content := OriginalContent{
		RawText:      "section text",
		TablesHTML:   []string{"<table><tr><td>1</td></tr></table>"},
		ImagesBase64: []string{"aGVsbG8="},
	}

	persisted, err := content.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"raw_text"`, `"tables_html"`, `"images_base64"`} {
		if !strings.Contains(persisted, key) {
			t.Errorf("persisted form missing %s: %s", key, persisted)
		}
	}

	parsed, err := ParseOriginalContent(persisted)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.RawText != content.RawText {
		t.Errorf("RawText = %q, want %q", parsed.RawText, content.RawText)
	}
	if len(parsed.TablesHTML) != 1 || parsed.TablesHTML[0] != content.TablesHTML[0] {
		t.Errorf("TablesHTML = %v", parsed.TablesHTML)
	}
	if len(parsed.ImagesBase64) != 1 || parsed.ImagesBase64[0] != content.ImagesBase64[0] {
		t.Errorf("ImagesBase64 = %v", parsed.ImagesBase64)
	}
}

func TestParseOriginalContentRejectsPlainText(t *testing.T) {
	if _, err := ParseOriginalContent("just a legacy string"); err == nil {
		t.Error("expected error for non-JSON payload")
	}
}
