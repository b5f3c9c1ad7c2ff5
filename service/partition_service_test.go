package service

import (
	"strings"
	"testing"

	"github.com/tieubaoca/docchat-be/types"
)

func TestLooksLikeTitle(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"1. Introduction", true},
		{"2.3 Experimental Setup", true},
		{"Chapter 4", true},
		{"Appendix B", true},
		{"IV. Methodology", true},
		{"EXECUTIVE SUMMARY", true},
		{"Quarterly Results", true},
		{"", false},
		{"this line starts lowercase", false},
		{"A sentence that ends with a period.", false},
		{"Does this look like a heading?", false},
		{"This line keeps going with far too many words to still read as a heading", false},
		{strings.Repeat("A", 120), false},
	}

	for _, tt := range tests {
		if got := looksLikeTitle(tt.line); got != tt.want {
			t.Errorf("looksLikeTitle(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestLooksLikeTable(t *testing.T) {
	table := []string{
		"Region       Q1       Q2",
		"North       1200     1350",
		"South        980     1100",
	}
	if !looksLikeTable(table) {
		t.Error("columnar block should read as a table")
	}

	prose := []string{
		"This paragraph flows naturally across lines and never",
		"aligns anything into columns with wide space runs.",
	}
	if looksLikeTable(prose) {
		t.Error("prose block should not read as a table")
	}

	if looksLikeTable([]string{"Region       Q1       Q2"}) {
		t.Error("a single line is never a table")
	}
}

func TestTableToHTML(t *testing.T) {
	got := tableToHTML([]string{
		"Name       Score",
		"a < b       42",
	})
	want := "<table>" +
		"<tr><td>Name</td><td>Score</td></tr>" +
		"<tr><td>a &lt; b</td><td>42</td></tr>" +
		"</table>"
	if got != want {
		t.Errorf("tableToHTML = %q, want %q", got, want)
	}
}

func TestSplitBlocks(t *testing.T) {
	blocks := splitBlocks("First block\nstill first\n\n\nSecond block\n\n   \n\nThird")
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %v", len(blocks), blocks)
	}
	if blocks[0] != "First block\nstill first" {
		t.Errorf("first block = %q", blocks[0])
	}
	if blocks[2] != "Third" {
		t.Errorf("third block = %q", blocks[2])
	}

	if got := splitBlocks("   \n\n  "); got != nil {
		t.Errorf("whitespace-only input should yield no blocks, got %v", got)
	}
}

func TestClassifyBlocks(t *testing.T) {
	elements := classifyBlocks([]string{
		"3. Results",
		"The measured values matched the\npredicted curve within tolerance.",
		"Metric       Value\nLatency      12ms\nThroughput   3400",
	}, 7)

	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}
	if elements[0].Category != types.CategoryTitle || elements[0].Content != "3. Results" {
		t.Errorf("expected a title element, got %+v", elements[0])
	}
	if elements[1].Category != types.CategoryText {
		t.Errorf("expected a text element, got %+v", elements[1])
	}
	if !strings.Contains(elements[1].Content, "matched the predicted curve") {
		t.Errorf("multi-line text should collapse to one line, got %q", elements[1].Content)
	}
	if elements[2].Category != types.CategoryTable {
		t.Errorf("expected a table element, got %+v", elements[2])
	}
	if !strings.Contains(elements[2].Content, "<td>Latency</td><td>12ms</td>") {
		t.Errorf("table markup = %q", elements[2].Content)
	}
	for _, el := range elements {
		if el.Page != 7 {
			t.Errorf("element should carry its page number, got %d", el.Page)
		}
	}
}
