package service

import (
	"testing"

	"github.com/tieubaoca/docchat-be/types"
)

func title(s string) types.Element {
	return types.Element{Category: types.CategoryTitle, Content: s}
}

func text(s string) types.Element {
	return types.Element{Category: types.CategoryText, Content: s}
}

func TestChunkBuilderTitleBoundaries(t *testing.T) {
	builder := NewChunkBuilder()

	elements := []types.Element{
		title("Chapter 1"),
		text("intro paragraph"),
		{Category: types.CategoryTable, Content: "<table><tr><td>x</td></tr></table>"},
		title("Chapter 2"),
		{Category: types.CategoryImage, Content: "aGVsbG8="},
	}

	chunks := builder.Build(elements)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Elements) != 3 {
		t.Errorf("first chunk: expected 3 elements, got %d", len(chunks[0].Elements))
	}
	if len(chunks[1].Elements) != 2 {
		t.Errorf("second chunk: expected 2 elements, got %d", len(chunks[1].Elements))
	}
	if !chunks[0].Elements[0].IsTitle() || chunks[0].Elements[0].Content != "Chapter 1" {
		t.Errorf("first chunk should start with its title, got %+v", chunks[0].Elements[0])
	}
	if !chunks[1].Elements[0].IsTitle() || chunks[1].Elements[0].Content != "Chapter 2" {
		t.Errorf("second chunk should start with its title, got %+v", chunks[1].Elements[0])
	}
}

func TestChunkBuilderPreamble(t *testing.T) {
	builder := NewChunkBuilder()

	chunks := builder.Build([]types.Element{
		text("text before any heading"),
		title("Section A"),
		text("body"),
	})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Elements[0].IsTitle() {
		t.Error("preamble chunk should not start with a title")
	}
}

func TestChunkBuilderConsecutiveTitles(t *testing.T) {
	builder := NewChunkBuilder()

	chunks := builder.Build([]types.Element{
		title("Part I"),
		title("Chapter 1"),
		text("body"),
	})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Elements) != 1 || chunks[0].Elements[0].Content != "Part I" {
		t.Errorf("expected a title-only first chunk, got %+v", chunks[0].Elements)
	}
}

func TestChunkBuilderPreservesEveryElement(t *testing.T) {
	builder := NewChunkBuilder()

	cases := [][]types.Element{
		nil,
		{text("only text")},
		{title("only title")},
		{title("a"), text("b"), title("c"), title("d"), text("e"), text("f")},
	}

	for _, elements := range cases {
		chunks := builder.Build(elements)
		if len(elements) == 0 {
			if len(chunks) != 0 {
				t.Errorf("empty input should produce no chunks, got %d", len(chunks))
			}
			continue
		}

		var flattened []types.Element
		for _, chunk := range chunks {
			flattened = append(flattened, chunk.Elements...)
		}
		if len(flattened) != len(elements) {
			t.Fatalf("expected %d elements across chunks, got %d", len(elements), len(flattened))
		}
		for i := range elements {
			if flattened[i] != elements[i] {
				t.Errorf("element %d reordered: got %+v, want %+v", i, flattened[i], elements[i])
			}
		}

		// Rebuilding from already-grouped elements changes nothing.
		rebuilt := builder.Build(flattened)
		if len(rebuilt) != len(chunks) {
			t.Errorf("rebuild produced %d chunks, want %d", len(rebuilt), len(chunks))
		}
	}
}
