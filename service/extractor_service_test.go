package service

import (
	"encoding/base64"
	"reflect"
	"strings"
	"testing"

	"github.com/tieubaoca/docchat-be/types"
)

func TestExtractAllModalities(t *testing.T) {
	extractor := NewMultimodalExtractor()
	imageB64 := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))

	content := extractor.Extract(types.Chunk{Elements: []types.Element{
		title("Results"),
		text("The experiment succeeded."),
		{Category: types.CategoryTable, Content: "<table><tr><td>a</td><td>b</td></tr></table>"},
		{Category: types.CategoryImage, Content: imageB64, AltText: "figure on page 3"},
		text("Closing remarks."),
	}})

	wantText := "Results\n\nThe experiment succeeded.\n\nClosing remarks."
	if content.Text != wantText {
		t.Errorf("Text = %q, want %q", content.Text, wantText)
	}
	if len(content.Tables) != 1 || !strings.HasPrefix(content.Tables[0], "<table>") {
		t.Errorf("Tables = %v, want one HTML table", content.Tables)
	}
	if len(content.Images) != 1 || content.Images[0] != imageB64 {
		t.Errorf("Images = %v, want the original payload", content.Images)
	}
	if want := []string{types.ModalityText, types.ModalityTable, types.ModalityImage}; !reflect.DeepEqual(content.Types, want) {
		t.Errorf("Types = %v, want %v", content.Types, want)
	}
}

func TestExtractTypesMatchContributions(t *testing.T) {
	extractor := NewMultimodalExtractor()

	tests := []struct {
		name     string
		elements []types.Element
		want     []string
	}{
		{"text only", []types.Element{text("plain")}, []string{types.ModalityText}},
		{"table only", []types.Element{{Category: types.CategoryTable, Content: "<table></table>"}}, []string{types.ModalityTable}},
		{"empty chunk", nil, nil},
		{"blank text ignored", []types.Element{text("  \n ")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := extractor.Extract(types.Chunk{Elements: tt.elements})
			if !reflect.DeepEqual(content.Types, tt.want) {
				t.Errorf("Types = %v, want %v", content.Types, tt.want)
			}
		})
	}
}

func TestExtractInvalidImageFallsBackToAltText(t *testing.T) {
	extractor := NewMultimodalExtractor()

	content := extractor.Extract(types.Chunk{Elements: []types.Element{
		{Category: types.CategoryImage, Content: "!!not base64!!", AltText: "chart of quarterly revenue"},
	}})

	if len(content.Images) != 0 {
		t.Errorf("undecodable payload should not be kept, got %v", content.Images)
	}
	if content.Text != "chart of quarterly revenue" {
		t.Errorf("Text = %q, want the alt text", content.Text)
	}
	if !reflect.DeepEqual(content.Types, []string{types.ModalityText}) {
		t.Errorf("Types = %v, want [text]", content.Types)
	}
}

func TestExtractEmptyPayloadsUseAltText(t *testing.T) {
	extractor := NewMultimodalExtractor()

	content := extractor.Extract(types.Chunk{Elements: []types.Element{
		{Category: types.CategoryTable, AltText: "totals per region"},
		{Category: types.CategoryImage, AltText: ""},
	}})

	if content.Text != "totals per region" {
		t.Errorf("Text = %q, want the table alt text only", content.Text)
	}
	if len(content.Tables) != 0 || len(content.Images) != 0 {
		t.Errorf("empty payloads should contribute nothing, got tables=%v images=%v", content.Tables, content.Images)
	}
}

func TestExtractUnknownCategoryIsText(t *testing.T) {
	extractor := NewMultimodalExtractor()

	content := extractor.Extract(types.Chunk{Elements: []types.Element{
		{Category: types.CategoryOther, Content: "footnote text"},
		{Category: types.Category("formula"), Content: "E = mc^2"},
	}})

	if content.Text != "footnote text\n\nE = mc^2" {
		t.Errorf("Text = %q", content.Text)
	}
	if !reflect.DeepEqual(content.Types, []string{types.ModalityText}) {
		t.Errorf("Types = %v, want [text]", content.Types)
	}
}
