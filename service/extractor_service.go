package service

import (
	"encoding/base64"
	"strings"

	"github.com/tieubaoca/docchat-be/types"
)

// MultimodalExtractor separates a chunk's elements by modality. Extract
// is a pure function: no I/O, input left untouched.
type MultimodalExtractor struct{}

func NewMultimodalExtractor() *MultimodalExtractor {
	return &MultimodalExtractor{}
}

// Extract classifies every member element of the chunk. Textual elements
// are concatenated in order with a blank-line boundary; tables keep their
// HTML markup; images keep their base64 payloads. Types reflects exactly
// the modalities with at least one non-empty contribution.
//
// An image payload that is not valid base64 is skipped for the image
// modality; its alt text, when present, still contributes to the chunk
// text so the element is not silently lost.
func (e *MultimodalExtractor) Extract(chunk types.Chunk) types.ChunkContent {
	var content types.ChunkContent
	var texts []string
	present := make(map[string]bool)

	addText := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		texts = append(texts, s)
		present[types.ModalityText] = true
	}

	for _, el := range chunk.Elements {
		switch el.Category {
		case types.CategoryTitle, types.CategoryText:
			addText(el.Content)
		case types.CategoryTable:
			if el.Content == "" {
				addText(el.AltText)
				continue
			}
			content.Tables = append(content.Tables, el.Content)
			present[types.ModalityTable] = true
		case types.CategoryImage:
			if el.Content == "" {
				addText(el.AltText)
				continue
			}
			if _, err := base64.StdEncoding.DecodeString(el.Content); err != nil {
				// Undecodable payload: fall back to the description.
				addText(el.AltText)
				continue
			}
			content.Images = append(content.Images, el.Content)
			present[types.ModalityImage] = true
		default:
			// Unrecognized categories decode as plain text.
			addText(el.Content)
		}
	}

	content.Text = strings.Join(texts, "\n\n")
	for _, modality := range []string{types.ModalityText, types.ModalityTable, types.ModalityImage} {
		if present[modality] {
			content.Types = append(content.Types, modality)
		}
	}
	return content
}
