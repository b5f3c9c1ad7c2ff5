package types

// Modality tags reported by the multimodal extractor.
const (
	ModalityText  = "text"
	ModalityTable = "table"
	ModalityImage = "image"
)

// Chunk is a title-bounded grouping of elements produced by the chunk
// builder. Chunks are transient: only the extracted content persists
// downstream as a Record.
type Chunk struct {
	Elements []Element
}

// ChunkContent is the per-modality view of one chunk.
type ChunkContent struct {
	Text   string   // textual elements joined in document order
	Tables []string // table HTML markups, order preserved, not deduplicated
	Images []string // base64 image payloads, order preserved
	Types  []string // modalities with at least one non-empty contribution
}

// HasVisualContent reports whether the chunk carries tables or images,
// i.e. whether a summary enhancement is worth requesting.
func (c ChunkContent) HasVisualContent() bool {
	return len(c.Tables) > 0 || len(c.Images) > 0
}
