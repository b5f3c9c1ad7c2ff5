package types

import "encoding/json"

// OriginalContent is the serialized multimodal payload of a record. It is
// stored as a JSON string next to the embeddable text so that retrieval
// can hand tables and images back to the answer assembler unchanged.
type OriginalContent struct {
	RawText      string   `json:"raw_text"`
	TablesHTML   []string `json:"tables_html"`
	ImagesBase64 []string `json:"images_base64"`
}

// Marshal serializes the payload into the persisted JSON form.
func (c OriginalContent) Marshal() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseOriginalContent deserializes the persisted JSON form.
func ParseOriginalContent(s string) (OriginalContent, error) {
	var c OriginalContent
	err := json.Unmarshal([]byte(s), &c)
	return c, err
}

// Record is the persisted retrieval unit stored in the vector index.
// Content is the embeddable text (summary-enhanced when the chunk carried
// tables or images); OriginalContent preserves the raw multimodal parts.
type Record struct {
	ID              string          `json:"id,omitempty"`
	Content         string          `json:"content"`
	OriginalContent OriginalContent `json:"original_content"`
	FileName        string          `json:"file_name"`
	FileHash        string          `json:"file_hash,omitempty"`
	ChunkIndex      int             `json:"chunk_index"`
	// Distance is the similarity distance reported by the vector index on
	// retrieval. Zero for records built during ingestion.
	Distance float32 `json:"distance,omitempty"`
}

// IngestStatus values reported for an upload.
const (
	IngestStatusIngested  = "ingested"
	IngestStatusDuplicate = "duplicate"
)

// IngestResult is the terminal outcome of one document ingestion.
type IngestResult struct {
	Status    string `json:"status"`
	FileName  string `json:"file_name"`
	SavedPath string `json:"saved_path,omitempty"`
	FileHash  string `json:"file_hash,omitempty"`
	Chunks    int    `json:"chunks"`
}
