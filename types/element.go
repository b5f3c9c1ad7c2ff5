package types

// Category classifies one parsed element of a source document.
// Unknown categories coming out of a partitioner must be mapped to
// CategoryOther, which downstream code treats as plain text.
type Category string

const (
	CategoryText  Category = "text"
	CategoryTitle Category = "title"
	CategoryTable Category = "table"
	CategoryImage Category = "image"
	CategoryOther Category = "other"
)

// Element is a single parsed unit from a source document. Content holds
// plain text, table HTML, or a base64 image payload depending on the
// category. Elements are immutable once produced by a partitioner.
type Element struct {
	Category Category `json:"category"`
	Content  string   `json:"content"`
	// AltText is a textual description used as fallback when the primary
	// payload of a non-text element is unusable.
	AltText string `json:"alt_text,omitempty"`
	Page    int    `json:"page,omitempty"`
}

// IsTitle reports whether the element marks a structural section title.
func (e Element) IsTitle() bool {
	return e.Category == CategoryTitle
}
