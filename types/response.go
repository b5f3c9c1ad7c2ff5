package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type SearchResponse struct {
	Records []Record `json:"records"`
}

type ListDocumentsResponse struct {
	Documents []string `json:"documents"`
}

type ProcessingDocumentStatus struct {
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	Progress        float64 `json:"progress"`
	TotalChunks     int     `json:"total_chunks"`
	ProcessedChunks int     `json:"processed_chunks"`
	// Types lists the modalities seen in the chunk just processed, for
	// progress display only.
	Types []string `json:"types,omitempty"`
}
