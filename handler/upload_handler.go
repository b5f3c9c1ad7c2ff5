package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tieubaoca/docchat-be/service"
	"github.com/tieubaoca/docchat-be/types"
)

type UploadHandler struct {
	ingestService *service.IngestService
}

func NewUploadHandler(ingestService *service.IngestService) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
	}
}

// UploadDocumentHandler ingests an uploaded PDF, streaming progress as
// server-sent events. The terminal event carries the outcome: ingested,
// duplicate, or failed.
func (h *UploadHandler) UploadDocumentHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.sendJSONError(w, "Invalid file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		flusher, ok := w.(http.Flusher)
		if !ok {
			h.sendJSONError(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")

		statusChan := make(chan types.ProcessingDocumentStatus)
		type ingestOutcome struct {
			result *types.IngestResult
			err    error
		}
		outcomeChan := make(chan ingestOutcome, 1)
		go func() {
			defer close(statusChan)
			result, err := h.ingestService.IngestUpload(r.Context(), file, header, statusChan)
			outcomeChan <- ingestOutcome{result: result, err: err}
		}()

		for status := range statusChan {
			h.sendEvent(w, flusher, status)
		}

		outcome := <-outcomeChan
		if outcome.err != nil {
			h.sendEvent(w, flusher, types.ProcessingDocumentStatus{
				Status:  "failed",
				Message: outcome.err.Error(),
			})
			return
		}
		h.sendEvent(w, flusher, map[string]interface{}{
			"status": outcome.result.Status,
			"result": outcome.result,
		})
	})
}

func (h *UploadHandler) sendEvent(w http.ResponseWriter, flusher http.Flusher, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
	flusher.Flush()
}

func (h *UploadHandler) sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status:  false,
		Message: message,
	})
}
