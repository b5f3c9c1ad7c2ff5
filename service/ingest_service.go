package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tieubaoca/docchat-be/database"
	"github.com/tieubaoca/docchat-be/types"
	"github.com/tieubaoca/docchat-be/utils"
)

// IngestService runs the ingestion pipeline for one document: save,
// hash-dedupe, partition, chunk, extract, summarize, embed, store.
type IngestService struct {
	uploadDir      string
	maxUploadBytes int64
	summaryTimeout time.Duration

	vectorDB    database.VectorStore
	partitioner Partitioner
	chunker     *ChunkBuilder
	extractor   *MultimodalExtractor
	embedder    Embedder
	summarizer  Summarizer

	// inFlight guards the check-then-write dedupe sequence against a
	// concurrent upload of the identical file within this process.
	// Cross-process races remain accepted behavior.
	mu       sync.Mutex
	inFlight map[string]bool
}

func NewIngestService(
	uploadDir string,
	maxUploadBytes int64,
	summaryTimeout time.Duration,
	vectorDB database.VectorStore,
	partitioner Partitioner,
	embedder Embedder,
	summarizer Summarizer,
) *IngestService {
	return &IngestService{
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
		summaryTimeout: summaryTimeout,
		vectorDB:       vectorDB,
		partitioner:    partitioner,
		chunker:        NewChunkBuilder(),
		extractor:      NewMultimodalExtractor(),
		embedder:       embedder,
		summarizer:     summarizer,
		inFlight:       make(map[string]bool),
	}
}

// IngestUpload saves an uploaded file into the upload directory and
// ingests it. The status channel, when non-nil, receives progress
// updates; it is not closed by this method.
func (s *IngestService) IngestUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, status chan<- types.ProcessingDocumentStatus) (*types.IngestResult, error) {
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	if header.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("file too large (%.2f MB), maximum allowed size is %d MB",
			float64(header.Size)/(1<<20), s.maxUploadBytes>>20)
	}

	savedPath, err := utils.SaveReaderWithTimestamp(file, header.Filename, s.uploadDir)
	if err != nil {
		return nil, err
	}
	return s.IngestFile(ctx, savedPath, status)
}

// IngestFile ingests one saved document. Returns a duplicate result,
// without storing anything, when a document with the same content hash
// was already ingested. Chunks are processed and stored in document
// order in a single sequential pass.
func (s *IngestService) IngestFile(ctx context.Context, path string, status chan<- types.ProcessingDocumentStatus) (*types.IngestResult, error) {
	fileName := filepath.Base(path)
	fileHash, err := utils.FileSHA256(path)
	if err != nil {
		return nil, err
	}

	release, duplicate, err := s.claimHash(ctx, fileHash)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return &types.IngestResult{
			Status:    types.IngestStatusDuplicate,
			FileName:  fileName,
			SavedPath: path,
			FileHash:  fileHash,
		}, nil
	}
	defer release()

	report(status, types.ProcessingDocumentStatus{
		Status:  "processing",
		Message: "Parsing document",
	})

	elements, err := s.partitioner.Partition(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	chunks := s.chunker.Build(elements)
	records := make([]types.Record, 0, len(chunks))
	for i, chunk := range chunks {
		content := s.extractor.Extract(chunk)

		embeddable := content.Text
		if content.HasVisualContent() && s.summarizer != nil {
			embeddable = s.enhance(ctx, content)
		}

		records = append(records, types.Record{
			Content: embeddable,
			OriginalContent: types.OriginalContent{
				RawText:      content.Text,
				TablesHTML:   content.Tables,
				ImagesBase64: content.Images,
			},
			FileName:   fileName,
			FileHash:   fileHash,
			ChunkIndex: i,
		})

		report(status, types.ProcessingDocumentStatus{
			Status:          "processing",
			Message:         fmt.Sprintf("Processed chunk %d/%d", i+1, len(chunks)),
			Progress:        float64(i+1) / float64(len(chunks)),
			TotalChunks:     len(chunks),
			ProcessedChunks: i + 1,
			Types:           content.Types,
		})
	}

	if len(records) > 0 {
		texts := make([]string, len(records))
		for i, r := range records {
			texts[i] = r.Content
		}
		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks: %w", err)
		}
		if err := s.vectorDB.AddRecords(ctx, records, vectors, fileHash); err != nil {
			return nil, fmt.Errorf("failed to store records: %w", err)
		}
	}

	report(status, types.ProcessingDocumentStatus{
		Status:          "completed",
		Message:         "Done processing document",
		Progress:        1,
		TotalChunks:     len(chunks),
		ProcessedChunks: len(chunks),
	})

	return &types.IngestResult{
		Status:    types.IngestStatusIngested,
		FileName:  fileName,
		SavedPath: path,
		FileHash:  fileHash,
		Chunks:    len(records),
	}, nil
}

// ListDocuments returns the deduplicated file names already ingested.
func (s *IngestService) ListDocuments(ctx context.Context) ([]string, error) {
	return s.vectorDB.ListSources(ctx)
}

// claimHash performs the dedupe existence check and marks the hash as
// in-flight so an identical concurrent upload in this process is also
// reported as duplicate.
func (s *IngestService) claimHash(ctx context.Context, fileHash string) (release func(), duplicate bool, err error) {
	s.mu.Lock()
	if s.inFlight[fileHash] {
		s.mu.Unlock()
		return nil, true, nil
	}
	s.inFlight[fileHash] = true
	s.mu.Unlock()

	unclaim := func() {
		s.mu.Lock()
		delete(s.inFlight, fileHash)
		s.mu.Unlock()
	}

	exists, err := s.vectorDB.Exists(ctx, fileHash)
	if err != nil {
		unclaim()
		return nil, false, fmt.Errorf("failed to check for existing document: %w", err)
	}
	if exists {
		unclaim()
		return nil, true, nil
	}
	return unclaim, false, nil
}

// enhance asks for a searchable description of a chunk with tables or
// images. Best-effort with a bounded timeout; on failure the chunk falls
// back to its raw text plus content markers.
func (s *IngestService) enhance(ctx context.Context, content types.ChunkContent) string {
	summaryCtx, cancel := context.WithTimeout(ctx, s.summaryTimeout)
	defer cancel()

	summary, err := s.summarizer.Summarize(summaryCtx, content)
	if err == nil && summary != "" {
		return summary
	}
	log.Printf("Warning: chunk summary failed, falling back to raw text: %v", err)

	fallback := content.Text
	if len(fallback) > 300 {
		fallback = fallback[:300] + "..."
	}
	if n := len(content.Tables); n > 0 {
		fallback += fmt.Sprintf(" [Contains %d table(s)]", n)
	}
	if n := len(content.Images); n > 0 {
		fallback += fmt.Sprintf(" [Contains %d image(s)]", n)
	}
	return fallback
}

func report(status chan<- types.ProcessingDocumentStatus, update types.ProcessingDocumentStatus) {
	if status == nil {
		return
	}
	status <- update
}
