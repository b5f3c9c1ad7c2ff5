package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tieubaoca/docchat-be/database"
	"github.com/tieubaoca/docchat-be/types"
)

const answerPromptTemplate = `Use the context below to answer the question.

Context:
%s

Question:
%s`

const noContextNotice = "(no relevant context found)"

// RAGService assembles answers: retrieve the top-k records for a
// question, rebuild their multimodal content, and hand the assembled
// context to the generation backend.
type RAGService struct {
	vectorDB database.VectorStore
	embedder Embedder
	ai       AIService
	topK     int
}

func NewRAGService(vectorDB database.VectorStore, embedder Embedder, ai AIService, topK int) *RAGService {
	if topK <= 0 {
		topK = 5
	}
	return &RAGService{
		vectorDB: vectorDB,
		embedder: embedder,
		ai:       ai,
		topK:     topK,
	}
}

// Query answers a question in one shot. A retrieval that finds nothing
// still produces a defined answer; a generation failure is returned as
// an error with no partial answer.
func (s *RAGService) Query(ctx context.Context, question string, history []types.Message) (string, error) {
	prompt, err := s.buildPrompt(ctx, question)
	if err != nil {
		return "", err
	}
	return s.ai.Generate(ctx, prompt, history)
}

// QueryStream answers a question as a sequence of fragments whose
// concatenation equals the non-streaming answer for the same generation.
// Cancelling ctx stops the stream; no further fragments are emitted.
func (s *RAGService) QueryStream(ctx context.Context, question string, history []types.Message, handler types.StreamHandler) error {
	prompt, err := s.buildPrompt(ctx, question)
	if err != nil {
		return err
	}
	return s.ai.GenerateStream(ctx, prompt, history, handler)
}

// Retrieve returns the raw ranked records for a query, for direct
// search endpoints.
func (s *RAGService) Retrieve(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if limit <= 0 {
		limit = s.topK
	}
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.vectorDB.Retrieve(ctx, vectors[0], limit)
}

func (s *RAGService) buildPrompt(ctx context.Context, question string) (string, error) {
	records, err := s.Retrieve(ctx, question, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	return fmt.Sprintf(answerPromptTemplate, assembleContext(records), question), nil
}

// assembleContext flattens retrieved records into one context blob,
// preserving retrieval rank order. Tables keep their markup; images are
// represented by count markers since generation input is text.
func assembleContext(records []types.Record) string {
	if len(records) == 0 {
		return noContextNotice
	}

	sections := make([]string, 0, len(records))
	for _, record := range records {
		var b strings.Builder
		original := record.OriginalContent
		if original.RawText == "" && len(original.TablesHTML) == 0 && len(original.ImagesBase64) == 0 {
			// Older records without a multimodal payload.
			b.WriteString(record.Content)
		} else {
			b.WriteString(original.RawText)
			for _, table := range original.TablesHTML {
				b.WriteString("\n")
				b.WriteString(table)
			}
			if n := len(original.ImagesBase64); n > 0 {
				fmt.Fprintf(&b, "\n[%d image(s) in this passage]", n)
			}
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n\n")
}
