package service

import (
	"context"

	"github.com/tieubaoca/docchat-be/types"
)

// AIService generates answers from an assembled prompt, optionally as a
// stream of fragments whose concatenation equals the complete answer.
type AIService interface {
	Generate(ctx context.Context, prompt string, history []types.Message) (string, error)
	GenerateStream(ctx context.Context, prompt string, history []types.Message, handler types.StreamHandler) error
}

// Embedder converts texts into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer produces a searchable description of a multimodal chunk.
// Calls are best-effort: ingestion falls back to the raw text when a
// summary cannot be produced.
type Summarizer interface {
	Summarize(ctx context.Context, content types.ChunkContent) (string, error)
}
