package service

import (
	"github.com/tieubaoca/docchat-be/types"
)

// ChunkBuilder groups parsed elements into title-delimited chunks: a new
// Title element closes the current chunk unless it is still empty. All
// elements land in exactly one chunk, in document order.
type ChunkBuilder struct{}

func NewChunkBuilder() *ChunkBuilder {
	return &ChunkBuilder{}
}

// Build groups elements into chunks in a single pass. An empty input
// yields an empty output. Leading non-title elements form a title-less
// preamble chunk; adjacent titles with no content between them produce
// title-only chunks.
func (b *ChunkBuilder) Build(elements []types.Element) []types.Chunk {
	var chunks []types.Chunk
	var current types.Chunk

	for _, el := range elements {
		if el.IsTitle() && len(current.Elements) > 0 {
			chunks = append(chunks, current)
			current = types.Chunk{}
		}
		current.Elements = append(current.Elements, el)
	}

	if len(current.Elements) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
