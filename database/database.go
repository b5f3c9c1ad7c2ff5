package database

import (
	"context"

	"github.com/tieubaoca/docchat-be/types"
)

// Message represents a chat message
type Message struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	Role      string `bson:"role" json:"role"`
	Content   string `bson:"content" json:"content"`
	ChatID    string `bson:"chat_id" json:"chat_id"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
}

// Chat represents a conversation
type Chat struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	Title     string `bson:"title" json:"title"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
	UpdatedAt int64  `bson:"updated_at" json:"updated_at"`
}

// ChatStore defines the interface for conversation persistence
type ChatStore interface {
	CreateChat(ctx context.Context, chat *Chat) error
	GetChat(ctx context.Context, id string) (*Chat, error)
	ListChats(ctx context.Context) ([]Chat, error)
	DeleteChat(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, message *Message) error
	GetMessages(ctx context.Context, chatID string) ([]Message, error)
	DeleteMessages(ctx context.Context, chatID string) error
}

// VectorStore defines the interface for the retrieval index. Records are
// stored with client-side embedding vectors; similarity ranking is owned
// by the index.
type VectorStore interface {
	// AddRecords persists the records of one document in order, tagging
	// each with fileHash when it is non-empty.
	AddRecords(ctx context.Context, records []types.Record, vectors [][]float32, fileHash string) error
	// Exists reports whether any record carries the given file hash.
	Exists(ctx context.Context, fileHash string) (bool, error)
	// Retrieve returns up to limit records ranked by ascending distance
	// to the query vector.
	Retrieve(ctx context.Context, vector []float32, limit int) ([]types.Record, error)
	// ListSources returns the deduplicated file names of ingested documents.
	ListSources(ctx context.Context) ([]string, error)
}
