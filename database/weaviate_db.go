package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tieubaoca/docchat-be/config"
	"github.com/tieubaoca/docchat-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

const LIST_SOURCES_LIMIT = 1000

var (
	DOCUMENT_CHUNK_CLASS        = "DocumentChunk"
	DOCUMENT_CHUNK_CLASS_OBJECT = &models.Class{
		Class: DOCUMENT_CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "originalContent", DataType: []string{"text"}},
			{Name: "fileName", DataType: []string{"text"}},
			{Name: "fileHash", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
		},
		// Vectors are computed client-side via the embeddings API.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

type WeaviateStore struct {
	client *weaviate.Client
}

var _ VectorStore = (*WeaviateStore)(nil)

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == DOCUMENT_CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	// Create DocumentChunk class if it doesn't exist
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(DOCUMENT_CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create DocumentChunk class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(DOCUMENT_CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete DocumentChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(DOCUMENT_CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create DocumentChunk class: %v", err)
	}
	return nil
}

// AddRecords batch-inserts the records of one document, in order, each
// carrying its client-side embedding vector.
func (s *WeaviateStore) AddRecords(ctx context.Context, records []types.Record, vectors [][]float32, fileHash string) error {
	if len(vectors) != len(records) {
		return fmt.Errorf("got %d vectors for %d records", len(vectors), len(records))
	}

	total := len(records)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			originalContent, err := records[j].OriginalContent.Marshal()
			if err != nil {
				return fmt.Errorf("failed to serialize original content of chunk %d: %v", j, err)
			}
			properties := map[string]interface{}{
				"content":         records[j].Content,
				"originalContent": originalContent,
				"fileName":        records[j].FileName,
				"fileHash":        fileHash,
				"chunkIndex":      records[j].ChunkIndex,
			}
			batcher = batcher.WithObjects(&models.Object{
				Class:      DOCUMENT_CHUNK_CLASS,
				Properties: properties,
				Vector:     vectors[j],
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}
		log.Printf("Inserted batch %d-%d of %d records", i, end, total)
	}

	return nil
}

// Exists reports whether any stored record carries the given file hash.
func (s *WeaviateStore) Exists(ctx context.Context, fileHash string) (bool, error) {
	where := filters.Where().
		WithPath([]string{"fileHash"}).
		WithOperator(filters.Equal).
		WithValueString(fileHash)

	result, err := s.client.GraphQL().Get().
		WithClassName(DOCUMENT_CHUNK_CLASS).
		WithFields(graphql.Field{Name: "fileHash"}).
		WithWhere(where).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return false, err
	}
	if result.Errors != nil {
		return false, fmt.Errorf("existence check failed: %v", result.Errors[0].Message)
	}

	return len(classObjects(result.Data)) > 0, nil
}

// Retrieve returns up to limit records ranked by ascending distance to
// the query vector.
func (s *WeaviateStore) Retrieve(ctx context.Context, vector []float32, limit int) ([]types.Record, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "originalContent"},
		{Name: "fileName"},
		{Name: "fileHash"},
		{Name: "chunkIndex"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(DOCUMENT_CHUNK_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector)
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("retrieval failed: %v", result.Errors[0].Message)
	}

	var records []types.Record
	for _, item := range classObjects(result.Data) {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		record := types.Record{
			Content:  asString(obj["content"]),
			FileName: asString(obj["fileName"]),
			FileHash: asString(obj["fileHash"]),
		}
		if idx, ok := obj["chunkIndex"].(float64); ok {
			record.ChunkIndex = int(idx)
		}
		if raw := asString(obj["originalContent"]); raw != "" {
			original, err := types.ParseOriginalContent(raw)
			if err != nil {
				// Tolerate a malformed payload; the embeddable text
				// still carries the chunk.
				log.Printf("Warning: malformed original content in record: %v", err)
				original = types.OriginalContent{RawText: record.Content}
			}
			record.OriginalContent = original
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			record.ID = asString(additional["id"])
			if d, ok := additional["distance"].(float64); ok {
				record.Distance = float32(d)
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// ListSources returns the deduplicated file names of ingested documents.
func (s *WeaviateStore) ListSources(ctx context.Context) ([]string, error) {
	result, err := s.client.GraphQL().Get().
		WithClassName(DOCUMENT_CHUNK_CLASS).
		WithFields(graphql.Field{Name: "fileName"}).
		WithLimit(LIST_SOURCES_LIMIT).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("list sources failed: %v", result.Errors[0].Message)
	}

	seen := make(map[string]bool)
	var sources []string
	for _, item := range classObjects(result.Data) {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name := asString(obj["fileName"])
		if name != "" && !seen[name] {
			seen[name] = true
			sources = append(sources, name)
		}
	}
	return sources, nil
}

// Helper functions
func classObjects(data map[string]models.JSONObject) []interface{} {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	objects, _ := get[DOCUMENT_CHUNK_CLASS].([]interface{})
	return objects
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
