package service

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docchat-be/types"
)

type fakePartitioner struct {
	elements []types.Element
	err      error
}

func (f *fakePartitioner) Partition(ctx context.Context, filePath string) ([]types.Element, error) {
	return f.elements, f.err
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, content types.ChunkContent) (string, error) {
	f.calls++
	return f.summary, f.err
}

func newTestIngestService(store *fakeVectorStore, partitioner Partitioner, summarizer Summarizer) *IngestService {
	return NewIngestService("", 10<<20, time.Second, store, partitioner, &fakeEmbedder{}, summarizer)
}

func writeTempPDF(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestFileStoresChunksInOrder(t *testing.T) {
	store := newFakeVectorStore()
	summarizer := &fakeSummarizer{summary: "searchable description of the table"}
	partitioner := &fakePartitioner{elements: []types.Element{
		title("Overview"),
		text("plain introduction"),
		title("Data"),
		{Category: types.CategoryTable, Content: "<table><tr><td>1</td></tr></table>"},
	}}
	svc := newTestIngestService(store, partitioner, summarizer)

	path := writeTempPDF(t, "report.pdf", "pdf bytes")
	result, err := svc.IngestFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.Equal(t, types.IngestStatusIngested, result.Status)
	require.Equal(t, "report.pdf", result.FileName)
	require.Equal(t, 2, result.Chunks)
	require.NotEmpty(t, result.FileHash)

	records := store.records[result.FileHash]
	require.Len(t, records, 2)
	for i, record := range records {
		require.Equal(t, i, record.ChunkIndex)
		require.Equal(t, "report.pdf", record.FileName)
		require.Equal(t, result.FileHash, record.FileHash)
	}

	// Text-only chunk embeds its raw text untouched.
	require.Equal(t, "Overview\n\nplain introduction", records[0].Content)
	require.Equal(t, records[0].Content, records[0].OriginalContent.RawText)
	require.Empty(t, records[0].OriginalContent.TablesHTML)

	// The chunk with a table embeds the summary but keeps the markup.
	require.Equal(t, "searchable description of the table", records[1].Content)
	require.Equal(t, "Data", records[1].OriginalContent.RawText)
	require.Equal(t, []string{"<table><tr><td>1</td></tr></table>"}, records[1].OriginalContent.TablesHTML)
	require.Equal(t, 1, summarizer.calls, "text-only chunks must not be summarized")
}

func TestIngestFileDeduplicatesByContentHash(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestIngestService(store, &fakePartitioner{elements: []types.Element{text("body")}}, nil)

	first := writeTempPDF(t, "original.pdf", "identical bytes")
	second := writeTempPDF(t, "renamed.pdf", "identical bytes")

	result, err := svc.IngestFile(context.Background(), first, nil)
	require.NoError(t, err)
	require.Equal(t, types.IngestStatusIngested, result.Status)

	result, err = svc.IngestFile(context.Background(), second, nil)
	require.NoError(t, err)
	require.Equal(t, types.IngestStatusDuplicate, result.Status)
	require.Equal(t, 1, store.addCalls, "duplicate upload must not write records")
}

func TestIngestFileSummaryFallback(t *testing.T) {
	store := newFakeVectorStore()
	summarizer := &fakeSummarizer{err: errors.New("model unavailable")}
	partitioner := &fakePartitioner{elements: []types.Element{
		text("chunk text"),
		{Category: types.CategoryTable, Content: "<table><tr><td>1</td></tr></table>"},
	}}
	svc := newTestIngestService(store, partitioner, summarizer)

	path := writeTempPDF(t, "tables.pdf", "pdf bytes")
	result, err := svc.IngestFile(context.Background(), path, nil)
	require.NoError(t, err)

	records := store.records[result.FileHash]
	require.Len(t, records, 1)
	require.True(t, strings.HasPrefix(records[0].Content, "chunk text"))
	require.Contains(t, records[0].Content, "[Contains 1 table(s)]")
}

func TestIngestFileReportsProgress(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestIngestService(store, &fakePartitioner{elements: []types.Element{text("body")}}, nil)
	path := writeTempPDF(t, "doc.pdf", "pdf bytes")

	statusChan := make(chan types.ProcessingDocumentStatus, 16)
	_, err := svc.IngestFile(context.Background(), path, statusChan)
	require.NoError(t, err)
	close(statusChan)

	var statuses []types.ProcessingDocumentStatus
	for status := range statusChan {
		statuses = append(statuses, status)
	}
	require.NotEmpty(t, statuses)
	last := statuses[len(statuses)-1]
	require.Equal(t, "completed", last.Status)
	require.Equal(t, float64(1), last.Progress)
}

func TestIngestFilePartitionErrorIsFatal(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestIngestService(store, &fakePartitioner{err: errors.New("corrupt document")}, nil)
	path := writeTempPDF(t, "broken.pdf", "pdf bytes")

	_, err := svc.IngestFile(context.Background(), path, nil)
	require.Error(t, err)
	require.Zero(t, store.addCalls)

	// The claim must be released so a later retry is not treated as a
	// duplicate.
	svc.partitioner = &fakePartitioner{elements: []types.Element{text("body")}}
	result, err := svc.IngestFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.Equal(t, types.IngestStatusIngested, result.Status)
}

func TestIngestUploadRejectsUnsupportedType(t *testing.T) {
	svc := newTestIngestService(newFakeVectorStore(), &fakePartitioner{}, nil)

	_, err := svc.IngestUpload(context.Background(), nil, &multipart.FileHeader{Filename: "notes.txt"}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported file type")
}

func TestIngestUploadRejectsOversizedFile(t *testing.T) {
	svc := newTestIngestService(newFakeVectorStore(), &fakePartitioner{}, nil)

	header := &multipart.FileHeader{Filename: "huge.pdf", Size: 11 << 20}
	_, err := svc.IngestUpload(context.Background(), nil, header, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "file too large")
}
