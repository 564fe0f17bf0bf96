package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/sathi/internal/chunker"
	"github.com/bull/sathi/internal/storage"
)

// fakeEmbedder returns a fixed-dimension vector, failing for chunks the
// fail set names. Safe for concurrent use.
type fakeEmbedder struct {
	dimension int
	fail      map[string]bool
	calls     atomic.Int64
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if f.fail[text] {
		return nil, errors.New("embedding service unavailable")
	}
	return make([]float32, f.dimension), nil
}

// fakeStore records calls. Only the orchestrating goroutine touches the
// store, so no locking is needed.
type fakeStore struct {
	recreates  int
	dimension  uint64
	batchSizes []int
	upsertErr  error
}

func (f *fakeStore) RecreateCollection(_ context.Context, dimension uint64) error {
	f.recreates++
	f.dimension = dimension
	return nil
}

func (f *fakeStore) UpsertBatch(_ context.Context, points []storage.Point) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.batchSizes = append(f.batchSizes, len(points))
	return nil
}

func testChunks(n int) []string {
	chunks := make([]string, n)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk-%d", i)
	}
	return chunks
}

func newTestPipeline(t *testing.T, embedder *fakeEmbedder, store *fakeStore, batchSize int) *Pipeline {
	t.Helper()
	ch, err := chunker.New(100, 20)
	require.NoError(t, err)
	return NewPipeline(ch, embedder, store, 4, batchSize, nil)
}

func TestIndexChunks_AbortsBeforeRecreateOnFirstFailure(t *testing.T) {
	embedder := &fakeEmbedder{dimension: 4, fail: map[string]bool{"chunk-0": true}}
	store := &fakeStore{}
	p := newTestPipeline(t, embedder, store, 0)

	_, err := p.IndexChunks(context.Background(), testChunks(10))
	require.Error(t, err)
	assert.Equal(t, 0, store.recreates,
		"total embedding unavailability must abort before the destructive recreation")
	assert.Empty(t, store.batchSizes)
}

func TestIndexChunks_ReportsDegradedCount(t *testing.T) {
	embedder := &fakeEmbedder{
		dimension: 4,
		fail:      map[string]bool{"chunk-3": true, "chunk-7": true},
	}
	store := &fakeStore{}
	p := newTestPipeline(t, embedder, store, 0)

	result, err := p.IndexChunks(context.Background(), testChunks(10))
	require.NoError(t, err)

	assert.Equal(t, 10, result.TotalChunks)
	assert.Equal(t, 8, result.Indexed, "two failed chunks are dropped, not retried")
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 4, result.Dimension)
	assert.Equal(t, 1, store.recreates)
	assert.Equal(t, uint64(4), store.dimension)

	total := 0
	for _, size := range store.batchSizes {
		total += size
	}
	assert.Equal(t, 8, total)
}

func TestIndexChunks_FlushesAtBatchSize(t *testing.T) {
	embedder := &fakeEmbedder{dimension: 3}
	store := &fakeStore{}
	p := newTestPipeline(t, embedder, store, 4)

	result, err := p.IndexChunks(context.Background(), testChunks(10))
	require.NoError(t, err)
	assert.Equal(t, 10, result.Indexed)

	// The single consumer flushes whenever the buffer reaches 4, then
	// once more at the end for the remainder.
	assert.Equal(t, []int{4, 4, 2}, store.batchSizes)
}

func TestIndexChunks_SingleChunk(t *testing.T) {
	embedder := &fakeEmbedder{dimension: 3}
	store := &fakeStore{}
	p := newTestPipeline(t, embedder, store, 0)

	result, err := p.IndexChunks(context.Background(), []string{"only chunk"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Indexed)
	assert.Equal(t, int64(1), embedder.calls.Load(),
		"the probe embedding is reused, not recomputed")
	assert.Equal(t, []int{1}, store.batchSizes)
}

func TestIndexChunks_UpsertErrorPropagates(t *testing.T) {
	embedder := &fakeEmbedder{dimension: 3}
	store := &fakeStore{upsertErr: errors.New("qdrant down")}
	p := newTestPipeline(t, embedder, store, 2)

	_, err := p.IndexChunks(context.Background(), testChunks(6))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qdrant down")
}

func TestIndexChunks_Empty(t *testing.T) {
	p := newTestPipeline(t, &fakeEmbedder{dimension: 3}, &fakeStore{}, 0)
	_, err := p.IndexChunks(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRun_NoDocuments(t *testing.T) {
	p := newTestPipeline(t, &fakeEmbedder{dimension: 3}, &fakeStore{}, 0)

	_, err := p.Run(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRun_IgnoresUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain text"), 0o644))

	p := newTestPipeline(t, &fakeEmbedder{dimension: 3}, &fakeStore{}, 0)
	_, err := p.Run(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRun_MarkdownCorpus(t *testing.T) {
	dir := t.TempDir()
	doc := "# Seeds\n\nCertified seed basics.\n\n## Storage\n\nKeep them dry.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seeds.md"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.md"), []byte("  \n"), 0o644))

	embedder := &fakeEmbedder{dimension: 3}
	store := &fakeStore{}
	p := newTestPipeline(t, embedder, store, 0)

	result, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Documents, "blank documents are skipped, not fatal")
	assert.Equal(t, 2, result.TotalChunks)
	assert.Equal(t, 2, result.Indexed)
	assert.Equal(t, 0, result.Failed)
}
