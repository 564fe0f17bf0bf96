// Package ingest drives the indexing run: document collection, parallel
// embedding through a bounded worker pool, and batched upsert into the
// vector store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bull/sathi/internal/chunker"
	"github.com/bull/sathi/internal/embedding"
	"github.com/bull/sathi/internal/extract"
	"github.com/bull/sathi/internal/storage"
)

const (
	// DefaultWorkers bounds concurrent in-flight embedding requests.
	DefaultWorkers = 10
	// DefaultBatchSize is the pending-point count that triggers an upsert.
	DefaultBatchSize = 128
)

// ErrNoData means no documents were found or none yielded text; the run
// aborts before touching the store.
var ErrNoData = errors.New("no text extracted from any document")

// Store is the slice of the vector store the pipeline needs.
type Store interface {
	RecreateCollection(ctx context.Context, dimension uint64) error
	UpsertBatch(ctx context.Context, points []storage.Point) error
}

// Result contains statistics about an ingestion run. Indexed may be
// lower than TotalChunks: per-chunk embedding failures are dropped, not
// retried, and only show up here as a count discrepancy.
type Result struct {
	Documents   int
	TotalChunks int
	Indexed     int
	Failed      int
	Dimension   int
	Duration    time.Duration
}

// Pipeline orchestrates one full reindex of the corpus.
type Pipeline struct {
	chunker   *chunker.Chunker
	embedder  embedding.Embedder
	store     Store
	workers   int
	batchSize int
	logger    *slog.Logger
}

// NewPipeline wires the ingestion pipeline. Zero workers or batchSize
// select the defaults.
func NewPipeline(ch *chunker.Chunker, embedder embedding.Embedder, store Store, workers, batchSize int, logger *slog.Logger) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		chunker:   ch,
		embedder:  embedder,
		store:     store,
		workers:   workers,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run collects documents from dataDir and indexes their chunks.
func (p *Pipeline) Run(ctx context.Context, dataDir string) (*Result, error) {
	chunks, documents, err := p.collectChunks(dataDir)
	if err != nil {
		return nil, err
	}

	result, err := p.IndexChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	result.Documents = documents
	return result, nil
}

// collectChunks extracts and splits every supported document under
// dataDir. Per-document failures are logged and skipped; only an empty
// corpus is fatal.
func (p *Pipeline) collectChunks(dataDir string) ([]string, int, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, 0, fmt.Errorf("read data directory: %w", err)
	}

	var chunks []string
	documents := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".pdf" && ext != ".md" {
			continue
		}

		path := filepath.Join(dataDir, entry.Name())
		docChunks, err := p.chunkDocument(path, ext)
		if err != nil {
			p.logger.Warn("skipping document", "path", path, "error", err)
			continue
		}
		if len(docChunks) == 0 {
			p.logger.Warn("no text extracted from document", "path", path)
			continue
		}

		p.logger.Info("collected document", "path", path, "chunks", len(docChunks))
		chunks = append(chunks, docChunks...)
		documents++
	}

	if len(chunks) == 0 {
		return nil, 0, ErrNoData
	}
	return chunks, documents, nil
}

func (p *Pipeline) chunkDocument(path, ext string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	switch ext {
	case ".pdf":
		text, err := extract.PDF(content)
		if err != nil {
			return nil, err
		}
		return p.chunker.Split(text), nil
	case ".md":
		// Markdown splits at section boundaries first so a window
		// never straddles unrelated sections.
		var chunks []string
		for _, section := range extract.MarkdownSections(content) {
			chunks = append(chunks, p.chunker.Split(section)...)
		}
		return chunks, nil
	default:
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
}

// IndexChunks embeds the chunks and replaces the collection contents.
//
// The first chunk is embedded synchronously to learn the vector
// dimensionality; if that call fails the run aborts before the
// destructive collection recreation, leaving any existing index intact.
func (p *Pipeline) IndexChunks(ctx context.Context, chunks []string) (*Result, error) {
	start := time.Now()
	if len(chunks) == 0 {
		return nil, ErrNoData
	}

	firstVector, err := p.embedder.Embed(ctx, chunks[0])
	if err != nil {
		return nil, fmt.Errorf("probe embedding dimension: %w", err)
	}
	dimension := len(firstVector)
	p.logger.Info("determined embedding dimension", "dimension", dimension)

	if err := p.store.RecreateCollection(ctx, uint64(dimension)); err != nil {
		return nil, fmt.Errorf("recreate collection: %w", err)
	}

	indexed, failed, err := p.embedAndUpsert(ctx, chunks, firstVector)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TotalChunks: len(chunks),
		Indexed:     indexed,
		Failed:      failed,
		Dimension:   dimension,
		Duration:    time.Since(start),
	}
	p.logger.Info("ingestion complete",
		"chunks", result.TotalChunks,
		"indexed", result.Indexed,
		"failed", result.Failed,
		"duration", result.Duration,
	)
	return result, nil
}

type embedResult struct {
	text   string
	vector []float32
	err    error
}

// embedAndUpsert fans the remaining chunks out to the worker pool and
// consumes results in completion order. This goroutine is the sole
// mutator of the pending buffer and the only caller of UpsertBatch.
func (p *Pipeline) embedAndUpsert(ctx context.Context, chunks []string, firstVector []float32) (indexed, failed int, err error) {
	jobs := make(chan string)
	results := make(chan embedResult)

	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for text := range jobs {
				vector, err := p.embedder.Embed(ctx, text)
				results <- embedResult{text: text, vector: vector, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, text := range chunks[1:] {
			select {
			case jobs <- text:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()
	// Unblock workers still sending if we bail out on an upsert error.
	defer func() {
		go func() {
			for range results {
			}
		}()
	}()

	dimension := len(firstVector)
	pending := []storage.Point{newPoint(firstVector, chunks[0])}

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := p.store.UpsertBatch(ctx, pending); err != nil {
			return fmt.Errorf("upsert batch: %w", err)
		}
		indexed += len(pending)
		p.logger.Info("upserted batch", "points", len(pending), "indexed", indexed)
		pending = nil
		return nil
	}

	for result := range results {
		switch {
		case result.err != nil:
			failed++
			p.logger.Warn("dropping chunk, embedding failed", "error", result.err)
		case len(result.vector) != dimension:
			failed++
			p.logger.Warn("dropping chunk, dimension mismatch",
				"expected", dimension, "got", len(result.vector))
		default:
			pending = append(pending, newPoint(result.vector, result.text))
		}

		if len(pending) >= p.batchSize {
			if err := flush(); err != nil {
				return indexed, failed, err
			}
		}
	}

	if err := flush(); err != nil {
		return indexed, failed, err
	}
	return indexed, failed, nil
}

func newPoint(vector []float32, text string) storage.Point {
	return storage.Point{
		ID:     uuid.New().String(),
		Vector: vector,
		Text:   text,
	}
}
