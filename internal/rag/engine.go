// Package rag answers questions by retrieving relevant passages from
// the vector store and conditioning a streamed generation on them. A
// FAQ table short-circuits the pipeline for known questions.
package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bull/sathi/internal/embedding"
	"github.com/bull/sathi/internal/faq"
	"github.com/bull/sathi/internal/storage"
)

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 3

// SearchStore is the slice of the vector store the engine needs.
type SearchStore interface {
	CollectionExists(ctx context.Context) (bool, error)
	Search(ctx context.Context, vector []float32, limit int) ([]storage.ScoredPassage, error)
}

// TokenStream is a lazy, ordered, finite sequence of answer fragments.
// Recv returns io.EOF when the stream is exhausted.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// Generator produces a streamed answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (TokenStream, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (TokenStream, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (TokenStream, error) {
	return f(ctx, prompt)
}

// Answer is the terminal result for one question.
type Answer struct {
	// Text is the authoritative answer: either the stored FAQ answer
	// or the concatenation of all streamed fragments in arrival order.
	Text string
	// FromFAQ marks answers served by the exact-match table with no
	// network calls.
	FromFAQ bool
	// Passages is how many retrieved passages grounded the prompt.
	Passages int
}

// Engine runs the per-question pipeline: FAQ check, query embedding,
// similarity search, prompt assembly, streamed generation.
type Engine struct {
	faqs      *faq.Table
	embedder  embedding.Embedder
	store     SearchStore
	generator Generator
	topK      int
	logger    *slog.Logger
}

// NewEngine wires the query pipeline. topK <= 0 selects DefaultTopK.
func NewEngine(faqs *faq.Table, embedder embedding.Embedder, store SearchStore, generator Generator, topK int, logger *slog.Logger) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		faqs:      faqs,
		embedder:  embedder,
		store:     store,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Ask processes a single question to completion. Fragments of a
// streamed generation are handed to onFragment (may be nil) as they
// arrive, for live display; the returned Answer carries the full text.
// Failures before generation come back as a *StageError naming the
// failing stage.
func (e *Engine) Ask(ctx context.Context, question string, onFragment func(string)) (*Answer, error) {
	// Exact normalized match only; a hit makes no network calls.
	if answer, ok := e.faqs.Lookup(question); ok {
		e.logger.Debug("FAQ hit", "question", question)
		if onFragment != nil {
			onFragment(answer)
		}
		return &Answer{Text: answer, FromFAQ: true}, nil
	}

	ready, err := e.store.CollectionExists(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageEmbed, Err: fmt.Errorf("%w: %v", ErrStoreUnavailable, err)}
	}
	if !ready {
		return nil, &StageError{Stage: StageEmbed, Err: ErrStoreUnavailable}
	}

	vector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, &StageError{Stage: StageEmbed, Err: err}
	}

	passages, err := e.store.Search(ctx, vector, e.topK)
	if err != nil {
		return nil, &StageError{Stage: StageSearch, Err: err}
	}
	if len(passages) == 0 {
		e.logger.Debug("no relevant passages found", "question", question)
	}

	prompt := BuildPrompt(question, passages)
	stream, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}
	defer stream.Close()

	var builder strings.Builder
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &StageError{Stage: StageGenerate, Err: err}
		}
		builder.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}

	return &Answer{Text: builder.String(), Passages: len(passages)}, nil
}
