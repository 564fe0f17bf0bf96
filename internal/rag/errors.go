package rag

import (
	"errors"
	"fmt"
)

// Stage identifies where in the question pipeline a failure happened.
type Stage string

const (
	StageEmbed    Stage = "embed"
	StageSearch   Stage = "search"
	StageGenerate Stage = "generate"
)

// ErrStoreUnavailable means the vector store cannot serve queries,
// either because it is unreachable or because no ingestion run has
// created the collection yet.
var ErrStoreUnavailable = errors.New("vector store unavailable")

// StageError wraps a failure with the pipeline stage it occurred in, so
// the caller can tell the user which part of the system is down. A
// failed question never corrupts state for later questions.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// UserMessage returns the explanation shown to the person asking.
func (e *StageError) UserMessage() string {
	switch {
	case errors.Is(e.Err, ErrStoreUnavailable):
		return "The vector store is not ready. Please run the ingest tool first."
	case e.Stage == StageEmbed:
		return "Could not get an embedding for your question. Please check the embedding service connection."
	case e.Stage == StageSearch:
		return "Searching the document store failed. Please try again later."
	default:
		return "Generating an answer failed. Please try again later."
	}
}
