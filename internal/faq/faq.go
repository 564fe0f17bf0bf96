// Package faq loads the exact-match FAQ table that short-circuits the
// retrieval pipeline for known questions.
package faq

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// blockDelimiter separates FAQ entries in the source file. Each block's
// first line is the question, the rest the answer.
const blockDelimiter = "==="

// Table maps normalized (lower-cased, trimmed) questions to answers.
// Read-only after Load.
type Table struct {
	entries map[string]string
}

// NewTable builds a table from already-normalized question/answer
// pairs. Mostly useful for wiring test doubles.
func NewTable(entries map[string]string) *Table {
	if entries == nil {
		entries = map[string]string{}
	}
	return &Table{entries: entries}
}

// Load reads the FAQ file at path. A missing file is not an error: the
// assistant runs without FAQs and logs a warning.
func Load(path string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("FAQ file not found, continuing without FAQs", "path", path)
			return &Table{entries: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("read faq file: %w", err)
	}

	return &Table{entries: Parse(string(data))}, nil
}

// Parse splits content into delimiter-separated blocks. Blocks without
// both a question line and an answer body are skipped.
func Parse(content string) map[string]string {
	entries := make(map[string]string)
	for _, block := range strings.Split(content, blockDelimiter) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		question, answer, found := strings.Cut(block, "\n")
		if !found {
			continue
		}
		question = strings.ToLower(strings.TrimSpace(question))
		answer = strings.TrimSpace(answer)
		if question == "" || answer == "" {
			continue
		}
		entries[question] = answer
	}
	return entries
}

// Lookup returns the stored answer for a question, matching after
// lower-casing and trimming only. No fuzzy or partial matching.
func (t *Table) Lookup(question string) (string, bool) {
	if t == nil {
		return "", false
	}
	answer, ok := t.entries[strings.ToLower(strings.TrimSpace(question))]
	return answer, ok
}

// Len returns the number of loaded FAQ entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
