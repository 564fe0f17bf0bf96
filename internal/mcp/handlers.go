package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/sathi/internal/embedding"
	"github.com/bull/sathi/internal/rag"
)

// makeAskHandler creates the ask tool handler. It runs the full
// question pipeline; streaming is collapsed into the final answer since
// MCP tool calls return a single result.
func makeAskHandler(engine *rag.Engine) func(
	context.Context, *mcp.CallToolRequest, AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (
		*mcp.CallToolResult, AskOutput, error,
	) {
		answer, err := engine.Ask(ctx, input.Question, nil)
		if err != nil {
			var stageErr *rag.StageError
			if errors.As(err, &stageErr) {
				return nil, AskOutput{}, fmt.Errorf("%s: %s", stageErr.Stage, stageErr.UserMessage())
			}
			return nil, AskOutput{}, err
		}

		source := "documents"
		if answer.FromFAQ {
			source = "faq"
		}
		return nil, AskOutput{
			Answer:   answer.Text,
			Source:   source,
			Passages: answer.Passages,
		}, nil
	}
}

// makeSearchHandler creates the search_passages tool handler: embed the
// query, run the similarity search, return raw passages with scores.
func makeSearchHandler(store SearchStore, embedder embedding.Embedder) func(
	context.Context, *mcp.CallToolRequest, SearchPassagesInput,
) (*mcp.CallToolResult, SearchPassagesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchPassagesInput) (
		*mcp.CallToolResult, SearchPassagesOutput, error,
	) {
		limit := input.Limit
		if limit <= 0 {
			limit = rag.DefaultTopK
		}

		vector, err := embedder.Embed(ctx, input.Query)
		if err != nil {
			return nil, SearchPassagesOutput{}, fmt.Errorf("embed query: %w", err)
		}

		results, err := store.Search(ctx, vector, limit)
		if err != nil {
			return nil, SearchPassagesOutput{}, fmt.Errorf("search failed: %w", err)
		}

		passages := make([]Passage, 0, len(results))
		for _, result := range results {
			passages = append(passages, Passage{Text: result.Text, Score: result.Score})
		}

		if len(passages) == 0 {
			return nil, SearchPassagesOutput{
				Passages: []Passage{},
				Message:  "No matching passages found. Try broader search terms.",
			}, nil
		}
		return nil, SearchPassagesOutput{Passages: passages}, nil
	}
}
