package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/sathi/internal/embedding"
	"github.com/bull/sathi/internal/rag"
	"github.com/bull/sathi/internal/storage"
)

// SearchStore is the slice of the vector store the raw search tool needs.
type SearchStore interface {
	Search(ctx context.Context, vector []float32, limit int) ([]storage.ScoredPassage, error)
}

// Config holds server dependencies.
type Config struct {
	Engine   *rag.Engine
	Store    SearchStore
	Embedder embedding.Embedder
}

// Server wraps the MCP server with its tools registered.
type Server struct {
	server *mcp.Server
}

// NewServer creates a configured MCP server exposing the assistant.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "sathi-assistant",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed document corpus, grounded on retrieved passages. Known questions are answered from the FAQ table.",
	}, makeAskHandler(cfg.Engine))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_passages",
		Description: "Run a raw similarity search over the indexed passages and return them with scores, without generating an answer.",
	}, makeSearchHandler(cfg.Store, cfg.Embedder))

	return &Server{server: server}
}

// Run starts the server on stdio transport (blocks until the client
// disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler exposes the server over Streamable HTTP, mountable on any
// mux path.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
