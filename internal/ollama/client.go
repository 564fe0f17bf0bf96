// Package ollama is a minimal HTTP client for the two Ollama endpoints
// the assistant uses: /api/embeddings and the streaming /api/generate.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 120 * time.Second

// Client talks to a single Ollama instance. Embedding calls are not
// retried: during ingestion a failed call drops that chunk, and at
// query time it aborts the question.
type Client struct {
	baseURL    string
	embedModel string
	chatModel  string
	httpc      *http.Client
	// streamc has no timeout: a generation stream is consumed
	// incrementally and may legitimately outlive the embed timeout.
	streamc *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the Ollama instance at baseURL.
func NewClient(baseURL, embedModel, chatModel string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		embedModel: embedModel,
		chatModel:  chatModel,
		httpc:      &http.Client{Timeout: defaultTimeout},
		streamc:    &http.Client{},
		logger:     logger,
	}
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed returns the embedding vector for text. Connection failures,
// non-2xx statuses, and malformed responses all surface as a single
// error; a successful call never returns an empty vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: c.embedModel, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding service returned %s", resp.Status)
	}

	var decoded embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(decoded.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response contained no vector")
	}
	return decoded.Embedding, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Generate sends prompt to the chat model and returns a Stream of
// response fragments. The caller must Close the stream.
func (c *Client) Generate(ctx context.Context, prompt string) (*Stream, error) {
	body, err := json.Marshal(generateRequest{Model: c.chatModel, Prompt: prompt, Stream: true})
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.streamc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("generation service returned %s", resp.Status)
	}

	return &Stream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
		logger:  c.logger,
	}, nil
}

// Stream is a lazy sequence of generation fragments decoded from
// newline-delimited JSON. It ends at the first object with done=true
// or when the underlying response closes.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *slog.Logger
	done    bool
}

type generateFragment struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Recv returns the next text fragment, or io.EOF when the stream is
// finished. Malformed lines are skipped with a warning.
func (s *Stream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var frag generateFragment
		if err := json.Unmarshal(line, &frag); err != nil {
			s.logger.Warn("skipping malformed stream line", "error", err)
			continue
		}
		if frag.Done {
			s.done = true
			return "", io.EOF
		}
		if frag.Response != "" {
			return frag.Response, nil
		}
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}
	return "", io.EOF
}

// Close releases the underlying response body. Closing early cancels
// consumption; no cancellation signal is sent upstream.
func (s *Stream) Close() error {
	return s.body.Close()
}
