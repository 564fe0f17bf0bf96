package embedding

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
)

// OpenAIEmbedder generates embeddings through the OpenAI API. It is an
// alternative to the local Ollama backend for deployments without a GPU.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an OpenAI-backed embedder. It reads
// OPENAI_API_KEY from the environment and returns an error if not set.
func NewOpenAIEmbedder(model string) (*OpenAIEmbedder, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	// openai-go reads OPENAI_API_KEY from the environment itself
	client := openai.NewClient()

	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIEmbedder{client: &client, model: model}, nil
}

// Embed requests a single embedding. Like the Ollama backend, every
// failure mode collapses into one error return and there is no retry.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response contained no vector")
	}
	return toFloat32(resp.Data[0].Embedding), nil
}

// toFloat32 converts the API's float64 vector to the float32 layout the
// vector store uses.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
