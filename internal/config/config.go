// Package config holds the explicit configuration passed into every
// component at construction. Values come from built-in defaults, an
// optional YAML file, and finally environment variables, in that order.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OllamaConfig points at the local Ollama endpoint used for embeddings
// and streamed generation.
type OllamaConfig struct {
	URL        string `yaml:"url"`
	EmbedModel string `yaml:"embed_model"`
	ChatModel  string `yaml:"chat_model"`
}

// EmbedderConfig selects the embedding backend. Provider is "ollama"
// (default) or "openai"; OpenAIModel only applies to the latter.
type EmbedderConfig struct {
	Provider    string `yaml:"provider"`
	OpenAIModel string `yaml:"openai_model"`
}

// QdrantConfig contains connection details for the vector store.
// Port is the gRPC port, not the REST one.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Collection string `yaml:"collection"`
}

// ChunkingConfig sets the window size and overlap, in bytes, used to
// split extracted document text.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// IngestConfig bounds the ingestion run: Workers is the number of
// concurrent embedding requests, BatchSize the upsert buffer threshold.
type IngestConfig struct {
	Workers   int `yaml:"workers"`
	BatchSize int `yaml:"batch_size"`
}

// QueryConfig tunes the retrieval side of the assistant.
type QueryConfig struct {
	TopK int `yaml:"top_k"`
}

// Config is the root configuration structure.
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	FAQPath  string         `yaml:"faq_path"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Qdrant   QdrantConfig   `yaml:"qdrant"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Query    QueryConfig    `yaml:"query"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		DataDir: "./data",
		FAQPath: "faqs.txt",
		Ollama: OllamaConfig{
			URL:        "http://localhost:11434",
			EmbedModel: "nomic-embed-text",
			ChatModel:  "llama3.2:1b",
		},
		Embedder: EmbedderConfig{
			Provider:    "ollama",
			OpenAIModel: "text-embedding-3-small",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "pdf_rag_store",
		},
		Chunking: ChunkingConfig{
			Size:    1500,
			Overlap: 250,
		},
		Ingest: IngestConfig{
			Workers:   10,
			BatchSize: 128,
		},
		Query: QueryConfig{
			TopK: 3,
		},
	}
}

// Load builds the effective configuration. path may be empty, in which
// case only defaults and environment variables apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.FAQPath = getEnv("FAQ_PATH", c.FAQPath)
	c.Ollama.URL = getEnv("OLLAMA_URL", c.Ollama.URL)
	c.Ollama.EmbedModel = getEnv("OLLAMA_EMBED_MODEL", c.Ollama.EmbedModel)
	c.Ollama.ChatModel = getEnv("OLLAMA_CHAT_MODEL", c.Ollama.ChatModel)
	c.Embedder.Provider = getEnv("EMBEDDER_PROVIDER", c.Embedder.Provider)
	c.Embedder.OpenAIModel = getEnv("OPENAI_EMBED_MODEL", c.Embedder.OpenAIModel)
	c.Qdrant.Host = getEnv("QDRANT_HOST", c.Qdrant.Host)
	c.Qdrant.Port = getEnvInt("QDRANT_PORT", c.Qdrant.Port)
	c.Qdrant.Collection = getEnv("QDRANT_COLLECTION", c.Qdrant.Collection)
	c.Chunking.Size = getEnvInt("CHUNK_SIZE", c.Chunking.Size)
	c.Chunking.Overlap = getEnvInt("CHUNK_OVERLAP", c.Chunking.Overlap)
	c.Ingest.Workers = getEnvInt("INGEST_WORKERS", c.Ingest.Workers)
	c.Ingest.BatchSize = getEnvInt("INGEST_BATCH_SIZE", c.Ingest.BatchSize)
	c.Query.TopK = getEnvInt("QUERY_TOP_K", c.Query.TopK)
}

// Validate rejects settings that would break downstream components.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunk overlap must be in [0, size), got %d with size %d",
			c.Chunking.Overlap, c.Chunking.Size)
	}
	switch c.Embedder.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown embedder provider %q", c.Embedder.Provider)
	}
	if c.Qdrant.Collection == "" {
		return fmt.Errorf("qdrant collection name must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
