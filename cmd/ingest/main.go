// Package main provides the ingestion CLI that indexes a document
// directory into Qdrant.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/sathi/internal/chunker"
	"github.com/bull/sathi/internal/config"
	"github.com/bull/sathi/internal/embedding"
	"github.com/bull/sathi/internal/ingest"
	"github.com/bull/sathi/internal/ollama"
	"github.com/bull/sathi/internal/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sathi-ingest",
	Short: "Document ingestion tool for the sathi assistant",
	Long:  "CLI tool for chunking, embedding and indexing a document directory into Qdrant",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Re-index all documents from the data directory",
	Long: `Drops the existing collection and rebuilds it from the data directory.

This command:
1. Connects to Qdrant and verifies health
2. Reads every .pdf and .md file in the data directory
3. Splits extracted text into overlapping chunks
4. Embeds chunks concurrently and upserts them in batches
5. Recreates the collection, sized to the embedding dimension

Environment variables:
  DATA_DIR          Document directory (default: ./data)
  QDRANT_HOST       Qdrant hostname (default: localhost)
  QDRANT_PORT       Qdrant gRPC port (default: 6334)
  OLLAMA_URL        Ollama endpoint (default: http://localhost:11434)
  EMBEDDER_PROVIDER "ollama" or "openai" (default: ollama)
  OPENAI_API_KEY    OpenAI API key (required with the openai provider)`,
	RunE: runIngest,
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(runCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("Failed to load configuration: %w", err)
	}

	fmt.Println("Starting ingestion...")
	fmt.Println()

	// 1. Connect to Qdrant
	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.Qdrant.Host, cfg.Qdrant.Port)
	store, err := storage.NewQdrantStorage(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection)
	if err != nil {
		return fmt.Errorf("Failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	// 2. Check health
	if err := store.Health(ctx); err != nil {
		return fmt.Errorf("Qdrant health check failed: %w", err)
	}
	fmt.Println("Qdrant healthy")

	// 3. Initialize embedder
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("Failed to create embedder: %w", err)
	}

	// 4. Initialize chunker and pipeline
	splitter, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return fmt.Errorf("Failed to create chunker: %w", err)
	}
	pipeline := ingest.NewPipeline(splitter, embedder, store,
		cfg.Ingest.Workers, cfg.Ingest.BatchSize, slog.Default())

	// 5. Run indexing
	fmt.Println()
	fmt.Printf("Indexing documents from %s...\n", cfg.DataDir)
	result, err := pipeline.Run(ctx, cfg.DataDir)
	if err != nil {
		if errors.Is(err, ingest.ErrNoData) {
			return fmt.Errorf("No readable documents found in %s", cfg.DataDir)
		}
		return fmt.Errorf("Indexing failed: %w", err)
	}

	// 6. Print results
	fmt.Println()
	fmt.Println("Ingestion complete!")
	fmt.Printf("  Documents: %d\n", result.Documents)
	fmt.Printf("  Chunks: %d/%d indexed\n", result.Indexed, result.TotalChunks)
	fmt.Printf("  Dimension: %d\n", result.Dimension)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Second))

	if result.Failed > 0 {
		fmt.Println()
		fmt.Printf("Warning: %d chunks failed to embed and were skipped\n", result.Failed)
	}

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))

	return nil
}

func newEmbedder(cfg config.Config) (embedding.Embedder, error) {
	switch cfg.Embedder.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedder.OpenAIModel)
	default:
		return ollama.NewClient(cfg.Ollama.URL, cfg.Ollama.EmbedModel,
			cfg.Ollama.ChatModel, slog.Default()), nil
	}
}
