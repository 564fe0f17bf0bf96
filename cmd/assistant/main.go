// Package main provides the assistant entry point: an interactive chat
// loop over the indexed documents, or an MCP server for remote clients.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/sathi/internal/config"
	"github.com/bull/sathi/internal/embedding"
	"github.com/bull/sathi/internal/faq"
	mcpserver "github.com/bull/sathi/internal/mcp"
	"github.com/bull/sathi/internal/ollama"
	"github.com/bull/sathi/internal/rag"
	"github.com/bull/sathi/internal/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sathi",
	Short: "Question answering assistant over an indexed document corpus",
	Long:  "Answers questions grounded on passages retrieved from Qdrant, streaming tokens as they arrive",
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop on stdin/stdout",
	RunE:  runChat,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the assistant as an MCP server",
	Long: `Runs the MCP server over stdio, with a health endpoint on HTTP.

Environment variables:
  PORT         HTTP port for /health and /mcp (default: 8080)
  SERVER_MODE  "true" serves MCP over HTTP instead of stdio`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildEngine wires the shared query pipeline used by both commands.
// The embedder is returned separately for the raw search tool.
func buildEngine(cfg config.Config) (*rag.Engine, *storage.QdrantStorage, embedding.Embedder, error) {
	store, err := storage.NewQdrantStorage(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.Collection)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to Qdrant: %w", err)
	}

	client := ollama.NewClient(cfg.Ollama.URL, cfg.Ollama.EmbedModel,
		cfg.Ollama.ChatModel, slog.Default())

	var embedder embedding.Embedder = client
	if cfg.Embedder.Provider == "openai" {
		embedder, err = embedding.NewOpenAIEmbedder(cfg.Embedder.OpenAIModel)
		if err != nil {
			store.Close()
			return nil, nil, nil, fmt.Errorf("create embedder: %w", err)
		}
	}

	faqs, err := faq.Load(cfg.FAQPath, slog.Default())
	if err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("load FAQ table: %w", err)
	}

	generator := rag.GeneratorFunc(func(ctx context.Context, prompt string) (rag.TokenStream, error) {
		return client.Generate(ctx, prompt)
	})

	engine := rag.NewEngine(faqs, embedder, store, generator, cfg.Query.TopK, slog.Default())
	return engine, store, embedder, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("Failed to load configuration: %w", err)
	}

	engine, store, _, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Println("Ask a question about the indexed documents. Type \"exit\" to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		answer, err := engine.Ask(ctx, question, func(fragment string) {
			fmt.Print(fragment)
		})
		if err != nil {
			var stageErr *rag.StageError
			if errors.As(err, &stageErr) {
				fmt.Println(stageErr.UserMessage())
			} else {
				fmt.Printf("Error: %v\n", err)
			}
			fmt.Println()
			continue
		}

		fmt.Println()
		if answer.FromFAQ {
			fmt.Println("(answered from FAQ)")
		}
		fmt.Println()
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Cancel on SIGTERM/SIGINT so stdio clients get a clean shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("Failed to load configuration: %w", err)
	}

	engine, store, embedder, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	server := mcpserver.NewServer(&mcpserver.Config{
		Engine:   engine,
		Store:    store,
		Embedder: embedder,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(store))
	mux.Handle("/mcp", server.HTTPHandler())

	port := getEnv("PORT", "8080")
	serverMode := getEnv("SERVER_MODE", "false") == "true"

	if serverMode {
		// HTTP mode: serve MCP over HTTP for remote clients
		addr := "0.0.0.0:" + port
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		return http.ListenAndServe(addr, mux)
	}

	// Stdio mode: run MCP over stdin/stdout for local clients, with the
	// HTTP health endpoint in the background for local testing.
	go func() {
		addr := "0.0.0.0:" + port
		log.Printf("Starting health server on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()

	log.Println("Starting assistant MCP server (stdio mode)...")
	return server.Run(ctx)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
