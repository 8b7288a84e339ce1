package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/doc-chat/internal/api"
	"github.com/Rrens/doc-chat/internal/config"
	"github.com/Rrens/doc-chat/internal/embedding"
	"github.com/Rrens/doc-chat/internal/repository/postgres"
	"github.com/Rrens/doc-chat/internal/repository/redis"
	"github.com/Rrens/doc-chat/internal/vectorstore"
	"github.com/Rrens/doc-chat/internal/vectorstore/memory"
	"github.com/Rrens/doc-chat/internal/vectorstore/pinecone"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting document chat API server")

	// Initialize database
	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize vector store
	store, err := newVectorStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize vector store")
	}

	// Initialize embedder
	embedder, err := embedding.NewGeminiEmbedder(context.Background(), cfg.Embedding.APIKey, cfg.Embedding.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize embedder")
	}
	defer embedder.Close()

	// Initialize router and session janitor
	router, sessionService, err := api.NewRouter(cfg, db, redisClient, store, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize router")
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	sessionService.StartJanitor(janitorCtx)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopJanitor()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func newVectorStore(cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.VectorStore.Backend {
	case "pinecone":
		return pinecone.New(pinecone.Config{
			Host:    cfg.VectorStore.Pinecone.Host,
			APIKey:  cfg.VectorStore.Pinecone.APIKey,
			Timeout: cfg.VectorStore.Pinecone.Timeout,
		})
	case "memory":
		log.Warn().Msg("Using in-memory vector store, data will not survive restarts")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown vector store backend: %s", cfg.VectorStore.Backend)
	}
}
