package api

import (
	"net/http"

	"github.com/Rrens/doc-chat/internal/api/handler"
	customMiddleware "github.com/Rrens/doc-chat/internal/api/middleware"
	"github.com/Rrens/doc-chat/internal/chunker"
	"github.com/Rrens/doc-chat/internal/config"
	"github.com/Rrens/doc-chat/internal/embedding"
	"github.com/Rrens/doc-chat/internal/extractor"
	"github.com/Rrens/doc-chat/internal/llm"
	"github.com/Rrens/doc-chat/internal/llm/gemini"
	"github.com/Rrens/doc-chat/internal/llm/ollama"
	"github.com/Rrens/doc-chat/internal/repository/postgres"
	"github.com/Rrens/doc-chat/internal/repository/redis"
	"github.com/Rrens/doc-chat/internal/service"
	"github.com/Rrens/doc-chat/internal/vectorstore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. It also returns
// the session service so the caller can start the idle-session janitor.
func NewRouter(
	cfg *config.Config,
	db *postgres.DB,
	redisClient *redis.Client,
	store vectorstore.Store,
	embedder embedding.Embedder,
) (http.Handler, *service.SessionService, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize repositories
	sessionRepo := postgres.NewSessionRepository(db.Pool)
	messageRepo := postgres.NewMessageRepository(db.Pool)

	// Initialize rate limiter
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.Burst,
	)

	// Initialize LLM Router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}
	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}

	// Initialize pipeline components
	ch, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		return nil, nil, err
	}

	indexingService := service.NewIndexingService(
		extractor.Default(),
		ch,
		embedder,
		store,
		cfg.RAG.EmbedBatchSize,
		service.FixedDelay(cfg.RAG.BatchDelay),
	)
	rewriter := service.NewQueryRewriter(llmRouter, cfg.LLM.Gemini.Model, cfg.RAG.HistoryWindow)
	retriever := service.NewRetriever(embedder, store, cfg.RAG.TopK)
	chatService := service.NewChatService(
		rewriter,
		retriever,
		llmRouter,
		cfg.LLM.Gemini.Model,
		sessionRepo,
		messageRepo,
		cfg.RAG.HistoryWindow,
		cfg.RAG.DegradedContextLimit,
	)
	sessionService := service.NewSessionService(
		store,
		sessionRepo,
		messageRepo,
		cfg.RAG.SessionTTL,
		cfg.RAG.JanitorInterval,
	)

	// Initialize handlers
	uploadHandler := handler.NewUploadHandler(indexingService, sessionService, cfg.Server.MaxUploadBytes)
	queryHandler := handler.NewQueryHandler(chatService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, redisClient))

		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware.Limit)
			r.Post("/upload", uploadHandler.Upload)
		})

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(customMiddleware.SessionContext)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/", sessionHandler.Get)
			r.Post("/query", queryHandler.Ask)
			r.Get("/history", sessionHandler.History)
			r.Delete("/", sessionHandler.Delete)
		})
	})

	return r, sessionService, nil
}
