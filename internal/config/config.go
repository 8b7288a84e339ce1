package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding"`
	RAG         RAGConfig         `mapstructure:"rag"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
	MaxUploadBytes    int64         `mapstructure:"max_upload_bytes"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type VectorStoreConfig struct {
	// Backend selects the vector index implementation: "pinecone" or "memory".
	Backend  string         `mapstructure:"backend"`
	Pinecone PineconeConfig `mapstructure:"pinecone"`
}

type PineconeConfig struct {
	// Host is the full index endpoint, e.g. https://my-index-abc123.svc.us-east-1.pinecone.io
	Host    string        `mapstructure:"host"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	DefaultProvider string       `mapstructure:"default_provider"`
	Gemini          GeminiConfig `mapstructure:"gemini"`
	Ollama          OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

type EmbeddingConfig struct {
	// Model must be identical for indexing and querying; vectors from
	// different models are not comparable.
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"api_key"`
}

// RAGConfig is the pipeline tuning surface.
type RAGConfig struct {
	ChunkSize            int           `mapstructure:"chunk_size"`
	ChunkOverlap         int           `mapstructure:"chunk_overlap"`
	EmbedBatchSize       int           `mapstructure:"embed_batch_size"`
	BatchDelay           time.Duration `mapstructure:"batch_delay"`
	TopK                 int           `mapstructure:"top_k"`
	HistoryWindow        int           `mapstructure:"history_window"`
	DegradedContextLimit int           `mapstructure:"degraded_context_limit"`
	SessionTTL           time.Duration `mapstructure:"session_ttl"`
	JanitorInterval      time.Duration `mapstructure:"janitor_interval"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(configPath); statErr == nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "120s")
	v.SetDefault("server.max_upload_bytes", 50<<20) // 50MB

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "docchat")
	v.SetDefault("database.database", "docchat")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Vector store
	v.SetDefault("vector_store.backend", "pinecone")
	v.SetDefault("vector_store.pinecone.timeout", "30s")

	// LLM
	v.SetDefault("llm.default_provider", "gemini")
	v.SetDefault("llm.gemini.model", "gemini-1.5-flash")
	v.SetDefault("llm.ollama.host", "")
	v.SetDefault("llm.ollama.default_model", "llama3")

	// Embedding
	v.SetDefault("embedding.model", "text-embedding-004")

	// RAG pipeline
	v.SetDefault("rag.chunk_size", 2000)
	v.SetDefault("rag.chunk_overlap", 400)
	v.SetDefault("rag.embed_batch_size", 20)
	v.SetDefault("rag.batch_delay", "100ms")
	v.SetDefault("rag.top_k", 10)
	v.SetDefault("rag.history_window", 6)
	v.SetDefault("rag.degraded_context_limit", 1500)
	v.SetDefault("rag.session_ttl", "30m")
	v.SetDefault("rag.janitor_interval", "5m")

	// Rate limit
	v.SetDefault("rate_limit.requests_per_minute", 20)
	v.SetDefault("rate_limit.burst", 5)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	// Database
	v.BindEnv("database.password", "POSTGRES_PASSWORD")
	v.BindEnv("database.host", "POSTGRES_HOST")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Vector store
	v.BindEnv("vector_store.backend", "VECTOR_STORE_BACKEND")
	v.BindEnv("vector_store.pinecone.host", "PINECONE_HOST")
	v.BindEnv("vector_store.pinecone.api_key", "PINECONE_API_KEY")

	// LLM / embedding share the Google API key
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("embedding.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.ollama.host", "OLLAMA_HOST")

	// RAG knobs commonly tuned per deployment
	v.BindEnv("rag.chunk_size", "CHUNK_SIZE")
	v.BindEnv("rag.chunk_overlap", "CHUNK_OVERLAP")
}
