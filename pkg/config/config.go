package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Risk     RiskConfig
	RAG      RAGConfig
	Exports  ExportsConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RiskConfig tunes the risk engine collaborators.
type RiskConfig struct {
	InsightsFile      string
	CacheTTL          time.Duration
	CohortConcurrency int
}

// RAGConfig configures the advisor chat pipeline. Empty keys leave the
// corresponding collaborator unconfigured rather than failing startup.
type RAGConfig struct {
	LLMProvider      string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	ChatModel        string
	EmbeddingModel   string
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	MaxTokens        int
	WeaviateURL      string
	WeaviateClass    string
	TopK             int
	ChunkSize        int
	ChunkOverlap     int
	IngestWorkers    int
	Timeout          time.Duration
}

// ExportsConfig controls cohort and risk report exports.
type ExportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// SeedConfig toggles demo data seeding at startup.
type SeedConfig struct {
	DemoStudent bool
	DSOEmail    string
	DSOPassword string
	DSOName     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Risk = RiskConfig{
		InsightsFile:      v.GetString("RISK_INSIGHTS_FILE"),
		CacheTTL:          parseDuration(v.GetString("RISK_CACHE_TTL"), 15*time.Minute),
		CohortConcurrency: v.GetInt("RISK_COHORT_CONCURRENCY"),
	}

	cfg.RAG = RAGConfig{
		LLMProvider:      strings.ToLower(v.GetString("RAG_LLM_PROVIDER")),
		OpenAIAPIKey:     v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:    v.GetString("OPENAI_BASE_URL"),
		ChatModel:        v.GetString("RAG_CHAT_MODEL"),
		EmbeddingModel:   v.GetString("RAG_EMBEDDING_MODEL"),
		AnthropicAPIKey:  v.GetString("ANTHROPIC_API_KEY"),
		AnthropicModel:   v.GetString("ANTHROPIC_MODEL"),
		AnthropicBaseURL: v.GetString("ANTHROPIC_BASE_URL"),
		MaxTokens:        v.GetInt("RAG_MAX_TOKENS"),
		WeaviateURL:      v.GetString("WEAVIATE_URL"),
		WeaviateClass:    v.GetString("WEAVIATE_CLASS"),
		TopK:             v.GetInt("RAG_TOP_K"),
		ChunkSize:        v.GetInt("RAG_CHUNK_SIZE"),
		ChunkOverlap:     v.GetInt("RAG_CHUNK_OVERLAP"),
		IngestWorkers:    v.GetInt("RAG_INGEST_WORKERS"),
		Timeout:          parseDuration(v.GetString("RAG_TIMEOUT"), 60*time.Second),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
	}

	cfg.Seed = SeedConfig{
		DemoStudent: v.GetBool("SEED_DEMO_STUDENT"),
		DSOEmail:    strings.ToLower(strings.TrimSpace(v.GetString("SEED_DSO_EMAIL"))),
		DSOPassword: v.GetString("SEED_DSO_PASSWORD"),
		DSOName:     v.GetString("SEED_DSO_NAME"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "univisa")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "univisa-api")

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RISK_INSIGHTS_FILE", "")
	v.SetDefault("RISK_CACHE_TTL", "15m")
	v.SetDefault("RISK_COHORT_CONCURRENCY", 4)

	v.SetDefault("RAG_LLM_PROVIDER", "anthropic")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("RAG_CHAT_MODEL", "gpt-4o-mini")
	v.SetDefault("RAG_EMBEDDING_MODEL", "text-embedding-3-small")
	v.SetDefault("ANTHROPIC_API_KEY", "")
	v.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1/messages")
	v.SetDefault("RAG_MAX_TOKENS", 1024)
	v.SetDefault("WEAVIATE_URL", "")
	v.SetDefault("WEAVIATE_CLASS", "PolicyChunk")
	v.SetDefault("RAG_TOP_K", 5)
	v.SetDefault("RAG_CHUNK_SIZE", 2000)
	v.SetDefault("RAG_CHUNK_OVERLAP", 200)
	v.SetDefault("RAG_INGEST_WORKERS", 1)
	v.SetDefault("RAG_TIMEOUT", "60s")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)

	v.SetDefault("SEED_DEMO_STUDENT", true)
	v.SetDefault("SEED_DSO_EMAIL", "")
	v.SetDefault("SEED_DSO_PASSWORD", "")
	v.SetDefault("SEED_DSO_NAME", "International Student Office")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
