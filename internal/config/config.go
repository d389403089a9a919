package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Vector   VectorConfig
	Ai       AIConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	UploadDir          string
	FormOutputDir      string
}

type DatabaseConfig struct {
	Connection string
}

type RedisConfig struct {
	Host              string
	Port              string
	Password          string
	ExpirationSeconds int
	MemoryThresholdMB float64
}

// VectorConfig controls where the statute and procedure knowledge bases
// live. Directory precedence per domain: mounted dir > blob mirror > default.
type VectorConfig struct {
	Backend       string // "chromem" or "pgvector"
	LawsDir       string
	LawsSasURL    string
	ProcDir       string
	ProcSasURL    string
	CacheDir      string
	ForceSync     bool
	OverwriteSync bool
}

type AIConfig struct {
	LLMProvider        string // "ollama" or "openai"
	LLMModel           string
	RouterModel        string // cheaper model for routing and the relevance filter
	OllamaBaseURL      string
	OpenAIBaseURL      string
	OpenAIKey          string
	EmbeddingProvider  string // "ollama" or "jina"
	EmbeddingModel     string
	JinaKey            string
	JinaEmbeddingModel string
	RerankModel        string
	OCRBaseURL         string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8501"),
			UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
			FormOutputDir:      getEnv("FORM_OUTPUT_DIR", "generated_forms"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Redis: RedisConfig{
			Host:              getEnv("REDIS_HOST", "localhost"),
			Port:              getEnv("REDIS_PORT", "6379"),
			Password:          getEnv("REDIS_PASSWORD", ""),
			ExpirationSeconds: getEnvAsInt("REDIS_EXPIRATION", 86400),
			MemoryThresholdMB: getEnvAsFloat("REDIS_MEMORY_THRESHOLD_MB", 25),
		},
		Vector: VectorConfig{
			Backend:       getEnv("VECTOR_BACKEND", "chromem"),
			LawsDir:       getEnv("LAWS_DB_DIR", ""),
			LawsSasURL:    getEnv("LAWS_CONTAINER_SAS_URL", ""),
			ProcDir:       getEnv("PROCEDURES_DB_DIR", ""),
			ProcSasURL:    getEnv("PROCEDURES_CONTAINER_SAS_URL", ""),
			CacheDir:      getEnv("VECTOR_CACHE_DIR", ""),
			ForceSync:     getEnv("VECTOR_FORCE_SYNC", "0") == "1",
			OverwriteSync: getEnv("VECTOR_OVERWRITE", "0") == "1",
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:           getEnv("LLM_MODEL", "llama3.1:8b"),
			RouterModel:        getEnv("ROUTER_MODEL", ""),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:     getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			JinaKey:            getEnv("JINA_API_KEY", ""),
			JinaEmbeddingModel: getEnv("JINA_EMBEDDING_MODEL", ""),
			RerankModel:        getEnv("RERANK_MODEL", "jina-reranker-v2-base-multilingual"),
			OCRBaseURL:         getEnv("OCR_BASE_URL", "http://localhost:8884"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLHours: getEnvAsInt("JWT_TTL_HOURS", 24),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
