package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Interview InterviewConfig
	Session   SessionConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port             string
	Env              string
	CORSAllowOrigins string
}

type LLMConfig struct {
	Provider        string
	GeminiAPIKey    string
	GeminiModel     string
	GroqAPIKey      string
	GroqModel       string
	GroqBaseURL     string
	AnthropicAPIKey string
	AnthropicModel  string
}

// Resume validation policies.
const (
	ValidationFailOpen   = "fail-open"
	ValidationFailClosed = "fail-closed"
	ValidationOff        = "off"
)

type InterviewConfig struct {
	TotalQuestions    int
	ResumeValidation  string
	GenerationTimeout time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

type SessionConfig struct {
	Backend        string
	TTL            time.Duration
	MaxEntries     int
	SweepInterval  time.Duration
	ValkeyURL      string
	ValkeyPassword string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type StorageConfig struct {
	Archive     string
	UploadPath  string
	MaxFileSize int64
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

type WorkerConfig struct {
	Concurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "8000"),
			Env:              getEnv("ENV", "development"),
			CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
			GroqModel:       getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
			GroqBaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1/"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		},
		Interview: InterviewConfig{
			TotalQuestions:    getEnvAsInt("INTERVIEW_TOTAL_QUESTIONS", 5),
			ResumeValidation:  getEnvAsChoice("RESUME_VALIDATION", ValidationFailOpen, ValidationFailOpen, ValidationFailClosed, ValidationOff),
			GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT", "60s"),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
		},
		Session: SessionConfig{
			Backend:        getEnvAsChoice("SESSION_BACKEND", "memory", "memory", "valkey"),
			TTL:            getEnvAsDuration("SESSION_TTL", "0s"),
			MaxEntries:     getEnvAsInt("SESSION_MAX_ENTRIES", 0),
			SweepInterval:  getEnvAsDuration("SESSION_SWEEP_INTERVAL", "1m"),
			ValkeyURL:      getEnv("VALKEY_URL", "localhost:6379"),
			ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("REPORT_ARCHIVE", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ai_interview_prep"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_rubrics"),
		},
		Storage: StorageConfig{
			Archive:     getEnvAsChoice("RESUME_ARCHIVE", "none", "none", "local", "s3"),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			S3Bucket:    getEnv("S3_BUCKET_NAME", ""),
			S3Region:    getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("S3_ENDPOINT_URL", ""),
			S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  getEnv("SERVICE_NAME", "ai-interview-prep"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// getEnvAsChoice falls back to defaultValue when the variable holds anything
// outside allowed.
func getEnvAsChoice(key, defaultValue string, allowed ...string) string {
	value := strings.ToLower(getEnv(key, defaultValue))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	log.Printf("⚠️  Unknown %s value %q, using %q", key, value, defaultValue)
	return defaultValue
}
