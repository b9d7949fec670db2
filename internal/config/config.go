package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Board    BoardConfig
	Chat     ChatConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	StreamLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventTopic         string
}

type DatabaseConfig struct {
	Driver     string // "postgres", "sqlite" or "memory"
	Connection string
}

type BoardConfig struct {
	SeedDemo    bool
	SessionTTL  time.Duration
	FeedbackTTL time.Duration // how long insight items stay listed
}

type ChatConfig struct {
	Mode        string // "local" or "remote"
	RemoteURL   string
	Timeout     time.Duration
	ProposalTTL time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			StreamLogFilePath:  getEnv("STREAM_LOG_FILE_PATH", "logs/board_stream.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			EventTopic:         getEnv("BOARD_EVENT_TOPIC", "BOARD_CHANGED"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Board: BoardConfig{
			SeedDemo:    getEnvAsBool("BOARD_SEED_DEMO", true),
			SessionTTL:  time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 240)) * time.Minute,
			FeedbackTTL: time.Duration(getEnvAsInt("FEEDBACK_TTL_HOURS", 24)) * time.Hour,
		},
		Chat: ChatConfig{
			Mode:        strings.ToLower(getEnv("CHAT_MODE", "local")),
			RemoteURL:   getEnv("CHAT_REMOTE_URL", "http://localhost:8000"),
			Timeout:     time.Duration(getEnvAsInt("CHAT_TIMEOUT_SECONDS", 60)) * time.Second,
			ProposalTTL: time.Duration(getEnvAsInt("CHAT_PROPOSAL_TTL_MINUTES", 30)) * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "genesis-board"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// PersistenceEnabled reports whether the board is mirrored to a database.
func (c *Config) PersistenceEnabled() bool {
	return c.Database.Driver != "memory" && c.Database.Connection != ""
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
