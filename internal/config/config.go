package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"okada-agent-be/internal/workflow/appointment"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Search   SearchConfig
	Timeouts TimeoutConfig
	Workflow appointment.Config
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AgentLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	SessionTTL         time.Duration
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
	Debug      bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	OpenAI       string
	Anthropic    string
	GoogleGemini string
	Tavily       string
}

type AIConfig struct {
	EmbeddingProvider   string // "ollama", "openai" or "gemini"
	EmbeddingModel      string
	EmbeddingCacheTTL   time.Duration
	OllamaBaseURL       string
	OllamaKeepAlive     time.Duration
	OllamaContextSize   int
	OpenAIBaseURL       string
	LLMProvider         string // "ollama", "openai", "anthropic", "gemini"
	LLMModel            string
	LLMRequestTimeout   time.Duration
	CSVTableCacheSize   int
	RetrievalMinSimilar float64
}

type SearchConfig struct {
	TavilyURL      string
	MaxResults     int
	WebSearchScope string
	TopK           int
	HistoryWindow  int
}

type TimeoutConfig struct {
	Retrieval  time.Duration
	WebSearch  time.Duration
	Completion time.Duration
	Query      time.Duration
	Intent     time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AgentLogFilePath:   getEnv("AGENT_LOG_FILE_PATH", "logs/agent.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Debug:      getEnvAsBool("DB_DEBUG", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Okada & Company <no-reply@okada.example>"),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			Anthropic:    getEnv("ANTHROPIC_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_API_KEY", ""),
			Tavily:       getEnv("TAVILY_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text")),
			EmbeddingCacheTTL:   getEnvAsDuration("EMBEDDING_CACHE_TTL", 10*time.Minute),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaKeepAlive:     getEnvAsDuration("OLLAMA_KEEP_ALIVE", 10*time.Minute),
			OllamaContextSize:   getEnvAsInt("OLLAMA_NUM_CTX", 0),
			OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
			LLMProvider:         getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:            getEnv("LLM_MODEL", "llama3"),
			LLMRequestTimeout:   getEnvAsDuration("LLM_REQUEST_TIMEOUT", 120*time.Second),
			CSVTableCacheSize:   getEnvAsInt("CSV_TABLE_CACHE_SIZE", 16),
			RetrievalMinSimilar: getEnvAsFloat("RETRIEVAL_MIN_SIMILARITY", 0),
		},
		Search: SearchConfig{
			TavilyURL:      getEnv("TAVILY_URL", "https://api.tavily.com/search"),
			MaxResults:     getEnvAsInt("WEB_SEARCH_MAX_RESULTS", 5),
			WebSearchScope: getEnv("WEB_SEARCH_SCOPE", "in New York City"),
			TopK:           getEnvAsInt("RETRIEVAL_TOP_K", 10),
			HistoryWindow:  getEnvAsInt("HISTORY_WINDOW", 10),
		},
		Timeouts: TimeoutConfig{
			Retrieval:  getEnvAsDuration("RETRIEVAL_TIMEOUT", 15*time.Second),
			WebSearch:  getEnvAsDuration("WEB_SEARCH_TIMEOUT", 20*time.Second),
			Completion: getEnvAsDuration("COMPLETION_TIMEOUT", 60*time.Second),
			Query:      getEnvAsDuration("CSV_QUERY_TIMEOUT", 60*time.Second),
			Intent:     getEnvAsDuration("INTENT_TIMEOUT", 10*time.Second),
		},
		Workflow: appointment.DefaultConfig(),
	}

	if path := getEnv("WORKFLOW_CONFIG_FILE", ""); path != "" {
		wf, err := LoadWorkflowFile(path, cfg.Workflow)
		if err != nil {
			log.Printf("[WARN] Ignoring workflow config %s: %v", path, err)
		} else {
			cfg.Workflow = wf
		}
	}

	return cfg
}

// LoadWorkflowFile overlays the YAML file at path on base. Keys missing from
// the file keep the base value.
func LoadWorkflowFile(path string, base appointment.Config) (appointment.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}

	var doc struct {
		Appointment appointment.Config `yaml:"appointment"`
	}
	doc.Appointment = base
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return base, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Appointment, nil
}

// IsProduction reports whether GO_ENV selects production logging.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
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

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
