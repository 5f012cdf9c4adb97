package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/docqa/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	// Ollama serves its OpenAI-compatible API under /v1
	DefaultOllamaURL = "http://localhost:11434"
	DefaultOpenAIURL = "http://localhost:11434/v1"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	// Write timeout covers the whole model round trip, keep it generous
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"60s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10m"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Retrieval and prompt settings
	PipelineCfg PipelineConfig `envPrefix:"PIPELINE_"`

	// Model backend: ollama native API or any OpenAI-compatible server
	LLMProvider string        `env:"LLM_PROVIDER" envDefault:"ollama"`
	OllamaCfg   OllamaConfig  `envPrefix:"OLLAMA_"`
	OpenAICfg   OpenAIConfig  `envPrefix:"OPENAI_"`
	EnableMocks bool          `env:"ENABLE_MOCKS" envDefault:"false"`
	ModelsPath  string        `env:"MODEL_CATALOG_PATH" envDefault:"internal/config/models.yaml"`
	StartupCfg  StartupConfig `envPrefix:"STARTUP_"`

	// Loaded from the YAML side file, unexported so env.Parse skips it
	models ModelCatalog

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// In-memory chat sessions
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// unioffice license for DOCX reading and export (optional)
	UnidocCfg UnidocConfig `envPrefix:"UNIDOC_"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type PipelineConfig struct {
	ChunkSize     int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap  int `env:"CHUNK_OVERLAP" envDefault:"100"`
	TopK          int `env:"TOP_K" envDefault:"6"`
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"8"`
}

type OllamaConfig struct {
	HTTPClientConfig
	GenerateEndpoint string `env:"GENERATE_ENDPOINT" envDefault:"/api/generate"`
	TagsEndpoint     string `env:"TAGS_ENDPOINT" envDefault:"/api/tags"`
}

type OpenAIConfig struct {
	HTTPClientConfig
}

// StartupConfig controls the readiness probe of the model backend
type StartupConfig struct {
	WaitForModel bool                 `env:"WAIT_FOR_MODEL" envDefault:"true"`
	Retry        pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// HTTPClientConfig holds the outbound client settings. A zero RequestTimeout
// means the model call waits as long as the model needs.
type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	InsecureSkipVerify    bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"` // per-provider default, see applyDefaults
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64  `env:"MAX_FILE_SIZE" envDefault:"20971520"`  // 20 MiB
	MaxTotalSize  int64  `env:"MAX_TOTAL_SIZE" envDefault:"52428800"` // 50 MiB
	MaxFileCount  int    `env:"MAX_FILE_COUNT" envDefault:"16"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"67108864"` // 64 MiB
	TempDir       string `env:"TEMP_DIR"`
}

type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"2h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// UnidocConfig activates unioffice. Without a key DOCX is handled by the
// built-in OOXML codec.
type UnidocConfig struct {
	LicenseAPIKey string `env:"LICENSE_API_KEY"`
	LicenseKey    string `env:"LICENSE_KEY"`
	CustomerName  string `env:"CUSTOMER_NAME"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int           `env:"MAX_CONCURRENT_USERS" envDefault:"20"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// LoadConfig reads the -env flag and loads the matching configuration
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load builds the configuration for one environment. The .env file is optional;
// in containerized/prod environments variables are usually set externally.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	models, err := LoadModelCatalog(cfg.ModelsPath)
	if err != nil {
		return nil, fmt.Errorf("load model catalog: %w", err)
	}
	cfg.models = models

	return cfg, nil
}

// Models returns the model catalog loaded alongside the environment
func (c *Config) Models() ModelCatalog {
	return c.models
}

func applyDefaults(cfg *Config) {
	if cfg.OllamaCfg.Url == "" {
		cfg.OllamaCfg.Url = DefaultOllamaURL
	}
	if cfg.OpenAICfg.Url == "" {
		cfg.OpenAICfg.Url = DefaultOpenAIURL
	}
}

func validateConfig(cfg *Config) error {
	var errs []string

	p := cfg.PipelineCfg
	if p.ChunkSize < 1 {
		errs = append(errs, fmt.Sprintf("PIPELINE_CHUNK_SIZE must be positive, got %d", p.ChunkSize))
	}
	if p.ChunkOverlap < 0 || p.ChunkOverlap >= p.ChunkSize {
		errs = append(errs, fmt.Sprintf("PIPELINE_CHUNK_OVERLAP must be in [0, CHUNK_SIZE(%d)), got %d", p.ChunkSize, p.ChunkOverlap))
	}
	if p.TopK < 1 {
		errs = append(errs, fmt.Sprintf("PIPELINE_TOP_K must be at least 1, got %d", p.TopK))
	}
	if p.HistoryWindow < 0 {
		errs = append(errs, fmt.Sprintf("PIPELINE_HISTORY_WINDOW must not be negative, got %d", p.HistoryWindow))
	}

	if cfg.LLMProvider != ProviderOllama && cfg.LLMProvider != ProviderOpenAI {
		errs = append(errs, fmt.Sprintf("LLM_PROVIDER must be %q or %q, got %q", ProviderOllama, ProviderOpenAI, cfg.LLMProvider))
	}

	if cfg.FileUploadCfg.MaxFileCount < 1 {
		errs = append(errs, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_COUNT must be positive, got %d", cfg.FileUploadCfg.MaxFileCount))
	}
	if cfg.FileUploadCfg.MaxFileSize > cfg.FileUploadCfg.MaxTotalSize {
		errs = append(errs, "FILE_UPLOAD_MAX_FILE_SIZE must not exceed FILE_UPLOAD_MAX_TOTAL_SIZE")
	}

	if cfg.SessionCfg.TTL <= 0 {
		errs = append(errs, fmt.Sprintf("SESSION_TTL must be positive, got %s", cfg.SessionCfg.TTL))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}
	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
