package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	LLM      LLMConfig
	Storage  StorageConfig
	Uploads  UploadConfig
	Video    VideoConfig
	Queue    QueueConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	FrontendURL string
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	SecretKey       string
	Algorithm       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type LLMConfig struct {
	OpenAIKey        string
	AnthropicKey     string
	GeminiKey        string
	OllamaURL        string
	PrimaryProvider  string
	FallbackProvider string
	MaxRetries       int
}

type StorageConfig struct {
	Backend            string // "local" or "s3"
	LocalPath          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	Bucket             string
	Endpoint           string
	UseSSL             bool
}

type UploadConfig struct {
	MaxFileSizeMB     int
	AllowedExtensions []string
}

func (u UploadConfig) MaxBytes() int64 {
	return int64(u.MaxFileSizeMB) * 1024 * 1024
}

type VideoConfig struct {
	Enabled              bool
	TranscriptionService string // "whisper", "local" or "deepgram"
	OpenAIKey            string
	WhisperLocalURL      string
	DeepgramAPIKey       string
}

type QueueConfig struct {
	Mode        string // "asynq" or "inline"
	Concurrency int
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE. Its values
// replace built-in defaults; environment variables still take precedence.
type fileConfig struct {
	AppName              string   `yaml:"appName"`
	Environment          string   `yaml:"environment"`
	Debug                *bool    `yaml:"debug"`
	FrontendURL          string   `yaml:"frontendURL"`
	Port                 int      `yaml:"port"`
	DatabaseURL          string   `yaml:"databaseURL"`
	RedisAddr            string   `yaml:"redisAddr"`
	Algorithm            string   `yaml:"algorithm"`
	AccessTokenMinutes   int      `yaml:"accessTokenExpireMinutes"`
	RefreshTokenDays     int      `yaml:"refreshTokenExpireDays"`
	PrimaryLLMProvider   string   `yaml:"primaryLLMProvider"`
	FallbackLLMProvider  string   `yaml:"fallbackLLMProvider"`
	OllamaURL            string   `yaml:"ollamaURL"`
	StorageBackend       string   `yaml:"storageBackend"`
	LocalStoragePath     string   `yaml:"localStoragePath"`
	S3Bucket             string   `yaml:"s3Bucket"`
	S3Endpoint           string   `yaml:"s3Endpoint"`
	AWSRegion            string   `yaml:"awsRegion"`
	MaxFileSizeMB        int      `yaml:"maxFileSizeMB"`
	AllowedExtensions    []string `yaml:"allowedFileExtensions"`
	EnableVideoChat      *bool    `yaml:"enableVideoChat"`
	TranscriptionService string   `yaml:"transcriptionService"`
	QueueMode            string   `yaml:"queueMode"`
}

func Load() (*Config, error) {
	fc, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	port, err := getEnvInt("SERVER_PORT", or(fc.Port, 8000))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	accessMinutes, err := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", or(fc.AccessTokenMinutes, 30))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
	}
	refreshDays, err := getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS", or(fc.RefreshTokenDays, 7))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_EXPIRE_DAYS: %w", err)
	}
	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}
	maxFileMB, err := getEnvInt("MAX_FILE_SIZE_MB", or(fc.MaxFileSizeMB, 10))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FILE_SIZE_MB: %w", err)
	}
	concurrency, err := getEnvInt("WORKER_CONCURRENCY", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}
	debug, err := getEnvBool("DEBUG", boolOr(fc.Debug, true))
	if err != nil {
		return nil, fmt.Errorf("invalid DEBUG: %w", err)
	}
	s3SSL, err := getEnvBool("S3_USE_SSL", true)
	if err != nil {
		return nil, fmt.Errorf("invalid S3_USE_SSL: %w", err)
	}
	videoEnabled, err := getEnvBool("ENABLE_VIDEO_CHAT", boolOr(fc.EnableVideoChat, true))
	if err != nil {
		return nil, fmt.Errorf("invalid ENABLE_VIDEO_CHAT: %w", err)
	}

	extensions := fc.AllowedExtensions
	if len(extensions) == 0 {
		extensions = []string{".pdf", ".png", ".jpg", ".jpeg", ".docx"}
	}
	if v := os.Getenv("ALLOWED_FILE_EXTENSIONS"); v != "" {
		extensions = splitList(v)
	}

	databaseURL := getEnv("DATABASE_URL", fc.DatabaseURL)
	// Queued jobs are only visible to cmd/worker through Postgres.
	queueMode := "inline"
	if databaseURL != "" {
		queueMode = "asynq"
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", or(fc.AppName, "Limira")),
			Environment: getEnv("ENVIRONMENT", or(fc.Environment, "development")),
			Debug:       debug,
			FrontendURL: getEnv("FRONTEND_URL", or(fc.FrontendURL, "http://localhost:5173")),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:      databaseURL,
			MaxConns: maxConns,
			MinConns: minConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", or(fc.RedisAddr, "localhost:6379")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			SecretKey:       getEnv("SECRET_KEY", ""),
			Algorithm:       getEnv("ALGORITHM", or(fc.Algorithm, "HS256")),
			AccessTokenTTL:  time.Duration(accessMinutes) * time.Minute,
			RefreshTokenTTL: time.Duration(refreshDays) * 24 * time.Hour,
		},
		LLM: LLMConfig{
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			GeminiKey:        getEnv("GEMINI_API_KEY", ""),
			OllamaURL:        getEnv("OLLAMA_URL", fc.OllamaURL),
			PrimaryProvider:  strings.ToLower(getEnv("PRIMARY_LLM_PROVIDER", or(fc.PrimaryLLMProvider, "openai"))),
			FallbackProvider: strings.ToLower(getEnv("FALLBACK_LLM_PROVIDER", fc.FallbackLLMProvider)),
			MaxRetries:       maxRetries,
		},
		Storage: StorageConfig{
			Backend:            strings.ToLower(getEnv("STORAGE_BACKEND", or(fc.StorageBackend, "local"))),
			LocalPath:          getEnv("LOCAL_STORAGE_PATH", or(fc.LocalStoragePath, "uploads")),
			AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			AWSRegion:          getEnv("AWS_REGION", or(fc.AWSRegion, "us-east-1")),
			Bucket:             getEnv("S3_BUCKET_NAME", fc.S3Bucket),
			Endpoint:           getEnv("S3_ENDPOINT_URL", fc.S3Endpoint),
			UseSSL:             s3SSL,
		},
		Uploads: UploadConfig{
			MaxFileSizeMB:     maxFileMB,
			AllowedExtensions: normalizeExtensions(extensions),
		},
		Video: VideoConfig{
			Enabled:              videoEnabled,
			TranscriptionService: strings.ToLower(getEnv("TRANSCRIPTION_SERVICE", or(fc.TranscriptionService, "whisper"))),
			OpenAIKey:            getEnv("OPENAI_API_KEY", ""),
			WhisperLocalURL:      getEnv("WHISPER_LOCAL_URL", "http://localhost:8178"),
			DeepgramAPIKey:       getEnv("DEEPGRAM_API_KEY", ""),
		},
		Queue: QueueConfig{
			Mode:        strings.ToLower(getEnv("QUEUE_MODE", or(fc.QueueMode, queueMode))),
			Concurrency: concurrency,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) Validate() error {
	var problems []string
	if c.Auth.SecretKey == "" {
		problems = append(problems, "SECRET_KEY is required")
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		problems = append(problems, fmt.Sprintf("ALGORITHM %q is not supported (HS256, HS384, HS512)", c.Auth.Algorithm))
	}
	switch c.LLM.PrimaryProvider {
	case "openai", "anthropic", "gemini", "ollama":
	default:
		problems = append(problems, fmt.Sprintf("PRIMARY_LLM_PROVIDER %q is not supported", c.LLM.PrimaryProvider))
	}
	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			problems = append(problems, "S3_BUCKET_NAME is required when STORAGE_BACKEND=s3")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND %q is not supported (local, s3)", c.Storage.Backend))
	}
	if c.Uploads.MaxFileSizeMB <= 0 {
		problems = append(problems, "MAX_FILE_SIZE_MB must be > 0")
	}
	switch c.Video.TranscriptionService {
	case "whisper", "local":
	case "deepgram":
		if c.Video.Enabled && c.Video.DeepgramAPIKey == "" {
			problems = append(problems, "DEEPGRAM_API_KEY is required when TRANSCRIPTION_SERVICE=deepgram")
		}
	default:
		problems = append(problems, fmt.Sprintf("TRANSCRIPTION_SERVICE %q is not supported", c.Video.TranscriptionService))
	}
	switch c.Queue.Mode {
	case "inline":
	case "asynq":
		if c.Database.URL == "" {
			problems = append(problems, "QUEUE_MODE=asynq requires DATABASE_URL (the worker cannot see the in-memory store)")
		}
	default:
		problems = append(problems, fmt.Sprintf("QUEUE_MODE %q is not supported (asynq, inline)", c.Queue.Mode))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func splitList(v string) []string {
	return strings.Split(v, ",")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
