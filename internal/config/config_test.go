package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("QUEUE_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.App.Name != "Limira" {
		t.Fatalf("app name = %q, want Limira", cfg.App.Name)
	}
	if cfg.Auth.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("access ttl = %v, want 30m", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("refresh ttl = %v, want 7d", cfg.Auth.RefreshTokenTTL)
	}
	if cfg.Uploads.MaxBytes() != 10*1024*1024 {
		t.Fatalf("max bytes = %d", cfg.Uploads.MaxBytes())
	}
	if got := strings.Join(cfg.Uploads.AllowedExtensions, ","); got != ".pdf,.png,.jpg,.jpeg,.docx" {
		t.Fatalf("extensions = %q", got)
	}
	if !cfg.Video.Enabled || cfg.Video.TranscriptionService != "whisper" {
		t.Fatalf("video = %+v", cfg.Video)
	}
	if cfg.Queue.Mode != "inline" {
		t.Fatalf("queue mode = %q, want inline without a database", cfg.Queue.Mode)
	}
}

func TestQueueModeFollowsDatabase(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("QUEUE_MODE", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/limira")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Queue.Mode != "asynq" {
		t.Fatalf("queue mode = %q, want asynq", cfg.Queue.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	t.Setenv("DATABASE_URL", "")
	t.Setenv("QUEUE_MODE", "asynq")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "QUEUE_MODE=asynq requires DATABASE_URL") {
		t.Fatalf("validate = %v, want asynq/database error", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("ALLOWED_FILE_EXTENSIONS", "PDF, .txt")
	t.Setenv("PRIMARY_LLM_PROVIDER", "Anthropic")
	t.Setenv("ENABLE_VIDEO_CHAT", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Auth.AccessTokenTTL != 5*time.Minute {
		t.Fatalf("access ttl = %v, want 5m", cfg.Auth.AccessTokenTTL)
	}
	if got := strings.Join(cfg.Uploads.AllowedExtensions, ","); got != ".pdf,.txt" {
		t.Fatalf("extensions = %q, want .pdf,.txt", got)
	}
	if cfg.LLM.PrimaryProvider != "anthropic" {
		t.Fatalf("provider = %q", cfg.LLM.PrimaryProvider)
	}
	if cfg.Video.Enabled {
		t.Fatalf("video should be disabled")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
appName: "Limira Staging"
port: 9000
maxFileSizeMB: 25
queueMode: inline
enableVideoChat: false
allowedFileExtensions: [".pdf"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.App.Name != "Limira Staging" {
		t.Fatalf("app name = %q", cfg.App.Name)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("port = %d, want env value 9100", cfg.Server.Port)
	}
	if cfg.Uploads.MaxFileSizeMB != 25 {
		t.Fatalf("max file size = %d, want 25", cfg.Uploads.MaxFileSizeMB)
	}
	if cfg.Queue.Mode != "inline" || cfg.Video.Enabled {
		t.Fatalf("file values not applied: queue=%q video=%v", cfg.Queue.Mode, cfg.Video.Enabled)
	}
}

func TestValidateReportsEverything(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("ALGORITHM", "RS256")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET_NAME", "")
	t.Setenv("TRANSCRIPTION_SERVICE", "deepgram")
	t.Setenv("DEEPGRAM_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	err = cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"SECRET_KEY", "ALGORITHM", "S3_BUCKET_NAME", "DEEPGRAM_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MAX_FILE_SIZE_MB", "ten")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric MAX_FILE_SIZE_MB")
	}
}
