package stt

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type WhisperConfig struct {
	APIKey  string
	BaseURL string // default: https://api.openai.com/v1
	Model   string // default: whisper-1
}

// Whisper transcribes through the OpenAI audio API or any server speaking the
// same protocol.
type Whisper struct {
	client *openai.Client
	model  string
	name   string
}

func NewWhisper(cfg WhisperConfig) *Whisper {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	return &Whisper{client: openai.NewClientWithConfig(oc), model: cfg.Model, name: "openai-whisper"}
}

// NewLocalWhisper targets a whisper.cpp server, which needs no API key.
func NewLocalWhisper(baseURL string) *Whisper {
	if baseURL == "" {
		baseURL = "http://localhost:8178"
	}
	w := NewWhisper(WhisperConfig{BaseURL: baseURL})
	w.name = "local-whisper"
	return w
}

func (w *Whisper) Name() string { return w.name }

func (w *Whisper) Transcribe(ctx context.Context, a Audio) (*Transcript, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: a.Filename,
		Reader:   a.Body,
		Language: a.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("%s transcription: %w", w.name, err)
	}
	return &Transcript{Text: resp.Text, Language: resp.Language, Duration: resp.Duration}, nil
}
