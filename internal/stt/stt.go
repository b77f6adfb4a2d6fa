// Package stt turns recorded call audio into transcript text.
package stt

import (
	"context"
	"fmt"
	"io"

	"github.com/pyjuan91/Limira/internal/config"
)

// Audio is one recording to transcribe.
type Audio struct {
	Filename string
	Body     io.Reader
	Language string
}

type Transcript struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Transcriber is a speech-to-text backend.
type Transcriber interface {
	Transcribe(ctx context.Context, a Audio) (*Transcript, error)
	Name() string
}

// New picks the backend named by TRANSCRIPTION_SERVICE.
func New(cfg config.VideoConfig) (Transcriber, error) {
	switch cfg.TranscriptionService {
	case "", "whisper":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("whisper transcription requires OPENAI_API_KEY")
		}
		return NewWhisper(WhisperConfig{APIKey: cfg.OpenAIKey}), nil
	case "local":
		return NewLocalWhisper(cfg.WhisperLocalURL), nil
	case "deepgram":
		if cfg.DeepgramAPIKey == "" {
			return nil, fmt.Errorf("deepgram transcription requires DEEPGRAM_API_KEY")
		}
		return NewDeepgram(DeepgramConfig{APIKey: cfg.DeepgramAPIKey}), nil
	default:
		return nil, fmt.Errorf("unknown transcription service %q", cfg.TranscriptionService)
	}
}
