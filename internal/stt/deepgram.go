package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"time"
)

type DeepgramConfig struct {
	APIKey  string
	BaseURL string // default: https://api.deepgram.com
	Model   string // default: nova-2
}

// Deepgram transcribes through Deepgram's prerecorded /v1/listen endpoint.
type Deepgram struct {
	cfg        DeepgramConfig
	httpClient *http.Client
}

func NewDeepgram(cfg DeepgramConfig) *Deepgram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepgram.com"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	return &Deepgram{cfg: cfg, httpClient: &http.Client{Timeout: 300 * time.Second}}
}

func (d *Deepgram) Name() string { return "deepgram" }

func (d *Deepgram) Transcribe(ctx context.Context, a Audio) (*Transcript, error) {
	q := url.Values{"model": {d.cfg.Model}, "smart_format": {"true"}, "punctuate": {"true"}}
	if a.Language != "" {
		q.Set("language", a.Language)
	} else {
		q.Set("detect_language", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.BaseURL+"/v1/listen?"+q.Encode(), a.Body)
	if err != nil {
		return nil, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(a.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Token "+d.cfg.APIKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deepgram transcription failed (status %d): %s", resp.StatusCode, string(body))
	}

	var out struct {
		Metadata struct {
			Duration float64 `json:"duration"`
		} `json:"metadata"`
		Results struct {
			Channels []struct {
				DetectedLanguage string `json:"detected_language"`
				Alternatives     []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	t := &Transcript{Duration: out.Metadata.Duration, Language: a.Language}
	if len(out.Results.Channels) > 0 {
		ch := out.Results.Channels[0]
		if ch.DetectedLanguage != "" {
			t.Language = ch.DetectedLanguage
		}
		if len(ch.Alternatives) > 0 {
			t.Text = ch.Alternatives[0].Transcript
		}
	}
	return t, nil
}
