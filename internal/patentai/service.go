// Package patentai builds patent prompts, calls the LLM gateway and parses
// the replies into draft sections and analysis objects. It holds no state
// beyond its gateway and never touches the store.
package patentai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/llm"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/pkg/textextract"
)

const (
	// MaxAnalysisChars bounds the patent text sent for analysis.
	MaxAnalysisChars = 15000
	// QuickSummaryChars bounds the patent text sent for a quick summary.
	QuickSummaryChars = 5000

	draftTemperature = 0.3
	chatTemperature  = 0.7
)

// Chatter is the part of llm.Gateway the adapter needs.
type Chatter interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

type Service struct {
	llm Chatter
}

func NewService(c Chatter) *Service {
	return &Service{llm: c}
}

type DraftResult struct {
	Sections models.Content
	Model    string
}

// GenerateDraft asks a heavy model for patent sections. Malformed replies
// are parsed best-effort; only provider failures return an error.
func (s *Service) GenerateDraft(ctx context.Context, content models.Content) (*DraftResult, error) {
	disclosure, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode disclosure content: %w", err)
	}

	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Tier: llm.TierHeavy,
		Messages: []llm.Message{
			{Role: "system", Content: draftSystemPrompt},
			{Role: "user", Content: draftPrompt.MustRender(map[string]string{"disclosure": string(disclosure)})},
		},
		Temperature: draftTemperature,
		MaxTokens:   4096,
	})
	if err != nil {
		return nil, apperr.Upstream("AI generation failed", err)
	}

	return &DraftResult{Sections: parseDraft(resp.Content), Model: resp.Model}, nil
}

// AnalyzePatent returns the structured analysis of a patent's text.
func (s *Service) AnalyzePatent(ctx context.Context, text, patentNumber string) (map[string]any, error) {
	if patentNumber == "" {
		patentNumber = "Not provided"
	}

	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Tier: llm.TierHeavy,
		Messages: []llm.Message{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: analysisPrompt.MustRender(map[string]string{
				"patent_number": patentNumber,
				"patent_text":   textextract.Truncate(text, MaxAnalysisChars),
			})},
		},
		Temperature: draftTemperature,
		MaxTokens:   4096,
	})
	if err != nil {
		return nil, apperr.Upstream("Patent analysis failed", err)
	}

	return parseAnalysis(resp.Content), nil
}

// Chat answers the last message of a conversation. An empty systemPrompt
// selects DefaultChatPrompt.
func (s *Service) Chat(ctx context.Context, messages []llm.Message, systemPrompt string) (string, error) {
	if len(messages) == 0 {
		return "", apperr.Invalid("At least one message is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultChatPrompt
	}

	msgs := make([]llm.Message, 0, len(messages)+1)
	msgs = append(msgs, llm.Message{Role: "system", Content: systemPrompt})
	msgs = append(msgs, messages...)

	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Tier:        llm.TierLight,
		Messages:    msgs,
		Temperature: chatTemperature,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", apperr.Upstream("Chat generation failed", err)
	}
	return resp.Content, nil
}

// SummarizeTranscript writes markdown notes for a video call transcript.
func (s *Service) SummarizeTranscript(ctx context.Context, transcript string) (string, error) {
	resp, err := s.llm.Chat(ctx, llm.ChatRequest{
		Tier: llm.TierLight,
		Messages: []llm.Message{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: summaryPrompt.MustRender(map[string]string{"transcript": transcript})},
		},
		Temperature: draftTemperature,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", apperr.Upstream("Summary generation failed", err)
	}
	return resp.Content, nil
}

// QuickSummary summarizes the opening of a patent document.
func (s *Service) QuickSummary(ctx context.Context, text string) (string, error) {
	return s.SummarizeTranscript(ctx, "Patent Document:\n\n"+textextract.Truncate(text, QuickSummaryChars))
}
