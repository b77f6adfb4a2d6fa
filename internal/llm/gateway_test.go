package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeProvider struct {
	name   string
	models []string
	fail   int // number of calls that fail before succeeding
	calls  int
	seen   []string
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Models() []string { return f.models }

func (f *fakeProvider) DefaultModel(t Tier) string {
	if t == TierLight {
		return f.models[len(f.models)-1]
	}
	return f.models[0]
}

func (f *fakeProvider) ChatCompletion(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	f.calls++
	f.seen = append(f.seen, req.Model)
	if f.calls <= f.fail {
		return nil, errors.New("provider unavailable")
	}
	return &ChatResponse{Provider: f.name, Model: req.Model, Content: "ok from " + f.name}, nil
}

func noBackoff(int) time.Duration { return 0 }

func TestGatewayRetriesThenSucceeds(t *testing.T) {
	p := &fakeProvider{name: "openai", models: []string{"heavy-1", "light-1"}, fail: 2}
	g := newGateway("openai", "", 2, p)
	g.backoff = noBackoff

	resp, err := g.Chat(context.Background(), ChatRequest{Tier: TierLight})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if p.calls != 3 {
		t.Fatalf("calls = %d, want 3", p.calls)
	}
	if resp.Model != "light-1" {
		t.Fatalf("model = %q, want light tier default", resp.Model)
	}
}

func TestGatewayFallbackUsesItsOwnModel(t *testing.T) {
	primary := &fakeProvider{name: "openai", models: []string{"gpt-heavy", "gpt-light"}, fail: 100}
	fallback := &fakeProvider{name: "anthropic", models: []string{"claude-heavy", "claude-light"}}
	g := newGateway("openai", "anthropic", 1, primary, fallback)
	g.backoff = noBackoff

	resp, err := g.Chat(context.Background(), ChatRequest{Model: "gpt-heavy", Tier: TierHeavy})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if primary.calls != 2 {
		t.Fatalf("primary calls = %d, want 2", primary.calls)
	}
	if resp.Provider != "anthropic" || fallback.seen[0] != "claude-heavy" {
		t.Fatalf("fallback served %q with model %v", resp.Provider, fallback.seen)
	}
}

func TestGatewayUnconfiguredProvider(t *testing.T) {
	g := newGateway("openai", "", 0)
	_, err := g.Chat(context.Background(), ChatRequest{})
	if err == nil || !strings.Contains(err.Error(), `provider "openai" not configured`) {
		t.Fatalf("err = %v", err)
	}
}

func TestGatewayStopsOnCancel(t *testing.T) {
	p := &fakeProvider{name: "openai", models: []string{"m"}, fail: 100}
	g := newGateway("openai", "", 5, p)
	g.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Chat(ctx, ChatRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if p.calls != 1 {
		t.Fatalf("calls = %d, want 1", p.calls)
	}
}

func TestGeminiProvider(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("missing api key")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello "},{"text":"there"}]}}],
			"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":5,"totalTokenCount":15}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("k")
	p.baseURL = srv.URL

	resp, err := p.ChatCompletion(context.Background(), ChatRequest{
		Model: "gemini-2.0-flash",
		Messages: []Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
			{Role: "user", Content: "again"},
		},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Content != "hello there" || resp.TotalTokens != 15 {
		t.Fatalf("resp = %+v", resp)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("system instruction not sent")
	}
	if len(got.Contents) != 3 || got.Contents[1].Role != "model" {
		t.Fatalf("contents = %+v", got.Contents)
	}
}

func TestGeminiProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("k")
	p.baseURL = srv.URL
	_, err := p.ChatCompletion(context.Background(), ChatRequest{Model: "gemini-2.5-flash"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v", err)
	}
}

func TestGeminiProviderNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream connect error\n"))
	}))
	defer srv.Close()

	p := NewGeminiProvider("k")
	p.baseURL = srv.URL
	_, err := p.ChatCompletion(context.Background(), ChatRequest{Model: "gemini-2.5-flash"})
	if err == nil || !strings.Contains(err.Error(), "(502): upstream connect error") {
		t.Fatalf("err = %v", err)
	}
}

func TestOllamaProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ollamaChatReq
		json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Errorf("stream should be false")
		}
		w.Write([]byte(`{"message":{"role":"assistant","content":"draft"},"done":true,"prompt_eval_count":3,"eval_count":4}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL + "/")
	resp, err := p.ChatCompletion(context.Background(), ChatRequest{Model: "llama3", Messages: []Message{{Role: "user", Content: "x"}}})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Content != "draft" || resp.TotalTokens != 7 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestCalculateCost(t *testing.T) {
	if got := CalculateCost("gpt-3.5-turbo", 1000, 1000); math.Abs(got-0.002) > 1e-12 {
		t.Fatalf("cost = %v, want 0.002", got)
	}
	if got := CalculateCost("unknown", 1000, 1000); got != 0 {
		t.Fatalf("unknown model cost = %v, want 0", got)
	}
}
