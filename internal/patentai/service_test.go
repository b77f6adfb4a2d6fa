package patentai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/llm"
	"github.com/pyjuan91/Limira/internal/models"
)

type fakeChatter struct {
	reply string
	err   error
	got   llm.ChatRequest
}

func (f *fakeChatter) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Model: "test-model", Content: f.reply}, nil
}

func TestGenerateDraft(t *testing.T) {
	fc := &fakeChatter{reply: `{"background":"b","summary":"s","detailed_description":"d","claims":["Claim 1: x"],"abstract":"a"}`}
	svc := NewService(fc)

	content := models.NewContent()
	content.Set("problem", models.Text("slow widgets"))
	res, err := svc.GenerateDraft(context.Background(), content)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Model != "test-model" {
		t.Fatalf("model = %q", res.Model)
	}
	if fc.got.Tier != llm.TierHeavy || fc.got.Temperature != 0.3 {
		t.Fatalf("request = %+v", fc.got)
	}
	if !strings.Contains(fc.got.Messages[1].Content, `"problem": "slow widgets"`) {
		t.Fatalf("prompt does not embed content: %s", fc.got.Messages[1].Content)
	}
}

func TestGenerateDraftProviderError(t *testing.T) {
	svc := NewService(&fakeChatter{err: errors.New("rate limited")})

	_, err := svc.GenerateDraft(context.Background(), models.NewContent())
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Fatalf("err = %v, want upstream", err)
	}
	if got := apperr.Message(err); got != "AI generation failed: rate limited" {
		t.Fatalf("message = %q", got)
	}
	if err.Error() != "AI generation failed: rate limited" {
		t.Fatalf("error text = %q", err.Error())
	}
}

func TestAnalyzePatentTruncatesText(t *testing.T) {
	fc := &fakeChatter{reply: "not json"}
	svc := NewService(fc)

	text := strings.Repeat("x", MaxAnalysisChars+500)
	got, err := svc.AnalyzePatent(context.Background(), text, "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got["error"] != analysisParseError {
		t.Fatalf("analysis = %v", got)
	}
	prompt := fc.got.Messages[1].Content
	if strings.Contains(prompt, strings.Repeat("x", MaxAnalysisChars+1)) {
		t.Fatalf("patent text not truncated")
	}
	if !strings.Contains(prompt, "PATENT NUMBER: Not provided") {
		t.Fatalf("missing patent number placeholder")
	}
}

func TestChatDefaults(t *testing.T) {
	fc := &fakeChatter{reply: "use means-plus-function sparingly"}
	svc := NewService(fc)

	got, err := svc.Chat(context.Background(), []llm.Message{{Role: "user", Content: "tips?"}}, "")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got != fc.reply {
		t.Fatalf("reply = %q", got)
	}
	if fc.got.Messages[0].Content != DefaultChatPrompt || fc.got.Tier != llm.TierLight || fc.got.Temperature != 0.7 {
		t.Fatalf("request = %+v", fc.got)
	}

	if _, err := svc.Chat(context.Background(), nil, ""); !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("empty conversation err = %v", err)
	}
}

func TestQuickSummaryPrefix(t *testing.T) {
	fc := &fakeChatter{reply: "summary"}
	svc := NewService(fc)

	if _, err := svc.QuickSummary(context.Background(), "claims text"); err != nil {
		t.Fatalf("quick summary: %v", err)
	}
	if !strings.Contains(fc.got.Messages[1].Content, "Patent Document:\n\nclaims text") {
		t.Fatalf("prompt = %q", fc.got.Messages[1].Content)
	}
}
