package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/patentai"
	"github.com/pyjuan91/Limira/pkg/textextract"
)

const (
	// MaxPatentUpload caps ad-hoc patent PDFs.
	MaxPatentUpload  = 50 * 1024 * 1024
	minPatentText    = 100
	quickSummaryPage = 5
)

var ErrPatentTooLarge = apperr.Invalid("File too large. Maximum size is 50MB")

// PatentAI is the part of the AI adapter used for ad-hoc patent uploads.
type PatentAI interface {
	AnalyzePatent(ctx context.Context, text, patentNumber string) (map[string]any, error)
	QuickSummary(ctx context.Context, text string) (string, error)
}

// PatentAnalyzer analyzes patent PDFs uploaded outside any disclosure.
type PatentAnalyzer struct {
	ai      PatentAI
	extract func(data []byte, maxPages int) (string, error)
}

func NewPatentAnalyzer(ai PatentAI) *PatentAnalyzer {
	return &PatentAnalyzer{ai: ai, extract: extractPages}
}

type AnalysisReport struct {
	Filename            string         `json:"filename"`
	PatentNumber        *string        `json:"patent_number"`
	FileSize            int            `json:"file_size"`
	ExtractedTextLength int            `json:"extracted_text_length"`
	Analysis            map[string]any `json:"analysis"`
}

type QuickSummaryReport struct {
	Filename string `json:"filename"`
	Summary  string `json:"summary"`
}

func (a *PatentAnalyzer) read(filename string, body io.Reader) ([]byte, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, apperr.Invalid("Only PDF files are supported")
	}
	data, err := io.ReadAll(io.LimitReader(body, MaxPatentUpload+1))
	if err != nil {
		return nil, apperr.Invalid("Could not read uploaded file")
	}
	if len(data) > MaxPatentUpload {
		return nil, ErrPatentTooLarge
	}
	return data, nil
}

// Analyze runs the full patent analysis over an uploaded PDF.
func (a *PatentAnalyzer) Analyze(ctx context.Context, filename, patentNumber string, body io.Reader) (*AnalysisReport, error) {
	data, err := a.read(filename, body)
	if err != nil {
		return nil, err
	}
	text, err := a.extract(data, 0)
	if err != nil {
		return nil, apperr.Upstream("Failed to extract text from PDF", err)
	}
	if len(strings.TrimSpace(text)) < minPatentText {
		return nil, apperr.Invalid("Could not extract sufficient text from PDF. Please ensure the PDF contains readable text.")
	}

	analysis, err := a.ai.AnalyzePatent(ctx, text, patentNumber)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstream, "AI analysis failed: "+apperr.Message(err), err)
	}

	report := &AnalysisReport{
		Filename:            filename,
		FileSize:            len(data),
		ExtractedTextLength: len(text),
		Analysis:            analysis,
	}
	if patentNumber != "" {
		report.PatentNumber = &patentNumber
	}
	slog.Info("patent upload analysed", "filename", filename, "text_length", len(text))
	return report, nil
}

// QuickSummary summarizes the first pages of an uploaded PDF.
func (a *PatentAnalyzer) QuickSummary(ctx context.Context, filename string, body io.Reader) (*QuickSummaryReport, error) {
	data, err := a.read(filename, body)
	if err != nil {
		return nil, err
	}
	text, err := a.extract(data, quickSummaryPage)
	if err != nil || len(strings.TrimSpace(text)) < minPatentText {
		return nil, apperr.Invalid("Could not extract text from PDF")
	}
	summary, err := a.ai.QuickSummary(ctx, text)
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, fmt.Errorf("quick summary: %w", err)
	}
	return &QuickSummaryReport{Filename: filename, Summary: summary}, nil
}

func extractPages(data []byte, maxPages int) (string, error) {
	out, err := textextract.PDF(data, maxPages)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

var _ PatentAI = (*patentai.Service)(nil)
