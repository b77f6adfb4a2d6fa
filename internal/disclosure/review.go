package disclosure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/store"
	"github.com/pyjuan91/Limira/pkg/textextract"
)

// MinPatentText is the least extracted text worth sending for analysis.
const MinPatentText = 100

func (s *Service) patentReview(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error) {
	d, err := s.Load(ctx, c, id)
	if err != nil {
		return nil, err
	}
	if d.DisclosureType != models.TypePatentReview {
		return nil, apperr.Invalid("This operation is only available for PATENT_REVIEW disclosures")
	}
	return d, nil
}

// SetPatentFile marks one of the disclosure's uploaded PDFs as the patent
// under review.
func (s *Service) SetPatentFile(ctx context.Context, c authz.Caller, id, fileID uuid.UUID) (*models.Disclosure, error) {
	d, err := s.patentReview(ctx, c, id)
	if err != nil {
		return nil, err
	}
	f, err := s.store.GetFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("File not found")
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	if f.DisclosureID != d.ID {
		return nil, apperr.Invalid("File does not belong to this disclosure")
	}
	if !strings.EqualFold(f.FileExtension, ".pdf") {
		return nil, apperr.Invalid("Patent file must be a PDF")
	}

	d.PatentFileID = &f.ID
	if err := s.store.UpdateDisclosure(ctx, d); err != nil {
		return nil, fmt.Errorf("set patent file: %w", err)
	}
	return d, nil
}

// AnalyzePatent extracts the patent PDF's text, runs the analysis and stores
// the result on the disclosure.
func (s *Service) AnalyzePatent(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error) {
	d, err := s.patentReview(ctx, c, id)
	if err != nil {
		return nil, err
	}
	if d.PatentFileID == nil {
		return nil, apperr.Invalid("No patent file set for this disclosure")
	}
	f, err := s.store.GetFile(ctx, *d.PatentFileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Patent file not found")
		}
		return nil, fmt.Errorf("get patent file: %w", err)
	}

	text, err := s.patentText(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(text)) < MinPatentText {
		return nil, apperr.Invalid("Could not extract sufficient text from PDF. Please ensure the PDF contains readable text.")
	}

	var number string
	if d.PatentNumber != nil {
		number = *d.PatentNumber
	}
	analysis, err := s.ai.AnalyzePatent(ctx, text, number)
	if err != nil {
		return nil, err
	}

	d.AIAnalysis = analysis
	if err := s.store.UpdateDisclosure(ctx, d); err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}
	slog.Info("patent analysed", "disclosure_id", d.ID, "file_id", f.ID, "text_length", len(text))
	return d, nil
}

func (s *Service) patentText(ctx context.Context, f *models.File) (string, error) {
	rc, err := s.objects.Get(ctx, f.StorageKey)
	if err != nil {
		return "", apperr.Upstream("Failed to read patent file", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", apperr.Upstream("Failed to read patent file", err)
	}
	text, err := s.extract(data)
	if err != nil {
		return "", apperr.Upstream("Failed to extract text from PDF", err)
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	out, err := textextract.PDF(data, 0)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}
