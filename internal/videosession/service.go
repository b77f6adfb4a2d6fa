// Package videosession records video calls between the parties of a
// disclosure, with their transcripts and AI summaries.
package videosession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/store"
	"github.com/pyjuan91/Limira/internal/stt"
)

// minSummaryTranscript is the transcript length, in characters, that a
// summary must exceed.
const minSummaryTranscript = 50

type DisclosureLoader interface {
	Load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error)
}

type Summarizer interface {
	SummarizeTranscript(ctx context.Context, transcript string) (string, error)
}

type Service struct {
	store       store.Store
	disclosures DisclosureLoader
	ai          Summarizer
	stt         stt.Transcriber
	now         func() time.Time
}

// NewService builds the service. transcriber may be nil, which disables
// Transcribe.
func NewService(st store.Store, disclosures DisclosureLoader, ai Summarizer, transcriber stt.Transcriber) *Service {
	return &Service{store: st, disclosures: disclosures, ai: ai, stt: transcriber, now: time.Now}
}

type CreateRequest struct {
	DisclosureID uuid.UUID `json:"disclosure_id"`
}

type UpdateRequest struct {
	TranscriptText *string        `json:"transcript_text"`
	Metadata       map[string]any `json:"session_metadata"`
}

type EndRequest struct {
	TranscriptText string         `json:"transcript_text"`
	Metadata       map[string]any `json:"session_metadata"`
}

func (s *Service) Create(ctx context.Context, c authz.Caller, req CreateRequest) (*models.VideoSession, error) {
	d, err := s.disclosures.Load(ctx, c, req.DisclosureID)
	if err != nil {
		return nil, err
	}
	participants := []uuid.UUID{d.InventorID}
	if d.AssignedLawyerID != nil {
		participants = append(participants, *d.AssignedLawyerID)
	}
	vs := &models.VideoSession{
		DisclosureID: d.ID,
		Participants: participants,
		Metadata:     map[string]any{},
	}
	if err := s.store.CreateVideoSession(ctx, vs); err != nil {
		return nil, fmt.Errorf("create video session: %w", err)
	}
	slog.Info("video session started", "session_id", vs.ID, "disclosure_id", d.ID)
	return vs, nil
}

func (s *Service) List(ctx context.Context, c authz.Caller, disclosureID uuid.UUID) ([]models.VideoSession, error) {
	if _, err := s.disclosures.Load(ctx, c, disclosureID); err != nil {
		return nil, err
	}
	list, err := s.store.ListVideoSessions(ctx, disclosureID)
	if err != nil {
		return nil, fmt.Errorf("list video sessions: %w", err)
	}
	return list, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*models.VideoSession, error) {
	vs, err := s.store.GetVideoSession(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Session not found")
		}
		return nil, fmt.Errorf("get video session: %w", err)
	}
	return vs, nil
}

func (s *Service) Get(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.VideoSession, error) {
	vs, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.disclosures.Load(ctx, c, vs.DisclosureID); err != nil {
		return nil, err
	}
	return vs, nil
}

func (s *Service) Update(ctx context.Context, c authz.Caller, id uuid.UUID, req UpdateRequest) (*models.VideoSession, error) {
	vs, err := s.Get(ctx, c, id)
	if err != nil {
		return nil, err
	}
	if req.TranscriptText != nil {
		vs.TranscriptText = req.TranscriptText
	}
	if req.Metadata != nil {
		vs.Metadata = req.Metadata
	}
	if err := s.store.UpdateVideoSession(ctx, vs); err != nil {
		return nil, fmt.Errorf("update video session: %w", err)
	}
	return vs, nil
}

// End closes the session with its final transcript. A summary failure is
// stored in place of the summary rather than returned.
func (s *Service) End(ctx context.Context, c authz.Caller, id uuid.UUID, req EndRequest) (*models.VideoSession, error) {
	vs, err := s.Get(ctx, c, id)
	if err != nil {
		return nil, err
	}
	ended := s.now()
	vs.EndedAt = &ended
	vs.TranscriptText = &req.TranscriptText
	if req.Metadata != nil {
		vs.Metadata = req.Metadata
	}

	if utf8.RuneCountInString(req.TranscriptText) > minSummaryTranscript {
		summary, err := s.ai.SummarizeTranscript(ctx, req.TranscriptText)
		if err != nil {
			slog.Warn("transcript summary failed", "session_id", vs.ID, "error", err)
			summary = "Error generating summary: " + apperr.Message(err)
		}
		vs.AISummary = &summary
	}

	if err := s.store.UpdateVideoSession(ctx, vs); err != nil {
		return nil, fmt.Errorf("end video session: %w", err)
	}
	return vs, nil
}

// Transcribe runs a recording through the configured speech-to-text backend
// and appends the text to the session transcript.
func (s *Service) Transcribe(ctx context.Context, c authz.Caller, id uuid.UUID, audio stt.Audio) (*models.VideoSession, error) {
	if s.stt == nil {
		return nil, apperr.Invalid("Transcription is not configured")
	}
	vs, err := s.Get(ctx, c, id)
	if err != nil {
		return nil, err
	}
	t, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		return nil, apperr.Upstream("Transcription failed", err)
	}

	text := strings.TrimSpace(t.Text)
	if vs.TranscriptText != nil && *vs.TranscriptText != "" {
		text = *vs.TranscriptText + "\n" + text
	}
	vs.TranscriptText = &text
	if err := s.store.UpdateVideoSession(ctx, vs); err != nil {
		return nil, fmt.Errorf("store transcript: %w", err)
	}
	slog.Info("audio transcribed", "session_id", vs.ID, "provider", s.stt.Name(), "duration", t.Duration)
	return vs, nil
}

func (s *Service) Delete(ctx context.Context, c authz.Caller, id uuid.UUID) error {
	if err := authz.RequireRole(c, models.RoleAdmin); err != nil {
		return apperr.Forbidden("Admin access required")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteVideoSession(ctx, id); err != nil {
		return fmt.Errorf("delete video session: %w", err)
	}
	return nil
}
