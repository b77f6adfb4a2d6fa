// Package chat answers assistant conversations, optionally grounded in one
// disclosure's draft and attachments.
package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/cache"
	"github.com/pyjuan91/Limira/internal/llm"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/patentai"
	"github.com/pyjuan91/Limira/internal/storage"
	"github.com/pyjuan91/Limira/internal/store"
	"github.com/pyjuan91/Limira/pkg/textextract"
)

const (
	maxDraftChars   = 6000
	maxPreviewChars = 1500
	maxPreviews     = 5
	previewTTL      = time.Hour
)

type Assistant interface {
	Chat(ctx context.Context, messages []llm.Message, systemPrompt string) (string, error)
}

type DisclosureLoader interface {
	Load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error)
}

type Service struct {
	ai          Assistant
	store       store.Store
	disclosures DisclosureLoader
	objects     storage.Storage
	previews    *cache.Cache
	extract     func(data []byte, ext string) (string, error)
}

// NewService builds the assistant. previews may be nil, in which case file
// previews are extracted on every request.
func NewService(ai Assistant, st store.Store, disclosures DisclosureLoader, objects storage.Storage, previews *cache.Cache) *Service {
	return &Service{
		ai:          ai,
		store:       st,
		disclosures: disclosures,
		objects:     objects,
		previews:    previews,
		extract:     extractText,
	}
}

type Request struct {
	Messages     []llm.Message `json:"messages"`
	SystemPrompt string        `json:"system_prompt"`
	DisclosureID *uuid.UUID    `json:"disclosure_id"`
}

type Response struct {
	Response string `json:"response"`
}

func (s *Service) Respond(ctx context.Context, c authz.Caller, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, apperr.Invalid("At least one message is required")
	}
	system := req.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = patentai.DefaultChatPrompt
	}
	if req.DisclosureID != nil {
		d, err := s.disclosures.Load(ctx, c, *req.DisclosureID)
		if err != nil {
			return nil, err
		}
		block, err := s.contextBlock(ctx, d)
		if err != nil {
			return nil, err
		}
		system += "\n\n" + block
	}

	answer, err := s.ai.Chat(ctx, req.Messages, system)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.ErrUpstream, "Chat failed: "+apperr.Message(err), err)
	}
	return &Response{Response: answer}, nil
}

func (s *Service) contextBlock(ctx context.Context, d *models.Disclosure) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Current disclosure context:\nTitle: %s\nStatus: %s\n", d.Title, d.Status)

	draft, err := s.store.GetDraftByDisclosure(ctx, d.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return "", fmt.Errorf("get draft: %w", err)
	default:
		if text := draftText(draft); text != "" {
			fmt.Fprintf(&b, "\nPatent draft:\n%s\n", textextract.Truncate(text, maxDraftChars))
		}
	}

	files, err := s.store.ListFiles(ctx, d.ID)
	if err != nil {
		return "", fmt.Errorf("list files: %w", err)
	}
	if len(files) == 0 {
		return b.String(), nil
	}

	previews := s.filePreviews(ctx, files)
	b.WriteString("\nAttached files:\n")
	for _, f := range files {
		fmt.Fprintf(&b, "- %s (%s, %d bytes)\n", f.OriginalFilename, f.FileType, f.FileSize)
		if p, ok := previews[f.ID]; ok && p != "" {
			fmt.Fprintf(&b, "  Preview:\n  %s\n", p)
		}
	}
	return b.String(), nil
}

func draftText(d *models.PatentDraft) string {
	if d.FullText != nil && strings.TrimSpace(*d.FullText) != "" {
		return *d.FullText
	}
	var parts []string
	for _, key := range d.Sections.Keys() {
		v, _ := d.Sections.Get(key)
		if v.IsZero() {
			continue
		}
		parts = append(parts, fmt.Sprintf("## %s\n%s", key, v.String()))
	}
	return strings.Join(parts, "\n\n")
}

// filePreviews extracts the opening text of up to maxPreviews text-bearing
// files (PDF, DOCX, TXT) concurrently. A file that cannot be read is left out.
func (s *Service) filePreviews(ctx context.Context, files []models.File) map[uuid.UUID]string {
	var docs []models.File
	for _, f := range files {
		if textextract.Supports(f.FileExtension) {
			docs = append(docs, f)
		}
		if len(docs) == maxPreviews {
			break
		}
	}

	out := make([]string, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range docs {
		g.Go(func() error {
			text, err := s.preview(gctx, f)
			if err != nil {
				slog.Warn("file preview failed", "file_id", f.ID, "error", err)
				return nil
			}
			out[i] = text
			return nil
		})
	}
	g.Wait()

	previews := make(map[uuid.UUID]string, len(docs))
	for i, f := range docs {
		previews[f.ID] = out[i]
	}
	return previews
}

func (s *Service) preview(ctx context.Context, f models.File) (string, error) {
	key := "preview:" + f.ID.String()
	if s.previews != nil {
		var cached string
		if err := s.previews.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	rc, err := s.objects.Get(ctx, f.StorageKey)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.StorageKey, err)
	}
	text, err := s.extract(data, f.FileExtension)
	if err != nil {
		return "", err
	}
	text = textextract.Truncate(strings.TrimSpace(text), maxPreviewChars)

	if s.previews != nil {
		if err := s.previews.Set(ctx, key, text, previewTTL); err != nil {
			slog.Warn("cache file preview", "file_id", f.ID, "error", err)
		}
	}
	return text, nil
}

func extractText(data []byte, ext string) (string, error) {
	out, err := textextract.Extract(bytes.NewReader(data), int64(len(data)), ext)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}
