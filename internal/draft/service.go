// Package draft serves patent drafts and the lawyer edits made to them.
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/store"
)

// DisclosureLoader returns a disclosure the caller may access.
type DisclosureLoader interface {
	Load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error)
}

type Service struct {
	store       store.Store
	disclosures DisclosureLoader
}

func NewService(st store.Store, disclosures DisclosureLoader) *Service {
	return &Service{store: st, disclosures: disclosures}
}

type SectionUpdate struct {
	SectionName string       `json:"section_name"`
	Content     models.Value `json:"content"`
}

type FullTextUpdate struct {
	FullText string `json:"full_text"`
}

// Get returns the disclosure's draft, creating an empty PENDING one on first
// read.
func (s *Service) Get(ctx context.Context, c authz.Caller, disclosureID uuid.UUID) (*models.PatentDraft, error) {
	if _, err := s.disclosures.Load(ctx, c, disclosureID); err != nil {
		return nil, err
	}
	d, err := s.store.EnsureDraft(ctx, disclosureID)
	if err != nil {
		return nil, fmt.Errorf("ensure draft: %w", err)
	}
	return d, nil
}

// editable loads a draft for editing: LAWYER or ADMIN, and a lawyer must be
// assigned to the draft's disclosure.
func (s *Service) editable(ctx context.Context, c authz.Caller, draftID uuid.UUID) (*models.PatentDraft, error) {
	if err := authz.RequireRole(c, models.RoleLawyer, models.RoleAdmin); err != nil {
		return nil, err
	}
	d, err := s.store.GetDraft(ctx, draftID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Draft not found")
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	disc, err := s.store.GetDisclosure(ctx, d.DisclosureID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Disclosure not found")
		}
		return nil, fmt.Errorf("get disclosure: %w", err)
	}
	if !authz.CanAccess(c, authz.OwnershipOf(disc)) {
		return nil, apperr.Forbidden("Not assigned to this disclosure")
	}
	return d, nil
}

func (s *Service) UpdateSection(ctx context.Context, c authz.Caller, draftID uuid.UUID, req SectionUpdate) (*models.PatentDraft, error) {
	name := strings.TrimSpace(req.SectionName)
	if name == "" {
		return nil, apperr.Invalid("section_name is required")
	}
	d, err := s.editable(ctx, c, draftID)
	if err != nil {
		return nil, err
	}
	d.Sections.Set(name, req.Content)
	if err := s.store.UpdateDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("update draft section: %w", err)
	}
	return d, nil
}

func (s *Service) UpdateFullText(ctx context.Context, c authz.Caller, draftID uuid.UUID, req FullTextUpdate) (*models.PatentDraft, error) {
	d, err := s.editable(ctx, c, draftID)
	if err != nil {
		return nil, err
	}
	text := req.FullText
	d.FullText = &text
	if err := s.store.UpdateDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("update draft text: %w", err)
	}
	return d, nil
}
