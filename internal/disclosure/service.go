// Package disclosure owns the disclosure lifecycle: creation, content
// revisions with version history, status changes, lawyer assignment, lawyer
// review, and scheduling of the AI drafting job.
package disclosure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/notification"
	"github.com/pyjuan91/Limira/internal/storage"
	"github.com/pyjuan91/Limira/internal/store"
)

const maxTitleLen = 200

// Analyzer produces the structured analysis of a patent's text.
type Analyzer interface {
	AnalyzePatent(ctx context.Context, text, patentNumber string) (map[string]any, error)
}

type Service struct {
	store   store.Store
	sched   Scheduler
	notify  *notification.Service
	objects storage.Storage
	ai      Analyzer
	extract func([]byte) (string, error)
}

func NewService(st store.Store, sched Scheduler, notify *notification.Service, objects storage.Storage, ai Analyzer) *Service {
	return &Service{store: st, sched: sched, notify: notify, objects: objects, ai: ai, extract: extractPDF}
}

type CreateRequest struct {
	Title            string                `json:"title"`
	Content          models.Content        `json:"content"`
	AssignedLawyerID *uuid.UUID            `json:"assigned_lawyer_id"`
	DisclosureType   models.DisclosureType `json:"disclosure_type"`
	PatentNumber     *string               `json:"patent_number"`
}

type UpdateRequest struct {
	Title   *string         `json:"title"`
	Content *models.Content `json:"content"`
}

type ApproveRequest struct {
	Approved *bool  `json:"approved"`
	Notes    string `json:"notes,omitempty"`
}

type RevisionRequest struct {
	Feedback string `json:"feedback"`
}

// ReviewResult answers approve and request-revision calls.
type ReviewResult struct {
	Message      string    `json:"message"`
	DisclosureID uuid.UUID `json:"disclosure_id"`
	Notes        string    `json:"notes,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
}

// Load returns the disclosure if c may access it.
func (s *Service) Load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(c, authz.OwnershipOf(d)); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*models.Disclosure, error) {
	d, err := s.store.GetDisclosure(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Disclosure not found")
		}
		return nil, fmt.Errorf("get disclosure: %w", err)
	}
	return d, nil
}

// reviewer loads a disclosure for a lawyer-side action: LAWYER or ADMIN only,
// and a lawyer must be the one assigned.
func (s *Service) reviewer(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error) {
	if err := authz.RequireRole(c, models.RoleLawyer, models.RoleAdmin); err != nil {
		return nil, err
	}
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(c, authz.OwnershipOf(d)) {
		return nil, apperr.Forbidden("Not assigned to this disclosure")
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, c authz.Caller) ([]models.Disclosure, error) {
	var f store.DisclosureFilter
	switch c.Role {
	case models.RoleInventor:
		f.InventorID = &c.ID
	case models.RoleLawyer:
		f.LawyerID = &c.ID
	case models.RoleAdmin:
	default:
		return nil, apperr.Forbidden("Access denied")
	}
	list, err := s.store.ListDisclosures(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list disclosures: %w", err)
	}
	return list, nil
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n == 0 || n > maxTitleLen {
		return "", apperr.Invalid(fmt.Sprintf("Title must be between 1 and %d characters", maxTitleLen))
	}
	return title, nil
}

func (s *Service) lawyer(ctx context.Context, id uuid.UUID, msg string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Invalid(msg)
		}
		return nil, fmt.Errorf("get lawyer: %w", err)
	}
	if u.Role != models.RoleLawyer {
		return nil, apperr.Invalid(msg)
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, c authz.Caller, req CreateRequest) (*models.Disclosure, error) {
	if err := authz.RequireRole(c, models.RoleInventor, models.RoleAdmin); err != nil {
		return nil, err
	}
	title, err := validTitle(req.Title)
	if err != nil {
		return nil, err
	}
	dtype := req.DisclosureType
	if dtype == "" {
		dtype = models.TypeNewDisclosure
	}
	if !dtype.Valid() {
		return nil, apperr.Invalid("disclosure_type must be NEW_DISCLOSURE or PATENT_REVIEW")
	}
	if req.AssignedLawyerID != nil {
		if _, err := s.lawyer(ctx, *req.AssignedLawyerID, "Invalid lawyer ID or user is not a lawyer"); err != nil {
			return nil, err
		}
	}

	status := models.StatusDraft
	if req.AssignedLawyerID != nil {
		status = models.StatusInReview
	}
	content := req.Content
	if content.Empty() {
		content = models.NewContent()
	}

	d := &models.Disclosure{
		Title:            title,
		Status:           status,
		DisclosureType:   dtype,
		InventorID:       c.ID,
		AssignedLawyerID: req.AssignedLawyerID,
		Content:          content,
		PatentNumber:     req.PatentNumber,
	}
	if err := s.store.CreateDisclosure(ctx, d); err != nil {
		return nil, fmt.Errorf("create disclosure: %w", err)
	}
	slog.Info("disclosure created", "disclosure_id", d.ID, "inventor_id", d.InventorID, "status", d.Status)

	if d.AssignedLawyerID != nil {
		s.notifyAssigned(ctx, d)
	}
	if !content.Empty() {
		s.scheduleDrafting(ctx, d.ID)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error) {
	return s.Load(ctx, c, id)
}

// Update changes the title and/or content. A content change appends the next
// version and, unless the disclosure is approved, re-runs drafting.
func (s *Service) Update(ctx context.Context, c authz.Caller, id uuid.UUID, req UpdateRequest) (*models.Disclosure, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Role != models.RoleAdmin && d.InventorID != c.ID {
		return nil, apperr.Forbidden("Only inventor can edit disclosure")
	}

	if req.Title != nil {
		title, err := validTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		d.Title = title
		if err := s.store.UpdateDisclosure(ctx, d); err != nil {
			return nil, fmt.Errorf("update disclosure: %w", err)
		}
	}

	if req.Content != nil {
		v, err := s.store.ReviseContent(ctx, id, *req.Content, c.ID)
		if err != nil {
			return nil, fmt.Errorf("revise content: %w", err)
		}
		slog.Info("disclosure revised", "disclosure_id", id, "version", v.VersionNumber, "edited_by", c.ID)
	}

	d, err = s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Content != nil && !req.Content.Empty() && d.Status != models.StatusApproved {
		s.scheduleDrafting(ctx, id)
	}
	return d, nil
}

// UpdateStatus overwrites the status. Any valid status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, c authz.Caller, id uuid.UUID, status models.DisclosureStatus) (*models.Disclosure, error) {
	if err := authz.RequireRole(c, models.RoleLawyer, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Invalid(fmt.Sprintf("Invalid status %q", status))
	}
	d, err := s.Load(ctx, c, id)
	if err != nil {
		return nil, err
	}
	d.Status = status
	if err := s.store.UpdateDisclosure(ctx, d); err != nil {
		return nil, fmt.Errorf("update disclosure status: %w", err)
	}
	return d, nil
}

func (s *Service) AssignLawyer(ctx context.Context, c authz.Caller, id, lawyerID uuid.UUID) (*models.Disclosure, error) {
	if err := authz.RequireRole(c, models.RoleAdmin); err != nil {
		return nil, err
	}
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.lawyer(ctx, lawyerID, "Invalid lawyer ID"); err != nil {
		return nil, err
	}

	d.AssignedLawyerID = &lawyerID
	d.Status = models.StatusInReview
	if err := s.store.UpdateDisclosure(ctx, d); err != nil {
		return nil, fmt.Errorf("assign lawyer: %w", err)
	}
	s.notifyAssigned(ctx, d)
	return d, nil
}

func (s *Service) Versions(ctx context.Context, c authz.Caller, id uuid.UUID) ([]models.DisclosureVersion, error) {
	if _, err := s.Load(ctx, c, id); err != nil {
		return nil, err
	}
	versions, err := s.store.ListVersions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// Delete removes the disclosure and everything attached to it, then clears
// its stored file objects. Object removal is best-effort.
func (s *Service) Delete(ctx context.Context, c authz.Caller, id uuid.UUID) error {
	if err := authz.RequireRole(c, models.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	files, err := s.store.ListFiles(ctx, id)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	if err := s.store.DeleteDisclosure(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Disclosure not found")
		}
		return fmt.Errorf("delete disclosure: %w", err)
	}
	if s.objects != nil {
		for _, f := range files {
			if err := s.objects.Delete(ctx, f.StorageKey); err != nil {
				slog.Warn("stored object left behind", "disclosure_id", id, "key", f.StorageKey, "error", err)
			}
		}
	}
	slog.Info("disclosure deleted", "disclosure_id", id, "files", len(files))
	return nil
}

// Approve moves the disclosure to APPROVED and tells the inventor.
func (s *Service) Approve(ctx context.Context, c authz.Caller, id uuid.UUID, req ApproveRequest) (*ReviewResult, error) {
	if req.Approved != nil && !*req.Approved {
		return nil, apperr.Invalid("approved must be true; use request-revision to send the draft back")
	}
	d, err := s.reviewer(ctx, c, id)
	if err != nil {
		return nil, err
	}
	d.Status = models.StatusApproved
	if err := s.store.UpdateDisclosure(ctx, d); err != nil {
		return nil, fmt.Errorf("approve disclosure: %w", err)
	}
	s.notify.Send(ctx, d.InventorID, notification.Notice{
		Type:         models.NotifyApproved,
		Title:        "Disclosure approved",
		Message:      fmt.Sprintf("The patent draft for %q was approved.", d.Title),
		DisclosureID: &d.ID,
	})
	return &ReviewResult{Message: "Patent draft approved", DisclosureID: d.ID, Notes: req.Notes}, nil
}

// RequestRevision sends the disclosure back to the inventor. The feedback is
// echoed to the caller only; it is not stored.
func (s *Service) RequestRevision(ctx context.Context, c authz.Caller, id uuid.UUID, req RevisionRequest) (*ReviewResult, error) {
	if strings.TrimSpace(req.Feedback) == "" {
		return nil, apperr.Invalid("feedback is required")
	}
	d, err := s.reviewer(ctx, c, id)
	if err != nil {
		return nil, err
	}
	d.Status = models.StatusRevisionRequested
	if err := s.store.UpdateDisclosure(ctx, d); err != nil {
		return nil, fmt.Errorf("request revision: %w", err)
	}
	s.notify.Send(ctx, d.InventorID, notification.Notice{
		Type:         models.NotifyRevisionRequested,
		Title:        "Revision requested",
		Message:      fmt.Sprintf("Your lawyer requested changes to %q.", d.Title),
		DisclosureID: &d.ID,
	})
	return &ReviewResult{Message: "Revision requested", DisclosureID: d.ID, Feedback: req.Feedback}, nil
}

func (s *Service) notifyAssigned(ctx context.Context, d *models.Disclosure) {
	s.notify.Send(ctx, *d.AssignedLawyerID, notification.Notice{
		Type:         models.NotifyLawyerAssigned,
		Title:        "New disclosure assigned",
		Message:      fmt.Sprintf("You were assigned to review %q.", d.Title),
		DisclosureID: &d.ID,
	})
}

func (s *Service) scheduleDrafting(ctx context.Context, id uuid.UUID) {
	if err := s.sched.ScheduleDrafting(ctx, id); err != nil {
		slog.Error("schedule drafting", "disclosure_id", id, "error", err)
	}
}
