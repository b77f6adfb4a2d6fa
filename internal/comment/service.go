// Package comment implements threaded, optionally anchored comments on a
// disclosure.
package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/notification"
	"github.com/pyjuan91/Limira/internal/store"
)

type DisclosureLoader interface {
	Load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error)
}

type Service struct {
	store       store.Store
	disclosures DisclosureLoader
	notify      *notification.Service
}

func NewService(st store.Store, disclosures DisclosureLoader, notify *notification.Service) *Service {
	return &Service{store: st, disclosures: disclosures, notify: notify}
}

type CreateRequest struct {
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
	SelectedText    *string    `json:"selected_text"`
	SelectionStart  *int       `json:"selection_start"`
	SelectionEnd    *int       `json:"selection_end"`
}

type UpdateRequest struct {
	Content string `json:"content"`
}

func (s *Service) List(ctx context.Context, c authz.Caller, disclosureID uuid.UUID) ([]models.CommentView, error) {
	if _, err := s.disclosures.Load(ctx, c, disclosureID); err != nil {
		return nil, err
	}
	list, err := s.store.ListComments(ctx, disclosureID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, c authz.Caller, disclosureID uuid.UUID, req CreateRequest) (*models.CommentView, error) {
	d, err := s.disclosures.Load(ctx, c, disclosureID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperr.Invalid("content is required")
	}

	var parent *models.Comment
	if req.ParentCommentID != nil {
		parent, err = s.store.GetComment(ctx, *req.ParentCommentID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		if parent == nil || parent.DisclosureID != disclosureID {
			return nil, apperr.Invalid("Parent comment must belong to the same disclosure")
		}
	}

	cm := &models.Comment{
		DisclosureID:    disclosureID,
		AuthorID:        c.ID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
		SelectedText:    req.SelectedText,
		SelectionStart:  req.SelectionStart,
		SelectionEnd:    req.SelectionEnd,
	}
	if err := s.store.CreateComment(ctx, cm); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	author, err := s.store.GetUser(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("get comment author: %w", err)
	}
	s.announce(ctx, d, cm, parent, author)
	return &models.CommentView{Comment: *cm, AuthorName: author.DisplayName(), AuthorRole: author.Role}, nil
}

// announce tells a reply's parent author, or for a top-level comment the
// other side of the disclosure.
func (s *Service) announce(ctx context.Context, d *models.Disclosure, cm, parent *models.Comment, author *models.User) {
	if parent != nil {
		if parent.AuthorID != author.ID {
			s.notify.Send(ctx, parent.AuthorID, notification.Notice{
				Type:         models.NotifyCommentReply,
				Title:        "New reply",
				Message:      fmt.Sprintf("%s replied to your comment on %q.", author.DisplayName(), d.Title),
				DisclosureID: &d.ID,
				CommentID:    &cm.ID,
			})
		}
		return
	}

	var recipients []uuid.UUID
	if d.InventorID != author.ID {
		recipients = append(recipients, d.InventorID)
	}
	if d.AssignedLawyerID != nil && *d.AssignedLawyerID != author.ID {
		recipients = append(recipients, *d.AssignedLawyerID)
	}
	for _, id := range recipients {
		s.notify.Send(ctx, id, notification.Notice{
			Type:         models.NotifyCommentAdded,
			Title:        "New comment",
			Message:      fmt.Sprintf("%s commented on %q.", author.DisplayName(), d.Title),
			DisclosureID: &d.ID,
			CommentID:    &cm.ID,
		})
	}
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	cm, err := s.store.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Comment not found")
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return cm, nil
}

func (s *Service) Update(ctx context.Context, c authz.Caller, id uuid.UUID, req UpdateRequest) (*models.Comment, error) {
	cm, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.disclosures.Load(ctx, c, cm.DisclosureID); err != nil {
		return nil, err
	}
	if cm.AuthorID != c.ID {
		return nil, apperr.Forbidden("Only the author can edit this comment")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperr.Invalid("content is required")
	}
	cm.Content = req.Content
	if err := s.store.UpdateComment(ctx, cm); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return cm, nil
}

// Delete removes a comment and its replies. Authors and admins only.
func (s *Service) Delete(ctx context.Context, c authz.Caller, id uuid.UUID) error {
	cm, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.disclosures.Load(ctx, c, cm.DisclosureID); err != nil {
		return err
	}
	if cm.AuthorID != c.ID && c.Role != models.RoleAdmin {
		return apperr.Forbidden("Can only delete your own comments")
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
