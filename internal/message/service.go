// Package message implements direct messages between the inventor and the
// assigned lawyer of a disclosure.
package message

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

type CreateRequest struct {
	Content string `json:"content"`
}

// UpdateRequest edits the text (sender only) and/or the read flag.
type UpdateRequest struct {
	Content *string `json:"content"`
	IsRead  *bool   `json:"is_read"`
}

func (s *Service) List(ctx context.Context, c authz.Caller, disclosureID uuid.UUID) ([]models.MessageView, error) {
	if _, err := s.disclosures.Load(ctx, c, disclosureID); err != nil {
		return nil, err
	}
	list, err := s.store.ListMessages(ctx, disclosureID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, c authz.Caller, disclosureID uuid.UUID, req CreateRequest) (*models.MessageView, error) {
	if _, err := s.disclosures.Load(ctx, c, disclosureID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperr.Invalid("content is required")
	}
	m := &models.Message{DisclosureID: disclosureID, SenderID: c.ID, Content: req.Content}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return s.view(ctx, m)
}

func (s *Service) load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Message, error) {
	m, err := s.store.GetMessage(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Message not found")
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	if _, err := s.disclosures.Load(ctx, c, m.DisclosureID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, c authz.Caller, id uuid.UUID, req UpdateRequest) (*models.MessageView, error) {
	m, err := s.load(ctx, c, id)
	if err != nil {
		return nil, err
	}
	if req.Content != nil {
		if m.SenderID != c.ID {
			return nil, apperr.Forbidden("Only the sender can edit this message")
		}
		if strings.TrimSpace(*req.Content) == "" {
			return nil, apperr.Invalid("content is required")
		}
		m.Content = *req.Content
	}
	if req.IsRead != nil {
		m.IsRead = *req.IsRead
	}
	if err := s.store.UpdateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	return s.view(ctx, m)
}

func (s *Service) Delete(ctx context.Context, c authz.Caller, id uuid.UUID) error {
	m, err := s.load(ctx, c, id)
	if err != nil {
		return err
	}
	if m.SenderID != c.ID && c.Role != models.RoleAdmin {
		return apperr.Forbidden("Can only delete your own messages")
	}
	if err := s.store.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (s *Service) view(ctx context.Context, m *models.Message) (*models.MessageView, error) {
	sender, err := s.store.GetUser(ctx, m.SenderID)
	if err != nil {
		return nil, fmt.Errorf("get message sender: %w", err)
	}
	return &models.MessageView{Message: *m, SenderName: sender.DisplayName(), SenderRole: sender.Role}, nil
}
