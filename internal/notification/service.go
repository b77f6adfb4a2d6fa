// Package notification records in-app notices for lifecycle and comment
// events and serves them back to their recipients.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/store"
)

type Service struct {
	store store.Notifications
}

func NewService(s store.Notifications) *Service {
	return &Service{store: s}
}

// Notice is a notification about to be sent.
type Notice struct {
	Type         models.NotificationType
	Title        string
	Message      string
	DisclosureID *uuid.UUID
	CommentID    *uuid.UUID
}

// Send records n for userID. Delivery is best-effort: a failure is logged and
// never fails the operation that triggered it.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, n Notice) {
	rec := &models.Notification{
		UserID:       userID,
		Type:         n.Type,
		Title:        n.Title,
		Message:      n.Message,
		DisclosureID: n.DisclosureID,
		CommentID:    n.CommentID,
	}
	if err := s.store.CreateNotification(ctx, rec); err != nil {
		slog.Warn("notification not recorded", "user_id", userID, "type", n.Type, "error", err)
	}
}

func (s *Service) List(ctx context.Context, c authz.Caller, unreadOnly bool) ([]models.Notification, error) {
	list, err := s.store.ListNotifications(ctx, c.ID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// MarkRead flags one of the caller's notifications as read.
func (s *Service) MarkRead(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Notification, error) {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Notification not found")
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	if n.UserID != c.ID {
		return nil, apperr.Forbidden("Access denied")
	}
	if err := s.store.MarkNotificationRead(ctx, id); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	n.Read = true
	return n, nil
}
