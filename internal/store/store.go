// Package store persists the disclosure workflow. Postgres is the production
// backend; Memory mirrors its semantics for tests and local development.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/models"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
)

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

// DisclosureFilter narrows a listing. Nil fields do not filter.
type DisclosureFilter struct {
	InventorID *uuid.UUID
	LawyerID   *uuid.UUID
}

type Disclosures interface {
	// CreateDisclosure inserts the disclosure together with version 1 of its
	// content, edited by the inventor.
	CreateDisclosure(ctx context.Context, d *models.Disclosure) error
	GetDisclosure(ctx context.Context, id uuid.UUID) (*models.Disclosure, error)
	ListDisclosures(ctx context.Context, f DisclosureFilter) ([]models.Disclosure, error)
	// UpdateDisclosure writes every column except content.
	UpdateDisclosure(ctx context.Context, d *models.Disclosure) error
	// ReviseContent replaces the content and appends the next version in one
	// transaction.
	ReviseContent(ctx context.Context, id uuid.UUID, content models.Content, editedBy uuid.UUID) (*models.DisclosureVersion, error)
	DeleteDisclosure(ctx context.Context, id uuid.UUID) error
	ListVersions(ctx context.Context, disclosureID uuid.UUID) ([]models.DisclosureVersion, error)
}

type Drafts interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.PatentDraft, error)
	GetDraftByDisclosure(ctx context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error)
	// EnsureDraft returns the disclosure's draft, creating a PENDING one if
	// none exists.
	EnsureDraft(ctx context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error)
	UpdateDraft(ctx context.Context, d *models.PatentDraft) error

	// BeginDrafting marks the disclosure AI_PROCESSING and its draft PROCESSING.
	BeginDrafting(ctx context.Context, disclosureID uuid.UUID) (*models.PatentDraft, error)
	// CompleteDrafting stores the sections and moves the disclosure to
	// READY_FOR_REVIEW.
	CompleteDrafting(ctx context.Context, disclosureID uuid.UUID, sections models.Content, model string) error
	// FailDrafting records the error on the draft and rolls the disclosure
	// back to DRAFT.
	FailDrafting(ctx context.Context, disclosureID uuid.UUID, reason string) error
}

type Files interface {
	CreateFile(ctx context.Context, f *models.File) error
	GetFile(ctx context.Context, id uuid.UUID) (*models.File, error)
	ListFiles(ctx context.Context, disclosureID uuid.UUID) ([]models.File, error)
	DeleteFile(ctx context.Context, id uuid.UUID) error
}

type Comments interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListComments(ctx context.Context, disclosureID uuid.UUID) ([]models.CommentView, error)
	UpdateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

type Messages interface {
	CreateMessage(ctx context.Context, m *models.Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error)
	ListMessages(ctx context.Context, disclosureID uuid.UUID) ([]models.MessageView, error)
	UpdateMessage(ctx context.Context, m *models.Message) error
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type Notifications interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
}

type VideoSessions interface {
	CreateVideoSession(ctx context.Context, s *models.VideoSession) error
	GetVideoSession(ctx context.Context, id uuid.UUID) (*models.VideoSession, error)
	ListVideoSessions(ctx context.Context, disclosureID uuid.UUID) ([]models.VideoSession, error)
	UpdateVideoSession(ctx context.Context, s *models.VideoSession) error
	DeleteVideoSession(ctx context.Context, id uuid.UUID) error
}

type Store interface {
	Users
	Disclosures
	Drafts
	Files
	Comments
	Messages
	Notifications
	VideoSessions
	Ping(ctx context.Context) error
}
