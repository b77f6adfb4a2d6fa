package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	DisclosureID    uuid.UUID  `json:"disclosure_id" db:"disclosure_id"`
	AuthorID        uuid.UUID  `json:"author_id" db:"author_id"`
	Content         string     `json:"content" db:"content"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id" db:"parent_comment_id"`
	SelectedText    *string    `json:"selected_text" db:"selected_text"`
	SelectionStart  *int       `json:"selection_start" db:"selection_start"`
	SelectionEnd    *int       `json:"selection_end" db:"selection_end"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// CommentView is a comment enriched with its author for display.
type CommentView struct {
	Comment
	AuthorName string `json:"author_name"`
	AuthorRole Role   `json:"author_role"`
}

type Message struct {
	ID           uuid.UUID `json:"id" db:"id"`
	DisclosureID uuid.UUID `json:"disclosure_id" db:"disclosure_id"`
	SenderID     uuid.UUID `json:"sender_id" db:"sender_id"`
	Content      string    `json:"content" db:"content"`
	IsRead       bool      `json:"is_read" db:"is_read"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type MessageView struct {
	Message
	SenderName string `json:"sender_name"`
	SenderRole Role   `json:"sender_role"`
}

type VideoSession struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	DisclosureID   uuid.UUID      `json:"disclosure_id" db:"disclosure_id"`
	Participants   []uuid.UUID    `json:"participants" db:"participants"`
	TranscriptText *string        `json:"transcript_text" db:"transcript_text"`
	AISummary      *string        `json:"ai_summary" db:"ai_summary"`
	Metadata       map[string]any `json:"session_metadata" db:"session_metadata"`
	StartedAt      time.Time      `json:"started_at" db:"started_at"`
	EndedAt        *time.Time     `json:"ended_at" db:"ended_at"`
}

type NotificationType string

const (
	NotifyDisclosureCreated       NotificationType = "DISCLOSURE_CREATED"
	NotifyDisclosureUpdated       NotificationType = "DISCLOSURE_UPDATED"
	NotifyDisclosureStatusChanged NotificationType = "DISCLOSURE_STATUS_CHANGED"
	NotifyCommentAdded            NotificationType = "COMMENT_ADDED"
	NotifyCommentReply            NotificationType = "COMMENT_REPLY"
	NotifyLawyerAssigned          NotificationType = "LAWYER_ASSIGNED"
	NotifyDraftReady              NotificationType = "DRAFT_READY"
	NotifyRevisionRequested       NotificationType = "REVISION_REQUESTED"
	NotifyApproved                NotificationType = "APPROVED"
)

type Notification struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	UserID       uuid.UUID        `json:"user_id" db:"user_id"`
	Type         NotificationType `json:"type" db:"type"`
	Title        string           `json:"title" db:"title"`
	Message      string           `json:"message" db:"message"`
	DisclosureID *uuid.UUID       `json:"disclosure_id" db:"disclosure_id"`
	CommentID    *uuid.UUID       `json:"comment_id" db:"comment_id"`
	Read         bool             `json:"read" db:"read"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}
