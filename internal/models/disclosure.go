package models

import (
	"time"

	"github.com/google/uuid"
)

type DisclosureStatus string

const (
	StatusDraft             DisclosureStatus = "DRAFT"
	StatusAIProcessing      DisclosureStatus = "AI_PROCESSING"
	StatusReadyForReview    DisclosureStatus = "READY_FOR_REVIEW"
	StatusInReview          DisclosureStatus = "IN_REVIEW"
	StatusRevisionRequested DisclosureStatus = "REVISION_REQUESTED"
	StatusApproved          DisclosureStatus = "APPROVED"
)

func (s DisclosureStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusAIProcessing, StatusReadyForReview, StatusInReview, StatusRevisionRequested, StatusApproved:
		return true
	}
	return false
}

type DisclosureType string

const (
	TypeNewDisclosure DisclosureType = "NEW_DISCLOSURE"
	TypePatentReview  DisclosureType = "PATENT_REVIEW"
)

func (t DisclosureType) Valid() bool {
	return t == TypeNewDisclosure || t == TypePatentReview
}

type Disclosure struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	Title            string           `json:"title" db:"title"`
	Status           DisclosureStatus `json:"status" db:"status"`
	DisclosureType   DisclosureType   `json:"disclosure_type" db:"disclosure_type"`
	InventorID       uuid.UUID        `json:"inventor_id" db:"inventor_id"`
	AssignedLawyerID *uuid.UUID       `json:"assigned_lawyer_id" db:"assigned_lawyer_id"`
	Content          Content          `json:"content" db:"content"`
	PatentNumber     *string          `json:"patent_number" db:"patent_number"`
	PatentFileID     *uuid.UUID       `json:"patent_file_id" db:"patent_file_id"`
	AIAnalysis       map[string]any   `json:"ai_analysis" db:"ai_analysis"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// DisclosureVersion is an immutable snapshot of content at one edit.
type DisclosureVersion struct {
	ID              uuid.UUID `json:"id" db:"id"`
	DisclosureID    uuid.UUID `json:"disclosure_id" db:"disclosure_id"`
	VersionNumber   int       `json:"version_number" db:"version_number"`
	ContentSnapshot Content   `json:"content_snapshot" db:"content_snapshot"`
	EditedBy        uuid.UUID `json:"edited_by" db:"edited_by"`
	EditedAt        time.Time `json:"edited_at" db:"edited_at"`
}
