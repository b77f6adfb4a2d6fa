package models

import (
	"time"

	"github.com/google/uuid"
)

type AIProcessingStatus string

const (
	AIPending    AIProcessingStatus = "PENDING"
	AIProcessing AIProcessingStatus = "PROCESSING"
	AICompleted  AIProcessingStatus = "COMPLETED"
	AIFailed     AIProcessingStatus = "FAILED"
)

// FigureRef points a figure label ("FIG. 1") at an uploaded file.
type FigureRef struct {
	FileID      *uuid.UUID `json:"file_id,omitempty"`
	Description string     `json:"description"`
}

type PatentDraft struct {
	ID                 uuid.UUID            `json:"id" db:"id"`
	DisclosureID       uuid.UUID            `json:"disclosure_id" db:"disclosure_id"`
	AIProcessingStatus AIProcessingStatus   `json:"ai_processing_status" db:"ai_processing_status"`
	Sections           Content              `json:"sections" db:"sections"`
	FullText           *string              `json:"full_text" db:"full_text"`
	FigureIndex        map[string]FigureRef `json:"figure_index" db:"figure_index"`
	AIModelUsed        *string              `json:"ai_model_used" db:"ai_model_used"`
	ProcessingError    *string              `json:"processing_error" db:"processing_error"`
	GeneratedAt        time.Time            `json:"generated_at" db:"generated_at"`
	UpdatedAt          time.Time            `json:"updated_at" db:"updated_at"`
}
