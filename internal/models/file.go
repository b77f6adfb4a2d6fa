package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileType string

const (
	FileDrawing  FileType = "DRAWING"
	FileDocument FileType = "DOCUMENT"
	FileImage    FileType = "IMAGE"
)

// FileTypeForExtension classifies an upload by its extension. Unknown
// extensions are treated as images.
func FileTypeForExtension(ext string) FileType {
	switch strings.ToLower(ext) {
	case ".pdf":
		return FileDrawing
	case ".docx", ".doc":
		return FileDocument
	default:
		return FileImage
	}
}

type File struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	DisclosureID     uuid.UUID      `json:"disclosure_id" db:"disclosure_id"`
	FileType         FileType       `json:"file_type" db:"file_type"`
	OriginalFilename string         `json:"original_filename" db:"original_filename"`
	FileExtension    string         `json:"file_extension" db:"file_extension"`
	FileSize         int64          `json:"file_size" db:"file_size"`
	StorageKey       string         `json:"storage_key" db:"storage_key"`
	Bucket           string         `json:"bucket" db:"bucket"`
	Metadata         map[string]any `json:"file_metadata" db:"file_metadata"`
	UploadedAt       time.Time      `json:"uploaded_at" db:"uploaded_at"`
}
