// Package attachment stores files uploaded against a disclosure.
package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/config"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/storage"
	"github.com/pyjuan91/Limira/internal/store"
)

type DisclosureLoader interface {
	Load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error)
}

type Service struct {
	store       store.Store
	disclosures DisclosureLoader
	objects     storage.Storage
	limits      config.UploadConfig
}

func NewService(st store.Store, disclosures DisclosureLoader, objects storage.Storage, limits config.UploadConfig) *Service {
	return &Service{store: st, disclosures: disclosures, objects: objects, limits: limits}
}

// Upload is a file as received from the client.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Object is a stored file ready to be streamed back.
type Object struct {
	File *models.File
	Body io.ReadCloser
}

// ContentType is the media type served for inline previews.
func (o *Object) ContentType() string {
	if strings.EqualFold(o.File.FileExtension, ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}

// StorageKey names the object holding an upload.
func StorageKey(disclosureID uuid.UUID, ext string) string {
	return fmt.Sprintf("uploads/%s/%s%s", disclosureID, uuid.New(), ext)
}

func (s *Service) Upload(ctx context.Context, c authz.Caller, disclosureID uuid.UUID, up Upload) (*models.File, error) {
	d, err := s.disclosures.Load(ctx, c, disclosureID)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(up.Filename)
	if !slices.Contains(s.limits.AllowedExtensions, strings.ToLower(ext)) {
		return nil, apperr.Invalid("File type not allowed. Allowed: " + strings.Join(s.limits.AllowedExtensions, ","))
	}

	// Read one byte past the cap so an oversized body is detected without
	// buffering all of it.
	max := s.limits.MaxBytes()
	data, err := io.ReadAll(io.LimitReader(up.Body, max+1))
	if err != nil {
		return nil, apperr.Invalid("Could not read uploaded file")
	}
	if int64(len(data)) > max {
		return nil, TooLarge(s.limits.MaxFileSizeMB)
	}

	key := StorageKey(d.ID, ext)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, apperr.Upstream("Failed to store file", err)
	}

	f := &models.File{
		DisclosureID:     d.ID,
		FileType:         models.FileTypeForExtension(ext),
		OriginalFilename: up.Filename,
		FileExtension:    ext,
		FileSize:         int64(len(data)),
		StorageKey:       key,
		Bucket:           s.objects.Bucket(),
		Metadata:         map[string]any{},
	}
	if err := s.store.CreateFile(ctx, f); err != nil {
		if derr := s.objects.Delete(ctx, key); derr != nil {
			slog.Warn("orphaned upload", "key", key, "error", derr)
		}
		return nil, fmt.Errorf("create file: %w", err)
	}
	slog.Info("file uploaded", "disclosure_id", d.ID, "file_id", f.ID, "size", f.FileSize)
	return f, nil
}

func (s *Service) List(ctx context.Context, c authz.Caller, disclosureID uuid.UUID) ([]models.File, error) {
	if _, err := s.disclosures.Load(ctx, c, disclosureID); err != nil {
		return nil, err
	}
	files, err := s.store.ListFiles(ctx, disclosureID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*models.File, error) {
	f, err := s.store.GetFile(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("File not found")
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return f, nil
}

func (s *Service) open(ctx context.Context, f *models.File) (*Object, error) {
	rc, err := s.objects.Get(ctx, f.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperr.NotFound("File not found on server")
		}
		return nil, apperr.Upstream("Failed to read file", err)
	}
	return &Object{File: f, Body: rc}, nil
}

// Download opens a file for a caller with access to its disclosure. The
// caller must close the returned body.
func (s *Service) Download(ctx context.Context, c authz.Caller, id uuid.UUID) (*Object, error) {
	f, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.disclosures.Load(ctx, c, f.DisclosureID); err != nil {
		return nil, err
	}
	return s.open(ctx, f)
}

// Preview opens a file without an access check, for inline embedding.
func (s *Service) Preview(ctx context.Context, id uuid.UUID) (*Object, error) {
	f, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, f)
}

// Delete removes the stored object and then the record. Only admins and the
// owning inventor may delete.
func (s *Service) Delete(ctx context.Context, c authz.Caller, id uuid.UUID) error {
	f, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	d, err := s.disclosures.Load(ctx, c, f.DisclosureID)
	if err != nil {
		return err
	}
	if c.Role != models.RoleAdmin && d.InventorID != c.ID {
		return apperr.Forbidden("Access denied")
	}
	if err := s.objects.Delete(ctx, f.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return apperr.Upstream("Failed to delete file", err)
	}
	if err := s.store.DeleteFile(ctx, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// Limits reports the configured upload limits.
func (s *Service) Limits() config.UploadConfig { return s.limits }

// TooLarge is the error for an upload over maxMB megabytes.
func TooLarge(maxMB int) error {
	return apperr.Invalid(fmt.Sprintf("File too large. Max size: %dMB", maxMB))
}
