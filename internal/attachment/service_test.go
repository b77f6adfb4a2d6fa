package attachment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/authz"
	"github.com/pyjuan91/Limira/internal/config"
	"github.com/pyjuan91/Limira/internal/models"
	"github.com/pyjuan91/Limira/internal/storage"
	"github.com/pyjuan91/Limira/internal/store"
)

type loader struct{ st *store.Memory }

func (l loader) Load(ctx context.Context, c authz.Caller, id uuid.UUID) (*models.Disclosure, error) {
	d, err := l.st.GetDisclosure(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("Disclosure not found")
	}
	if err := authz.Authorize(c, authz.OwnershipOf(d)); err != nil {
		return nil, err
	}
	return d, nil
}

type env struct {
	svc     *Service
	st      *store.Memory
	objects *storage.FileStore
	d       *models.Disclosure
	callers map[string]authz.Caller
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	callers := map[string]authz.Caller{}
	for name, role := range map[string]models.Role{
		"inventor": models.RoleInventor,
		"outsider": models.RoleInventor,
		"lawyer":   models.RoleLawyer,
		"admin":    models.RoleAdmin,
	} {
		u := &models.User{Email: name + "@x.co", Role: role}
		if err := st.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		callers[name] = authz.CallerOf(u)
	}
	lawyerID := callers["lawyer"].ID
	d := &models.Disclosure{
		Title:            "Widget",
		Status:           models.StatusInReview,
		DisclosureType:   models.TypeNewDisclosure,
		InventorID:       callers["inventor"].ID,
		AssignedLawyerID: &lawyerID,
		Content:          models.NewContent(),
	}
	if err := st.CreateDisclosure(ctx, d); err != nil {
		t.Fatalf("create disclosure: %v", err)
	}
	objects, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	limits := config.UploadConfig{MaxFileSizeMB: 1, AllowedExtensions: []string{".pdf", ".png", ".jpg", ".jpeg", ".docx"}}
	return &env{
		svc:     NewService(st, loader{st}, objects, limits),
		st:      st,
		objects: objects,
		d:       d,
		callers: callers,
	}
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	payload := []byte("%PDF-1.4 fake drawing bytes \x00\x01\x02")

	f, err := e.svc.Upload(ctx, e.callers["inventor"], e.d.ID, Upload{Filename: "sketch.pdf", Body: bytes.NewReader(payload)})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if f.FileType != models.FileDrawing || f.FileSize != int64(len(payload)) || f.Bucket != "local" {
		t.Fatalf("file = %+v", f)
	}
	want := "uploads/" + e.d.ID.String() + "/"
	if !strings.HasPrefix(f.StorageKey, want) || !strings.HasSuffix(f.StorageKey, ".pdf") {
		t.Fatalf("key = %q", f.StorageKey)
	}

	obj, err := e.svc.Download(ctx, e.callers["lawyer"], f.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(obj.Body)
	obj.Body.Close()
	if !bytes.Equal(got, payload) || obj.File.OriginalFilename != "sketch.pdf" {
		t.Fatalf("download mismatch")
	}

	prev, err := e.svc.Preview(ctx, f.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	prev.Body.Close()
	if prev.ContentType() != "application/pdf" {
		t.Fatalf("content type = %q", prev.ContentType())
	}

	if _, err := e.svc.Download(ctx, e.callers["outsider"], f.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("outsider download: %v", err)
	}
}

func TestUploadValidation(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		caller string
		file   string
		size   int
		want   error
	}{
		{"bad extension", "inventor", "run.exe", 10, apperr.ErrInvalid},
		{"too large", "inventor", "big.png", 1024*1024 + 1, apperr.ErrInvalid},
		{"not owner", "outsider", "a.png", 10, apperr.ErrForbidden},
		{"exact cap", "inventor", "max.png", 1024 * 1024, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Upload(ctx, e.callers[tt.caller], e.d.ID, Upload{
				Filename: tt.file,
				Body:     bytes.NewReader(make([]byte, tt.size)),
			})
			if tt.want == nil && err != nil || tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	f, err := e.svc.Upload(ctx, e.callers["inventor"], e.d.ID, Upload{Filename: "a.docx", Body: strings.NewReader("doc")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if f.FileType != models.FileDocument {
		t.Fatalf("type = %s", f.FileType)
	}

	if err := e.svc.Delete(ctx, e.callers["lawyer"], f.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("lawyer delete: %v", err)
	}
	if err := e.svc.Delete(ctx, e.callers["inventor"], f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := e.objects.Get(ctx, f.StorageKey); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("object survived: %v", err)
	}
	if _, err := e.svc.Preview(ctx, f.ID); apperr.Message(err) != "File not found" {
		t.Fatalf("preview after delete: %v", err)
	}
}

func TestDeletePatentFileClearsReference(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	f, err := e.svc.Upload(ctx, e.callers["inventor"], e.d.ID, Upload{Filename: "patent.pdf", Body: strings.NewReader("%PDF")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	e.d.PatentFileID = &f.ID
	if err := e.st.UpdateDisclosure(ctx, e.d); err != nil {
		t.Fatalf("set patent file: %v", err)
	}

	if err := e.svc.Delete(ctx, e.callers["inventor"], f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := e.st.GetDisclosure(ctx, e.d.ID)
	if err != nil {
		t.Fatalf("get disclosure: %v", err)
	}
	if got.PatentFileID != nil {
		t.Fatalf("patent_file_id = %v, want nil", *got.PatentFileID)
	}
}
