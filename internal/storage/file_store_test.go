package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/pyjuan91/Limira/internal/config"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if fs.Bucket() != "local" {
		t.Fatalf("bucket = %q, want local", fs.Bucket())
	}

	payload := []byte("%PDF-1.4 binary\x00\x01\x02")
	key := "uploads/d1/abc.pdf"
	if err := fs.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}

	rc, err := fs.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, payload) {
		t.Fatalf("content mismatch: %q", got)
	}

	if err := fs.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fs.Get(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("err = %v, want ErrObjectNotFound", err)
	}
	if err := fs.Delete(ctx, key); err != nil {
		t.Fatalf("deleting a missing key should be a no-op: %v", err)
	}
}

func TestFileStoreRejectsEscapingKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	for _, key := range []string{"../etc/passwd", "/abs/path", ".."} {
		if err := fs.Put(context.Background(), key, bytes.NewReader(nil), 0, ""); err == nil {
			t.Fatalf("Put(%q) should fail", key)
		}
	}
}

func TestNewSelectsBackend(t *testing.T) {
	s, err := New(config.StorageConfig{Backend: "local", LocalPath: t.TempDir()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("backend = %T, want *FileStore", s)
	}
	if _, err := New(config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}
