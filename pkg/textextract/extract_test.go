package textextract

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func TestExtractTXT(t *testing.T) {
	data := []byte("  claim text here \n")
	got, err := Extract(bytes.NewReader(data), int64(len(data)), ".txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Content != "claim text here" {
		t.Fatalf("content = %q", got.Content)
	}
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>A widget</w:t></w:r></w:p><w:p><w:t>that spins</w:t></w:p></w:body></w:document>`))
	zw.Close()

	got, err := Extract(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Content != "A widget that spins" {
		t.Fatalf("content = %q", got.Content)
	}
}

func TestExtractUnsupported(t *testing.T) {
	_, err := Extract(bytes.NewReader(nil), 0, ".png")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestSupports(t *testing.T) {
	for ext, want := range map[string]bool{".pdf": true, "PDF": true, ".docx": true, ".txt": true, ".png": false, "": false} {
		if got := Supports(ext); got != want {
			t.Errorf("Supports(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	if _, err := PDF([]byte("not a pdf"), 0); err == nil {
		t.Fatalf("expected error for non-PDF bytes")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
