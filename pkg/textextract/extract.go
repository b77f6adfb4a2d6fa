package textextract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupported is returned for file types with no extractor.
var ErrUnsupported = errors.New("unsupported file type")

type ExtractedText struct {
	Content  string
	Pages    int
	Metadata map[string]string
}

// Options limits how much of a document is read. Zero means no limit.
type Options struct {
	MaxPages int
}

func Extract(data io.ReaderAt, size int64, fileType string) (*ExtractedText, error) {
	return ExtractWithOptions(data, size, fileType, Options{})
}

func ExtractWithOptions(data io.ReaderAt, size int64, fileType string, opts Options) (*ExtractedText, error) {
	switch strings.ToLower(fileType) {
	case ".pdf", "pdf", "application/pdf":
		return extractPDF(data, size, opts.MaxPages)
	case ".docx", "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return extractDOCX(data, size)
	case ".txt", "txt", "text/plain":
		return extractTXT(data, size)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, fileType)
	}
}

// PDF extracts the text of a PDF held in memory, reading at most maxPages
// pages when maxPages > 0.
func PDF(data []byte, maxPages int) (*ExtractedText, error) {
	return extractPDF(bytes.NewReader(data), int64(len(data)), maxPages)
}

func SupportedTypes() []string {
	return []string{".pdf", ".docx", ".txt"}
}

// Supports reports whether ext (with or without the dot) has an extractor.
func Supports(ext string) bool {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return slices.Contains(SupportedTypes(), ext)
}

func extractPDF(data io.ReaderAt, size int64, maxPages int) (*ExtractedText, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := reader.NumPage()
	last := numPages
	if maxPages > 0 && maxPages < last {
		last = maxPages
	}

	// Pages are separated by a blank line; empty pages are skipped.
	var pages []string
	for i := 1; i <= last; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return &ExtractedText{
		Content: strings.Join(pages, "\n\n"),
		Pages:   numPages,
		Metadata: map[string]string{
			"type":       "pdf",
			"pages_read": fmt.Sprint(last),
		},
	}, nil
}

func extractDOCX(data io.ReaderAt, size int64) (*ExtractedText, error) {
	reader, err := zip.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open DOCX: %w", err)
	}

	var buf strings.Builder
	for _, f := range reader.File {
		if filepath.Base(f.Name) != "document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		buf.WriteString(stripXMLTags(string(content)))
		break
	}

	return &ExtractedText{
		Content:  buf.String(),
		Pages:    1,
		Metadata: map[string]string{"type": "docx"},
	}, nil
}

func extractTXT(data io.ReaderAt, size int64) (*ExtractedText, error) {
	buf := make([]byte, size)
	_, err := data.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read TXT: %w", err)
	}

	return &ExtractedText{
		Content:  string(bytes.TrimSpace(buf)),
		Pages:    1,
		Metadata: map[string]string{"type": "txt"},
	}, nil
}

func stripXMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
