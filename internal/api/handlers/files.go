package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/pyjuan91/Limira/internal/attachment"
	"github.com/pyjuan91/Limira/internal/chat"
)

const (
	multipartMemory = 32 << 20
	// multipartOverhead covers boundaries, part headers and small fields.
	multipartOverhead = 1 << 20
)

type FileHandler struct {
	svc *attachment.Service
}

func NewFileHandler(svc *attachment.Service) *FileHandler {
	return &FileHandler{svc: svc}
}

// formFile reads one uploaded file. Bodies beyond limit plus the multipart
// overhead are cut off before they are spooled, answering tooLarge.
func formFile(w http.ResponseWriter, r *http.Request, field string, limit int64, tooLarge error) (io.ReadCloser, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, r, tooLarge)
			return nil, "", false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return nil, "", false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": field + " required"})
		return nil, "", false
	}
	return file, header.Filename, true
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "disclosure_id")
	if !ok {
		return
	}
	limits := h.svc.Limits()
	file, name, ok := formFile(w, r, "file", limits.MaxBytes(), attachment.TooLarge(limits.MaxFileSizeMB))
	if !ok {
		return
	}
	defer file.Close()

	f, err := h.svc.Upload(r.Context(), caller(r), id, attachment.Upload{Filename: name, Body: file})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "disclosure_id")
	if !ok {
		return
	}
	files, err := h.svc.List(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "file_id")
	if !ok {
		return
	}
	obj, err := h.svc.Download(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	serveObject(w, obj, "attachment", "application/octet-stream")
}

func (h *FileHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "file_id")
	if !ok {
		return
	}
	obj, err := h.svc.Preview(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	serveObject(w, obj, "inline", obj.ContentType())
}

func serveObject(w http.ResponseWriter, obj *attachment.Object, disposition, contentType string) {
	defer obj.Body.Close()
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", contentDisposition(disposition, obj.File.OriginalFilename))
	w.Header().Set("Content-Length", strconv.FormatInt(obj.File.FileSize, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		slog.Warn("stream file", "file_id", obj.File.ID, "error", err)
	}
}

// contentDisposition formats the header. If it cannot be formatted the
// download falls back to an attachment with a plain ASCII filename.
func contentDisposition(disposition, filename string) string {
	if v := mime.FormatMediaType(disposition, map[string]string{"filename": filename}); v != "" {
		return v
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": asciiFilename(filename)}); v != "" {
		return v
	}
	return "attachment"
}

func asciiFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '"' || r == '\\' || r == '/':
			return '_'
		case r < 0x20 || r > 0x7e:
			return -1
		}
		return r
	}, name)
	ext := path.Ext(clean)
	if strings.TrimSpace(strings.TrimSuffix(clean, ext)) == "" {
		return "download" + ext
	}
	return clean
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "file_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), caller(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ChatHandler struct {
	chat    *chat.Service
	patents *chat.PatentAnalyzer
}

func NewChatHandler(c *chat.Service, patents *chat.PatentAnalyzer) *ChatHandler {
	return &ChatHandler{chat: c, patents: patents}
}

func (h *ChatHandler) Assistant(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.chat.Respond(r.Context(), caller(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) AnalyzePatent(w http.ResponseWriter, r *http.Request) {
	file, name, ok := formFile(w, r, "file", chat.MaxPatentUpload, chat.ErrPatentTooLarge)
	if !ok {
		return
	}
	defer file.Close()

	number := r.URL.Query().Get("patent_number")
	if number == "" {
		number = r.FormValue("patent_number")
	}
	report, err := h.patents.Analyze(r.Context(), name, number, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ChatHandler) QuickSummary(w http.ResponseWriter, r *http.Request) {
	file, name, ok := formFile(w, r, "file", chat.MaxPatentUpload, chat.ErrPatentTooLarge)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.patents.QuickSummary(r.Context(), name, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
