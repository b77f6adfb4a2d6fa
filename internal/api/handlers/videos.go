package handlers

import (
	"net/http"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/stt"
	"github.com/pyjuan91/Limira/internal/videosession"
)

const maxAudioUpload = 25 << 20

var errAudioTooLarge = apperr.Invalid("File too large. Maximum size is 25MB")

type VideoHandler struct {
	svc *videosession.Service
}

func NewVideoHandler(svc *videosession.Service) *VideoHandler {
	return &VideoHandler{svc: svc}
}

func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req videosession.CreateRequest
	if !decode(w, r, &req) {
		return
	}
	vs, err := h.svc.Create(r.Context(), caller(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vs)
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "disclosure_id")
	if !ok {
		return
	}
	list, err := h.svc.List(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "session_id")
	if !ok {
		return
	}
	vs, err := h.svc.Get(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "session_id")
	if !ok {
		return
	}
	var req videosession.UpdateRequest
	if !decode(w, r, &req) {
		return
	}
	vs, err := h.svc.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *VideoHandler) End(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "session_id")
	if !ok {
		return
	}
	var req videosession.EndRequest
	if !decode(w, r, &req) {
		return
	}
	vs, err := h.svc.End(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *VideoHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "session_id")
	if !ok {
		return
	}
	audio, name, ok := formFile(w, r, "audio", maxAudioUpload, errAudioTooLarge)
	if !ok {
		return
	}
	defer audio.Close()

	vs, err := h.svc.Transcribe(r.Context(), caller(r), id, stt.Audio{
		Filename: name,
		Body:     audio,
		Language: r.FormValue("language"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "session_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), caller(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
