package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/disclosure"
	"github.com/pyjuan91/Limira/internal/draft"
	"github.com/pyjuan91/Limira/internal/models"
)

type DisclosureHandler struct {
	svc    *disclosure.Service
	drafts *draft.Service
}

func NewDisclosureHandler(svc *disclosure.Service, drafts *draft.Service) *DisclosureHandler {
	return &DisclosureHandler{svc: svc, drafts: drafts}
}

func (h *DisclosureHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *DisclosureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req disclosure.CreateRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.Create(r.Context(), caller(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *DisclosureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.svc.Get(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisclosureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req disclosure.UpdateRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisclosureHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.DisclosureStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.UpdateStatus(r.Context(), caller(r), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisclosureHandler) AssignLawyer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		LawyerID uuid.UUID `json:"lawyer_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.AssignLawyer(r.Context(), caller(r), id, req.LawyerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisclosureHandler) Versions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	versions, err := h.svc.Versions(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *DisclosureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), caller(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DisclosureHandler) SetPatentFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	fileID, err := uuid.Parse(r.URL.Query().Get("file_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid file_id"})
		return
	}
	d, err := h.svc.SetPatentFile(r.Context(), caller(r), id, fileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisclosureHandler) AnalyzePatent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.svc.AnalyzePatent(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Drafts

func (h *DisclosureHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "disclosure_id")
	if !ok {
		return
	}
	d, err := h.drafts.Get(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisclosureHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "draft_id")
	if !ok {
		return
	}
	var req draft.SectionUpdate
	if !decode(w, r, &req) {
		return
	}
	d, err := h.drafts.UpdateSection(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisclosureHandler) UpdateFullText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "draft_id")
	if !ok {
		return
	}
	var req draft.FullTextUpdate
	if !decode(w, r, &req) {
		return
	}
	d, err := h.drafts.UpdateFullText(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisclosureHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "disclosure_id")
	if !ok {
		return
	}
	var req disclosure.ApproveRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Approve(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *DisclosureHandler) RequestRevision(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "disclosure_id")
	if !ok {
		return
	}
	var req disclosure.RevisionRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.RequestRevision(r.Context(), caller(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
