package handlers

import (
	"net/http"

	"github.com/pyjuan91/Limira/internal/llm"
)

// ModelLister reports the models the LLM gateway can route to.
type ModelLister interface {
	ListModels() []llm.ModelInfo
}

type AdminHandler struct {
	models ModelLister
}

func NewAdminHandler(models ModelLister) *AdminHandler {
	return &AdminHandler{models: models}
}

func (h *AdminHandler) Models(w http.ResponseWriter, r *http.Request) {
	models := h.models.ListModels()
	if models == nil {
		models = []llm.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}
