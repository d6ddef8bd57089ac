package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/insights-workflows/api-service/internal/store"
	"github.com/insights-workflows/api-service/pkg/models"
)

// ListWorkflows returns the workflow templates the dashboard browses.
// GET /api/get-workflows
func (h *Handlers) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.Store.ListWorkflows(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Workflow list failed")
		respondError(w, http.StatusInternalServerError, "Failed to fetch workflows")
		return
	}
	if workflows == nil {
		workflows = []models.Workflow{}
	}
	respondJSON(w, http.StatusOK, workflows)
}

// GetWorkflow is a point lookup of one workflow template.
// GET /get-workflow/{id}
func (h *Handlers) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wf, err := h.Store.GetWorkflow(r.Context(), id)
	if err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Error().Err(err).Str("id", id).Msg("Workflow lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to fetch workflow")
		return
	}
	respondJSON(w, http.StatusOK, wf)
}
