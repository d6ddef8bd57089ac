package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/insights-workflows/api-service/internal/store"
	"github.com/insights-workflows/api-service/pkg/models"
)

// GetCatalogAgent is a point lookup into the global agent catalog.
// GET /get-agent/{id}
func (h *Handlers) GetCatalogAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	agent, err := h.Store.GetCatalogAgent(r.Context(), id)
	if err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		log.Error().Err(err).Str("id", id).Msg("Catalog lookup failed")
		respondError(w, http.StatusInternalServerError, "Error retrieving item")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item retrieved successfully",
		"item":    agent,
	})
}

// ListUserAgents returns the list-view projection of a user's agents.
// An unknown user yields an empty list, same as a user with no agents.
// GET /api/get-agents/{uGuid}
func (h *Handlers) ListUserAgents(w http.ResponseWriter, r *http.Request) {
	uGuid := chi.URLParam(r, "uGuid")
	if uGuid == "" {
		respondError(w, http.StatusBadRequest, "uGuid is required")
		return
	}

	agents, err := h.Store.ListUserAgents(r.Context(), uGuid)
	if err != nil {
		if _, ok := err.(*store.ErrNotFound); !ok {
			log.Error().Err(err).Str("uGuid", uGuid).Msg("Agent list failed")
			respondError(w, http.StatusInternalServerError, "Failed to fetch agents")
			return
		}
	}

	summaries := make([]models.AgentSummary, 0, len(agents))
	for _, a := range agents {
		summaries = append(summaries, a.Summary())
	}
	respondJSON(w, http.StatusOK, summaries)
}

// PostAgent appends an agent to the user's list, then bumps the agent
// counter. The two writes are separate updates; a crash in between leaves
// the counter behind the list length.
// POST /post-agent
func (h *Handlers) PostAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UGuid string        `json:"uGuid"`
		Agent *models.Agent `json:"agent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UGuid == "" || req.Agent == nil {
		respondError(w, http.StatusBadRequest, "uGuid and agent are required.")
		return
	}

	agent := *req.Agent
	if agent.Chat == nil {
		agent.Chat = []models.ChatTurn{}
	}

	if err := h.Store.AppendAgent(r.Context(), req.UGuid, agent); err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Error().Err(err).Str("uGuid", req.UGuid).Msg("Agent append failed")
		respondError(w, http.StatusInternalServerError, "Error adding agent")
		return
	}

	if err := h.Store.IncrementAgentCount(r.Context(), req.UGuid); err != nil {
		log.Error().Err(err).Str("uGuid", req.UGuid).Msg("Agent count increment failed")
		respondError(w, http.StatusInternalServerError, "Error adding agent")
		return
	}

	log.Info().Str("uGuid", req.UGuid).Str("agent", agent.ID).Msg("Agent added")
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Agent added and agentCount incremented successfully!",
	})
}
