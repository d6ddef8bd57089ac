package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/insights-workflows/api-service/internal/store"
	"github.com/insights-workflows/api-service/pkg/models"
)

// chatLogEntry is the wire shape of one history entry, with placeholder
// text substituted for any field a stored record is missing.
type chatLogEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	ID      string `json:"id"`
}

// GetChatHistory returns the full chat log of one of the user's agents.
// GET /chat-history-agent/{uGuid}/{agentID}
func (h *Handlers) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	uGuid := chi.URLParam(r, "uGuid")
	agentID := chi.URLParam(r, "agentID")

	agents, err := h.Store.ListUserAgents(r.Context(), uGuid)
	if err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			respondError(w, http.StatusNotFound, "No chat history found for the specified user.")
			return
		}
		log.Error().Err(err).Str("uGuid", uGuid).Msg("Chat history fetch failed")
		respondError(w, http.StatusInternalServerError, "Failed to fetch chat history.")
		return
	}

	idx := findAgent(agents, agentID)
	if idx < 0 {
		respondError(w, http.StatusNotFound, "No agent found with the specified ID.")
		return
	}

	chat := agents[idx].Chat
	logs := make([]chatLogEntry, 0, len(chat))
	for i, turn := range chat {
		logs = append(logs, chatLogEntry{
			Role:    fallback(turn.Role, "role", i),
			Content: fallback(turn.Content, "content", i),
			ID:      fallback(turn.ID, "id", i),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"chatLogs": logs})
}

// PostChat relays a user message to the completion API and appends the
// user/assistant turn pair to the agent's chat log. Turn ids are derived
// from the client-supplied history length, not from server-side state.
// POST /api/chat/{uGuid}/{agentID}
func (h *Handlers) PostChat(w http.ResponseWriter, r *http.Request) {
	uGuid := chi.URLParam(r, "uGuid")
	agentID := chi.URLParam(r, "agentID")

	var req struct {
		UserMessage string            `json:"userMessage"`
		Chat        []models.ChatTurn `json:"chat"`
		UserName    string            `json:"userName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.Completions.Reply(r.Context(), req.UserName, req.Chat, req.UserMessage)
	if err != nil {
		log.Error().Err(err).Str("uGuid", uGuid).Str("agent", agentID).Msg("Completion call failed")
		respondError(w, http.StatusInternalServerError, "An error occurred.")
		return
	}

	agents, err := h.Store.ListUserAgents(r.Context(), uGuid)
	if err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			respondError(w, http.StatusNotFound, "Agents list not found.")
			return
		}
		log.Error().Err(err).Str("uGuid", uGuid).Msg("Agent lookup failed")
		respondError(w, http.StatusInternalServerError, "An error occurred.")
		return
	}

	idx := findAgent(agents, agentID)
	if idx < 0 {
		respondError(w, http.StatusNotFound, "Agent not found.")
		return
	}

	n := len(req.Chat)
	turns := []models.ChatTurn{
		{ID: strconv.Itoa(n + 1), Role: models.RoleUser, Content: req.UserMessage},
		{ID: strconv.Itoa(n + 2), Role: models.RoleAssistant, Content: reply},
	}

	if err := h.Store.AppendChatTurns(r.Context(), uGuid, idx, turns); err != nil {
		log.Error().Err(err).Str("uGuid", uGuid).Str("agent", agentID).Msg("Chat append failed")
		respondError(w, http.StatusInternalServerError, "An error occurred.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// findAgent locates an agent by either its canonical or legacy id.
func findAgent(agents []models.Agent, agentID string) int {
	for i, a := range agents {
		if a.ID == agentID || a.LegacyID == agentID {
			return i
		}
	}
	return -1
}

func fallback(value, field string, index int) string {
	if value != "" {
		return value
	}
	return fmt.Sprintf("No %s provided (entry %d)", field, index+1)
}
