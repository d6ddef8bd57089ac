package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/insights-workflows/api-service/internal/api/handlers"
	"github.com/insights-workflows/api-service/internal/api/middleware"
	"github.com/insights-workflows/api-service/internal/config"
)

// NewRouter creates the HTTP router with all API routes. The route paths
// are the ones the deployed SPA calls; the /api prefix is historical and
// only some routes carry it.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health & info
	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler(cfg))

	// Auth & session
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/api/get-user-details", h.GetUserDetails)
	r.Post("/update-logged-before", h.UpdateLoggedBefore)

	// Agents
	r.Get("/get-agent/{id}", h.GetCatalogAgent)
	r.Get("/api/get-agents/{uGuid}", h.ListUserAgents)
	r.Post("/post-agent", h.PostAgent)

	// Chat
	r.Get("/chat-history-agent/{uGuid}/{agentID}", h.GetChatHistory)
	r.Post("/api/chat/{uGuid}/{agentID}", h.PostChat)

	// Workflows
	r.Get("/api/get-workflows", h.ListWorkflows)
	r.Get("/get-workflow/{id}", h.GetWorkflow)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "insights-workflows-api",
	})
}

func versionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"version": cfg.Version,
			"service": "insights-workflows-api",
		})
	}
}
