// Package handlers implements the HTTP handlers for the Insights & Workflows
// API service. Every handler is a single linear request/response: at most a
// couple of store calls and, for chat, one upstream completion call.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/insights-workflows/api-service/internal/auth"
	"github.com/insights-workflows/api-service/internal/completion"
	"github.com/insights-workflows/api-service/internal/store"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Store       store.Store
	Completions completion.Client
	Tokens      *auth.TokenIssuer

	// CookieTTL is the lifetime of both session cookies.
	CookieTTL time.Duration

	// BcryptCost overrides the password hashing cost; zero means the default.
	BcryptCost int
}

// New creates a new Handlers instance with all dependencies.
func New(s store.Store, c completion.Client, t *auth.TokenIssuer, cookieTTL time.Duration) *Handlers {
	return &Handlers{
		Store:       s,
		Completions: c,
		Tokens:      t,
		CookieTTL:   cookieTTL,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
