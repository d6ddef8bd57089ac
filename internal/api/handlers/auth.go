package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/insights-workflows/api-service/internal/auth"
	"github.com/insights-workflows/api-service/internal/store"
	"github.com/insights-workflows/api-service/pkg/models"
)

// Register creates a new user record with a hashed password and empty
// agent/training collections.
// POST /register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email, and password are required.")
		return
	}

	cost := h.BcryptCost
	if cost == 0 {
		cost = auth.DefaultBcryptCost
	}
	hash, err := auth.HashPassword(req.Password, cost)
	if err != nil {
		log.Error().Err(err).Msg("Password hashing failed")
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred during registration.")
		return
	}

	user := &models.User{
		UGuid:         uuid.New().String(),
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		CreatedAt:     models.NowISO(),
		TrainingInfo:  []string{},
		WorkflowRunID: []string{},
		Agents:        []models.Agent{},
	}

	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "Email already registered.")
			return
		}
		log.Error().Err(err).Msg("Registration failed")
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred during registration.")
		return
	}

	log.Info().Str("uGuid", user.UGuid).Msg("User registered")
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful!"})
}

// Login authenticates by email+password, mints a fresh opaque session
// token onto the user record, and sets both signed cookies.
// POST /login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			respondError(w, http.StatusNotFound, "User not found.")
			return
		}
		log.Error().Err(err).Msg("Login lookup failed")
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	sessionToken := auth.NewSessionToken()
	if err := h.Store.SetSessionToken(r.Context(), user.UGuid, sessionToken); err != nil {
		log.Error().Err(err).Msg("Session token persist failed")
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	identity, err := h.Tokens.IssueSession(user)
	if err != nil {
		log.Error().Err(err).Msg("Session token signing failed")
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	logged, err := h.Tokens.IssueLogged(user.LoggedBefore)
	if err != nil {
		log.Error().Err(err).Msg("Logged token signing failed")
		respondError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	auth.SetCookie(w, auth.SessionCookie, identity, h.CookieTTL)
	auth.SetCookie(w, auth.LoggedCookie, logged, h.CookieTTL)

	log.Info().Str("uGuid", user.UGuid).Msg("User logged in")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful.",
		"user":    user.View(),
	})
}

// Logout clears both cookies. The opaque token stored on the user record
// is left in place; nothing validates it on later requests.
// POST /logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w, auth.SessionCookie)
	auth.ClearCookie(w, auth.LoggedCookie)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully."})
}

// GetUserDetails decodes both cookies independently and returns their
// claims. Each cookie failure mode gets its own 401 message.
// GET /api/get-user-details
func (h *Handlers) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Session token missing")
		return
	}
	loggedCookie, err := r.Cookie(auth.LoggedCookie)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Logged token missing")
		return
	}

	user, err := h.Tokens.VerifySession(sessionCookie.Value)
	if err != nil {
		respondTokenError(w, err)
		return
	}
	logged, err := h.Tokens.VerifyLogged(loggedCookie.Value)
	if err != nil {
		respondTokenError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"logged": logged,
	})
}

// UpdateLoggedBefore unconditionally writes the first-login flag and
// reissues the flag cookie with the new value.
// POST /update-logged-before
func (h *Handlers) UpdateLoggedBefore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UGuid        string `json:"uGuid"`
		LoggedBefore *bool  `json:"loggedBefore"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UGuid == "" || req.LoggedBefore == nil {
		respondError(w, http.StatusBadRequest, "Invalid input. Please provide uGuid and loggedBefore (boolean).")
		return
	}

	if err := h.Store.SetLoggedBefore(r.Context(), req.UGuid, *req.LoggedBefore); err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Error().Err(err).Msg("loggedBefore update failed")
		respondError(w, http.StatusInternalServerError, "Error updating loggedBefore")
		return
	}

	logged, err := h.Tokens.IssueLogged(*req.LoggedBefore)
	if err != nil {
		log.Error().Err(err).Msg("Logged token signing failed")
		respondError(w, http.StatusInternalServerError, "Error updating loggedBefore")
		return
	}
	auth.SetCookie(w, auth.LoggedCookie, logged, h.CookieTTL)

	log.Info().Str("uGuid", req.UGuid).Bool("loggedBefore", *req.LoggedBefore).Msg("loggedBefore updated")
	respondJSON(w, http.StatusOK, map[string]string{"message": "loggedBefore updated successfully!"})
}

func respondTokenError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrTokenExpired) {
		respondError(w, http.StatusUnauthorized, "Token expired")
		return
	}
	respondError(w, http.StatusUnauthorized, "Invalid token")
}
