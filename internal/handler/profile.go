// Package handler contains the HTTP layer: request parsing, identity
// extraction, and response writing. Every business rule lives one layer
// down in the services — handlers only translate between HTTP and plain
// Go calls.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tahmid/socialgraph/internal/auth"
	"github.com/tahmid/socialgraph/internal/service"
)

// ProfileHandler serves onboarding, profile pages, and profile updates.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// profileRequest is the body of onboarding and update requests. The user's
// id and email never appear here — they come from the verified token.
type profileRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// HandleOnboarding creates the caller's profile after first sign-in.
//
// HTTP: POST /api/onboarding (authenticated)
func (h *ProfileHandler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid onboarding JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	user, err := h.profiles.Onboard(r.Context(),
		identity.UserID, identity.Email,
		req.Name, req.Username, req.Bio, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleGetProfile returns a user's profile by id.
//
// HTTP: GET /api/profile/{userID} (public)
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	user, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleMe returns the authenticated caller's own profile.
//
// HTTP: GET /api/me (authenticated)
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.profiles.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile overwrites the caller's mutable profile fields.
//
// HTTP: PUT /api/profile (authenticated)
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid profile update JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	user, err := h.profiles.UpdateProfile(r.Context(),
		identity.UserID, identity.UserID,
		req.Name, req.Username, req.Bio, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// usernameCheckResponse is the body of the live availability check.
type usernameCheckResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// HandleUsernameCheck reports whether a username is valid and free.
//
// HTTP: GET /api/username-check?username=alice (public)
func (h *ProfileHandler) HandleUsernameCheck(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	available, err := h.profiles.CheckUsername(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usernameCheckResponse{
		Username:  username,
		Available: available,
	})
}
