package handler

import (
	"log/slog"
	"net/http"

	"github.com/tahmid/socialgraph/internal/auth"
	"github.com/tahmid/socialgraph/internal/service"
)

// ConnectionHandler serves follow/unfollow and the connection listings.
// All routes here require authentication — every one of them is anchored
// on the caller's identity.
type ConnectionHandler struct {
	connections *service.ConnectionService
	logger      *slog.Logger
}

// NewConnectionHandler creates a ConnectionHandler.
func NewConnectionHandler(connections *service.ConnectionService, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, logger: logger}
}

// HandleFollow creates a follow edge from the caller to the target.
//
// HTTP: POST /api/users/{userID}/follow
func (h *ConnectionHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	targetID := r.PathValue("userID")

	if err := h.connections.Follow(r.Context(), identity.UserID, targetID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUnfollow removes the caller's follow edge to the target.
//
// HTTP: DELETE /api/users/{userID}/follow
func (h *ConnectionHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	targetID := r.PathValue("userID")

	if err := h.connections.Unfollow(r.Context(), identity.UserID, targetID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleFollowing lists the users the caller follows.
//
// HTTP: GET /api/connections/following
func (h *ConnectionHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := h.connections.Following(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleFollowers lists the users following the caller.
//
// HTTP: GET /api/connections/followers
func (h *ConnectionHandler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := h.connections.Followers(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleMutuals lists the users both the caller and the given user follow.
//
// HTTP: GET /api/connections/mutuals/{userID}
func (h *ConnectionHandler) HandleMutuals(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	otherID := r.PathValue("userID")

	users, err := h.connections.Mutuals(r.Context(), identity.UserID, otherID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleExplore lists every user except the caller, username ascending.
//
// HTTP: GET /api/explore
func (h *ConnectionHandler) HandleExplore(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := h.connections.Explore(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
