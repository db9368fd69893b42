package handler

import (
	"log/slog"
	"net/http"

	"github.com/tahmid/socialgraph/internal/auth"
	"github.com/tahmid/socialgraph/internal/service"
)

// FeedHandler serves the caller's home feed.
type FeedHandler struct {
	feed   *service.FeedService
	logger *slog.Logger
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(feed *service.FeedService, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: logger}
}

// HandleFeed returns the posts of everyone the caller follows, newest
// first. An empty feed is an empty JSON array, not an error.
//
// HTTP: GET /api/feed (authenticated)
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	posts, err := h.feed.Feed(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}
