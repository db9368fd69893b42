package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
	"github.com/tahmid/socialgraph/internal/repository"
)

// FeedService assembles a user's reverse-chronological feed.
type FeedService struct {
	feed   repository.FeedRepository
	logger *slog.Logger
}

// NewFeedService creates a FeedService.
func NewFeedService(feed repository.FeedRepository, logger *slog.Logger) *FeedService {
	return &FeedService{
		feed:   feed,
		logger: logger,
	}
}

// Feed returns the posts of everyone userID follows, newest first. An empty
// feed — a user following nobody, or followed users with no posts — is a
// normal empty slice, never an error.
func (s *FeedService) Feed(ctx context.Context, userID string) ([]model.FeedPost, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userID", "user ID is required")
	}

	posts, err := s.feed.FeedPosts(ctx, userID)
	if err != nil {
		s.logger.Error("failed to assemble feed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("assembling feed: %w", err)
	}
	return posts, nil
}
