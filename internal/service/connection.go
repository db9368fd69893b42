package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
	"github.com/tahmid/socialgraph/internal/repository"
)

// ConnectionService manages the directed follow graph: follow/unfollow and
// the derived listings (following, followers, mutuals, explore).
type ConnectionService struct {
	graph  repository.FollowRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewConnectionService creates a ConnectionService.
func NewConnectionService(graph repository.FollowRepository, users repository.UserRepository, logger *slog.Logger) *ConnectionService {
	return &ConnectionService{
		graph:  graph,
		users:  users,
		logger: logger,
	}
}

// Follow creates the follow edge callerID → targetID.
//
// The store doesn't prevent self-loops — that guard belongs to callers, and
// this is the caller. Following a nonexistent target is a silent no-op at
// the store level, preserved as-is; the UI only offers follow buttons on
// profiles it has already loaded.
func (s *ConnectionService) Follow(ctx context.Context, callerID, targetID string) error {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return apperror.ValidationFailed("targetID", "target user ID is required")
	}
	if callerID == targetID {
		return apperror.ValidationFailed("targetID", "you cannot follow yourself")
	}

	if err := s.graph.Follow(ctx, callerID, targetID); err != nil {
		s.logger.Error("failed to create follow",
			slog.String("userID", callerID),
			slog.String("targetID", targetID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("following %s: %w", targetID, err)
	}

	s.logger.Info("follow created",
		slog.String("userID", callerID),
		slog.String("targetID", targetID),
	)
	return nil
}

// Unfollow removes the follow edge callerID → targetID. Unfollowing someone
// the caller never followed is a no-op, not an error.
func (s *ConnectionService) Unfollow(ctx context.Context, callerID, targetID string) error {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return apperror.ValidationFailed("targetID", "target user ID is required")
	}

	if err := s.graph.Unfollow(ctx, callerID, targetID); err != nil {
		s.logger.Error("failed to remove follow",
			slog.String("userID", callerID),
			slog.String("targetID", targetID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("unfollowing %s: %w", targetID, err)
	}

	s.logger.Info("follow removed",
		slog.String("userID", callerID),
		slog.String("targetID", targetID),
	)
	return nil
}

// Following returns the users that userID follows.
func (s *ConnectionService) Following(ctx context.Context, userID string) ([]model.User, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userID", "user ID is required")
	}

	users, err := s.graph.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing following: %w", err)
	}
	return users, nil
}

// Followers returns the users that follow userID.
func (s *ConnectionService) Followers(ctx context.Context, userID string) ([]model.User, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userID", "user ID is required")
	}

	users, err := s.graph.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing followers: %w", err)
	}
	return users, nil
}

// Mutuals returns the users both callerID and otherID follow.
func (s *ConnectionService) Mutuals(ctx context.Context, callerID, otherID string) ([]model.User, error) {
	otherID = strings.TrimSpace(otherID)
	if otherID == "" {
		return nil, apperror.ValidationFailed("userID", "user ID is required")
	}

	users, err := s.graph.Mutuals(ctx, callerID, otherID)
	if err != nil {
		return nil, fmt.Errorf("listing mutual connections: %w", err)
	}
	return users, nil
}

// Explore returns every user except the caller, username ascending — the
// stable listing behind the "find people to follow" page.
func (s *ConnectionService) Explore(ctx context.Context, callerID string) ([]model.User, error) {
	users, err := s.users.ListUsersExcept(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
