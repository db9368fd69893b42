// Package service contains the business logic layer: the callers of the
// graph store that own request-field validation, the availability
// pre-checks, and the caller-identity rules. The store itself consumes
// already-validated primitives — every rule about lengths, character sets,
// and who may touch what lives here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
	"github.com/tahmid/socialgraph/internal/repository"
)

// Profile field rules. These mirror what the clients render, so changing
// one side means changing the other.
const (
	MaxNameLength     = 50
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MaxBioLength      = 160
)

var (
	// Letters, digits, underscore — nothing else.
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	// The fixed avatar set shipped with the clients.
	avatarPattern = regexp.MustCompile(`^avatar_[1-8]$`)
)

// ProfileService handles onboarding, profile retrieval, and profile
// updates. It depends on the repository interface, not a concrete backend.
type ProfileService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(users repository.UserRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		logger: logger,
	}
}

// Onboard creates the user's profile after their first sign-in.
//
// id and email come from the identity provider's verified token, never from
// the request body — the caller identity contract. The availability
// pre-check turns a taken username into ErrConflict before we ever hit the
// store; the store's own uniqueness constraint backstops the race where two
// onboardings pass the check concurrently.
func (s *ProfileService) Onboard(ctx context.Context, id, email, name, username, bio, avatar string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user identity is required")
	}

	name, username, bio, avatar, err := validateProfileFields(name, username, bio, avatar)
	if err != nil {
		return nil, err
	}

	available, err := s.users.IsUsernameAvailable(ctx, username)
	if err != nil {
		s.logger.Error("username availability check failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("onboarding user %s: %w", id, err)
	}
	if !available {
		return nil, apperror.Conflict("username", username)
	}

	user := &model.User{
		ID:       id,
		Name:     name,
		Username: username,
		Email:    email,
		Bio:      bio,
		Avatar:   avatar,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("userID", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("onboarding user %s: %w", id, err)
	}

	s.logger.Info("user onboarded",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// GetProfile returns the profile for the given user id.
//
// The repository reports absence as (nil, nil); this is where that benign
// absence becomes ErrNotFound, because a profile page request presumes the
// profile exists and needs a 404.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user",
			slog.String("userID", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("getting profile %s: %w", id, err)
	}
	if user == nil {
		return nil, apperror.NotFound("user", id)
	}

	return user, nil
}

// CheckUsername reports whether the username is valid and available.
// Used by the onboarding form's live check.
func (s *ProfileService) CheckUsername(ctx context.Context, username string) (bool, error) {
	if err := validateUsername(username); err != nil {
		return false, err
	}

	available, err := s.users.IsUsernameAvailable(ctx, username)
	if err != nil {
		return false, fmt.Errorf("checking username %q: %w", username, err)
	}
	return available, nil
}

// UpdateProfile overwrites the mutable profile fields of userID.
//
// Only the user themselves may update their profile — callerID must equal
// userID or the caller gets ErrForbidden. The self-excluding availability
// check lets the user keep their current username without colliding with
// themselves. id and email are never updated.
func (s *ProfileService) UpdateProfile(ctx context.Context, callerID, userID, name, username, bio, avatar string) (*model.User, error) {
	if callerID != userID {
		return nil, apperror.Forbidden("you can only update your own profile")
	}

	name, username, bio, avatar, err := validateProfileFields(name, username, bio, avatar)
	if err != nil {
		return nil, err
	}

	available, err := s.users.IsUsernameAvailableForUser(ctx, username, userID)
	if err != nil {
		s.logger.Error("username availability check failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating profile %s: %w", userID, err)
	}
	if !available {
		return nil, apperror.Conflict("username", username)
	}

	user, err := s.users.UpdateUser(ctx, userID, name, username, bio, avatar)
	if err != nil {
		// NotFound propagates as-is; it's already a proper apperror.
		return nil, fmt.Errorf("updating profile %s: %w", userID, err)
	}

	s.logger.Info("profile updated",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// validateProfileFields normalises and validates the four mutable profile
// fields, returning the cleaned values.
func validateProfileFields(name, username, bio, avatar string) (string, string, string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", "", "", apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxNameLength {
		return "", "", "", "", apperror.ValidationFailed("name",
			fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}

	if err := validateUsername(username); err != nil {
		return "", "", "", "", err
	}

	if len(bio) > MaxBioLength {
		return "", "", "", "", apperror.ValidationFailed("bio",
			fmt.Sprintf("bio must be at most %d characters", MaxBioLength))
	}

	if avatar == "" {
		avatar = model.DefaultAvatar
	}
	if !avatarPattern.MatchString(avatar) {
		return "", "", "", "", apperror.ValidationFailed("avatar", "unknown avatar identifier")
	}

	return name, username, bio, avatar, nil
}

func validateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return apperror.ValidationFailed("username",
			fmt.Sprintf("username must be at least %d characters", MinUsernameLength))
	}
	if len(username) > MaxUsernameLength {
		return apperror.ValidationFailed("username",
			fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return apperror.ValidationFailed("username",
			"username can only contain letters, numbers, and underscores")
	}
	return nil
}
