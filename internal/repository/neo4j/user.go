package neo4j

import (
	"context"
	"fmt"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
)

// CreateUser inserts a new :User node with all profile fields. A duplicate
// id or username trips a schema constraint and comes back as
// apperror.ErrConflict; anything else is a store failure.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	avatar := user.Avatar
	if avatar == "" {
		avatar = model.DefaultAvatar
	}

	query := `
	CREATE (u:User {
		id: $id,
		name: $name,
		username: $username,
		email: $email,
		bio: $bio,
		avatar: $avatar
	})`

	_, err := s.run(ctx, query, map[string]any{
		"id":       user.ID,
		"name":     user.Name,
		"username": user.Username,
		"email":    user.Email,
		"bio":      user.Bio,
		"avatar":   avatar,
	})
	if err != nil {
		if isConstraintViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return apperror.Store(fmt.Sprintf("neo4j: creating user %s", user.ID), err)
	}
	return nil
}

// GetUserByID is a point lookup by id. Returns (nil, nil) when no such user
// exists.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
	MATCH (u:User {id: $id})
	RETURN u`

	result, err := s.run(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("neo4j: getting user %s", id), err)
	}

	if len(result.Records) == 0 {
		return nil, nil
	}

	node, err := nodeFromRecord(result.Records[0], "u")
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("neo4j: getting user %s", id), err)
	}
	return userFromNode(node), nil
}

// IsUsernameAvailable reports whether no user holds the username under
// case-folding.
func (s *Store) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := `
	MATCH (u:User)
	WHERE toLower(u.username) = toLower($username)
	RETURN count(u) AS count`

	return s.usernameCountIsZero(ctx, query, map[string]any{"username": username})
}

// IsUsernameAvailableForUser is the same check but ignores currentUserID's
// own node, so a profile update keeping the current username passes.
func (s *Store) IsUsernameAvailableForUser(ctx context.Context, username, currentUserID string) (bool, error) {
	query := `
	MATCH (u:User)
	WHERE toLower(u.username) = toLower($username) AND u.id <> $currentUserID
	RETURN count(u) AS count`

	return s.usernameCountIsZero(ctx, query, map[string]any{
		"username":      username,
		"currentUserID": currentUserID,
	})
}

func (s *Store) usernameCountIsZero(ctx context.Context, query string, params map[string]any) (bool, error) {
	result, err := s.run(ctx, query, params)
	if err != nil {
		return false, apperror.Store("neo4j: checking username availability", err)
	}
	if len(result.Records) == 0 {
		return false, apperror.Store("neo4j: checking username availability",
			fmt.Errorf("count query returned no rows"))
	}

	value, ok := result.Records[0].Get("count")
	if !ok {
		return false, apperror.Store("neo4j: checking username availability",
			fmt.Errorf("count query returned no count column"))
	}
	count, ok := value.(int64)
	if !ok {
		return false, apperror.Store("neo4j: checking username availability",
			fmt.Errorf("count has unexpected type %T", value))
	}
	return count == 0, nil
}

// UpdateUser overwrites the four mutable fields on the matching node and
// returns the post-update record. id and email never appear in the SET
// clause. Absence of the target is apperror.ErrNotFound; a username
// constraint violation is apperror.ErrConflict.
func (s *Store) UpdateUser(ctx context.Context, id, name, username, bio, avatar string) (*model.User, error) {
	query := `
	MATCH (u:User {id: $id})
	SET u.name = $name, u.username = $username, u.bio = $bio, u.avatar = $avatar
	RETURN u`

	result, err := s.run(ctx, query, map[string]any{
		"id":       id,
		"name":     name,
		"username": username,
		"bio":      bio,
		"avatar":   avatar,
	})
	if err != nil {
		if isConstraintViolation(err) {
			return nil, apperror.Conflict("username", username)
		}
		return nil, apperror.Store(fmt.Sprintf("neo4j: updating user %s", id), err)
	}

	if len(result.Records) == 0 {
		return nil, apperror.NotFound("user", id)
	}

	node, err := nodeFromRecord(result.Records[0], "u")
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("neo4j: updating user %s", id), err)
	}
	return userFromNode(node), nil
}

// ListUsersExcept returns every user other than id, username ascending.
func (s *Store) ListUsersExcept(ctx context.Context, id string) ([]model.User, error) {
	query := `
	MATCH (u:User)
	WHERE u.id <> $id
	RETURN u
	ORDER BY u.username ASC`

	result, err := s.run(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, apperror.Store("neo4j: listing users", err)
	}

	users, err := collectUsers(result, "u")
	if err != nil {
		return nil, apperror.Store("neo4j: listing users", err)
	}
	return users, nil
}
