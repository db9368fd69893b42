// Package repository defines the capability interfaces for the social graph
// store. Services depend on these interfaces, never on a concrete backend —
// the graph engine (Neo4j, embedded SQLite) is substitutable without
// touching a single call site.
package repository

import (
	"context"

	"github.com/tahmid/socialgraph/internal/model"
)

// UserRepository owns User nodes: creation, lookup, mutation, and the
// username uniqueness checks.
//
// ABSENCE VS FAILURE:
// GetUserByID returns (nil, nil) when no such user exists — a missing user
// is a normal outcome of a point lookup, not an error. UpdateUser is the
// one operation that reports absence as apperror.ErrNotFound, because its
// caller's intent presumes the target exists. Every method may also return
// apperror.ErrStore for an underlying query failure; the two must never be
// confused.
type UserRepository interface {
	// CreateUser inserts a new User node with all fields. Username
	// availability must have been checked by the caller; the store's own
	// uniqueness constraints are the backstop and surface as
	// apperror.ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByID returns the user, or (nil, nil) when absent.
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// IsUsernameAvailable reports whether no existing user holds the
	// username, compared under case-folding.
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)

	// IsUsernameAvailableForUser is the same check but excludes
	// currentUserID, so a user keeping their own username on a profile
	// update doesn't collide with themselves.
	IsUsernameAvailableForUser(ctx context.Context, username, currentUserID string) (bool, error)

	// UpdateUser overwrites the four mutable fields and returns the
	// post-update record. ID and email are never touched. Returns
	// apperror.ErrNotFound when no user has the id, apperror.ErrConflict
	// when the new username violates the store's uniqueness constraint.
	UpdateUser(ctx context.Context, id, name, username, bio, avatar string) (*model.User, error)

	// ListUsersExcept returns every user other than id, ordered ascending
	// by username for a stable explore listing.
	ListUsersExcept(ctx context.Context, id string) ([]model.User, error)
}

// FollowRepository owns the directed FOLLOWS edges.
//
// Follow and Unfollow are idempotent: following an already-followed user,
// or unfollowing a non-followed one, is a no-op rather than an error.
// Following a user id that doesn't exist is also a silent no-op — the merge
// matches nothing and creates nothing. That quirk is intentional and tested;
// callers that want a 404 must look the target up first.
//
// The listing methods return results ordered ascending by username. That
// ordering is a determinism aid for this implementation, not part of the
// contract — callers must not rely on it.
type FollowRepository interface {
	Follow(ctx context.Context, userID, targetID string) error
	Unfollow(ctx context.Context, userID, targetID string) error

	// Following returns all users that userID follows.
	Following(ctx context.Context, userID string) ([]model.User, error)

	// Followers returns all users that follow userID.
	Followers(ctx context.Context, userID string) ([]model.User, error)

	// Mutuals returns the users followed by both userID and otherID —
	// the intersection of the two following-sets.
	Mutuals(ctx context.Context, userID, otherID string) ([]model.User, error)
}

// FeedRepository assembles the reverse-chronological feed. Posts and their
// POSTED edges are written by external publishing collaborators; from this
// interface they are strictly read-only.
type FeedRepository interface {
	// FeedPosts returns every post authored by anyone userID follows,
	// sorted by createdAt descending with post id descending as the
	// stable tie-break for equal timestamps.
	FeedPosts(ctx context.Context, userID string) ([]model.FeedPost, error)
}

// SocialGraph is the full capability surface of the graph store. Both
// backends implement it; the server wires whichever one configuration
// selects.
type SocialGraph interface {
	UserRepository
	FollowRepository
	FeedRepository
}
