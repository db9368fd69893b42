package sqlite

import (
	"context"
	"fmt"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
)

// Follow creates the FOLLOWS edge userID → targetID if it doesn't exist.
//
// The INSERT selects the ids from the users table rather than binding them
// directly, so when either endpoint doesn't exist the statement matches
// nothing and inserts nothing — a silent no-op, mirroring the graph
// backend's MERGE behaviour. INSERT OR IGNORE makes re-following a no-op
// via the composite primary key.
func (db *DB) Follow(ctx context.Context, userID, targetID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows (follower_id, followee_id)
		 SELECT ?1, ?2
		 WHERE EXISTS (SELECT 1 FROM users WHERE id = ?1)
		   AND EXISTS (SELECT 1 FROM users WHERE id = ?2)`,
		userID, targetID,
	)
	if err != nil {
		return apperror.Store(fmt.Sprintf("sqlite: following %s -> %s", userID, targetID), err)
	}
	return nil
}

// Unfollow deletes the FOLLOWS edge if present; deleting a missing edge is
// a no-op, not an error.
func (db *DB) Unfollow(ctx context.Context, userID, targetID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`,
		userID, targetID,
	)
	if err != nil {
		return apperror.Store(fmt.Sprintf("sqlite: unfollowing %s -> %s", userID, targetID), err)
	}
	return nil
}

// Following returns all users that userID follows, username ascending.
func (db *DB) Following(ctx context.Context, userID string) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, u.name, u.username, u.email, u.bio, u.avatar
		 FROM users u
		 JOIN follows f ON f.followee_id = u.id
		 WHERE f.follower_id = ?
		 ORDER BY u.username ASC`,
		userID,
	)
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("sqlite: listing following of %s", userID), err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Followers returns all users that follow userID, username ascending.
func (db *DB) Followers(ctx context.Context, userID string) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, u.name, u.username, u.email, u.bio, u.avatar
		 FROM users u
		 JOIN follows f ON f.follower_id = u.id
		 WHERE f.followee_id = ?
		 ORDER BY u.username ASC`,
		userID,
	)
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("sqlite: listing followers of %s", userID), err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// Mutuals returns the users followed by both userID and otherID — the
// intersection of the two following-sets, username ascending.
func (db *DB) Mutuals(ctx context.Context, userID, otherID string) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, u.name, u.username, u.email, u.bio, u.avatar
		 FROM users u
		 JOIN follows f1 ON f1.followee_id = u.id AND f1.follower_id = ?
		 JOIN follows f2 ON f2.followee_id = u.id AND f2.follower_id = ?
		 ORDER BY u.username ASC`,
		userID, otherID,
	)
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("sqlite: listing mutuals of %s and %s", userID, otherID), err)
	}
	defer rows.Close()

	return collectUsers(rows)
}
