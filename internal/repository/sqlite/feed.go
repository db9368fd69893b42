package sqlite

import (
	"context"
	"fmt"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
)

// FeedPosts merges the posts of everyone userID follows, newest first.
// Post id descending breaks ties on equal timestamps so the order is
// deterministic.
func (db *DB) FeedPosts(ctx context.Context, userID string) ([]model.FeedPost, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.content, p.created_at, u.id, u.name, u.username
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 JOIN follows f ON f.followee_id = u.id
		 WHERE f.follower_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("sqlite: assembling feed for %s", userID), err)
	}
	defer rows.Close()

	feed := []model.FeedPost{}
	for rows.Next() {
		var p model.FeedPost
		if err := rows.Scan(
			&p.ID, &p.Content, &p.CreatedAt,
			&p.Author.ID, &p.Author.Name, &p.Author.Username,
		); err != nil {
			return nil, apperror.Store("sqlite: scanning feed row", err)
		}
		feed = append(feed, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Store("sqlite: iterating feed rows", err)
	}
	return feed, nil
}

// InsertPost writes a post and its authorship in one statement.
//
// Posts enter the system through external publishing collaborators, not
// through the store's service API — this method exists for the seed tool
// and for tests, which have to play that external role.
func (db *DB) InsertPost(ctx context.Context, authorID string, post *model.Post) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, author_id, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		post.ID, authorID, post.Content, post.CreatedAt,
	)
	if err != nil {
		return apperror.Store(fmt.Sprintf("sqlite: inserting post %s", post.ID), err)
	}
	return nil
}
