package neo4j

import (
	"context"
	"fmt"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
)

// FeedPosts walks FOLLOWS then POSTED from the given user and merges every
// followed author's posts, newest first. Post id descending breaks ties on
// equal timestamps so the order is deterministic.
func (s *Store) FeedPosts(ctx context.Context, userID string) ([]model.FeedPost, error) {
	query := `
	MATCH (:User {id: $userID})-[:FOLLOWS]->(author:User)-[:POSTED]->(post:Post)
	RETURN post, author
	ORDER BY post.createdAt DESC, post.id DESC`

	result, err := s.run(ctx, query, map[string]any{"userID": userID})
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("neo4j: assembling feed for %s", userID), err)
	}

	feed := []model.FeedPost{}
	for _, record := range result.Records {
		postNode, err := nodeFromRecord(record, "post")
		if err != nil {
			return nil, apperror.Store("neo4j: reading feed post", err)
		}
		authorNode, err := nodeFromRecord(record, "author")
		if err != nil {
			return nil, apperror.Store("neo4j: reading feed author", err)
		}

		feed = append(feed, model.FeedPost{
			ID:        stringProp(postNode, "id", ""),
			Content:   stringProp(postNode, "content", ""),
			CreatedAt: stringProp(postNode, "createdAt", ""),
			// Minimal author projection — never the full profile.
			Author: model.FeedPostAuthor{
				ID:       stringProp(authorNode, "id", ""),
				Name:     stringProp(authorNode, "name", ""),
				Username: stringProp(authorNode, "username", ""),
			},
		})
	}
	return feed, nil
}

// InsertPost creates a :Post node and its POSTED edge from the author in a
// single statement. Posts normally arrive through external publishing
// collaborators; this exists for the seed tool, which plays that role.
func (s *Store) InsertPost(ctx context.Context, authorID string, post *model.Post) error {
	query := `
	MATCH (author:User {id: $authorID})
	CREATE (author)-[:POSTED]->(:Post {
		id: $id,
		content: $content,
		createdAt: $createdAt
	})`

	_, err := s.run(ctx, query, map[string]any{
		"authorID":  authorID,
		"id":        post.ID,
		"content":   post.Content,
		"createdAt": post.CreatedAt,
	})
	if err != nil {
		if isConstraintViolation(err) {
			return apperror.Conflict("post", post.ID)
		}
		return apperror.Store(fmt.Sprintf("neo4j: inserting post %s", post.ID), err)
	}
	return nil
}
