package neo4j

import (
	"context"
	"fmt"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
)

// Follow creates FOLLOWS(userID → targetID) if absent. MERGE gives the
// idempotence: re-following creates no duplicate edge. When either endpoint
// id matches no node the MATCHes bind nothing and the whole statement is a
// silent no-op — intentional, preserved behaviour; callers wanting a 404
// must look the target up first.
func (s *Store) Follow(ctx context.Context, userID, targetID string) error {
	query := `
	MATCH (a:User {id: $userID})
	MATCH (b:User {id: $targetID})
	MERGE (a)-[:FOLLOWS]->(b)`

	_, err := s.run(ctx, query, map[string]any{
		"userID":   userID,
		"targetID": targetID,
	})
	if err != nil {
		return apperror.Store(fmt.Sprintf("neo4j: following %s -> %s", userID, targetID), err)
	}
	return nil
}

// Unfollow deletes the FOLLOWS edge if present; a missing edge is a no-op.
func (s *Store) Unfollow(ctx context.Context, userID, targetID string) error {
	query := `
	MATCH (:User {id: $userID})-[r:FOLLOWS]->(:User {id: $targetID})
	DELETE r`

	_, err := s.run(ctx, query, map[string]any{
		"userID":   userID,
		"targetID": targetID,
	})
	if err != nil {
		return apperror.Store(fmt.Sprintf("neo4j: unfollowing %s -> %s", userID, targetID), err)
	}
	return nil
}

// Following returns all users that userID follows, username ascending.
func (s *Store) Following(ctx context.Context, userID string) ([]model.User, error) {
	query := `
	MATCH (:User {id: $userID})-[:FOLLOWS]->(u:User)
	RETURN u
	ORDER BY u.username ASC`

	return s.queryUsers(ctx, query, map[string]any{"userID": userID},
		fmt.Sprintf("neo4j: listing following of %s", userID))
}

// Followers returns all users that follow userID, username ascending.
func (s *Store) Followers(ctx context.Context, userID string) ([]model.User, error) {
	query := `
	MATCH (u:User)-[:FOLLOWS]->(:User {id: $userID})
	RETURN u
	ORDER BY u.username ASC`

	return s.queryUsers(ctx, query, map[string]any{"userID": userID},
		fmt.Sprintf("neo4j: listing followers of %s", userID))
}

// Mutuals returns the users followed by both userID and otherID. The
// two-anchor pattern is the set intersection of the following-sets.
func (s *Store) Mutuals(ctx context.Context, userID, otherID string) ([]model.User, error) {
	query := `
	MATCH (:User {id: $userID})-[:FOLLOWS]->(u:User)<-[:FOLLOWS]-(:User {id: $otherID})
	RETURN u
	ORDER BY u.username ASC`

	return s.queryUsers(ctx, query, map[string]any{
		"userID":  userID,
		"otherID": otherID,
	}, fmt.Sprintf("neo4j: listing mutuals of %s and %s", userID, otherID))
}

func (s *Store) queryUsers(ctx context.Context, query string, params map[string]any, op string) ([]model.User, error) {
	result, err := s.run(ctx, query, params)
	if err != nil {
		return nil, apperror.Store(op, err)
	}

	users, err := collectUsers(result, "u")
	if err != nil {
		return nil, apperror.Store(op, err)
	}
	return users, nil
}
