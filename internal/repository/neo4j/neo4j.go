// Package neo4j implements the social graph repositories on a Neo4j
// property graph: User and Post nodes, FOLLOWS and POSTED relationships.
//
// SESSION-PER-CALL:
// Every operation runs through neo4j.ExecuteQuery, which acquires a session
// and transaction scoped to that single call and releases them on every
// exit path, success or failure. One query, one transaction — a single
// create/update/delete is atomic and isolated, and the store holds no
// in-process mutable state, so concurrent calls need no locking here.
//
// What a single transaction does NOT give you is atomicity across the
// check-then-act sequences services compose ("is this username free" …
// "update the user"). The uniqueness constraints created at startup are the
// write-time backstop for that gap; a violation surfaces as
// apperror.ErrConflict.
package neo4j

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/tahmid/socialgraph/internal/model"
	"github.com/tahmid/socialgraph/internal/repository"
)

// compile-time check that *Store implements the full store surface
var _ repository.SocialGraph = (*Store)(nil)

// Config carries the connection settings for a Neo4j instance.
type Config struct {
	URI      string // e.g. "neo4j://localhost:7687"
	Username string
	Password string
	Database string // usually "neo4j"
}

// Store is a stateless facade over a Neo4j driver. The driver itself pools
// connections; Store instances are safe for concurrent use.
type Store struct {
	driver neo4j.DriverWithContext
	db     string
}

// New connects to Neo4j, verifies connectivity, and ensures the uniqueness
// constraints exist.
func New(ctx context.Context, cfg Config) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j: creating driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: verifying connectivity: %w", err)
	}

	s := &Store{driver: driver, db: cfg.Database}

	if err := s.ensureConstraints(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return s, nil
}

// Close releases the driver and its connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// ensureConstraints pushes uniqueness into the store schema so the
// check-then-act race on usernames cannot produce duplicates. Neo4j's
// property constraints are case-sensitive; case-folded collisions are
// still caught by the availability checks, and the constraint guards the
// exact-match race.
func (s *Store) ensureConstraints(ctx context.Context) error {
	constraints := []string{
		`CREATE CONSTRAINT user_id_unique IF NOT EXISTS
		 FOR (u:User) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT user_username_unique IF NOT EXISTS
		 FOR (u:User) REQUIRE u.username IS UNIQUE`,
		`CREATE CONSTRAINT post_id_unique IF NOT EXISTS
		 FOR (p:Post) REQUIRE p.id IS UNIQUE`,
	}
	for _, c := range constraints {
		if _, err := s.run(ctx, c, nil); err != nil {
			return fmt.Errorf("neo4j: ensuring constraints: %w", err)
		}
	}
	return nil
}

// run executes one Cypher query through ExecuteQuery, buffering the whole
// result. Suitable for both reads and writes at this system's scale.
func (s *Store) run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		s.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.db),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// isConstraintViolation reports whether err is a schema constraint failure
// (duplicate id or username).
func isConstraintViolation(err error) bool {
	var dbErr *neo4j.Neo4jError
	return errors.As(err, &dbErr) &&
		dbErr.Code == "Neo.ClientError.Schema.ConstraintValidationFailed"
}

// stringProp reads a string property off a node, falling back when the
// property is absent — the schema evolution safety net for records written
// before bio/avatar existed.
func stringProp(node neo4j.Node, key, fallback string) string {
	v, ok := node.Props[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// userFromNode maps a :User node to the plain model record returned to
// callers. Callers never see driver-native node objects.
func userFromNode(node neo4j.Node) *model.User {
	u := &model.User{
		ID:       stringProp(node, "id", ""),
		Name:     stringProp(node, "name", ""),
		Username: stringProp(node, "username", ""),
		Email:    stringProp(node, "email", ""),
		Bio:      stringProp(node, "bio", ""),
		Avatar:   stringProp(node, "avatar", model.DefaultAvatar),
	}
	if u.Avatar == "" {
		u.Avatar = model.DefaultAvatar
	}
	return u
}

// nodeFromRecord pulls the named value out of a record and asserts it is a
// node.
func nodeFromRecord(record *neo4j.Record, key string) (neo4j.Node, error) {
	value, ok := record.Get(key)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("neo4j: result is missing %q", key)
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("neo4j: result value %q is not a node", key)
	}
	return node, nil
}

// collectUsers maps every record's node named key into model users,
// preserving the query's ordering.
func collectUsers(result *neo4j.EagerResult, key string) ([]model.User, error) {
	users := []model.User{}
	for _, record := range result.Records {
		node, err := nodeFromRecord(record, key)
		if err != nil {
			return nil, err
		}
		users = append(users, *userFromNode(node))
	}
	return users, nil
}
