// Package sqlite implements the social graph repositories on an embedded
// SQLite database.
//
// WHY A RELATIONAL BACKEND FOR A GRAPH MODEL?
// The graph here is shallow — every query walks at most two hops
// (user → FOLLOWS → user → POSTED → post) — so plain joins over a follows
// edge table express it exactly. That gives us a zero-infrastructure
// backend: ":memory:" for tests, a single file for small deployments,
// while Neo4j remains the primary engine behind the same interfaces.
//
// WHY modernc.org/sqlite?
// It's a pure Go translation of SQLite — no CGo, no C compiler, painless
// cross-compilation.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements repository.SocialGraph.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't touch the file; Ping surfaces a bad path or
	// permissions problem now instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight — required
	// for a server where requests hit the DB in parallel.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; the follows and posts
	// tables depend on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the underlying connection pool. Always defer it next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
//
// UNIQUENESS LIVES IN THE SCHEMA:
// username is UNIQUE COLLATE NOCASE, so case-folded uniqueness is enforced
// at write time regardless of what the availability pre-check saw. Two
// racing updates to the same username can both pass the check, but only
// the first write wins — the loser gets a constraint violation that
// surfaces as apperror.ErrConflict.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE COLLATE NOCASE,
			email    TEXT NOT NULL,
			bio      TEXT NOT NULL DEFAULT '',
			avatar   TEXT NOT NULL DEFAULT 'avatar_1'
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// One row per directed FOLLOWS edge; the composite primary key makes
	// edge creation naturally idempotent via INSERT OR IGNORE.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS follows (
			follower_id TEXT NOT NULL REFERENCES users(id),
			followee_id TEXT NOT NULL REFERENCES users(id),
			PRIMARY KEY (follower_id, followee_id)
		);
		CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id);
	`)
	if err != nil {
		return fmt.Errorf("creating follows table: %w", err)
	}

	// author_id is the relational rendering of the POSTED edge: exactly
	// one author per post.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			author_id  TEXT NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	return nil
}
