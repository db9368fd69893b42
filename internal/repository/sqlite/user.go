package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
	"github.com/tahmid/socialgraph/internal/repository"
)

// compile-time check that *DB implements the full store surface
var _ repository.SocialGraph = (*DB)(nil)

const userColumns = `id, name, username, email, bio, avatar`

// isConstraintViolation reports whether err is a SQLite uniqueness/constraint
// failure. modernc.org/sqlite doesn't export a stable typed error for this,
// so we match the canonical message prefix SQLite emits.
func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

// CreateUser inserts a new User row with all fields.
// The username availability pre-check belongs to the caller; the UNIQUE
// COLLATE NOCASE constraint is the write-time backstop and surfaces as
// apperror.ErrConflict, as does a duplicate id.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	avatar := user.Avatar
	if avatar == "" {
		avatar = model.DefaultAvatar
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, username, email, bio, avatar)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Username, user.Email, user.Bio, avatar,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return apperror.Store(fmt.Sprintf("sqlite: creating user %s", user.ID), err)
	}
	return nil
}

// GetUserByID returns the user, or (nil, nil) when no row matches — absence
// is a normal lookup outcome, not an error.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("sqlite: getting user %s", id), err)
	}
	return u, nil
}

// IsUsernameAvailable reports whether no user holds the username,
// case-insensitively.
func (db *DB) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE`,
		username,
	).Scan(&count)
	if err != nil {
		return false, apperror.Store("sqlite: checking username availability", err)
	}
	return count == 0, nil
}

// IsUsernameAvailableForUser is IsUsernameAvailable with the caller's own
// row excluded, so keeping the current username doesn't collide with itself.
func (db *DB) IsUsernameAvailableForUser(ctx context.Context, username, currentUserID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE AND id <> ?`,
		username, currentUserID,
	).Scan(&count)
	if err != nil {
		return false, apperror.Store("sqlite: checking username availability", err)
	}
	return count == 0, nil
}

// UpdateUser overwrites the four mutable fields and returns the post-update
// record. id and email are deliberately absent from the SET list — they are
// immutable.
func (db *DB) UpdateUser(ctx context.Context, id, name, username, bio, avatar string) (*model.User, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, username = ?, bio = ?, avatar = ? WHERE id = ?`,
		name, username, bio, avatar, id,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, apperror.Conflict("username", username)
		}
		return nil, apperror.Store(fmt.Sprintf("sqlite: updating user %s", id), err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperror.Store(fmt.Sprintf("sqlite: updating user %s", id), err)
	}
	if affected == 0 {
		// The one place absence is a failure: an update presumes its target.
		return nil, apperror.NotFound("user", id)
	}

	return db.GetUserByID(ctx, id)
}

// ListUsersExcept returns every user other than id, username ascending.
func (db *DB) ListUsersExcept(ctx context.Context, id string) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id <> ? ORDER BY username ASC`, id)
	if err != nil {
		return nil, apperror.Store("sqlite: listing users", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Bio, &u.Avatar); err != nil {
		return nil, err
	}
	// Rows written before the avatar column gained its default can carry
	// an empty value; normalise on the way out.
	if u.Avatar == "" {
		u.Avatar = model.DefaultAvatar
	}
	return &u, nil
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperror.Store("sqlite: scanning user row", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Store("sqlite: iterating user rows", err)
	}
	return users, nil
}
