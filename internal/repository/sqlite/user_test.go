package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/tahmid/socialgraph/internal/apperror"
	"github.com/tahmid/socialgraph/internal/model"
)

// newTestDB returns a *DB backed by a fresh in-memory database, destroyed
// when the test finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user with sensible defaults and fails the test
// on error.
func createTestUser(t *testing.T, db *DB, id, username string) *model.User {
	t.Helper()
	user := &model.User{
		ID:       id,
		Name:     "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Bio:      "",
		Avatar:   model.DefaultAvatar,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", id, err)
	}
	return user
}

// =========================================================================
// CREATE / GET TESTS
// =========================================================================

func TestCreateUser_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		ID:       "user_1",
		Name:     "Alice Liddell",
		Username: "alice",
		Email:    "alice@example.com",
		Bio:      "down the rabbit hole",
		Avatar:   "avatar_3",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	found, err := db.GetUserByID(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found == nil {
		t.Fatal("GetUserByID() returned nil for an existing user")
	}
	if *found != *user {
		t.Errorf("GetUserByID() = %+v, want %+v", found, user)
	}
}

func TestCreateUser_EmptyAvatarGetsDefault(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		ID:       "user_1",
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	found, err := db.GetUserByID(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Avatar != model.DefaultAvatar {
		t.Errorf("Avatar = %q, want default %q", found.Avatar, model.DefaultAvatar)
	}
	if found.Bio != "" {
		t.Errorf("Bio = %q, want empty", found.Bio)
	}
}

func TestCreateUser_DuplicateIDIsConflict(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_1", "alice")

	dup := &model.User{ID: "user_1", Name: "Other", Username: "other", Email: "o@example.com"}
	err := db.CreateUser(context.Background(), dup)
	if err == nil {
		t.Fatal("CreateUser() should fail for a duplicate id")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestCreateUser_DuplicateUsernameIsConflict(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_1", "alice")

	// Differs only by case — still a collision under case-folding.
	dup := &model.User{ID: "user_2", Name: "Fake Alice", Username: "ALICE", Email: "a2@example.com"}
	err := db.CreateUser(context.Background(), dup)
	if err == nil {
		t.Fatal("CreateUser() should fail for a case-folded duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestGetUserByID_AbsentIsNilNotError(t *testing.T) {
	db := newTestDB(t)

	user, err := db.GetUserByID(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetUserByID() on missing id should not error, got %v", err)
	}
	if user != nil {
		t.Errorf("GetUserByID() = %+v, want nil for a missing user", user)
	}
}

// =========================================================================
// USERNAME AVAILABILITY TESTS
// =========================================================================

func TestIsUsernameAvailable_BeforeAndAfterCreate(t *testing.T) {
	db := newTestDB(t)

	available, err := db.IsUsernameAvailable(context.Background(), "alice")
	if err != nil {
		t.Fatalf("IsUsernameAvailable() error = %v", err)
	}
	if !available {
		t.Error("username should be available before any user exists")
	}

	createTestUser(t, db, "user_1", "alice")

	available, err = db.IsUsernameAvailable(context.Background(), "alice")
	if err != nil {
		t.Fatalf("IsUsernameAvailable() error = %v", err)
	}
	if available {
		t.Error("username should be taken after create")
	}
}

func TestIsUsernameAvailable_CaseFolding(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_1", "Alice")

	for _, candidate := range []string{"alice", "ALICE", "aLiCe"} {
		available, err := db.IsUsernameAvailable(context.Background(), candidate)
		if err != nil {
			t.Fatalf("IsUsernameAvailable(%q) error = %v", candidate, err)
		}
		if available {
			t.Errorf("IsUsernameAvailable(%q) = true, want false under case-folding", candidate)
		}
	}
}

func TestIsUsernameAvailableForUser_SelfExclusion(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_1", "alice")
	createTestUser(t, db, "user_2", "bob")

	// The owner keeping their own username passes.
	available, err := db.IsUsernameAvailableForUser(context.Background(), "alice", "user_1")
	if err != nil {
		t.Fatalf("IsUsernameAvailableForUser() error = %v", err)
	}
	if !available {
		t.Error("owner should be able to keep their current username")
	}

	// Anyone else wanting it is blocked, same as the plain check.
	available, err = db.IsUsernameAvailableForUser(context.Background(), "alice", "user_2")
	if err != nil {
		t.Fatalf("IsUsernameAvailableForUser() error = %v", err)
	}
	if available {
		t.Error("a different user must not take an occupied username")
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUpdateUser_OverwritesMutableFieldsOnly(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "user_1", "alice")

	updated, err := db.UpdateUser(context.Background(), "user_1",
		"Alice in Wonderland", "alice_w", "curiouser and curiouser", "avatar_7")
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	if updated.ID != created.ID {
		t.Errorf("ID = %q, want unchanged %q", updated.ID, created.ID)
	}
	if updated.Email != created.Email {
		t.Errorf("Email = %q, want unchanged %q", updated.Email, created.Email)
	}
	if updated.Name != "Alice in Wonderland" {
		t.Errorf("Name = %q, want the supplied value", updated.Name)
	}
	if updated.Username != "alice_w" {
		t.Errorf("Username = %q, want the supplied value", updated.Username)
	}
	if updated.Bio != "curiouser and curiouser" {
		t.Errorf("Bio = %q, want the supplied value", updated.Bio)
	}
	if updated.Avatar != "avatar_7" {
		t.Errorf("Avatar = %q, want the supplied value", updated.Avatar)
	}
}

func TestUpdateUser_MissingIsNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UpdateUser(context.Background(), "nonexistent", "Name", "name", "", "avatar_1")
	if err == nil {
		t.Fatal("UpdateUser() should fail for a missing user")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateUser_UsernameCollisionIsConflict(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_1", "alice")
	createTestUser(t, db, "user_2", "bob")

	_, err := db.UpdateUser(context.Background(), "user_2", "Bob", "alice", "", "avatar_1")
	if err == nil {
		t.Fatal("UpdateUser() should fail when stealing an occupied username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestUpdateUser_KeepingOwnUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_1", "alice")

	// Same username, new bio — must not trip the uniqueness constraint.
	updated, err := db.UpdateUser(context.Background(), "user_1", "Alice", "alice", "new bio", "avatar_1")
	if err != nil {
		t.Fatalf("UpdateUser() keeping own username error = %v", err)
	}
	if updated.Bio != "new bio" {
		t.Errorf("Bio = %q, want %q", updated.Bio, "new bio")
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestListUsersExcept_ExcludesAndSorts(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_1", "carol")
	createTestUser(t, db, "user_2", "alice")
	createTestUser(t, db, "user_3", "bob")

	users, err := db.ListUsersExcept(context.Background(), "user_3")
	if err != nil {
		t.Fatalf("ListUsersExcept() error = %v", err)
	}

	if len(users) != 2 {
		t.Fatalf("ListUsersExcept() returned %d users, want 2", len(users))
	}
	for _, u := range users {
		if u.ID == "user_3" {
			t.Error("ListUsersExcept() must never include the excluded user")
		}
	}
	if users[0].Username != "alice" || users[1].Username != "carol" {
		t.Errorf("usernames = [%s %s], want ascending [alice carol]",
			users[0].Username, users[1].Username)
	}
}

func TestListUsersExcept_Empty(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_1", "alice")

	users, err := db.ListUsersExcept(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("ListUsersExcept() error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("ListUsersExcept() = %v, want empty", users)
	}
}
