// Package model defines the data structures used throughout the application.
package model

// DefaultAvatar is the avatar assigned when a user record carries none.
// Avatars are identifiers into a fixed client-side set ("avatar_1" ...
// "avatar_8"), not URLs.
const DefaultAvatar = "avatar_1"

// User represents a member of the social graph.
//
// WHY IS ID AN OPAQUE STRING?
// The ID is assigned by the external identity provider during sign-up and
// is never generated (or interpreted) by this application. We store and
// compare it by equality only, the same way we'd treat any foreign key.
//
// ID and Email are immutable once the user exists — no operation in this
// codebase updates them. Everything else is editable through the profile
// update flow.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`     // Display name, distinct from username
	Username string `json:"username"` // Unique across all users, case-insensitively
	Email    string `json:"email"`
	Bio      string `json:"bio"`    // Free text, may be empty
	Avatar   string `json:"avatar"` // Identifier into the fixed avatar set
}
