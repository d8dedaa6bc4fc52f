// Package models defines the core data structures for users, sessions and notes.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Email is the login email chosen by the user.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
}

// Session represents an issued bearer token bound to a user.
type Session struct {
	// Token is the opaque bearer token presented by clients.
	Token string
	// UserID is the owner of the session.
	UserID string
	// ExpiresAt is the instant after which the token is no longer valid.
	ExpiresAt time.Time
}

// Note is a single user-owned note.
type Note struct {
	// ID is the unique identifier for the note, assigned on creation.
	ID string `json:"id"`
	// Title is the note title. Never empty.
	Title string `json:"title"`
	// Content is the note body. Never empty.
	Content string `json:"content"`
	// Tags holds the note's labels in the order the user entered them.
	Tags []string `json:"tags"`
	// UserID is the owning user. Set at creation, never changed.
	UserID string `json:"userId"`
	// CreatedAt is set once when the note is created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is set on every write.
	UpdatedAt time.Time `json:"updatedAt"`
}
