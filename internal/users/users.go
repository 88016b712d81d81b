// Package users owns user records: the stored model, its public projection,
// signup payload validation and the soft-delete lifecycle.
package users

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by a Store when no record matches.
	ErrNotFound = errors.New("users: not found")
	// ErrEmailTaken is returned by a Store when the unique email constraint is violated.
	ErrEmailTaken = errors.New("users: email already exists")
)

// User is the stored record. PasswordHash never leaves the service boundary.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Info is the public projection of a User.
type Info struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

// Info builds the public projection.
func (u *User) Info() Info {
	return Info{ID: u.ID, Name: u.Name, Email: u.Email, IsActive: u.IsActive}
}

// Store persists users. Email uniqueness spans active and inactive records.
type Store interface {
	List(ctx context.Context) ([]User, error)
	ByID(ctx context.Context, id int64) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	// Create assigns ID and timestamps on u.
	Create(ctx context.Context, u *User) error
	SetActive(ctx context.Context, id int64, active bool) error
	Ping(ctx context.Context) error
}

// PasswordHasher turns a plaintext password into a one-way hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
