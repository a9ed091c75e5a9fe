package models

import "time"

// Role is the capability level attached to an authenticated caller.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// User represents an account managed by the administrative user module.
type User struct {
	// ID is the unique identifier of the user.
	ID int64
	// Name is the user's display name.
	Name string
	// Email is the user's unique contact address.
	Email string
	// Role determines what the user is allowed to do.
	Role Role
	// CreatedAt is the timestamp indicating when the user was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the user was last updated.
	UpdatedAt time.Time
}
