package recicla

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a registered citizen or manager profile.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary returns the public projection embedded in complaints.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, FullName: u.FullName}
}

// UserSummary is the public part of a user shown next to complaints.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// Role is the kind of account a user holds.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleManager Role = "manager"
)

// IsManager returns true for municipal staff accounts.
func (r Role) IsManager() bool {
	return r == RoleManager
}

// UserService defines operations for managing user profiles.
// Accounts themselves are created by the identity provider.
type UserService interface {
	// FindUserByID retrieves a user by their ID.
	// Returns ENOTFOUND if the user does not exist.
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)

	// UpdateUser updates an existing user.
	// Returns ENOTFOUND if the user does not exist.
	UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (*User, error)
}

// UserUpdate defines fields that can be updated on a user.
// Pointer fields: nil = don't update, non-nil = update to this value.
type UserUpdate struct {
	FullName *string
	Phone    *string
}
