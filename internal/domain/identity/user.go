package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/addrsync/backend/internal/domain/shared"
)

// User is an account in the attribute store. Addresses are attached to a
// user through the address repository, not embedded here.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Login string    `json:"login"`
}

// ErrUserNotFound is returned when no user matches the lookup criteria.
var ErrUserNotFound = shared.NewDomainError("USER_NOT_FOUND", "User not found")

// LookupCriteria identifies a user by ID, email, or login. When several are
// set, ID wins over Email, which wins over Login; lower-priority identifiers
// are ignored rather than tried as fallbacks.
type LookupCriteria struct {
	ID    string
	Email string
	Login string
}

// IsZero reports whether no identifier is set.
func (c LookupCriteria) IsZero() bool {
	return c.ID == "" && c.Email == "" && c.Login == ""
}

// Identifier returns the identifier that will be consulted, for logging.
func (c LookupCriteria) Identifier() string {
	switch {
	case c.ID != "":
		return c.ID
	case c.Email != "":
		return c.Email
	default:
		return c.Login
	}
}

// UserDirectory resolves lookup criteria to users.
type UserDirectory interface {
	FindUser(ctx context.Context, criteria LookupCriteria) (*User, error)
}
