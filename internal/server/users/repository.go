package users

import (
	"context"
)

// Repository is the credential store adapter for user records.
//
// Lookup methods return shared.ErrorNotFound when no row matches. Create
// and UpdateFields translate storage-level unique-index violations on
// username/email into shared.ErrorUsernameTaken / shared.ErrorEmailTaken.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UpdateFields applies an atomic partial update of a single user row.
	// Keys name user columns; they come from service code, never from
	// request payloads.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}
