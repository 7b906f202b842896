package models

import "time"

// User represents one row of the "users" table. ID and CreatedAt are assigned
// by the store on insert and never change afterwards.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Message is optional. A nil pointer is the explicit "no value" state,
	// stored as SQL NULL and serialized as JSON null — never as "".
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserParams holds the caller-supplied fields for a new user. Keeping
// input types separate from the entity prevents accidental mass-assignment of
// store-owned columns.
type CreateUserParams struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required"`
	Message *string `json:"message"`
}

// UpdateUserParams holds the replacement values for an existing user.
// An update rewrites all three mutable columns; id and created_at are
// untouchable.
type UpdateUserParams struct {
	ID      int64   `json:"-"`
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required"`
	Message *string `json:"message"`
}
