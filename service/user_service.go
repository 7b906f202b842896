// Package service holds the user resource logic: input validation, the email
// uniqueness check, message defaulting, and classification of persistence
// outcomes. Each operation is strictly sequential — validate, check the
// invariant, persist — and keeps no state between requests.
package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/Skryldev/user-service/db"
	"github.com/Skryldev/user-service/models"
	"github.com/Skryldev/user-service/repo"
)

var (
	// ErrMissingFields is returned when name or email is absent or empty.
	ErrMissingFields = errors.New("service: name and email are required")

	// ErrEmailTaken is returned when another user already holds the email,
	// whether caught by the pre-check or by the store's unique constraint.
	ErrEmailTaken = errors.New("service: email already in use")
)

// UserService exposes the five operations of the user resource.
type UserService struct {
	users    repo.UserRepository
	validate *validator.Validate
}

// NewUserService wires the service to its repository.
func NewUserService(users repo.UserRepository) *UserService {
	return &UserService{
		users:    users,
		validate: validator.New(),
	}
}

// List returns every user, newest first. Store failures propagate untouched
// for the transport layer to log and mask.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// Get returns the user with the given id, or db.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create validates the input, rejects duplicate emails, and persists a new
// user. The store assigns id and created_at.
//
// The email pre-check and the insert are two separate store round-trips, so
// two concurrent creates with the same email can both pass the pre-check.
// The unique constraint then fails the slower insert, and that failure is
// reported as ErrEmailTaken too — exactly one create wins.
func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, ErrMissingFields
	}
	params.Message = normalizeMessage(params.Message)

	if _, err := s.users.GetByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !db.IsNotFound(err) {
		return nil, err
	}

	user, err := s.users.Insert(ctx, params)
	if db.IsDuplicateKey(err) {
		return nil, ErrEmailTaken
	}
	return user, err
}

// Update validates the input and rewrites name, email, and message on the
// matching user; id and created_at stay as created. db.ErrNotFound passes
// through when the id matches nothing.
//
// There is no email pre-check here; the store's unique constraint alone
// guards the invariant, and its violation is reported as ErrEmailTaken.
func (s *UserService) Update(ctx context.Context, params models.UpdateUserParams) (*models.User, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, ErrMissingFields
	}
	params.Message = normalizeMessage(params.Message)

	user, err := s.users.Update(ctx, params)
	if db.IsDuplicateKey(err) {
		return nil, ErrEmailTaken
	}
	return user, err
}

// Delete removes the user with the given id and returns the removed record.
// A second delete of the same id yields db.ErrNotFound, the same outcome as
// deleting an id that never existed.
func (s *UserService) Delete(ctx context.Context, id int64) (*models.User, error) {
	return s.users.Delete(ctx, id)
}

// normalizeMessage collapses absent and empty messages into the explicit
// no-value state (nil, stored as NULL). Whitespace-only messages are kept
// verbatim.
func normalizeMessage(m *string) *string {
	if m == nil || *m == "" {
		return nil
	}
	return m
}
