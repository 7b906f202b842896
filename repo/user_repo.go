// Package repo implements persistence for the user resource over explicit,
// parameterized SQL.
package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/user-service/db"
	"github.com/Skryldev/user-service/models"
)

// UserRepository is the persistence contract for user records. Not-found and
// duplicate-email outcomes surface as db.ErrNotFound and db.ErrDuplicateKey
// so callers branch with errors.Is instead of parsing messages.
type UserRepository interface {
	Insert(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, params models.UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}

// userRepo is the production implementation backed by a db.Querier, so it
// works against *db.DB and *db.Tx alike.
type userRepo struct {
	q db.Querier
}

// NewUserRepo returns a UserRepository backed by q.
func NewUserRepo(q db.Querier) UserRepository {
	return &userRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL — explicit, version-controlled, reviewable
// ─────────────────────────────────────────────────────────────────────────────

const userColumns = "id, name, email, message, created_at"

const (
	sqlInsertUser = `
		INSERT INTO users (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	sqlGetUserByID = `
		SELECT ` + userColumns + `
		FROM   users
		WHERE  id = $1
		LIMIT  1`

	sqlGetUserByEmail = `
		SELECT ` + userColumns + `
		FROM   users
		WHERE  email = $1
		LIMIT  1`

	// Newest first; id breaks created_at ties so interleaved inserts within
	// one timestamp tick still list deterministically.
	sqlListUsers = `
		SELECT ` + userColumns + `
		FROM   users
		ORDER  BY created_at DESC, id DESC`

	sqlUpdateUser = `
		UPDATE users
		SET    name = $1, email = $2, message = $3
		WHERE  id = $4
		RETURNING ` + userColumns

	sqlDeleteUser = `
		DELETE FROM users
		WHERE  id = $1
		RETURNING ` + userColumns
)

// Insert creates a new user and returns the persisted record including the
// store-assigned id and created_at. A unique-violation on email comes back as
// db.ErrDuplicateKey.
func (r *userRepo) Insert(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	row := r.q.QueryRow(ctx, sqlInsertUser, params.Name, params.Email, params.Message)
	return scanUser(row)
}

// GetByID returns a single user by primary key, or db.ErrNotFound.
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.q.QueryRow(ctx, sqlGetUserByID, id)
	return scanUser(row)
}

// GetByEmail looks a user up by exact email, or db.ErrNotFound.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.q.QueryRow(ctx, sqlGetUserByEmail, email)
	return scanUser(row)
}

// List returns every user, newest first.
func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.q.Query(ctx, sqlListUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Message, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo/user: scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update rewrites name, email, and message on the matching row and returns
// the updated record. db.ErrNotFound when no row matched; id and created_at
// are never part of the SET list.
func (r *userRepo) Update(ctx context.Context, params models.UpdateUserParams) (*models.User, error) {
	row := r.q.QueryRow(ctx, sqlUpdateUser, params.Name, params.Email, params.Message, params.ID)
	return scanUser(row)
}

// Delete removes the matching row and returns it, or db.ErrNotFound when the
// id matched nothing (including a repeat delete).
func (r *userRepo) Delete(ctx context.Context, id int64) (*models.User, error) {
	row := r.q.QueryRow(ctx, sqlDeleteUser, id)
	return scanUser(row)
}

// scanUser centralises column mapping so schema changes touch one place.
func scanUser(row *db.Row) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Message, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("repo/user: %w", err)
	}
	return u, nil
}

var _ UserRepository = (*userRepo)(nil)
