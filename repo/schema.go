package repo

import (
	"context"

	"github.com/Skryldev/user-service/db"
)

// PostgreSQL DDL. id and created_at are store-assigned; the unique index on
// email is what ultimately arbitrates concurrent creates with the same
// address.
const sqlCreateUsersTable = `
	CREATE TABLE IF NOT EXISTS users (
		id         SERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255) UNIQUE NOT NULL,
		message    TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

// EnsureSchema creates the users table when it does not exist yet. It is
// idempotent and runs once at startup, before the server accepts requests;
// per-request code never touches DDL. For anything beyond the initial shape,
// use cmd/migrate.
func EnsureSchema(ctx context.Context, database *db.DB) error {
	return database.ExecTx(ctx, func(tx *db.Tx) error {
		_, err := tx.Exec(ctx, sqlCreateUsersTable)
		return err
	})
}
