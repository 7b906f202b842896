package repo_test

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Skryldev/user-service/db"
	"github.com/Skryldev/user-service/models"
	"github.com/Skryldev/user-service/repo"
)

func newTestRepo(t *testing.T) (repo.UserRepository, *db.DB) {
	t.Helper()

	// Single connection: a pooled :memory: DSN gives every connection its
	// own database.
	database, err := db.Open(db.Config{
		DSN:          ":memory:",
		DriverName:   "sqlite3",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	// SQLite rendition of the production schema; same columns, same unique
	// constraint on email.
	_, err = database.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			message    TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	return repo.NewUserRepo(database), database
}

func strPtr(s string) *string { return &s }

func TestUserRepo_Insert(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	u, err := r.Insert(ctx, models.CreateUserParams{
		Name:  "Alice",
		Email: "alice@repo.com",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected store-assigned ID")
	}
	if u.Name != "Alice" || u.Email != "alice@repo.com" {
		t.Fatalf("unexpected record: %+v", u)
	}
	if u.CreatedAt.IsZero() {
		t.Fatal("expected store-assigned CreatedAt")
	}
	if u.Message != nil {
		t.Fatalf("expected NULL message, got %q", *u.Message)
	}
}

func TestUserRepo_Insert_WithMessage(t *testing.T) {
	r, _ := newTestRepo(t)

	u, err := r.Insert(context.Background(), models.CreateUserParams{
		Name:    "Alice",
		Email:   "msg@repo.com",
		Message: strPtr("hello there"),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if u.Message == nil || *u.Message != "hello there" {
		t.Fatalf("message did not round-trip: %v", u.Message)
	}
}

func TestUserRepo_Insert_DuplicateEmail(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	params := models.CreateUserParams{Name: "Alice", Email: "dup@repo.com"}
	if _, err := r.Insert(ctx, params); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := r.Insert(ctx, params)
	if !db.IsDuplicateKey(err) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestUserRepo_GetByID(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	created, _ := r.Insert(ctx, models.CreateUserParams{Name: "Bob", Email: "bob@repo.com"})

	fetched, err := r.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Email != "bob@repo.com" {
		t.Fatalf("wrong email: %q", fetched.Email)
	}
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	r, _ := newTestRepo(t)
	_, err := r.GetByID(context.Background(), 99999)
	if !db.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo_GetByEmail(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	created, _ := r.Insert(ctx, models.CreateUserParams{Name: "Carol", Email: "carol@repo.com"})

	fetched, err := r.GetByEmail(ctx, "carol@repo.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("wrong record: got id %d, want %d", fetched.ID, created.ID)
	}

	if _, err := r.GetByEmail(ctx, "nobody@repo.com"); !db.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo_List_NewestFirst(t *testing.T) {
	r, database := newTestRepo(t)
	ctx := context.Background()

	// Insert out of order, then pin distinct timestamps so the listing order
	// depends on created_at, not insertion order.
	emails := []string{"first@repo.com", "second@repo.com", "third@repo.com"}
	ids := make([]int64, len(emails))
	for i, email := range emails {
		u, err := r.Insert(ctx, models.CreateUserParams{Name: "U", Email: email})
		if err != nil {
			t.Fatalf("insert %s: %v", email, err)
		}
		ids[i] = u.ID
	}
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range ids {
		_, err := database.Exec(ctx,
			`UPDATE users SET created_at = $1 WHERE id = $2`,
			base.Add(time.Duration(i)*time.Hour), id)
		if err != nil {
			t.Fatalf("pin created_at: %v", err)
		}
	}

	users, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	want := []string{"third@repo.com", "second@repo.com", "first@repo.com"}
	for i, u := range users {
		if u.Email != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, u.Email, want[i])
		}
	}
}

func TestUserRepo_List_TiesBreakByID(t *testing.T) {
	r, database := newTestRepo(t)
	ctx := context.Background()

	a, _ := r.Insert(ctx, models.CreateUserParams{Name: "A", Email: "tie-a@repo.com"})
	b, _ := r.Insert(ctx, models.CreateUserParams{Name: "B", Email: "tie-b@repo.com"})

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []int64{a.ID, b.ID} {
		if _, err := database.Exec(ctx,
			`UPDATE users SET created_at = $1 WHERE id = $2`, ts, id); err != nil {
			t.Fatalf("pin created_at: %v", err)
		}
	}

	users, err := r.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users[0].ID != b.ID || users[1].ID != a.ID {
		t.Fatalf("tie not broken by id: got %d, %d", users[0].ID, users[1].ID)
	}
}

func TestUserRepo_List_Empty(t *testing.T) {
	r, _ := newTestRepo(t)

	users, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", users)
	}
}

func TestUserRepo_Update(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	u, _ := r.Insert(ctx, models.CreateUserParams{Name: "Old Name", Email: "upd@repo.com"})

	updated, err := r.Update(ctx, models.UpdateUserParams{
		ID:      u.ID,
		Name:    "New Name",
		Email:   "new@repo.com",
		Message: strPtr("updated"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New Name" || updated.Email != "new@repo.com" {
		t.Fatalf("fields not updated: %+v", updated)
	}
	if updated.Message == nil || *updated.Message != "updated" {
		t.Fatalf("message not updated: %v", updated.Message)
	}
	if updated.ID != u.ID {
		t.Fatalf("id must not change: got %d, want %d", updated.ID, u.ID)
	}
	if !updated.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("created_at must not change: got %v, want %v", updated.CreatedAt, u.CreatedAt)
	}
}

func TestUserRepo_Update_ClearsMessage(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	u, _ := r.Insert(ctx, models.CreateUserParams{
		Name: "M", Email: "clear@repo.com", Message: strPtr("old"),
	})

	updated, err := r.Update(ctx, models.UpdateUserParams{
		ID: u.ID, Name: "M", Email: "clear@repo.com", Message: nil,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Message != nil {
		t.Fatalf("expected NULL message, got %q", *updated.Message)
	}
}

func TestUserRepo_Update_NotFound(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.Update(context.Background(), models.UpdateUserParams{
		ID: 99999, Name: "Ghost", Email: "ghost@repo.com",
	})
	if !db.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo_Delete(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	u, _ := r.Insert(ctx, models.CreateUserParams{Name: "Del", Email: "del@repo.com"})

	removed, err := r.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != u.ID || removed.Email != "del@repo.com" {
		t.Fatalf("unexpected removed record: %+v", removed)
	}

	if _, err := r.GetByID(ctx, u.ID); !db.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// Second delete of the same id is the same error kind, not a new failure.
	if _, err := r.Delete(ctx, u.ID); !db.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}
