// Package testutil provides helpers for tests: an in-memory SQLite
// database carrying the forum schema, and shortcuts for seeding users
// and issuing bearer tokens. Production runs on MySQL with externally
// managed migrations; the repositories stick to SQL both engines
// accept, which is what lets the suite run without a server.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arnaupv/forum-api/internal/model"
	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS access_tokens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    token_hash TEXT NOT NULL UNIQUE,
    expires_at DATETIME NOT NULL,
    revoked_at DATETIME,
    created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS threads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    user_id INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content TEXT NOT NULL,
    user_id INTEGER NOT NULL,
    thread_id INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS votes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    response_id INTEGER NOT NULL,
    read INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    UNIQUE (user_id, response_id)
);
CREATE TABLE IF NOT EXISTS uratings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    rater_id INTEGER NOT NULL,
    rating INTEGER NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    UNIQUE (user_id, rater_id)
);
`

// OpenTestDB opens an in-memory SQLite database and applies the forum
// schema. The shared cache keeps the data visible across connections
// within one test. Closed automatically via t.Cleanup.
func OpenTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestSecret signs bearer tokens in tests.
const TestSecret = "test-secret"

// TestBcryptCost keeps hashing fast in tests.
const TestBcryptCost = 4

// SeedUser creates a user through the repository and returns it.
func SeedUser(t *testing.T, db *sql.DB, name, email, username string) model.User {
	t.Helper()
	u, err := repository.NewUserRepo(db).Create(context.Background(), name, email, username, "secret", TestBcryptCost)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// IssueToken issues and stores a bearer token for a user, returning the
// raw JWT for use in an Authorization header.
func IssueToken(t *testing.T, db *sql.DB, u model.User) string {
	t.Helper()
	tok, err := utils.NewBearerToken(TestSecret, u.ID, u.Role, 60)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if err := repository.NewTokenRepo(db).Store(context.Background(), u.ID, utils.HashToken(tok.Token), tok.Exp); err != nil {
		t.Fatalf("store token: %v", err)
	}
	return tok.Token
}

// CountRows returns the number of rows in a table matching the where
// clause. Tests use it to assert upserts stay single-row.
func CountRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()
	q := "SELECT COUNT(1) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := db.QueryRowContext(context.Background(), q, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// Advance is a tiny sleep used where a test needs updated_at to move.
func Advance() { time.Sleep(5 * time.Millisecond) }
