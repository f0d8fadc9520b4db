package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/testutil"
)

func TestTokenRepo_Lifecycle(t *testing.T) {
	db := testutil.OpenTestDB(t, "tokenrepo")
	repo := repository.NewTokenRepo(db)
	ctx := context.Background()

	u := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")
	exp := time.Now().UTC().Add(time.Hour)

	if err := repo.Store(ctx, u.ID, "hash-1", exp); err != nil {
		t.Fatalf("store: %v", err)
	}
	uid, err := repo.Validate(ctx, "hash-1")
	if err != nil || uid != u.ID {
		t.Fatalf("validate: %v uid=%d", err, uid)
	}

	active, err := repo.HasActive(ctx, u.ID)
	if err != nil || !active {
		t.Fatalf("has active: %v %t", err, active)
	}

	if err := repo.Store(ctx, u.ID, "hash-2", exp); err != nil {
		t.Fatalf("store second: %v", err)
	}
	if err := repo.RevokeAllForUser(ctx, u.ID); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if _, err := repo.Validate(ctx, "hash-1"); err != sql.ErrNoRows {
		t.Fatalf("revoked token validated: %v", err)
	}
	if _, err := repo.Validate(ctx, "hash-2"); err != sql.ErrNoRows {
		t.Fatalf("revoked token validated: %v", err)
	}
	active, err = repo.HasActive(ctx, u.ID)
	if err != nil || active {
		t.Fatalf("expected no active tokens: %v %t", err, active)
	}
}

func TestTokenRepo_ExpiredToken(t *testing.T) {
	db := testutil.OpenTestDB(t, "tokenexpiry")
	repo := repository.NewTokenRepo(db)
	ctx := context.Background()

	u := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")

	if err := repo.Store(ctx, u.ID, "stale", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := repo.Validate(ctx, "stale"); err != sql.ErrNoRows {
		t.Fatalf("expired token validated: %v", err)
	}
	active, err := repo.HasActive(ctx, u.ID)
	if err != nil || active {
		t.Fatalf("expired token counted active: %v %t", err, active)
	}
}
