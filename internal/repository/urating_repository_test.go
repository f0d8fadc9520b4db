package repository_test

import (
	"context"
	"testing"

	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/testutil"
)

func TestUratingRepo_UpsertOverwrites(t *testing.T) {
	db := testutil.OpenTestDB(t, "uratingrepo")
	repo := repository.NewUratingRepo(db)
	ctx := context.Background()

	rated := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")
	rater := testutil.SeedUser(t, db, "Bob", "bob@example.com", "bob")

	first, err := repo.Upsert(ctx, rated.ID, rater.ID, 3)
	if err != nil || first.Rating != 3 {
		t.Fatalf("first rate: %v %+v", err, first)
	}

	second, err := repo.Upsert(ctx, rated.ID, rater.ID, 5)
	if err != nil || second.Rating != 5 {
		t.Fatalf("re-rate: %v %+v", err, second)
	}
	if second.ID != first.ID {
		t.Fatalf("re-rate created a new row: %d vs %d", second.ID, first.ID)
	}
	if n := testutil.CountRows(t, db, "uratings", "user_id=? AND rater_id=?", rated.ID, rater.ID); n != 1 {
		t.Fatalf("expected exactly one rating row, got %d", n)
	}

	// Idempotent re-apply.
	third, err := repo.Upsert(ctx, rated.ID, rater.ID, 5)
	if err != nil || third.Rating != 5 || third.ID != first.ID {
		t.Fatalf("idempotent re-apply: %v %+v", err, third)
	}

	if _, err := repo.Upsert(ctx, 9999, rater.ID, 4); err != repository.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUratingRepo_SummaryFor(t *testing.T) {
	db := testutil.OpenTestDB(t, "uratingsummary")
	repo := repository.NewUratingRepo(db)
	ctx := context.Background()

	rated := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")
	r1 := testutil.SeedUser(t, db, "Bob", "bob@example.com", "bob")
	r2 := testutil.SeedUser(t, db, "Eve", "eve@example.com", "eve")

	empty, err := repo.SummaryFor(ctx, rated.ID)
	if err != nil || empty.Count != 0 || empty.Average != 0 {
		t.Fatalf("empty summary: %v %+v", err, empty)
	}

	if _, err := repo.Upsert(ctx, rated.ID, r1.ID, 2); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := repo.Upsert(ctx, rated.ID, r2.ID, 5); err != nil {
		t.Fatalf("rate: %v", err)
	}

	s, err := repo.SummaryFor(ctx, rated.ID)
	if err != nil || s.Count != 2 {
		t.Fatalf("summary: %v %+v", err, s)
	}
	if s.Average < 3.49 || s.Average > 3.51 {
		t.Fatalf("expected average 3.5, got %f", s.Average)
	}
}
