package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/testutil"
)

func TestThreadRepo_CreateAndList(t *testing.T) {
	db := testutil.OpenTestDB(t, "threadrepo")
	repo := repository.NewThreadRepo(db)
	ctx := context.Background()

	a := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")
	b := testutil.SeedUser(t, db, "Bob", "bob@example.com", "bob")

	t1, err := repo.Create(ctx, "first", "content one", a.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if t1.ID == 0 || t1.UserID != a.ID {
		t.Fatalf("unexpected thread: %+v", t1)
	}
	if _, err := repo.Create(ctx, "second", "content two", b.ID); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, t1.ID)
	if err != nil || got.Title != "first" || got.UserID != a.ID {
		t.Fatalf("get by id: %v %+v", err, got)
	}
	if _, err := repo.GetByID(ctx, 9999); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("list all: %v len=%d", err, len(all))
	}
	mine, err := repo.ListByOwner(ctx, a.ID)
	if err != nil || len(mine) != 1 || mine[0].ID != t1.ID {
		t.Fatalf("list by owner: %v %+v", err, mine)
	}
}

func TestThreadRepo_DeleteByIDAndOwner(t *testing.T) {
	db := testutil.OpenTestDB(t, "threaddelete")
	ctx := context.Background()

	threads := repository.NewThreadRepo(db)
	responses := repository.NewResponseRepo(db)
	votes := repository.NewVoteRepo(db)

	a := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")
	b := testutil.SeedUser(t, db, "Bob", "bob@example.com", "bob")

	th, err := threads.Create(ctx, "topic", "body", a.ID)
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	resp, err := responses.Create(ctx, "reply", th.ID, b.ID)
	if err != nil {
		t.Fatalf("create response: %v", err)
	}
	if _, err := votes.Upsert(ctx, a.ID, resp.ID, true); err != nil {
		t.Fatalf("vote: %v", err)
	}

	// Not the owner: same error as not-found, nothing removed.
	if err := threads.DeleteByIDAndOwner(ctx, th.ID, b.ID); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows for foreign owner, got %v", err)
	}
	if n := testutil.CountRows(t, db, "responses", ""); n != 1 {
		t.Fatalf("foreign delete touched responses: %d", n)
	}

	// Unknown id behaves identically.
	if err := threads.DeleteByIDAndOwner(ctx, 9999, a.ID); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows for unknown id, got %v", err)
	}

	if err := threads.DeleteByIDAndOwner(ctx, th.ID, a.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if n := testutil.CountRows(t, db, "threads", ""); n != 0 {
		t.Fatalf("thread left: %d", n)
	}
	if n := testutil.CountRows(t, db, "responses", ""); n != 0 {
		t.Fatalf("responses left: %d", n)
	}
	if n := testutil.CountRows(t, db, "votes", ""); n != 0 {
		t.Fatalf("votes left: %d", n)
	}
}
