package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/testutil"
)

func TestResponseRepo_Create(t *testing.T) {
	db := testutil.OpenTestDB(t, "resprepo")
	ctx := context.Background()

	threads := repository.NewThreadRepo(db)
	responses := repository.NewResponseRepo(db)

	a := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")
	th, err := threads.Create(ctx, "topic", "body", a.ID)
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	resp, err := responses.Create(ctx, "reply", th.ID, a.ID)
	if err != nil || resp.ID == 0 || resp.ThreadID != th.ID {
		t.Fatalf("create: %v %+v", err, resp)
	}

	if _, err := responses.Create(ctx, "reply", 9999, a.ID); err != repository.ErrThreadNotFound {
		t.Fatalf("expected ErrThreadNotFound, got %v", err)
	}
	if n := testutil.CountRows(t, db, "responses", ""); n != 1 {
		t.Fatalf("dangling create wrote rows: %d", n)
	}
}

func TestResponseRepo_ListByThreadOrderAndAuthor(t *testing.T) {
	db := testutil.OpenTestDB(t, "resplist")
	ctx := context.Background()

	threads := repository.NewThreadRepo(db)
	responses := repository.NewResponseRepo(db)

	a := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")
	b := testutil.SeedUser(t, db, "Bob", "bob@example.com", "bob")
	th, _ := threads.Create(ctx, "topic", "body", a.ID)

	first, err := responses.Create(ctx, "first", th.ID, a.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	testutil.Advance()
	second, err := responses.Create(ctx, "second", th.ID, b.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := responses.ListByThread(ctx, th.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("not in creation order: %d then %d", list[0].ID, list[1].ID)
	}
	if list[1].User.Username != "bob" || list[1].User.ID != b.ID {
		t.Fatalf("author not joined: %+v", list[1].User)
	}
}

func TestResponseRepo_GetAuthor(t *testing.T) {
	db := testutil.OpenTestDB(t, "respauthor")
	ctx := context.Background()

	threads := repository.NewThreadRepo(db)
	responses := repository.NewResponseRepo(db)

	a := testutil.SeedUser(t, db, "Alice", "alice@example.com", "alice")
	th, _ := threads.Create(ctx, "topic", "body", a.ID)
	resp, _ := responses.Create(ctx, "reply", th.ID, a.ID)

	author, err := responses.GetAuthor(ctx, resp.ID)
	if err != nil || author.ID != a.ID || author.Username != "alice" {
		t.Fatalf("get author: %v %+v", err, author)
	}
	if _, err := responses.GetAuthor(ctx, 9999); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
