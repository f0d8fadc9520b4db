package handler_test

import (
	"net/http"
	"testing"
)

func TestThreadLifecycle(t *testing.T) {
	e, _ := newTestServer(t, "threadflow")
	alice := register(t, e, "Alice", "alice@example.com", "alice")
	bob := register(t, e, "Bob", "bob@example.com", "bob")

	rec := do(e, "POST", "/threads", alice, map[string]any{"title": "Hello", "content": "First post"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)["thread"].(map[string]any)
	if created["id"].(float64) != 1 || created["title"] != "Hello" {
		t.Fatalf("unexpected thread: %v", created)
	}

	// Listing is public.
	rec = do(e, "GET", "/threads", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	if all := decode(t, rec)["threads"].([]any); len(all) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(all))
	}

	// my-threads only shows the owner's.
	rec = do(e, "GET", "/my-threads", bob, nil)
	if mine := decode(t, rec)["threads"].([]any); len(mine) != 0 {
		t.Fatalf("bob should own no threads, got %d", len(mine))
	}
	rec = do(e, "GET", "/my-threads", alice, nil)
	if mine := decode(t, rec)["threads"].([]any); len(mine) != 1 {
		t.Fatalf("alice should own 1 thread, got %d", len(mine))
	}

	// Someone else's delete reads as not found.
	if rec = do(e, "DELETE", "/threads/1", bob, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: status %d", rec.Code)
	}
	if rec = do(e, "DELETE", "/threads/abc", alice, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status %d", rec.Code)
	}
	if rec = do(e, "DELETE", "/threads/1", alice, nil); rec.Code != http.StatusOK {
		t.Fatalf("owner delete: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = do(e, "GET", "/threads", "", nil)
	if all := decode(t, rec)["threads"].([]any); len(all) != 0 {
		t.Fatalf("thread survived delete: %d", len(all))
	}
}

func TestThreadCreateValidation(t *testing.T) {
	e, _ := newTestServer(t, "threadvalidation")
	alice := register(t, e, "Alice", "alice@example.com", "alice")

	rec := do(e, "POST", "/threads", alice, map[string]any{"title": "", "content": "  "})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
	errs := decode(t, rec)["message"].(map[string]any)
	if _, ok := errs["title"]; !ok {
		t.Error("missing title error")
	}
	if _, ok := errs["content"]; !ok {
		t.Error("missing content error")
	}
}

func TestResponseEndpoints(t *testing.T) {
	e, _ := newTestServer(t, "responseflow")
	alice := register(t, e, "Alice", "alice@example.com", "alice")
	bob := register(t, e, "Bob", "bob@example.com", "bob")

	rec := do(e, "POST", "/threads", alice, map[string]any{"title": "Topic", "content": "Body"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create thread: %d", rec.Code)
	}

	rec = do(e, "POST", "/responses", bob, map[string]any{"content": "A reply", "thread_id": 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create response: status %d body %s", rec.Code, rec.Body.String())
	}

	// Dangling thread_id is a validation failure, not a 404.
	rec = do(e, "POST", "/responses", bob, map[string]any{"content": "A reply", "thread_id": 999})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("dangling thread_id: status %d", rec.Code)
	}

	rec = do(e, "GET", "/responses/1", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list responses: status %d", rec.Code)
	}
	body := decode(t, rec)
	list := body["responses"].([]any)
	if body["success"] != true || len(list) != 1 {
		t.Fatalf("unexpected listing: %v", body)
	}
	author := list[0].(map[string]any)["user"].(map[string]any)
	if author["username"] != "bob" {
		t.Fatalf("author not joined: %v", author)
	}

	rec = do(e, "GET", "/responses/1/user", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get author: status %d", rec.Code)
	}
	if u := decode(t, rec)["user"].(map[string]any); u["username"] != "bob" {
		t.Fatalf("unexpected author: %v", u)
	}
	if rec = do(e, "GET", "/responses/999/user", alice, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown response author: status %d", rec.Code)
	}
}
