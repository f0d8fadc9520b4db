package handler_test

import (
	"net/http"
	"testing"

	"github.com/arnaupv/forum-api/internal/testutil"
)

// Exercises the whole voting surface end to end: casting, idempotent
// repeats, flips, the self-vote guard and the unread feed.
func TestVoteEndToEnd(t *testing.T) {
	e, db := newTestServer(t, "voteflow")
	alice := register(t, e, "Alice", "alice@example.com", "alice")
	bob := register(t, e, "Bob", "bob@example.com", "bob")

	rec := do(e, "POST", "/threads", alice, map[string]any{"title": "Topic", "content": "Body"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create thread: %d", rec.Code)
	}
	rec = do(e, "POST", "/responses", bob, map[string]any{"content": "A reply", "thread_id": 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create response: %d", rec.Code)
	}

	// Authors cannot vote on their own responses.
	if rec = do(e, "POST", "/responses/1/vote", bob, map[string]any{"action": true}); rec.Code != http.StatusForbidden {
		t.Fatalf("self vote: status %d", rec.Code)
	}

	// First vote inserts.
	if rec = do(e, "POST", "/responses/1/vote", alice, map[string]any{"action": true}); rec.Code != http.StatusOK {
		t.Fatalf("vote: status %d body %s", rec.Code, rec.Body.String())
	}
	// Repeating the same action succeeds without growing the table.
	if rec = do(e, "POST", "/responses/1/vote", alice, map[string]any{"action": true}); rec.Code != http.StatusOK {
		t.Fatalf("repeat vote: status %d", rec.Code)
	}
	if n := testutil.CountRows(t, db, "votes", ""); n != 1 {
		t.Fatalf("expected 1 vote row, got %d", n)
	}
	// Flipping updates the row in place.
	if rec = do(e, "POST", "/responses/1/vote", alice, map[string]any{"action": false}); rec.Code != http.StatusOK {
		t.Fatalf("flip vote: status %d", rec.Code)
	}
	if n := testutil.CountRows(t, db, "votes", ""); n != 1 {
		t.Fatalf("flip grew the table: %d", n)
	}

	if rec = do(e, "POST", "/responses/abc/vote", alice, map[string]any{"action": true}); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status %d", rec.Code)
	}
	if rec = do(e, "POST", "/responses/999/vote", alice, map[string]any{"action": true}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown response: status %d", rec.Code)
	}
	if rec = do(e, "POST", "/responses/1/vote", alice, map[string]any{}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing action: status %d", rec.Code)
	}
}

func TestUnreadVoteFeed(t *testing.T) {
	e, _ := newTestServer(t, "unreadflow")
	alice := register(t, e, "Alice", "alice@example.com", "alice")
	bob := register(t, e, "Bob", "bob@example.com", "bob")

	do(e, "POST", "/threads", alice, map[string]any{"title": "Topic", "content": "Body"})
	do(e, "POST", "/responses", bob, map[string]any{"content": "A reply", "thread_id": 1})
	do(e, "POST", "/responses/1/vote", alice, map[string]any{"action": true})

	// The feed belongs to the voter, not the response author.
	rec := do(e, "GET", "/unread-votes", bob, nil)
	if feed := decode(t, rec)["unreadVotes"].([]any); len(feed) != 0 {
		t.Fatalf("bob should have no unread votes, got %d", len(feed))
	}
	rec = do(e, "GET", "/unread-votes", alice, nil)
	feed := decode(t, rec)["unreadVotes"].([]any)
	if len(feed) != 1 {
		t.Fatalf("alice should have 1 unread vote, got %d", len(feed))
	}
	entry := feed[0].(map[string]any)
	if entry["response"].(map[string]any)["content"] != "A reply" {
		t.Fatalf("response not joined into feed: %v", entry)
	}

	rec = do(e, "POST", "/unread-votes/read", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read: status %d", rec.Code)
	}
	if marked := decode(t, rec)["marked"].(float64); marked != 1 {
		t.Fatalf("expected 1 marked, got %v", marked)
	}
	rec = do(e, "GET", "/unread-votes", alice, nil)
	if feed := decode(t, rec)["unreadVotes"].([]any); len(feed) != 0 {
		t.Fatalf("feed should be empty after ack, got %d", len(feed))
	}
}
