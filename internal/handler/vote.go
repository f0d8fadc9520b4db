package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/queue"
	"github.com/arnaupv/forum-api/internal/repository"
)

// VoteHandler serves vote casting and the unread-vote notification
// feed. Publish is invoked asynchronously after a vote is created or
// its type changes; it may be nil (tests, broker-less deployments).
type VoteHandler struct {
	Votes     *repository.VoteRepo
	Responses *repository.ResponseRepo
	Publish   func(ctx context.Context, ev queue.VoteRecordedEvent) error
}

func NewVoteHandler(v *repository.VoteRepo, r *repository.ResponseRepo) *VoteHandler {
	return &VoteHandler{Votes: v, Responses: r}
}

type voteReq struct {
	// Pointer so an absent action is distinguishable from false (downvote).
	Action *bool `json:"action"`
}

// Vote handles POST /responses/:responseId/vote. Per-pair semantics:
// first vote inserts, same action again writes nothing, opposite action
// updates the row in place. Voting on one's own response is forbidden
// regardless of prior vote state.
func (h *VoteHandler) Vote(c echo.Context) error {
	voterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	responseID, err := strconv.ParseUint(c.Param("responseId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid response ID."})
	}
	var req voteReq
	if err := c.Bind(&req); err != nil || req.Action == nil {
		return c.JSON(http.StatusUnprocessableEntity,
			envelope(false, validationErrors{"action": {"The action field is required."}}, nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	response, err := h.Responses.GetByID(ctx, responseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Response not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if response.UserID == voterID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You cannot vote on your own response."})
	}

	result, err := h.Votes.Upsert(ctx, voterID, responseID, *req.Action)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "vote failed"})
	}

	if result.Changed && h.Publish != nil {
		ev := queue.VoteRecordedEvent{
			VoteID:           result.Vote.ID,
			ResponseID:       response.ID,
			ThreadID:         response.ThreadID,
			ResponseAuthorID: response.UserID,
			VoterID:          voterID,
			Upvote:           *req.Action,
			FirstVote:        result.Created,
			RecordedAt:       time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pubCancel()
			_ = h.Publish(pubCtx, ev)
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Vote registered successfully."})
}

// GetUnread handles GET /unread-votes: the caller's unread votes, each
// joined with its response, for the notification badge.
func (h *VoteHandler) GetUnread(c echo.Context) error {
	voterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	unread, err := h.Votes.ListUnread(ctx, voterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"unreadVotes": unread})
}

// MarkRead handles POST /unread-votes/read and acknowledges the
// caller's whole notification feed.
func (h *VoteHandler) MarkRead(c echo.Context) error {
	voterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Votes.MarkAllRead(ctx, voterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Votes marked as read.", "marked": n})
}
