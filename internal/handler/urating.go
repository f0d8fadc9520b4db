package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/repository"
)

// UratingHandler serves user-to-user ratings: the upsert endpoint and
// the derived per-user aggregate.
type UratingHandler struct {
	Ratings *repository.UratingRepo
}

func NewUratingHandler(r *repository.UratingRepo) *UratingHandler {
	return &UratingHandler{Ratings: r}
}

type rateReq struct {
	UserID uint64 `json:"user_id"`
	Rating uint8  `json:"rating"`
}

// Rate handles POST /uratings/rate. One score per (rated, rater) pair;
// rating again overwrites, so re-applying the same score is idempotent.
// Raters may rate themselves -- the original product allowed it and
// nothing here forbids it.
func (h *UratingHandler) Rate(c echo.Context) error {
	raterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope(false, "invalid body", nil))
	}

	errs := validationErrors{}
	if req.UserID == 0 {
		errs.add("user_id", "The user_id field is required.")
	}
	if req.Rating < 1 || req.Rating > 5 {
		errs.add("rating", "The rating must be between 1 and 5.")
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, envelope(false, errs, nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rating, err := h.Ratings.Upsert(ctx, req.UserID, raterID, req.Rating)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnprocessableEntity,
				envelope(false, validationErrors{"user_id": {"The selected user_id is invalid."}}, nil))
		}
		return c.JSON(http.StatusInternalServerError, envelope(false, "rate failed", nil))
	}
	return c.JSON(http.StatusOK, envelope(true, "Rating saved successfully", echo.Map{"rating": rating}))
}

// GetSummary handles GET /uratings/:user_id: the read-time average and
// count over the ledger for one user. There is no stored aggregate to
// drift out of sync.
func (h *UratingHandler) GetSummary(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, envelope(false, "invalid user id", nil))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Ratings.SummaryFor(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, envelope(false, "query failed", nil))
	}
	return c.JSON(http.StatusOK, envelope(true, "Rating summary", summary))
}
