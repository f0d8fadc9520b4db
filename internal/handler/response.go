package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/repository"
)

// ResponseHandler serves response listing, creation and author lookup.
type ResponseHandler struct {
	Responses *repository.ResponseRepo
}

func NewResponseHandler(r *repository.ResponseRepo) *ResponseHandler {
	return &ResponseHandler{Responses: r}
}

type createResponseReq struct {
	Content  string `json:"content"`
	ThreadID uint64 `json:"thread_id"`
}

// GetByThread handles GET /responses/:thread_id and returns the
// thread's responses in creation order with their authors joined.
func (h *ResponseHandler) GetByThread(c echo.Context) error {
	threadID, err := strconv.ParseUint(c.Param("thread_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid thread id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	responses, err := h.Responses.ListByThread(ctx, threadID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to fetch responses.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "responses": responses})
}

// Create handles POST /responses. The thread must exist; a dangling
// thread_id is a validation error, not a 404.
func (h *ResponseHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	var req createResponseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	errs := validationErrors{}
	if strings.TrimSpace(req.Content) == "" {
		errs.add("content", "The content field is required.")
	}
	if req.ThreadID == 0 {
		errs.add("thread_id", "The thread_id field is required.")
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, envelope(false, errs, nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	response, err := h.Responses.Create(ctx, req.Content, req.ThreadID, userID)
	if err != nil {
		if err == repository.ErrThreadNotFound {
			return c.JSON(http.StatusUnprocessableEntity,
				envelope(false, validationErrors{"thread_id": {"The selected thread_id is invalid."}}, nil))
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to create response.",
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "response": response})
}

// GetAuthor handles GET /responses/:response_id/user and returns the
// public identity of the response's author.
func (h *ResponseHandler) GetAuthor(c echo.Context) error {
	responseID, err := strconv.ParseUint(c.Param("response_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid response id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	author, err := h.Responses.GetAuthor(ctx, responseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"message": "Response or user not found.",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "query failed",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": author})
}
