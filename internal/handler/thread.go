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

// ThreadHandler serves thread CRUD (create, list, list-own, delete;
// threads have no update).
type ThreadHandler struct {
	Threads *repository.ThreadRepo
}

func NewThreadHandler(t *repository.ThreadRepo) *ThreadHandler {
	return &ThreadHandler{Threads: t}
}

type createThreadReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create handles POST /threads for the authenticated user.
func (h *ThreadHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	var req createThreadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	errs := validationErrors{}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		errs.add("title", "The title field is required.")
	} else if len(req.Title) > 255 {
		errs.add("title", "The title may not be greater than 255 characters.")
	}
	if strings.TrimSpace(req.Content) == "" {
		errs.add("content", "The content field is required.")
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, envelope(false, errs, nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	thread, err := h.Threads.Create(ctx, req.Title, req.Content, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create thread failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Thread created successfully!",
		"thread":  thread,
	})
}

// GetAll handles GET /threads: every thread, unfiltered and
// unpaginated. Public; sits behind the response cache.
func (h *ThreadHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	threads, err := h.Threads.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"threads": threads})
}

// GetMine handles GET /my-threads for the authenticated user.
func (h *ThreadHandler) GetMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	threads, err := h.Threads.ListByOwner(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"threads": threads})
}

// Delete handles DELETE /threads/:id. A thread that does not exist and
// a thread owned by someone else both produce the same 404; the
// response deliberately does not reveal which it was.
func (h *ThreadHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Threads.DeleteByIDAndOwner(ctx, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{
				"message": "Thread not found or you are not authorized to delete this thread.",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Thread deleted successfully."})
}
