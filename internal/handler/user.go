package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/repository"
)

// UserHandler serves profile updates, account deletion, the public
// user directory and the admin role toggle.
type UserHandler struct {
	Users   *repository.UserRepo
	Ratings *repository.UratingRepo
}

func NewUserHandler(u *repository.UserRepo, r *repository.UratingRepo) *UserHandler {
	return &UserHandler{Users: u, Ratings: r}
}

type updateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Update changes the current user's name, email and username. Email and
// username must stay unique across other users.
func (h *UserHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	errs := validationErrors{}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Name == "" {
		errs.add("name", "The name field is required.")
	} else if len(req.Name) > 255 {
		errs.add("name", "The name may not be greater than 255 characters.")
	}
	if req.Email == "" {
		errs.add("email", "The email field is required.")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs.add("email", "The email must be a valid email address.")
	}
	if req.Username == "" {
		errs.add("username", "The username field is required.")
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, envelope(false, errs, nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateDetails(ctx, userID, req.Name, req.Email, req.Username); err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusUnprocessableEntity,
				envelope(false, validationErrors{"email": {"The email has already been taken."}}, nil))
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusUnprocessableEntity,
				envelope(false, validationErrors{"username": {"The username has already been taken."}}, nil))
		case sql.ErrNoRows:
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User details updated successfully"})
}

// Delete removes the current user's account and cascades over their
// threads, responses, votes, ratings and tokens in one transaction.
func (h *UserHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, userID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Your account has been deleted."})
}

// GetAll returns the public user directory. Password hashes never
// serialize; the derived rating is attached per user.
func (h *UserHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	for i := range users {
		summary, err := h.Ratings.SummaryFor(ctx, users[i].ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
		}
		users[i].Rating = summary.Average
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

type updateRoleReq struct {
	UserID uint64 `json:"user_id"`
}

// UpdateRole flips the target user's role between member and admin.
// This is deliberately a binary toggle, not a role-assignment API.
// Admin-only; routing applies the RequireAdmin middleware.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusUnprocessableEntity,
			envelope(false, validationErrors{"user_id": {"The user_id field is required."}}, nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Users.ToggleRole(ctx, req.UserID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, envelope(false, "User not found", nil))
		}
		return c.JSON(http.StatusInternalServerError, envelope(false, "update failed", nil))
	}
	return c.JSON(http.StatusOK, envelope(true, "Role updated successfully",
		echo.Map{"user_id": req.UserID, "role": role}))
}
