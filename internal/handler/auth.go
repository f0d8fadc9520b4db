package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/config"
	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and logout.
type AuthHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Tokens  *repository.TokenRepo
	Ratings *repository.UratingRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, r *repository.UratingRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Ratings: r}
}

// ----- DTOs -----

type registerReq struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Username             string `json:"username"`
}

type loginReq struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// validationErrors mirrors the field -> messages shape the frontend
// already consumes.
type validationErrors map[string][]string

func (v validationErrors) add(field, msg string) { v[field] = append(v[field], msg) }

func validateRegister(req *registerReq) validationErrors {
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
	if req.Password == "" {
		errs.add("password", "The password field is required.")
	} else {
		if len(req.Password) < 5 {
			errs.add("password", "The password must be at least 5 characters.")
		}
		if req.Password != req.PasswordConfirmation {
			errs.add("password", "The password confirmation does not match.")
		}
	}
	if req.Username == "" {
		errs.add("username", "The username field is required.")
	}
	return errs
}

// Register creates a member account and logs it in immediately,
// returning the user and a fresh bearer token. When the email already
// belongs to a user holding an active token the request is rejected
// with 409 before any validation runs.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope(false, "invalid body", nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if existing, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		active, err := h.Tokens.HasActive(ctx, existing.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, envelope(false, "create user failed", nil))
		}
		if active {
			return c.JSON(http.StatusConflict, envelope(false, "User is logged in", nil))
		}
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, envelope(false, "create user failed", nil))
	}

	if errs := validateRegister(&req); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, envelope(false, errs, nil))
	}

	user, err := h.Users.Create(ctx, req.Name, req.Email, req.Username, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusUnprocessableEntity,
				envelope(false, validationErrors{"email": {"The email has already been taken."}}, nil))
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusUnprocessableEntity,
				envelope(false, validationErrors{"username": {"The username has already been taken."}}, nil))
		}
		return c.JSON(http.StatusInternalServerError, envelope(false, "create user failed", nil))
	}

	tok, err := utils.NewBearerToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.TokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, envelope(false, "issue token failed", nil))
	}
	if err := h.Tokens.Store(ctx, user.ID, utils.HashToken(tok.Token), tok.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, envelope(false, "save token failed", nil))
	}

	return c.JSON(http.StatusOK, envelope(true, "Registration successful",
		echo.Map{"user": user, "token": tok.Token}))
}

// Login verifies credentials looked up by email OR username, revokes
// every previously issued token and hands back exactly one new token.
// A user therefore has a single active session after a fresh login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope(false, "invalid body", nil))
	}
	if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
		return c.JSON(http.StatusUnprocessableEntity,
			envelope(false, "identifier and password are required", nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, envelope(false, "Login UNSUCCESSFUL", nil))
		}
		return c.JSON(http.StatusInternalServerError, envelope(false, "query failed", nil))
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, envelope(false, "Login UNSUCCESSFUL", nil))
	}

	if err := h.Tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, envelope(false, "login failed", nil))
	}
	tok, err := utils.NewBearerToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.TokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, envelope(false, "issue token failed", nil))
	}
	if err := h.Tokens.Store(ctx, user.ID, utils.HashToken(tok.Token), tok.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, envelope(false, "save token failed", nil))
	}

	return c.JSON(http.StatusOK, envelope(true, "Login SUCCESSFUL", echo.Map{"token": tok.Token}))
}

// Logout revokes every token of the current user.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User logged out successfully"})
}

// Profile returns the current user's details plus their derived rating
// average over the uratings ledger.
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	summary, err := h.Ratings.SummaryFor(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name":     user.Name,
		"email":    user.Email,
		"username": user.Username,
		"rating":   summary.Average,
	})
}
