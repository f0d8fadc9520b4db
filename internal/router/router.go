// Package router wires handlers, middleware and routes onto Echo.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/arnaupv/forum-api/internal/config"
	"github.com/arnaupv/forum-api/internal/handler"
	"github.com/arnaupv/forum-api/internal/middleware"
	"github.com/arnaupv/forum-api/internal/repository"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Threads   *handler.ThreadHandler
	Responses *handler.ResponseHandler
	Votes     *handler.VoteHandler
	Uratings  *handler.UratingHandler
}

// Register mounts all routes. Public endpoints come first: health,
// register/login (rate limited), the thread listing and the user
// directory (both cached). Everything else requires a Bearer token;
// the role toggle additionally requires admin.
func Register(e *echo.Echo, h Handlers, jwtSecret string, tokens *repository.TokenRepo, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.Cache(config.LoadCacheConfig(), rdb)

	e.POST("/register", h.Auth.Register, limiter)
	e.POST("/login", h.Auth.Login, limiter)
	e.GET("/threads", h.Threads.GetAll, cache)
	e.GET("/users/getAll", h.Users.GetAll, cache)

	auth := e.Group("", middleware.Auth(jwtSecret, tokens))

	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/user", h.Auth.Profile)
	auth.PUT("/user/update", h.Users.Update)
	auth.DELETE("/user/delete", h.Users.Delete)

	auth.POST("/threads", h.Threads.Create)
	auth.GET("/my-threads", h.Threads.GetMine)
	auth.DELETE("/threads/:id", h.Threads.Delete)

	auth.GET("/responses/:thread_id", h.Responses.GetByThread)
	auth.POST("/responses", h.Responses.Create)
	auth.GET("/responses/:response_id/user", h.Responses.GetAuthor)

	auth.POST("/responses/:responseId/vote", h.Votes.Vote)
	auth.GET("/unread-votes", h.Votes.GetUnread)
	auth.POST("/unread-votes/read", h.Votes.MarkRead)

	auth.POST("/uratings/rate", h.Uratings.Rate)
	auth.GET("/uratings/:user_id", h.Uratings.GetSummary)

	auth.PUT("/users/updateRole", h.Users.UpdateRole, middleware.RequireAdmin())
}
