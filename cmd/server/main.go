package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/config"
	"github.com/arnaupv/forum-api/internal/database"
	"github.com/arnaupv/forum-api/internal/handler"
	"github.com/arnaupv/forum-api/internal/queue"
	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/router"
	queuepublisher "github.com/arnaupv/forum-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	threads := repository.NewThreadRepo(db)
	responses := repository.NewResponseRepo(db)
	votes := repository.NewVoteRepo(db)
	uratings := repository.NewUratingRepo(db)

	voteHandler := handler.NewVoteHandler(votes, responses)
	voteHandler.Publish = queuepublisher.PublishVoteRecorded

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokens, uratings),
		Users:     handler.NewUserHandler(users, uratings),
		Threads:   handler.NewThreadHandler(threads),
		Responses: handler.NewResponseHandler(responses),
		Votes:     voteHandler,
		Uratings:  handler.NewUratingHandler(uratings),
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	go func() {
		if err := queue.StartVoteConsumer(); err != nil {
			log.Printf("vote consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, h, cfg.JWTSecret, tokens, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
