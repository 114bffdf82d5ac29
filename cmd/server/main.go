package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinepass/movie-booking/internal/config"
	"github.com/cinepass/movie-booking/internal/database"
	"github.com/cinepass/movie-booking/internal/handler"
	"github.com/cinepass/movie-booking/internal/middleware"
	"github.com/cinepass/movie-booking/internal/queue"
	"github.com/cinepass/movie-booking/internal/repository"
	"github.com/cinepass/movie-booking/internal/router"
	"github.com/cinepass/movie-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	theaters := repository.NewTheaterRepo(db)
	movies := repository.NewMovieRepo(db)
	shows := repository.NewShowRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens, theaters)
	ownerH := handler.NewOwnerHandler(theaters, shows, movies, service.PublishShowScheduled)
	movieH := handler.NewMovieHandler(movies)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterMovies(e, movieH, cfg.JWTSecret, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterOwner(e, ownerH, cfg.JWTSecret)

	// Background consumer mirrors scheduled shows into logs/shows.log.
	go func() {
		if err := queue.StartShowConsumer(); err != nil {
			log.Printf("show consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
