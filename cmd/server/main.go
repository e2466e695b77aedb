package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ferrylane/reviewly/internal/config"
	"github.com/ferrylane/reviewly/internal/database"
	"github.com/ferrylane/reviewly/internal/handler"
	"github.com/ferrylane/reviewly/internal/middleware"
	"github.com/ferrylane/reviewly/internal/queue"
	"github.com/ferrylane/reviewly/internal/repository"
	"github.com/ferrylane/reviewly/internal/router"
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

	// Redis is optional infrastructure.  When it is unreachable the cache
	// and rate limiter middlewares pass every request through.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	cats := repository.NewCategoryRepo(db)
	genres := repository.NewGenreRepo(db)
	works := repository.NewWorkRepo(db)
	reviews := repository.NewReviewRepo(db)
	comments := repository.NewCommentRepo(db)

	authH := &handler.AuthHandler{Cfg: cfg, Users: users}
	userH := &handler.UserHandler{Cfg: cfg, Users: users}
	catH := &handler.CategoryHandler{Cats: cats}
	genreH := &handler.GenreHandler{Genres: genres}
	workH := &handler.WorkHandler{Works: works, Cats: cats, Genres: genres}
	reviewH := &handler.ReviewHandler{Works: works, Reviews: reviews}
	commentH := &handler.CommentHandler{Works: works, Reviews: reviews, Comments: comments}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterUsers(e, userH, cfg.JWTSecret)
	router.RegisterCatalog(e, catH, genreH, workH, cfg.JWTSecret, cache)
	router.RegisterReviews(e, reviewH, commentH, cfg.JWTSecret)

	// The consumer drains confirmation e-mail events published during
	// signup.  It reconnects on its own, so a startup failure here only
	// delays delivery.
	go func() {
		if err := queue.StartEmailConsumer(); err != nil {
			log.Printf("email consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
