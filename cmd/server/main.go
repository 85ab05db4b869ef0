package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"ecocredit/internal/config"     // environment configuration
	"ecocredit/internal/database"   // MySQL connection and schema
	"ecocredit/internal/handler"    // HTTP handlers
	"ecocredit/internal/middleware" // rate limiting and response cache
	"ecocredit/internal/queue"      // entry.recorded consumer
	"ecocredit/internal/repository" // data access layer
	"ecocredit/internal/router"     // route registration
	"ecocredit/internal/service"    // domain engines
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	// Redis is optional: without it the leaderboard cache and the rate
	// limiter degrade to pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	entries := repository.NewEntryRepo(db)
	sessions := repository.NewSessionRepo(db)

	ledger := service.NewLedger(users, entries)
	dashboard := service.NewDashboard(entries)
	leaderboard := service.NewLeaderboard(users)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, sessions), cfg.JWTSecret,
		middleware.NewTokenBucket(rateCfg, rdb))
	router.RegisterEntries(e,
		handler.NewEntryHandler(ledger, users, rdb, cacheCfg.Prefix),
		handler.NewDashboardHandler(dashboard, users),
		cfg.JWTSecret)
	router.RegisterLeaderboard(e, handler.NewLeaderboardHandler(leaderboard),
		middleware.NewRedisCache(cacheCfg, rdb))

	// Background audit consumer; reconnects on its own and never brings
	// the server down.
	go func() {
		if err := queue.StartEntryConsumer(); err != nil {
			log.Printf("entry-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
