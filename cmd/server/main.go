package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/todo-list-api/internal/config"     // Internal config loader
	"github.com/iliyamo/todo-list-api/internal/database"   // MySQL connection helper
	"github.com/iliyamo/todo-list-api/internal/handler"    // HTTP handlers
	"github.com/iliyamo/todo-list-api/internal/middleware" // Rate limiting middleware
	"github.com/iliyamo/todo-list-api/internal/queue"      // Archive event consumer
	"github.com/iliyamo/todo-list-api/internal/repository" // Data access layer
	"github.com/iliyamo/todo-list-api/internal/router"     // Route registration
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	lists := repository.NewListRepo(db)
	items := repository.NewItemRepo(db)
	keys := repository.NewAPIKeyRepo(db)

	e := echo.New() // Create Echo instance
	e.HideBanner = true

	// Rate limiting runs ahead of authentication; it is a no-op unless
	// enabled and a Redis connection is available.
	rlCfg := config.LoadRateLimitConfig()
	if rlCfg.Enabled {
		e.Use(middleware.RateLimit(rlCfg, config.NewRedisClient()))
	}

	router.RegisterRoutes(e) // Health check
	router.RegisterAPI(e, router.Deps{
		Cfg:   cfg,
		Users: users,
		Keys:  keys,
		UserH: handler.NewUserHandler(cfg, users),
		KeyH:  handler.NewAPIKeyHandler(cfg, keys),
		ListH: handler.NewListHandler(lists),
		ItemH: handler.NewItemHandler(items, lists),
	})

	// Consume archive events in the background and append them to the
	// audit log.  The consumer reconnects on broker failures.
	go queue.StartArchiveConsumer()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
