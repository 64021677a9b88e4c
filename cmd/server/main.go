package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/xuhuan/visitor-management/internal/config"
	"github.com/xuhuan/visitor-management/internal/database"
	"github.com/xuhuan/visitor-management/internal/handler"
	"github.com/xuhuan/visitor-management/internal/queue"
	"github.com/xuhuan/visitor-management/internal/repository"
	"github.com/xuhuan/visitor-management/internal/router"
	"github.com/xuhuan/visitor-management/internal/token"
)

func main() {
	// Load .env if present; real deployments set the environment
	// directly and the file is optional.
	_ = godotenv.Load()

	// Load() exits fatally on missing required variables, including
	// JWT_SECRET: the service must never start with a default secret.
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the revocation set and the login rate limiter. When
	// it is unreachable we fall back to the in-process revocation
	// store and run without rate limiting rather than refusing to
	// start.
	rdb := config.NewRedisClient()
	var revocations token.RevocationStore
	if rdb != nil {
		revocations = token.NewRedisRevocations(rdb)
	} else {
		log.Println("redis unavailable; using in-process token revocation store")
		revocations = token.NewMemoryRevocations()
	}
	tokens := token.NewService(cfg.JWTSecret, revocations)

	// Repositories share the one connection pool.
	users := repository.NewUserRepo(db)
	pending := repository.NewPendingRepo(db)
	visitors := repository.NewVisitorRepo(db)
	logs := repository.NewVisitorLogRepo(db)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(users, tokens),
		Users:    handler.NewUserHandler(users, cfg.BcryptCost),
		Approval: handler.NewApprovalHandler(pending, cfg.BcryptCost),
		Visitors: handler.NewVisitorHandler(visitors, users),
		Pass:     handler.NewPassHandler(visitors),
		Logs:     handler.NewVisitorLogHandler(logs),
	}

	// The audit consumer runs for the lifetime of the process and
	// reconnects on its own; it never brings the server down.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, h, tokens, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
