package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"librarium/internal/auth"
	"librarium/internal/config"
	"librarium/internal/database"
	"librarium/internal/database/books"
	"librarium/internal/database/categories"
	"librarium/internal/database/loans"
	"librarium/internal/database/reviews"
	"librarium/internal/database/users"
	http_controllers "librarium/internal/http"
	"librarium/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarium v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	loanRepo := loans.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)

	// Tokens signed with a generated secret stop verifying after a
	// restart, so warn when running without a configured one.
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = auth.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate token secret: %v", err)
		}
		log.Printf("Generated token signing secret (set JWT_SECRET to persist sessions across restarts)")
	}

	tokenManager := auth.NewTokenManager(secret, cfg.Auth.TokenExpiry)
	limiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	})
	authService := auth.NewService(userRepo, tokenManager, limiter, cfg.Auth)
	authMiddleware := auth.NewMiddleware(userRepo, tokenManager)

	var sweeper *scheduler.OverdueSweeper
	if cfg.Sweep.Enabled {
		sweeper = scheduler.NewOverdueSweeper(loanRepo, cfg.Sweep.Schedule)
		if err := sweeper.Start(); err != nil {
			log.Fatalf("Failed to start overdue sweep: %v", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		UserStore:      userRepo,
		CategoryStore:  categoryRepo,
		BookStore:      bookRepo,
		LoanStore:      loanRepo,
		ReviewStore:    reviewRepo,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if sweeper != nil {
			sweeper.Stop()
		}
		limiter.Stop()
	}

	Serve(router, cfg, onShutdown)
}
