package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/memojjang/memojjang/internal/db"
	"github.com/memojjang/memojjang/internal/handlers"
	"github.com/memojjang/memojjang/internal/handlers/middleware"
	"github.com/memojjang/memojjang/internal/handlers/render"
	"github.com/memojjang/memojjang/internal/logger"
	"github.com/memojjang/memojjang/internal/repository/postgres"
	"github.com/memojjang/memojjang/internal/service/auth"
	"github.com/memojjang/memojjang/internal/service/auth/sessionmanager"
	"github.com/memojjang/memojjang/internal/service/memo"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if c.SecretKey == "" {
		return nil, errors.New("secret key must be set, generate one with cmd/gensecret")
	}

	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	sessions, err := sessionmanager.New(
		sessionmanager.Config{SecretKey: c.SecretKey, SessionTTL: c.SessionTTL},
		storage.Session(),
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating session manager. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{}, sessions, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	memoService := memo.NewService(storage.Memo())

	// Initialize handlers
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("error while parsing templates. Err: %w", err)
	}

	secureCookies := c.Environment == logger.EnvProduction
	authHandler := handlers.NewAuth(authService, renderer, log, secureCookies)
	memoHandler := handlers.NewMemo(memoService, renderer, log)

	mux := handlers.NewRouter(
		authHandler,
		memoHandler,
		renderer,
		middleware.RequireLogin(authService),
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			// Consider to use logger dependency
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		// Consider to use logger dependency
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
