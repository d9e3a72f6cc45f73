package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/votesync/internal/adapters/auth"
	"github.com/vncsmyrnk/votesync/internal/adapters/handler/http"
	"github.com/vncsmyrnk/votesync/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/votesync/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/votesync/internal/config"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
	"github.com/vncsmyrnk/votesync/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	cfg, err := config.ParseServer(os.Args[1:])
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	var (
		projectRepo ports.ProjectRepository
		voteRepo    ports.VoteRepository
	)

	switch cfg.Store {
	case config.StoreMemory:
		store := memory.NewStore()
		projectRepo, voteRepo = store, store
	default:
		db, err := sql.Open("postgres", cfg.Postgres.ConnString())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return err
		}

		projectRepo = postgres.NewProjectRepository(db)
		voteRepo = postgres.NewVoteRepository(db)
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, auth.DefaultTTL)
	if err != nil {
		return err
	}

	handler := http.NewHandler(http.RouterConfig{
		Projects:       http.NewProjectHandler(services.NewProjectService(projectRepo, voteRepo)),
		Votes:          http.NewVoteHandler(services.NewVoteService(projectRepo, voteRepo)),
		Auth:           http.NewAuthMiddleware(tokens),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	server := &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
