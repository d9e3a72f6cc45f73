package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/votesync/internal/adapters/api"
	"github.com/vncsmyrnk/votesync/internal/adapters/auth"
	"github.com/vncsmyrnk/votesync/internal/adapters/cache"
	"github.com/vncsmyrnk/votesync/internal/adapters/notify"
	"github.com/vncsmyrnk/votesync/internal/config"
	"github.com/vncsmyrnk/votesync/internal/core/reconcile"
)

const devTokenTTL = 12 * time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	cfg, err := config.ParseClient(os.Args[1:])
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ordering, err := reconcile.ParseOrdering(cfg.Ordering)
	if err != nil {
		return err
	}

	token, err := accessToken(cfg)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.APIURL,
		api.WithToken(token),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithLogger(logger),
	)
	store := cache.NewStore(logger)

	engine := reconcile.New(client, store,
		reconcile.WithDebounce(cfg.Debounce),
		reconcile.WithRequestTimeout(cfg.Timeout),
		reconcile.WithSession(client),
		reconcile.WithOrdering(ordering),
		reconcile.WithLogger(logger),
		reconcile.WithNotifier(notify.Multi{notify.NewWriter(os.Stdout), notify.NewLog(logger)}),
	)
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !client.Authenticated() {
		fmt.Println("not signed in: votes will be rejected (use -token or -user)")
	}

	return newShell(client, engine, store, os.Stdout).run(ctx, os.Stdin)
}

// accessToken returns the configured token, or signs a development one for
// -user with the server's secret.
func accessToken(cfg config.Client) (string, error) {
	if cfg.Token != "" || cfg.UserID == "" {
		return cfg.Token, nil
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user id: %w", err)
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, devTokenTTL)
	if err != nil {
		return "", err
	}
	return tokens.Issue(userID, "")
}
