package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/votesync/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/votesync/internal/config"
	"github.com/vncsmyrnk/votesync/internal/core/services"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Println(err)
	}

	cfg, _, err := config.ParseJob("votesummarizing", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	// Initialize Repositories
	projectRepo := postgres.NewProjectRepository(db)
	tallyRepo := postgres.NewTallyRepository(db)

	// Initialize Service
	summaryService := services.NewSummaryService(projectRepo, tallyRepo)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Starting vote summarization job...")

	if err := summaryService.SummarizeAllVotes(ctx); err != nil {
		log.Fatalf("Error summarizing votes: %v", err)
	}

	log.Println("Vote summarization completed successfully.")
}
