package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"go-huddle/internal/infrastructure/database"
	queueAdapter "go-huddle/internal/infrastructure/queue/adapter"
	"go-huddle/internal/pkg/meeting/application/task"
)

// The worker drains the audit queue: entries enqueued by the API are persisted
// here with retries, so a slow database never blocks a privileged request.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	srv, err := queueAdapter.NewAsynqServer()
	if err != nil {
		log.Fatalf("failed to start task server: %v", err)
	}

	task.RegisterRecordAuditEntryTask(srv, pool)

	log.Println("audit worker running")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("task server stopped: %v", err)
	}
}
