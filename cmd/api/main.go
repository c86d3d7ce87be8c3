package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "go-huddle/cmd/api/router/v1"
	cacheAdapter "go-huddle/internal/infrastructure/cache/adapter"
	"go-huddle/internal/infrastructure/database"
	psAdapter "go-huddle/internal/infrastructure/pubsub/adapter"
	queueAdapter "go-huddle/internal/infrastructure/queue/adapter"
	"go-huddle/internal/infrastructure/ratelimit"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/meeting/application/audit"
	"go-huddle/internal/pkg/meeting/application/broadcast"
	"go-huddle/internal/pkg/meeting/application/task"
	repoAdapter "go-huddle/internal/pkg/meeting/persistence/repository/adapter"
	userAdapter "go-huddle/internal/repository/adapter"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		log.Fatalf("failed to connect to redis cache: %v", err)
	}
	defer cache.Close()

	pubsub, err := psAdapter.NewRedisPubSubFromEnv()
	if err != nil {
		log.Fatalf("failed to connect to redis pub/sub: %v", err)
	}
	defer pubsub.Close()

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatalf("failed to connect to task queue: %v", err)
	}
	defer queueClient.Close()

	// Realtime fan-out: one Router per node, fed by the pub/sub bridge so
	// events reach watchers connected to other nodes too.
	router := realtime.NewRouter()
	defer router.Close()
	bridge := realtime.NewBridge(pubsub, router)
	go func() {
		if err := bridge.Run(ctx); err != nil {
			log.Printf("pubsub bridge stopped: %v", err)
		}
	}()

	limiter := ratelimit.NewLimiter()
	limiter.StartSweeper(ctx, ratelimit.DefaultSweepInterval)

	deps := v1.Deps{
		Pool:    pool,
		Cache:   cache,
		Users:   userAdapter.NewPgUserRepository(pool),
		Auditor: task.NewQueueAuditor(queueClient),
		Lister:  audit.NewRecorder(repoAdapter.NewPgAuditRepository(pool)),
		Events:  broadcast.NewPublisher(pubsub),
		Router:  router,
		Limiter: limiter,
	}

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, deps)

	// Start HTTP server (blocks until shutdown)
	_ = r.Run()
}
