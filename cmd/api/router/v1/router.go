package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "go-huddle/internal/infrastructure/cache/port"
	"go-huddle/internal/infrastructure/ratelimit"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/middleware"
	"go-huddle/internal/pkg/meeting/application/usecase"
	httpHandler "go-huddle/internal/pkg/meeting/presentation/http"
	userRepo "go-huddle/internal/repository/port"
)

// Deps carries the shared infrastructure handed down to the HTTP layer.
type Deps struct {
	Pool    *pgxpool.Pool
	Cache   cacheport.Cache
	Users   userRepo.UserRepository
	Auditor usecase.Auditor
	Lister  usecase.AuditLister
	Events  usecase.EventPublisher
	Router  *realtime.Router
	Limiter *ratelimit.Limiter
}

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1")

	// Websocket authenticates via query token; it skips the bearer middleware
	// so browser clients can dial it directly.
	httpHandler.RegisterSocketRoute(v1, d.Pool, d.Cache, d.Router)

	authed := v1.Group("")
	authed.Use(
		middleware.AuthRequired(d.Users),
		middleware.RateLimit(d.Limiter, ratelimit.DefaultMaxRequests, ratelimit.DefaultWindow),
	)
	httpHandler.RegisterRoutes(authed, d.Pool, d.Auditor, d.Lister, d.Events)
}
