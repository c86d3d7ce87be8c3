package http

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "go-huddle/internal/infrastructure/cache/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/meeting/application/usecase"
	"go-huddle/internal/pkg/meeting/presentation/controller"
)

// RegisterRoutes registers meeting-related HTTP endpoints under the given router group
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, auditor usecase.Auditor, lister usecase.AuditLister, events usecase.EventPublisher) {
	lockCtl := controller.NewLockMeetingController(pool, auditor, events)
	settingsCtl := controller.NewUpdateSettingsController(pool, auditor, events)
	leaveCtl := controller.NewLeaveMeetingController(pool, auditor, events)
	stateCtl := controller.NewUpdateParticipantStateController(pool, events)
	addEmailCtl := controller.NewAddWhitelistEmailController(pool, auditor)
	removeEmailCtl := controller.NewRemoveWhitelistEmailController(pool, auditor)
	inviteCtl := controller.NewRegenerateInviteController(pool, auditor, os.Getenv("APP_BASE_URL"))
	auditCtl := controller.NewListAuditLogController(pool, lister)

	// PUT /api/v1/meetings/:meetingId/lock -> lock or unlock the room
	g.PUT("/meetings/:meetingId/lock", lockCtl.Handle())

	// PUT /api/v1/meetings/:meetingId/settings -> partial settings update
	g.PUT("/meetings/:meetingId/settings", settingsCtl.Handle())

	// POST /api/v1/meetings/:meetingId/leave -> record departure, maybe end the meeting
	g.POST("/meetings/:meetingId/leave", leaveCtl.Handle())

	// PUT /api/v1/meetings/:meetingId/participants/me/state -> own mute/video flags
	g.PUT("/meetings/:meetingId/participants/me/state", stateCtl.Handle())

	// POST /api/v1/meetings/:meetingId/whitelist -> add an email to the whitelist
	g.POST("/meetings/:meetingId/whitelist", addEmailCtl.Handle())

	// DELETE /api/v1/meetings/:meetingId/whitelist/:email -> remove a whitelisted email
	g.DELETE("/meetings/:meetingId/whitelist/:email", removeEmailCtl.Handle())

	// POST /api/v1/meetings/:meetingId/regenerate-link -> rotate the invite token
	g.POST("/meetings/:meetingId/regenerate-link", inviteCtl.Handle())

	// GET /api/v1/meetings/:meetingId/audit -> host-only audit trail
	g.GET("/meetings/:meetingId/audit", auditCtl.Handle())
}

// RegisterSocketRoute registers the websocket endpoint outside the authenticated
// group; the socket authenticates via a token query parameter instead.
func RegisterSocketRoute(g *gin.RouterGroup, pool *pgxpool.Pool, cache cacheport.Cache, router *realtime.Router) {
	socketCtl := controller.NewMeetingSocketController(pool, cache, router)

	// GET /api/v1/meetings/ws -> websocket endpoint for realtime meeting events
	g.GET("/meetings/ws", socketCtl.Handle())
}
