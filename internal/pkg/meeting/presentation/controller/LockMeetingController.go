package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-huddle/internal/middleware"
	"go-huddle/internal/pkg/meeting/application/usecase"
	"go-huddle/internal/pkg/meeting/persistence/repository/adapter"
)

// LockMeetingController handles the lock/unlock endpoint (one controller per endpoint)
type LockMeetingController struct {
	UC *usecase.LockMeetingUseCase
}

func NewLockMeetingController(pool *pgxpool.Pool, auditor usecase.Auditor, events usecase.EventPublisher) *LockMeetingController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &LockMeetingController{UC: usecase.NewLockMeetingUseCase(repo, auditor, events)}
}

type lockMeetingRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// Handle returns a gin handler for PUT /meetings/:meetingId/lock
func (h *LockMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req lockMeetingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}})
			return
		}

		in := usecase.LockMeetingInput{
			MeetingID: c.Param("meetingId"),
			ActorID:   middleware.ActorID(c),
			Locked:    *req.Locked,
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		m, err := h.UC.Execute(ctx, in)
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"meeting_id": m.ID,
			"locked":     m.Locked,
		})
	}
}
