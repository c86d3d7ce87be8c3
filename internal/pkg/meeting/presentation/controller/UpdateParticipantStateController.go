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

// UpdateParticipantStateController handles the own-state endpoint (one controller per endpoint)
type UpdateParticipantStateController struct {
	UC *usecase.UpdateParticipantStateUseCase
}

func NewUpdateParticipantStateController(pool *pgxpool.Pool, events usecase.EventPublisher) *UpdateParticipantStateController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &UpdateParticipantStateController{UC: usecase.NewUpdateParticipantStateUseCase(repo, events)}
}

type updateParticipantStateRequest struct {
	IsMuted    *bool `json:"is_muted"`
	IsVideoOff *bool `json:"is_video_off"`
}

// Handle returns a gin handler for PUT /meetings/:meetingId/participants/me/state
func (h *UpdateParticipantStateController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateParticipantStateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}})
			return
		}

		in := usecase.UpdateParticipantStateInput{
			MeetingID:  c.Param("meetingId"),
			ActorID:    middleware.ActorID(c),
			IsMuted:    req.IsMuted,
			IsVideoOff: req.IsVideoOff,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		p, err := h.UC.Execute(ctx, in)
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"participant": toParticipantDTO(p),
		})
	}
}
