package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-huddle/internal/middleware"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	"go-huddle/internal/pkg/meeting/application/usecase"
	"go-huddle/internal/pkg/meeting/persistence/repository/adapter"
)

// UpdateSettingsController handles the settings merge endpoint (one controller per endpoint)
type UpdateSettingsController struct {
	UC *usecase.UpdateSettingsUseCase
}

func NewUpdateSettingsController(pool *pgxpool.Pool, auditor usecase.Auditor, events usecase.EventPublisher) *UpdateSettingsController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &UpdateSettingsController{UC: usecase.NewUpdateSettingsUseCase(repo, auditor, events)}
}

type updateSettingsRequest struct {
	Settings meeting.Settings `json:"settings" binding:"required"`
}

// Handle returns a gin handler for PUT /meetings/:meetingId/settings
func (h *UpdateSettingsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}})
			return
		}

		in := usecase.UpdateSettingsInput{
			MeetingID: c.Param("meetingId"),
			ActorID:   middleware.ActorID(c),
			Settings:  req.Settings,
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
			"meeting":  toMeetingDTO(m),
			"settings": m.Settings,
		})
	}
}
