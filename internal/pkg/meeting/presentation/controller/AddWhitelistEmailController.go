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

// AddWhitelistEmailController handles the whitelist-add endpoint (one controller per endpoint)
type AddWhitelistEmailController struct {
	UC *usecase.AddWhitelistEmailUseCase
}

func NewAddWhitelistEmailController(pool *pgxpool.Pool, auditor usecase.Auditor) *AddWhitelistEmailController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &AddWhitelistEmailController{UC: usecase.NewAddWhitelistEmailUseCase(repo, auditor)}
}

type addWhitelistEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// Handle returns a gin handler for POST /meetings/:meetingId/whitelist
func (h *AddWhitelistEmailController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addWhitelistEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}})
			return
		}

		in := usecase.AddWhitelistEmailInput{
			MeetingID: c.Param("meetingId"),
			ActorID:   middleware.ActorID(c),
			Email:     req.Email,
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		whitelist, err := h.UC.Execute(ctx, in)
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"whitelist": whitelist})
	}
}
