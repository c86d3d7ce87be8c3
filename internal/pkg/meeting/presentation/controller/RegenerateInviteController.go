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

// RegenerateInviteController handles the invite rotation endpoint (one controller per endpoint)
type RegenerateInviteController struct {
	UC *usecase.RegenerateInviteUseCase
}

func NewRegenerateInviteController(pool *pgxpool.Pool, auditor usecase.Auditor, baseURL string) *RegenerateInviteController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &RegenerateInviteController{UC: usecase.NewRegenerateInviteUseCase(repo, auditor, baseURL)}
}

type regenerateInviteRequest struct {
	ExpiresIn int `json:"expiresIn"`
}

// Handle returns a gin handler for POST /meetings/:meetingId/regenerate-link
func (h *RegenerateInviteController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req regenerateInviteRequest
		// Body is optional; an absent body means a non-expiring token.
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "validation_error", "message": err.Error()}})
				return
			}
		}

		in := usecase.RegenerateInviteInput{
			MeetingID: c.Param("meetingId"),
			ActorID:   middleware.ActorID(c),
			ExpiresIn: req.ExpiresIn,
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		out, err := h.UC.Execute(ctx, in)
		if err != nil {
			replyError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"invite_token": out.InviteToken,
			"expires_at":   out.ExpiresAt,
			"invite_url":   out.InviteURL,
		})
	}
}
