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

// RemoveWhitelistEmailController handles the whitelist-remove endpoint (one controller per endpoint)
type RemoveWhitelistEmailController struct {
	UC *usecase.RemoveWhitelistEmailUseCase
}

func NewRemoveWhitelistEmailController(pool *pgxpool.Pool, auditor usecase.Auditor) *RemoveWhitelistEmailController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &RemoveWhitelistEmailController{UC: usecase.NewRemoveWhitelistEmailUseCase(repo, auditor)}
}

// Handle returns a gin handler for DELETE /meetings/:meetingId/whitelist/:email
func (h *RemoveWhitelistEmailController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		in := usecase.RemoveWhitelistEmailInput{
			MeetingID: c.Param("meetingId"),
			ActorID:   middleware.ActorID(c),
			Email:     c.Param("email"),
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
