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

// LeaveMeetingController handles the leave endpoint (one controller per endpoint)
type LeaveMeetingController struct {
	UC *usecase.LeaveMeetingUseCase
}

func NewLeaveMeetingController(pool *pgxpool.Pool, auditor usecase.Auditor, events usecase.EventPublisher) *LeaveMeetingController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &LeaveMeetingController{UC: usecase.NewLeaveMeetingUseCase(repo, auditor, events)}
}

// Handle returns a gin handler for POST /meetings/:meetingId/leave
func (h *LeaveMeetingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		in := usecase.LeaveMeetingInput{
			MeetingID: c.Param("meetingId"),
			ActorID:   middleware.ActorID(c),
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

		message := "left the meeting"
		if out.MeetingEnded {
			message = "left the meeting; the meeting has ended"
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"meeting_ended": out.MeetingEnded,
			"message":       message,
		})
	}
}
