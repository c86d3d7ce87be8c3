package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-huddle/internal/middleware"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	"go-huddle/internal/pkg/meeting/application/usecase"
	"go-huddle/internal/pkg/meeting/persistence/repository/adapter"
)

// ListAuditLogController handles the audit trail read endpoint (one controller per endpoint)
type ListAuditLogController struct {
	UC *usecase.ListAuditLogUseCase
}

func NewListAuditLogController(pool *pgxpool.Pool, lister usecase.AuditLister) *ListAuditLogController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &ListAuditLogController{UC: usecase.NewListAuditLogUseCase(repo, lister)}
}

type auditEntryDTO struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	MeetingID    string            `json:"meeting_id"`
	Action       meeting.Action    `json:"action"`
	TargetUserID *string           `json:"target_user_id,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	IPAddress    *string           `json:"ip_address,omitempty"`
	UserAgent    *string           `json:"user_agent,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Handle returns a gin handler for GET /meetings/:meetingId/audit
func (h *ListAuditLogController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "validation_error", "message": "limit must be a non-negative integer"}})
			return
		}
		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "validation_error", "message": "offset must be a non-negative integer"}})
			return
		}

		in := usecase.ListAuditLogInput{
			MeetingID: c.Param("meetingId"),
			ActorID:   middleware.ActorID(c),
			Limit:     limit,
			Offset:    offset,
		}
		if raw := c.Query("action"); raw != "" {
			action := meeting.Action(raw)
			if !action.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "validation_error", "message": "unknown action filter"}})
				return
			}
			in.Action = &action
		}
		if userID := c.Query("user_id"); userID != "" {
			in.UserID = &userID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		entries, err := h.UC.Execute(ctx, in)
		if err != nil {
			replyError(c, err)
			return
		}

		out := make([]auditEntryDTO, 0, len(entries))
		for _, e := range entries {
			out = append(out, auditEntryDTO{
				ID:           e.ID,
				UserID:       e.UserID,
				MeetingID:    e.MeetingID,
				Action:       e.Action,
				TargetUserID: e.TargetUserID,
				Metadata:     e.Metadata,
				IPAddress:    e.IPAddress,
				UserAgent:    e.UserAgent,
				CreatedAt:    e.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"entries": out,
			"limit":   limit,
			"offset":  offset,
		})
	}
}
