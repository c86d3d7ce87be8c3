package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
	"go-huddle/internal/pkg/meeting/application/usecase"
)

// requestTimeout bounds every use case execution triggered by a handler.
const requestTimeout = 3 * time.Second

// replyError maps the domain taxonomy to an HTTP status plus a
// machine-readable code and human-readable message.
func replyError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	code := "bad_request"

	switch {
	case errors.Is(err, meeting.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, meeting.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, meeting.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, meeting.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, meeting.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, meeting.ErrRateLimited):
		status, code = http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, usecase.ErrPersistence):
		status, code = http.StatusInternalServerError, "internal_error"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Persistence details stay in the logs, not in the response.
		message = "unexpected internal error"
	}
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// meetingDTO is the meeting shape returned by handlers.
type meetingDTO struct {
	ID              string           `json:"id"`
	Code            string           `json:"code"`
	HostID          string           `json:"host_id"`
	Status          meeting.Status   `json:"status"`
	Locked          bool             `json:"locked"`
	Settings        meeting.Settings `json:"settings"`
	Whitelist       []string         `json:"whitelist"`
	InviteExpiresAt *time.Time       `json:"invite_expires_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	EndedAt         *time.Time       `json:"ended_at,omitempty"`
}

func toMeetingDTO(m *meeting.Meeting) meetingDTO {
	return meetingDTO{
		ID:              m.ID,
		Code:            m.Code,
		HostID:          m.HostID,
		Status:          m.Status,
		Locked:          m.Locked,
		Settings:        m.Settings,
		Whitelist:       m.Whitelist,
		InviteExpiresAt: m.InviteExpiresAt,
		CreatedAt:       m.CreatedAt,
		StartedAt:       m.StartedAt,
		EndedAt:         m.EndedAt,
	}
}

// participantDTO is the participant shape returned by handlers.
type participantDTO struct {
	ID         string                    `json:"id"`
	MeetingID  string                    `json:"meeting_id"`
	UserID     string                    `json:"user_id"`
	Role       meeting.Role              `json:"role"`
	JoinedAt   time.Time                 `json:"joined_at"`
	LeftAt     *time.Time                `json:"left_at,omitempty"`
	IsMuted    bool                      `json:"is_muted"`
	IsVideoOff bool                      `json:"is_video_off"`
	Quality    meeting.ConnectionQuality `json:"connection_quality,omitempty"`
}

func toParticipantDTO(p *meeting.Participant) participantDTO {
	return participantDTO{
		ID:         p.ID,
		MeetingID:  p.MeetingID,
		UserID:     p.UserID,
		Role:       p.Role,
		JoinedAt:   p.JoinedAt,
		LeftAt:     p.LeftAt,
		IsMuted:    p.IsMuted,
		IsVideoOff: p.IsVideoOff,
		Quality:    p.Quality,
	}
}
