package repository

import (
	"context"
	"errors"
	"time"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

// ErrNotFound is returned by adapters when the requested row does not exist.
// Use cases translate it into the domain taxonomy.
var ErrNotFound = errors.New("repository: not found")

// MeetingRepository defines persistence operations for meetings and their
// participants. Update methods persist a single field group and return
// ErrNotFound when the target row is absent.
type MeetingRepository interface {
	GetMeeting(ctx context.Context, meetingID string) (*meeting.Meeting, error)
	GetMeetingByCode(ctx context.Context, code string) (*meeting.Meeting, error)

	UpdateLocked(ctx context.Context, meetingID string, locked bool) error
	UpdateSettings(ctx context.Context, meetingID string, settings meeting.Settings) error
	UpdateWhitelist(ctx context.Context, meetingID string, whitelist []string) error
	UpdateInvite(ctx context.Context, meetingID string, token string, expiresAt *time.Time) error

	// EndMeeting transitions an active meeting to ended. The guard lives in
	// the adapter: a meeting that is not active is left untouched and
	// reported as ErrNotFound.
	EndMeeting(ctx context.Context, meetingID string, endedAt time.Time) error

	// GetLatestParticipant returns the most recent attendance record for the
	// user in the meeting, left or not.
	GetLatestParticipant(ctx context.Context, meetingID string, userID string) (*meeting.Participant, error)
	ListActiveParticipants(ctx context.Context, meetingID string) ([]meeting.Participant, error)
	CountActiveParticipants(ctx context.Context, meetingID string) (int, error)

	// MarkParticipantLeft sets the leave time on a still-active record.
	// An already-left record is not updated and reported as ErrNotFound.
	MarkParticipantLeft(ctx context.Context, participantID string, leftAt time.Time) error

	// UpdateParticipantState applies a partial update of the participant's own
	// media flags; nil pointers leave the current value untouched.
	UpdateParticipantState(ctx context.Context, participantID string, isMuted *bool, isVideoOff *bool) (*meeting.Participant, error)
}
