package meeting

import "time"

// Role expresses the actor's role within a meeting.
type Role string

const (
	RoleHost        Role = "host"
	RoleParticipant Role = "participant"
)

// ConnectionQuality is a coarse client-reported media indicator.
type ConnectionQuality string

const (
	QualityGood ConnectionQuality = "good"
	QualityFair ConnectionQuality = "fair"
	QualityPoor ConnectionQuality = "poor"
)

// Participant is one attendance record for a user in a meeting.
// A nil LeftAt means currently active. Once LeftAt is set the record is
// immutable; a rejoin creates a new record in the external join flow.
type Participant struct {
	ID         string            `db:"id"`
	MeetingID  string            `db:"meeting_id"`
	UserID     string            `db:"user_id"`
	Role       Role              `db:"role"`
	JoinedAt   time.Time         `db:"joined_at"`
	LeftAt     *time.Time        `db:"left_at"`
	IsMuted    bool              `db:"is_muted"`
	IsVideoOff bool              `db:"is_video_off"`
	Quality    ConnectionQuality `db:"connection_quality"`
}

// Active reports whether the participant is still in the meeting.
func (p *Participant) Active() bool {
	return p.LeftAt == nil
}
