package meeting

import (
	"encoding/json"
	"fmt"
	"time"
)

// Topic sub-scopes a meeting's broadcast channel.
type Topic string

const (
	TopicParticipants Topic = "participants"
	TopicSettings     Topic = "settings"
	TopicGeneric      Topic = "generic"
)

// ChannelName returns the broadcast channel for a meeting and topic,
// "meeting:{meeting_id}:{topic}".
func ChannelName(meetingID string, topic Topic) string {
	return fmt.Sprintf("meeting:%s:%s", meetingID, topic)
}

// Broadcast event names.
const (
	EventMeetingLocked           = "meeting_locked"
	EventMeetingEnded            = "meeting_ended"
	EventSettingsUpdated         = "settings_updated"
	EventParticipantLeft         = "participant_left"
	EventParticipantStateChanged = "participant_state_changed"
)

// Event is the wire envelope for every broadcast message.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an envelope ready to publish.
func NewEvent(name string, payload any) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("event %s: marshal payload: %w", name, err)
	}
	return Event{Event: name, Payload: b}, nil
}

// MeetingLockedPayload notifies subscribers of a lock toggle.
type MeetingLockedPayload struct {
	MeetingID string `json:"meeting_id"`
	Locked    bool   `json:"locked"`
	ChangedBy string `json:"changed_by"`
}

// MeetingEndedPayload notifies subscribers that the meeting reached its
// terminal state.
type MeetingEndedPayload struct {
	MeetingID                   string    `json:"meeting_id"`
	EndedByHost                 bool      `json:"ended_by_host"`
	EndedAt                     time.Time `json:"ended_at"`
	ParticipantCountBeforeLeave int       `json:"participant_count_before_leave"`
}

// SettingsUpdatedPayload carries the full resulting settings map, not a delta.
type SettingsUpdatedPayload struct {
	MeetingID string    `json:"meeting_id"`
	Settings  Settings  `json:"settings"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParticipantLeftPayload notifies subscribers of a roster change.
type ParticipantLeftPayload struct {
	MeetingID     string    `json:"meeting_id"`
	ParticipantID string    `json:"participant_id"`
	UserID        string    `json:"user_id"`
	LeftAt        time.Time `json:"left_at"`
}

// ParticipantStateChangedPayload carries a participant's own media flags.
type ParticipantStateChangedPayload struct {
	MeetingID     string `json:"meeting_id"`
	ParticipantID string `json:"participant_id"`
	UserID        string `json:"user_id"`
	IsMuted       bool   `json:"is_muted"`
	IsVideoOff    bool   `json:"is_video_off"`
}
