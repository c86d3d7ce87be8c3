package meeting

import (
	"net/netip"
	"time"
)

// Action is the closed enum of privileged operations recorded in the audit trail.
type Action string

const (
	ActionMeetingLocked         Action = "meeting_locked"
	ActionMeetingUnlocked       Action = "meeting_unlocked"
	ActionMeetingEnded          Action = "meeting_ended"
	ActionSettingsUpdated       Action = "settings_updated"
	ActionParticipantRemoved    Action = "participant_removed"
	ActionParticipantLeft       Action = "participant_left"
	ActionSpotlightSet          Action = "spotlight_set"
	ActionInviteRegenerated     Action = "invite_regenerated"
	ActionWhitelistEmailAdded   Action = "whitelist_email_added"
	ActionWhitelistEmailRemoved Action = "whitelist_email_removed"
)

var knownActions = map[Action]struct{}{
	ActionMeetingLocked:         {},
	ActionMeetingUnlocked:       {},
	ActionMeetingEnded:          {},
	ActionSettingsUpdated:       {},
	ActionParticipantRemoved:    {},
	ActionParticipantLeft:       {},
	ActionSpotlightSet:          {},
	ActionInviteRegenerated:     {},
	ActionWhitelistEmailAdded:   {},
	ActionWhitelistEmailRemoved: {},
}

// Valid reports whether a is part of the closed action enum.
func (a Action) Valid() bool {
	_, ok := knownActions[a]
	return ok
}

// AuditEntry is one immutable record in a meeting's audit trail.
// Entries are append-only and never mutated or deleted by this service.
type AuditEntry struct {
	ID           string            `db:"id"`
	UserID       string            `db:"user_id"`
	MeetingID    string            `db:"meeting_id"`
	Action       Action            `db:"action"`
	TargetUserID *string           `db:"target_user_id"`
	Metadata     map[string]string `db:"metadata"`
	IPAddress    *string           `db:"ip_address"`
	UserAgent    *string           `db:"user_agent"`
	CreatedAt    time.Time         `db:"created_at"`
}

// ValidateClientIP parses a raw client address and returns its canonical form,
// or nil when the input is not a strict IPv4 or IPv6 address (compressed-zero
// forms included). Network-attribution headers are spoofable, so anything that
// does not parse is dropped rather than stored verbatim.
func ValidateClientIP(raw string) *string {
	if raw == "" {
		return nil
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return nil
	}
	s := addr.String()
	return &s
}
