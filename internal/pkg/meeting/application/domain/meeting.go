package meeting

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a meeting.
// Transitions are scheduled -> active -> ended; ended is terminal.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
)

// Well-known settings toggles. Absent keys read as false (fail closed).
const (
	SettingChatEnabled        = "chat_enabled"
	SettingPrivateChatEnabled = "private_chat_enabled"
	SettingFileUploadsEnabled = "file_uploads_enabled"
	SettingScreenShareEnabled = "screen_share_enabled"
)

// Settings is the map of named boolean toggles attached to a meeting.
type Settings map[string]bool

// Clone returns an independent copy. A nil receiver clones to an empty map.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge overlays the given settings onto a copy of s. Keys absent from the
// overlay are preserved, never cleared.
func (s Settings) Merge(overlay Settings) Settings {
	out := s.Clone()
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Equal reports whether both maps hold exactly the same toggles.
func (s Settings) Equal(other Settings) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Meeting is the aggregate owned by the session lifecycle coordinator.
// Hard deletion is a storage concern and never happens here.
type Meeting struct {
	ID              string     `db:"id"`
	Code            string     `db:"code"`
	HostID          string     `db:"host_id"`
	Status          Status     `db:"status"`
	Locked          bool       `db:"locked"`
	Settings        Settings   `db:"settings"`
	Whitelist       []string   `db:"whitelist"`
	InviteToken     string     `db:"invite_token"`
	InviteExpiresAt *time.Time `db:"invite_expires_at"`
	CreatedAt       time.Time  `db:"created_at"`
	StartedAt       *time.Time `db:"started_at"`
	EndedAt         *time.Time `db:"ended_at"`
}

// Ended reports whether the meeting reached its terminal state.
func (m *Meeting) Ended() bool {
	return m.Status == StatusEnded
}

// NormalizeEmail lowercases and trims an email for case-insensitive
// whitelist membership checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// WhitelistContains reports whether email (normalized) is on the whitelist.
func (m *Meeting) WhitelistContains(email string) bool {
	norm := NormalizeEmail(email)
	for _, e := range m.Whitelist {
		if NormalizeEmail(e) == norm {
			return true
		}
	}
	return false
}

// AddWhitelistEmail appends a normalized email to the whitelist.
// Duplicates are rejected with ErrDuplicateEmail; the list is unchanged on failure.
func (m *Meeting) AddWhitelistEmail(email string) error {
	norm := NormalizeEmail(email)
	if norm == "" || !strings.Contains(norm, "@") {
		return ErrInvalidEmail
	}
	if m.WhitelistContains(norm) {
		return ErrDuplicateEmail
	}
	m.Whitelist = append(m.Whitelist, norm)
	return nil
}

// RemoveWhitelistEmail removes a normalized email from the whitelist.
// Absent emails are rejected with ErrEmailNotListed; the list is unchanged on failure.
func (m *Meeting) RemoveWhitelistEmail(email string) error {
	norm := NormalizeEmail(email)
	for i, e := range m.Whitelist {
		if NormalizeEmail(e) == norm {
			m.Whitelist = append(m.Whitelist[:i], m.Whitelist[i+1:]...)
			return nil
		}
	}
	return ErrEmailNotListed
}
