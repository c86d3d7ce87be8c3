package repository

import (
	"context"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

// AuditQuery narrows and pages the audit read path. Nil filters match all.
type AuditQuery struct {
	Limit  int
	Offset int
	Action *meeting.Action
	UserID *string
}

// AuditRepository is the append-only persistence contract for audit entries.
// There is no update or delete; the trail is immutable.
type AuditRepository interface {
	InsertAuditEntry(ctx context.Context, e meeting.AuditEntry) (string, error)
	ListAuditEntries(ctx context.Context, meetingID string, q AuditQuery) ([]meeting.AuditEntry, error)
}
