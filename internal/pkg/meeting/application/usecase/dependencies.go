package usecase

import (
	"context"
	"time"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

// Auditor records a privileged action best-effort. Implementations must not
// fail the triggering request; the direct recorder and the queue-backed
// auditor both log and swallow their own failures.
type Auditor interface {
	Record(ctx context.Context, in audit.Input)
}

// EventPublisher sends a broadcast event best-effort after a successful
// mutation. Failures are handled inside the implementation.
type EventPublisher interface {
	Publish(ctx context.Context, meetingID string, topic meeting.Topic, name string, payload any)
}

// AuditLister serves the audit read path.
type AuditLister interface {
	List(ctx context.Context, meetingID string, q audit.Query) ([]meeting.AuditEntry, error)
}

func clockOr(now func() time.Time) func() time.Time {
	if now != nil {
		return now
	}
	return time.Now
}
