package audit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// Input is one audit record request as seen by the call site. The raw client
// address is carried unvalidated; the recorder decides what gets stored.
type Input struct {
	ActorID          string            `json:"actorId"`
	MeetingID        string            `json:"meetingId"`
	Action           meeting.Action    `json:"action"`
	TargetUserID     *string           `json:"targetUserId,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	RawClientAddress string            `json:"rawClientAddress,omitempty"`
	UserAgent        string            `json:"userAgent,omitempty"`
}

// Query narrows the audit read path.
type Query struct {
	Limit  int
	Offset int
	Action *meeting.Action
	UserID *string
}

// Recorder appends immutable audit entries and serves the only read path over
// them. Record never fails the triggering request: persistence errors are
// logged to operational output and swallowed. Persist is the strict variant
// used by the background worker, where an error drives the retry policy.
type Recorder struct {
	Repo repository.AuditRepository

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func NewRecorder(repo repository.AuditRepository) *Recorder {
	return &Recorder{Repo: repo}
}

// Record appends an entry best-effort.
func (r *Recorder) Record(ctx context.Context, in Input) {
	if err := r.Persist(ctx, in); err != nil {
		log.Printf("audit: record %s for meeting %s failed: %v", in.Action, in.MeetingID, err)
	}
}

// Persist validates and appends an entry, returning any failure.
func (r *Recorder) Persist(ctx context.Context, in Input) error {
	entry, err := r.build(in)
	if err != nil {
		return err
	}
	if _, err := r.Repo.InsertAuditEntry(ctx, entry); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *Recorder) build(in Input) (meeting.AuditEntry, error) {
	if in.ActorID == "" || in.MeetingID == "" {
		return meeting.AuditEntry{}, errors.New("audit: actor and meeting ids are required")
	}
	if !in.Action.Valid() {
		return meeting.AuditEntry{}, fmt.Errorf("audit: unknown action %q", in.Action)
	}

	var userAgent *string
	if in.UserAgent != "" {
		ua := in.UserAgent
		userAgent = &ua
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	return meeting.AuditEntry{
		UserID:       in.ActorID,
		MeetingID:    in.MeetingID,
		Action:       in.Action,
		TargetUserID: in.TargetUserID,
		Metadata:     in.Metadata,
		// Spoofable header input: anything that is not a strict IPv4/IPv6
		// address is stored as absent.
		IPAddress: meeting.ValidateClientIP(in.RawClientAddress),
		UserAgent: userAgent,
		CreatedAt: now().UTC(),
	}, nil
}

// List returns a meeting's audit entries, newest first.
func (r *Recorder) List(ctx context.Context, meetingID string, q Query) ([]meeting.AuditEntry, error) {
	return r.Repo.ListAuditEntries(ctx, meetingID, repository.AuditQuery{
		Limit:  q.Limit,
		Offset: q.Offset,
		Action: q.Action,
		UserID: q.UserID,
	})
}
