package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// LockMeetingInput toggles the meeting lock. Locking blocks new admissions in
// the external join flow; it never evicts participants already inside.
type LockMeetingInput struct {
	MeetingID string
	ActorID   string
	Locked    bool

	ClientIP  string
	UserAgent string
}

// LockMeetingUseCase applies the lock toggle, records an audit entry and
// publishes a meeting_locked event. Audit and broadcast are best-effort.
type LockMeetingUseCase struct {
	Repo   repository.MeetingRepository
	Audit  Auditor
	Events EventPublisher
}

func NewLockMeetingUseCase(repo repository.MeetingRepository, auditor Auditor, events EventPublisher) *LockMeetingUseCase {
	return &LockMeetingUseCase{Repo: repo, Audit: auditor, Events: events}
}

func (uc *LockMeetingUseCase) Execute(ctx context.Context, in LockMeetingInput) (*meeting.Meeting, error) {
	m, err := loadMeeting(ctx, uc.Repo, in.MeetingID)
	if err != nil {
		return nil, err
	}
	p, err := loadActiveParticipant(ctx, uc.Repo, m.ID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if caps := meeting.CapabilitiesFor(p.Role, m.Settings); !caps.CanLockMeeting {
		return nil, fmt.Errorf("%w: locking requires host privileges", meeting.ErrForbidden)
	}
	if m.Ended() {
		return nil, meeting.ErrMeetingEnded
	}

	if err := uc.Repo.UpdateLocked(ctx, m.ID, in.Locked); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, meeting.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	m.Locked = in.Locked

	action := meeting.ActionMeetingLocked
	if !in.Locked {
		action = meeting.ActionMeetingUnlocked
	}
	uc.Audit.Record(ctx, audit.Input{
		ActorID:          in.ActorID,
		MeetingID:        m.ID,
		Action:           action,
		Metadata:         map[string]string{"locked": strconv.FormatBool(in.Locked)},
		RawClientAddress: in.ClientIP,
		UserAgent:        in.UserAgent,
	})
	uc.Events.Publish(ctx, m.ID, meeting.TopicGeneric, meeting.EventMeetingLocked, meeting.MeetingLockedPayload{
		MeetingID: m.ID,
		Locked:    in.Locked,
		ChangedBy: in.ActorID,
	})

	return m, nil
}
