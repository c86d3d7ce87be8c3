package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// LeaveMeetingInput marks the acting user's attendance record as left.
type LeaveMeetingInput struct {
	MeetingID string
	ActorID   string

	ClientIP  string
	UserAgent string
}

// LeaveMeetingOutput reports whether this leave ended the meeting.
type LeaveMeetingOutput struct {
	MeetingEnded bool
	EndedAt      *time.Time
}

// LeaveMeetingUseCase marks the participant as left and, when the host or the
// last active participant leaves an active meeting, transitions the meeting to
// ended. The end transition is a secondary effect: if its persistence fails
// the leave itself still succeeds and the failure is only logged.
type LeaveMeetingUseCase struct {
	Repo   repository.MeetingRepository
	Audit  Auditor
	Events EventPublisher

	Now func() time.Time
}

func NewLeaveMeetingUseCase(repo repository.MeetingRepository, auditor Auditor, events EventPublisher) *LeaveMeetingUseCase {
	return &LeaveMeetingUseCase{Repo: repo, Audit: auditor, Events: events}
}

func (uc *LeaveMeetingUseCase) Execute(ctx context.Context, in LeaveMeetingInput) (LeaveMeetingOutput, error) {
	m, err := loadMeeting(ctx, uc.Repo, in.MeetingID)
	if err != nil {
		return LeaveMeetingOutput{}, err
	}
	if in.ActorID == "" {
		return LeaveMeetingOutput{}, fmt.Errorf("%w: actor id is required", meeting.ErrValidation)
	}

	p, err := uc.Repo.GetLatestParticipant(ctx, m.ID, in.ActorID)
	if errors.Is(err, repository.ErrNotFound) {
		return LeaveMeetingOutput{}, fmt.Errorf("%w: no attendance record for user", meeting.ErrNotFound)
	}
	if err != nil {
		return LeaveMeetingOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !p.Active() {
		return LeaveMeetingOutput{}, meeting.ErrAlreadyLeft
	}

	// Counted before the leave is applied: a count of 1 means this user is
	// the last one in the room.
	activeBefore, err := uc.Repo.CountActiveParticipants(ctx, m.ID)
	if err != nil {
		return LeaveMeetingOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	now := clockOr(uc.Now)().UTC()
	if err := uc.Repo.MarkParticipantLeft(ctx, p.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race against a concurrent leave of the same record.
			return LeaveMeetingOutput{}, meeting.ErrAlreadyLeft
		}
		return LeaveMeetingOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Audit.Record(ctx, audit.Input{
		ActorID:          in.ActorID,
		MeetingID:        m.ID,
		Action:           meeting.ActionParticipantLeft,
		RawClientAddress: in.ClientIP,
		UserAgent:        in.UserAgent,
	})
	uc.Events.Publish(ctx, m.ID, meeting.TopicParticipants, meeting.EventParticipantLeft, meeting.ParticipantLeftPayload{
		MeetingID:     m.ID,
		ParticipantID: p.ID,
		UserID:        p.UserID,
		LeftAt:        now,
	})

	isHost := p.UserID == m.HostID
	isLastParticipant := activeBefore == 1
	if !(isHost || isLastParticipant) || m.Status != meeting.StatusActive {
		return LeaveMeetingOutput{}, nil
	}

	if err := uc.Repo.EndMeeting(ctx, m.ID, now); err != nil {
		// The leaving user's own action must not fail because of this
		// secondary transition. A not-found here means a concurrent leave
		// already ended the meeting.
		log.Printf("leave: end transition for meeting %s failed: %v", m.ID, err)
		return LeaveMeetingOutput{}, nil
	}

	uc.Audit.Record(ctx, audit.Input{
		ActorID:   in.ActorID,
		MeetingID: m.ID,
		Action:    meeting.ActionMeetingEnded,
		Metadata: map[string]string{
			"ended_by_host":       strconv.FormatBool(isHost),
			"participants_before": strconv.Itoa(activeBefore),
		},
		RawClientAddress: in.ClientIP,
		UserAgent:        in.UserAgent,
	})
	uc.Events.Publish(ctx, m.ID, meeting.TopicGeneric, meeting.EventMeetingEnded, meeting.MeetingEndedPayload{
		MeetingID:                   m.ID,
		EndedByHost:                 isHost,
		EndedAt:                     now,
		ParticipantCountBeforeLeave: activeBefore,
	})

	return LeaveMeetingOutput{MeetingEnded: true, EndedAt: &now}, nil
}
