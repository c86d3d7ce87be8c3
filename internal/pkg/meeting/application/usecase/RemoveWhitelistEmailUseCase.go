package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// RemoveWhitelistEmailInput removes an email from the waiting-room whitelist.
type RemoveWhitelistEmailInput struct {
	MeetingID string
	ActorID   string
	Email     string

	ClientIP  string
	UserAgent string
}

// RemoveWhitelistEmailUseCase removes a normalized email; an absent email is
// a not-found and leaves the list untouched.
type RemoveWhitelistEmailUseCase struct {
	Repo  repository.MeetingRepository
	Audit Auditor
}

func NewRemoveWhitelistEmailUseCase(repo repository.MeetingRepository, auditor Auditor) *RemoveWhitelistEmailUseCase {
	return &RemoveWhitelistEmailUseCase{Repo: repo, Audit: auditor}
}

func (uc *RemoveWhitelistEmailUseCase) Execute(ctx context.Context, in RemoveWhitelistEmailInput) ([]string, error) {
	m, err := loadMeeting(ctx, uc.Repo, in.MeetingID)
	if err != nil {
		return nil, err
	}
	p, err := loadActiveParticipant(ctx, uc.Repo, m.ID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if caps := meeting.CapabilitiesFor(p.Role, m.Settings); !caps.CanManageWhitelist {
		return nil, fmt.Errorf("%w: whitelist changes require host privileges", meeting.ErrForbidden)
	}
	if m.Ended() {
		return nil, meeting.ErrMeetingEnded
	}

	if err := m.RemoveWhitelistEmail(in.Email); err != nil {
		return nil, err
	}
	if err := uc.Repo.UpdateWhitelist(ctx, m.ID, m.Whitelist); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, meeting.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Audit.Record(ctx, audit.Input{
		ActorID:          in.ActorID,
		MeetingID:        m.ID,
		Action:           meeting.ActionWhitelistEmailRemoved,
		Metadata:         map[string]string{"email": meeting.NormalizeEmail(in.Email)},
		RawClientAddress: in.ClientIP,
		UserAgent:        in.UserAgent,
	})

	return m.Whitelist, nil
}
