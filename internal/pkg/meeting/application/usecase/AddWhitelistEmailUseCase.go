package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// AddWhitelistEmailInput adds an email to the waiting-room whitelist.
type AddWhitelistEmailInput struct {
	MeetingID string
	ActorID   string
	Email     string

	ClientIP  string
	UserAgent string
}

// AddWhitelistEmailUseCase normalizes the email, rejects duplicates and
// persists the full updated list.
type AddWhitelistEmailUseCase struct {
	Repo  repository.MeetingRepository
	Audit Auditor
}

func NewAddWhitelistEmailUseCase(repo repository.MeetingRepository, auditor Auditor) *AddWhitelistEmailUseCase {
	return &AddWhitelistEmailUseCase{Repo: repo, Audit: auditor}
}

func (uc *AddWhitelistEmailUseCase) Execute(ctx context.Context, in AddWhitelistEmailInput) ([]string, error) {
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

	if err := m.AddWhitelistEmail(in.Email); err != nil {
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
		Action:           meeting.ActionWhitelistEmailAdded,
		Metadata:         map[string]string{"email": meeting.NormalizeEmail(in.Email)},
		RawClientAddress: in.ClientIP,
		UserAgent:        in.UserAgent,
	})

	return m.Whitelist, nil
}
