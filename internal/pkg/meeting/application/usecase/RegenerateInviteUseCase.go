package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// RegenerateInviteInput rotates the meeting's invite token. ExpiresIn is an
// optional lifetime in seconds; zero means the token does not expire.
type RegenerateInviteInput struct {
	MeetingID string
	ActorID   string
	ExpiresIn int

	ClientIP  string
	UserAgent string
}

// RegenerateInviteOutput carries the fresh token and the URL to share.
type RegenerateInviteOutput struct {
	InviteToken string
	ExpiresAt   *time.Time
	InviteURL   string
}

// RegenerateInviteUseCase invalidates the previous invite link by replacing
// the token. Outstanding links stop working immediately.
type RegenerateInviteUseCase struct {
	Repo  repository.MeetingRepository
	Audit Auditor

	// BaseURL prefixes the shareable invite URL, e.g. "https://huddle.example.com".
	BaseURL string

	Now func() time.Time

	// NewToken is the token generator; nil means a random UUID.
	NewToken func() string
}

func NewRegenerateInviteUseCase(repo repository.MeetingRepository, auditor Auditor, baseURL string) *RegenerateInviteUseCase {
	return &RegenerateInviteUseCase{Repo: repo, Audit: auditor, BaseURL: baseURL}
}

func (uc *RegenerateInviteUseCase) Execute(ctx context.Context, in RegenerateInviteInput) (RegenerateInviteOutput, error) {
	if in.ExpiresIn < 0 {
		return RegenerateInviteOutput{}, fmt.Errorf("%w: expiresIn must not be negative", meeting.ErrValidation)
	}
	m, err := loadMeeting(ctx, uc.Repo, in.MeetingID)
	if err != nil {
		return RegenerateInviteOutput{}, err
	}
	p, err := loadActiveParticipant(ctx, uc.Repo, m.ID, in.ActorID)
	if err != nil {
		return RegenerateInviteOutput{}, err
	}
	if caps := meeting.CapabilitiesFor(p.Role, m.Settings); !caps.CanRegenerateInvite {
		return RegenerateInviteOutput{}, fmt.Errorf("%w: invite regeneration requires host privileges", meeting.ErrForbidden)
	}
	if m.Ended() {
		return RegenerateInviteOutput{}, meeting.ErrMeetingEnded
	}

	newToken := uuid.NewString
	if uc.NewToken != nil {
		newToken = uc.NewToken
	}
	token := newToken()

	var expiresAt *time.Time
	if in.ExpiresIn > 0 {
		t := clockOr(uc.Now)().UTC().Add(time.Duration(in.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	if err := uc.Repo.UpdateInvite(ctx, m.ID, token, expiresAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RegenerateInviteOutput{}, meeting.ErrNotFound
		}
		return RegenerateInviteOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Audit.Record(ctx, audit.Input{
		ActorID:          in.ActorID,
		MeetingID:        m.ID,
		Action:           meeting.ActionInviteRegenerated,
		RawClientAddress: in.ClientIP,
		UserAgent:        in.UserAgent,
	})

	return RegenerateInviteOutput{
		InviteToken: token,
		ExpiresAt:   expiresAt,
		InviteURL:   strings.TrimRight(uc.BaseURL, "/") + "/join/" + token,
	}, nil
}
