package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// UpdateSettingsInput overlays the given toggles onto the meeting's current
// settings. Keys absent from the overlay keep their current value.
type UpdateSettingsInput struct {
	MeetingID string
	ActorID   string
	Settings  meeting.Settings

	ClientIP  string
	UserAgent string
}

// UpdateSettingsUseCase merges, persists and broadcasts the full resulting
// settings map.
type UpdateSettingsUseCase struct {
	Repo   repository.MeetingRepository
	Audit  Auditor
	Events EventPublisher

	Now func() time.Time
}

func NewUpdateSettingsUseCase(repo repository.MeetingRepository, auditor Auditor, events EventPublisher) *UpdateSettingsUseCase {
	return &UpdateSettingsUseCase{Repo: repo, Audit: auditor, Events: events}
}

func (uc *UpdateSettingsUseCase) Execute(ctx context.Context, in UpdateSettingsInput) (*meeting.Meeting, error) {
	if len(in.Settings) == 0 {
		return nil, fmt.Errorf("%w: settings must include at least one toggle", meeting.ErrValidation)
	}
	m, err := loadMeeting(ctx, uc.Repo, in.MeetingID)
	if err != nil {
		return nil, err
	}
	p, err := loadActiveParticipant(ctx, uc.Repo, m.ID, in.ActorID)
	if err != nil {
		return nil, err
	}
	// Settings changes are host-equivalent.
	if p.Role != meeting.RoleHost {
		return nil, fmt.Errorf("%w: settings changes require host privileges", meeting.ErrForbidden)
	}
	if m.Ended() {
		return nil, meeting.ErrMeetingEnded
	}

	merged := m.Settings.Merge(in.Settings)
	if err := uc.Repo.UpdateSettings(ctx, m.ID, merged); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, meeting.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	m.Settings = merged

	now := clockOr(uc.Now)().UTC()
	uc.Audit.Record(ctx, audit.Input{
		ActorID:          in.ActorID,
		MeetingID:        m.ID,
		Action:           meeting.ActionSettingsUpdated,
		Metadata:         map[string]string{"keys": joinKeys(in.Settings)},
		RawClientAddress: in.ClientIP,
		UserAgent:        in.UserAgent,
	})
	uc.Events.Publish(ctx, m.ID, meeting.TopicSettings, meeting.EventSettingsUpdated, meeting.SettingsUpdatedPayload{
		MeetingID: m.ID,
		Settings:  merged,
		UpdatedAt: now,
	})

	return m, nil
}

func joinKeys(s meeting.Settings) string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
