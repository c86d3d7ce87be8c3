package usecase

import (
	"context"
	"errors"
	"fmt"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// UpdateParticipantStateInput is a partial update of the acting user's own
// media flags; nil fields are untouched.
type UpdateParticipantStateInput struct {
	MeetingID  string
	ActorID    string
	IsMuted    *bool
	IsVideoOff *bool
}

// UpdateParticipantStateUseCase lets a participant flip their own mute/video
// flags and broadcasts the change. Acting on one's own state needs no
// capability beyond active membership.
type UpdateParticipantStateUseCase struct {
	Repo   repository.MeetingRepository
	Events EventPublisher
}

func NewUpdateParticipantStateUseCase(repo repository.MeetingRepository, events EventPublisher) *UpdateParticipantStateUseCase {
	return &UpdateParticipantStateUseCase{Repo: repo, Events: events}
}

func (uc *UpdateParticipantStateUseCase) Execute(ctx context.Context, in UpdateParticipantStateInput) (*meeting.Participant, error) {
	if in.IsMuted == nil && in.IsVideoOff == nil {
		return nil, fmt.Errorf("%w: at least one of is_muted or is_video_off is required", meeting.ErrValidation)
	}
	m, err := loadMeeting(ctx, uc.Repo, in.MeetingID)
	if err != nil {
		return nil, err
	}
	if m.Ended() {
		return nil, meeting.ErrMeetingEnded
	}
	p, err := loadActiveParticipant(ctx, uc.Repo, m.ID, in.ActorID)
	if err != nil {
		return nil, err
	}

	updated, err := uc.Repo.UpdateParticipantState(ctx, p.ID, in.IsMuted, in.IsVideoOff)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, meeting.ErrAlreadyLeft
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.Events.Publish(ctx, m.ID, meeting.TopicParticipants, meeting.EventParticipantStateChanged, meeting.ParticipantStateChangedPayload{
		MeetingID:     m.ID,
		ParticipantID: updated.ID,
		UserID:        updated.UserID,
		IsMuted:       updated.IsMuted,
		IsVideoOff:    updated.IsVideoOff,
	})

	return updated, nil
}
