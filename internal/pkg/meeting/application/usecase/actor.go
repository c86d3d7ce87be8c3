package usecase

import (
	"context"
	"errors"
	"fmt"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// loadMeeting fetches the meeting and maps repository errors into the
// domain taxonomy.
func loadMeeting(ctx context.Context, repo repository.MeetingRepository, meetingID string) (*meeting.Meeting, error) {
	if meetingID == "" {
		return nil, fmt.Errorf("%w: meeting id is required", meeting.ErrValidation)
	}
	m, err := repo.GetMeeting(ctx, meetingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, meeting.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return m, nil
}

// loadActiveParticipant resolves the acting user to their active attendance
// record in the meeting. Users who never joined, or who already left, cannot
// act on the meeting.
func loadActiveParticipant(ctx context.Context, repo repository.MeetingRepository, meetingID string, userID string) (*meeting.Participant, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: actor id is required", meeting.ErrValidation)
	}
	p, err := repo.GetLatestParticipant(ctx, meetingID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, meeting.ErrNotParticipant
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !p.Active() {
		return nil, meeting.ErrNotParticipant
	}
	return p, nil
}
