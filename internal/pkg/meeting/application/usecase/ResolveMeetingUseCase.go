package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	cacheport "go-huddle/internal/infrastructure/cache/port"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// codeCacheTTL bounds staleness of the code->id mapping. Codes are stable for
// the life of a meeting, so a short TTL only matters for deleted meetings.
const codeCacheTTL = 10 * time.Minute

// ResolveMeetingUseCase maps a human-facing meeting code to the meeting's
// durable identifier, caching the mapping, and returns the current snapshot.
// Subscribers resolve once before opening their channel subscription.
type ResolveMeetingUseCase struct {
	Repo  repository.MeetingRepository
	Cache cacheport.Cache
}

func NewResolveMeetingUseCase(repo repository.MeetingRepository, cache cacheport.Cache) *ResolveMeetingUseCase {
	return &ResolveMeetingUseCase{Repo: repo, Cache: cache}
}

func (uc *ResolveMeetingUseCase) Execute(ctx context.Context, code string) (*meeting.Meeting, []meeting.Participant, error) {
	if code == "" {
		return nil, nil, fmt.Errorf("%w: meeting code is required", meeting.ErrValidation)
	}

	m, err := uc.lookup(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	participants, err := uc.Repo.ListActiveParticipants(ctx, m.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return m, participants, nil
}

func (uc *ResolveMeetingUseCase) lookup(ctx context.Context, code string) (*meeting.Meeting, error) {
	key := "meeting:code:" + code

	if uc.Cache != nil {
		if id, err := uc.Cache.Get(ctx, key); err == nil && id != "" {
			m, err := uc.Repo.GetMeeting(ctx, id)
			if err == nil {
				return m, nil
			}
			// Stale mapping; fall through to the code lookup.
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}
	}

	m, err := uc.Repo.GetMeetingByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, meeting.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, key, m.ID, codeCacheTTL); err != nil {
			log.Printf("resolve: cache code %s: %v", code, err)
		}
	}
	return m, nil
}
