package usecase

import (
	"context"
	"fmt"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// ListAuditLogInput pages a meeting's audit trail, newest first.
type ListAuditLogInput struct {
	MeetingID string
	ActorID   string
	Limit     int
	Offset    int
	Action    *meeting.Action
	UserID    *string
}

// ListAuditLogUseCase is the only read path over audit entries; hosts only.
type ListAuditLogUseCase struct {
	Repo  repository.MeetingRepository
	Audit AuditLister
}

func NewListAuditLogUseCase(repo repository.MeetingRepository, lister AuditLister) *ListAuditLogUseCase {
	return &ListAuditLogUseCase{Repo: repo, Audit: lister}
}

func (uc *ListAuditLogUseCase) Execute(ctx context.Context, in ListAuditLogInput) ([]meeting.AuditEntry, error) {
	m, err := loadMeeting(ctx, uc.Repo, in.MeetingID)
	if err != nil {
		return nil, err
	}
	p, err := loadActiveParticipant(ctx, uc.Repo, m.ID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if p.Role != meeting.RoleHost {
		return nil, fmt.Errorf("%w: audit trail is host-only", meeting.ErrForbidden)
	}

	entries, err := uc.Audit.List(ctx, m.ID, audit.Query{
		Limit:  in.Limit,
		Offset: in.Offset,
		Action: in.Action,
		UserID: in.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return entries, nil
}
