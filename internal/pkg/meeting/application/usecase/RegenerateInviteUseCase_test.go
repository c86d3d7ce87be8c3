package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

func TestRegenerateInvite(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: hostParticipant()}
	auditor := &fakeAuditor{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := NewRegenerateInviteUseCase(repo, auditor, "https://huddle.example.com/")
	uc.Now = func() time.Time { return now }
	uc.NewToken = func() string { return "fresh-token" }

	out, err := uc.Execute(context.Background(), RegenerateInviteInput{
		MeetingID: "meeting-1",
		ActorID:   "host-1",
		ExpiresIn: 3600,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.InviteToken != "fresh-token" {
		t.Fatalf("token = %q", out.InviteToken)
	}
	if out.InviteURL != "https://huddle.example.com/join/fresh-token" {
		t.Fatalf("invite url = %q", out.InviteURL)
	}
	if out.ExpiresAt == nil || !out.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires at = %v, want %v", out.ExpiresAt, now.Add(time.Hour))
	}
	if repo.inviteToken != "fresh-token" || repo.inviteExpiresAt == nil {
		t.Fatalf("invite not persisted: token=%q expiresAt=%v", repo.inviteToken, repo.inviteExpiresAt)
	}
	if len(auditor.recorded) != 1 || auditor.recorded[0].Action != meeting.ActionInviteRegenerated {
		t.Fatalf("audit actions = %v", auditor.actions())
	}
}

func TestRegenerateInviteWithoutExpiry(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: hostParticipant()}
	uc := NewRegenerateInviteUseCase(repo, &fakeAuditor{}, "https://huddle.example.com")

	out, err := uc.Execute(context.Background(), RegenerateInviteInput{MeetingID: "meeting-1", ActorID: "host-1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.ExpiresAt != nil {
		t.Fatalf("zero expiresIn produced an expiry: %v", out.ExpiresAt)
	}
	if out.InviteToken == "" {
		t.Fatalf("no token generated")
	}
}

func TestRegenerateInviteNegativeExpiry(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: hostParticipant()}
	uc := NewRegenerateInviteUseCase(repo, &fakeAuditor{}, "")

	_, err := uc.Execute(context.Background(), RegenerateInviteInput{MeetingID: "meeting-1", ActorID: "host-1", ExpiresIn: -1})
	if !errors.Is(err, meeting.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestRegenerateInviteByParticipantForbidden(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: regularParticipant()}
	uc := NewRegenerateInviteUseCase(repo, &fakeAuditor{}, "")

	_, err := uc.Execute(context.Background(), RegenerateInviteInput{MeetingID: "meeting-1", ActorID: "user-2"})
	if !errors.Is(err, meeting.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if repo.inviteToken != "" {
		t.Fatalf("forbidden request rotated the token")
	}
}
