package usecase

import (
	"context"
	"errors"
	"testing"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

func TestAddWhitelistEmail(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: hostParticipant()}
	auditor := &fakeAuditor{}
	uc := NewAddWhitelistEmailUseCase(repo, auditor)

	whitelist, err := uc.Execute(context.Background(), AddWhitelistEmailInput{
		MeetingID: "meeting-1",
		ActorID:   "host-1",
		Email:     "  Alice@Example.COM ",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(whitelist) != 1 || whitelist[0] != "alice@example.com" {
		t.Fatalf("whitelist = %v", whitelist)
	}
	if len(repo.whitelistSaved) != 1 || repo.whitelistSaved[0] != "alice@example.com" {
		t.Fatalf("persisted whitelist = %v", repo.whitelistSaved)
	}
	if len(auditor.recorded) != 1 || auditor.recorded[0].Action != meeting.ActionWhitelistEmailAdded {
		t.Fatalf("audit actions = %v", auditor.actions())
	}
	if auditor.recorded[0].Metadata["email"] != "alice@example.com" {
		t.Fatalf("audit metadata = %v", auditor.recorded[0].Metadata)
	}
}

func TestAddWhitelistEmailDuplicateConflict(t *testing.T) {
	m := activeMeeting()
	m.Whitelist = []string{"alice@example.com"}
	repo := &fakeMeetingRepo{meeting: m, participant: hostParticipant()}
	uc := NewAddWhitelistEmailUseCase(repo, &fakeAuditor{})

	_, err := uc.Execute(context.Background(), AddWhitelistEmailInput{
		MeetingID: "meeting-1",
		ActorID:   "host-1",
		Email:     "ALICE@example.com",
	})
	if !errors.Is(err, meeting.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
	if repo.whitelistSaved != nil {
		t.Fatalf("failed add reached persistence")
	}
}

func TestAddWhitelistEmailInvalidInput(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: hostParticipant()}
	uc := NewAddWhitelistEmailUseCase(repo, &fakeAuditor{})

	_, err := uc.Execute(context.Background(), AddWhitelistEmailInput{
		MeetingID: "meeting-1",
		ActorID:   "host-1",
		Email:     "not-an-email",
	})
	if !errors.Is(err, meeting.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestAddWhitelistEmailByParticipantForbidden(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: regularParticipant()}
	uc := NewAddWhitelistEmailUseCase(repo, &fakeAuditor{})

	_, err := uc.Execute(context.Background(), AddWhitelistEmailInput{
		MeetingID: "meeting-1",
		ActorID:   "user-2",
		Email:     "alice@example.com",
	})
	if !errors.Is(err, meeting.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
