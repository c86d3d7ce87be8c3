package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

func TestLockMeetingByHost(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: hostParticipant()}
	auditor := &fakeAuditor{}
	events := &fakePublisher{}
	uc := NewLockMeetingUseCase(repo, auditor, events)

	m, err := uc.Execute(context.Background(), LockMeetingInput{
		MeetingID: "meeting-1",
		ActorID:   "host-1",
		Locked:    true,
		ClientIP:  "192.168.1.1",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !m.Locked {
		t.Fatalf("returned meeting not locked")
	}
	if repo.lockedSaved == nil || !*repo.lockedSaved {
		t.Fatalf("lock not persisted")
	}

	if len(auditor.recorded) != 1 || auditor.recorded[0].Action != meeting.ActionMeetingLocked {
		t.Fatalf("audit actions = %v, want meeting_locked", auditor.actions())
	}
	if auditor.recorded[0].Metadata["locked"] != "true" {
		t.Fatalf("audit metadata = %v", auditor.recorded[0].Metadata)
	}

	if len(events.published) != 1 {
		t.Fatalf("published %d events, want 1", len(events.published))
	}
	evt := events.published[0]
	if evt.name != meeting.EventMeetingLocked || evt.topic != meeting.TopicGeneric {
		t.Fatalf("published %s on %s", evt.name, evt.topic)
	}
}

func TestUnlockMeetingAuditsUnlockedAction(t *testing.T) {
	m := activeMeeting()
	m.Locked = true
	repo := &fakeMeetingRepo{meeting: m, participant: hostParticipant()}
	auditor := &fakeAuditor{}
	uc := NewLockMeetingUseCase(repo, auditor, &fakePublisher{})

	if _, err := uc.Execute(context.Background(), LockMeetingInput{MeetingID: "meeting-1", ActorID: "host-1", Locked: false}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if auditor.recorded[0].Action != meeting.ActionMeetingUnlocked {
		t.Fatalf("audit action = %s, want meeting_unlocked", auditor.recorded[0].Action)
	}
}

func TestLockMeetingByParticipantForbidden(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: regularParticipant()}
	auditor := &fakeAuditor{}
	events := &fakePublisher{}
	uc := NewLockMeetingUseCase(repo, auditor, events)

	_, err := uc.Execute(context.Background(), LockMeetingInput{MeetingID: "meeting-1", ActorID: "user-2", Locked: true})
	if !errors.Is(err, meeting.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if repo.lockedSaved != nil {
		t.Fatalf("forbidden request persisted a lock change")
	}
	if len(auditor.recorded) != 0 || len(events.published) != 0 {
		t.Fatalf("forbidden request produced side effects")
	}
}

func TestLockMeetingEndedConflict(t *testing.T) {
	m := activeMeeting()
	m.Status = meeting.StatusEnded
	repo := &fakeMeetingRepo{meeting: m, participant: hostParticipant()}
	uc := NewLockMeetingUseCase(repo, &fakeAuditor{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), LockMeetingInput{MeetingID: "meeting-1", ActorID: "host-1", Locked: true})
	if !errors.Is(err, meeting.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestLockMeetingUnknownMeeting(t *testing.T) {
	repo := &fakeMeetingRepo{}
	uc := NewLockMeetingUseCase(repo, &fakeAuditor{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), LockMeetingInput{MeetingID: "missing", ActorID: "host-1", Locked: true})
	if !errors.Is(err, meeting.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLockMeetingNonParticipant(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting()}
	uc := NewLockMeetingUseCase(repo, &fakeAuditor{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), LockMeetingInput{MeetingID: "meeting-1", ActorID: "stranger", Locked: true})
	if !errors.Is(err, meeting.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
}

func TestLockMeetingLeftParticipantCannotAct(t *testing.T) {
	p := hostParticipant()
	left := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	p.LeftAt = &left
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: p}
	uc := NewLockMeetingUseCase(repo, &fakeAuditor{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), LockMeetingInput{MeetingID: "meeting-1", ActorID: "host-1", Locked: true})
	if !errors.Is(err, meeting.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant for a departed actor", err)
	}
}

func TestLockMeetingPersistenceFailure(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: hostParticipant(), updateLockedErr: errors.New("connection refused")}
	uc := NewLockMeetingUseCase(repo, &fakeAuditor{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), LockMeetingInput{MeetingID: "meeting-1", ActorID: "host-1", Locked: true})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}
