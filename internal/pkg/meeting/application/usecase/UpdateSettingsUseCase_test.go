package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

func TestUpdateSettingsMergesOverlay(t *testing.T) {
	m := activeMeeting()
	m.Settings = meeting.Settings{
		meeting.SettingChatEnabled:        true,
		meeting.SettingScreenShareEnabled: false,
	}
	repo := &fakeMeetingRepo{meeting: m, participant: hostParticipant()}
	auditor := &fakeAuditor{}
	events := &fakePublisher{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := NewUpdateSettingsUseCase(repo, auditor, events)
	uc.Now = func() time.Time { return now }

	got, err := uc.Execute(context.Background(), UpdateSettingsInput{
		MeetingID: "meeting-1",
		ActorID:   "host-1",
		Settings:  meeting.Settings{meeting.SettingScreenShareEnabled: true},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Untouched keys survive, the overlay applies.
	if !got.Settings[meeting.SettingChatEnabled] || !got.Settings[meeting.SettingScreenShareEnabled] {
		t.Fatalf("merged settings = %v", got.Settings)
	}
	if !repo.settingsSaved.Equal(got.Settings) {
		t.Fatalf("persisted settings %v differ from returned %v", repo.settingsSaved, got.Settings)
	}

	if len(auditor.recorded) != 1 || auditor.recorded[0].Action != meeting.ActionSettingsUpdated {
		t.Fatalf("audit actions = %v", auditor.actions())
	}
	if auditor.recorded[0].Metadata["keys"] != meeting.SettingScreenShareEnabled {
		t.Fatalf("audit metadata keys = %q", auditor.recorded[0].Metadata["keys"])
	}

	if len(events.published) != 1 {
		t.Fatalf("published %d events, want 1", len(events.published))
	}
	evt := events.published[0]
	if evt.name != meeting.EventSettingsUpdated || evt.topic != meeting.TopicSettings {
		t.Fatalf("published %s on %s", evt.name, evt.topic)
	}
	payload, ok := evt.payload.(meeting.SettingsUpdatedPayload)
	if !ok {
		t.Fatalf("payload type %T", evt.payload)
	}
	// The broadcast carries the full resulting map, not the delta.
	if !payload.Settings.Equal(got.Settings) {
		t.Fatalf("broadcast settings = %v, want full map %v", payload.Settings, got.Settings)
	}
	if !payload.UpdatedAt.Equal(now) {
		t.Fatalf("broadcast timestamp = %v, want %v", payload.UpdatedAt, now)
	}
}

func TestUpdateSettingsEmptyOverlay(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: hostParticipant()}
	uc := NewUpdateSettingsUseCase(repo, &fakeAuditor{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), UpdateSettingsInput{MeetingID: "meeting-1", ActorID: "host-1"})
	if !errors.Is(err, meeting.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestUpdateSettingsByParticipantForbidden(t *testing.T) {
	repo := &fakeMeetingRepo{meeting: activeMeeting(), participant: regularParticipant()}
	uc := NewUpdateSettingsUseCase(repo, &fakeAuditor{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), UpdateSettingsInput{
		MeetingID: "meeting-1",
		ActorID:   "user-2",
		Settings:  meeting.Settings{meeting.SettingChatEnabled: false},
	})
	if !errors.Is(err, meeting.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if repo.settingsSaved != nil {
		t.Fatalf("forbidden request persisted settings")
	}
}

func TestUpdateSettingsEndedConflict(t *testing.T) {
	m := activeMeeting()
	m.Status = meeting.StatusEnded
	repo := &fakeMeetingRepo{meeting: m, participant: hostParticipant()}
	uc := NewUpdateSettingsUseCase(repo, &fakeAuditor{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), UpdateSettingsInput{
		MeetingID: "meeting-1",
		ActorID:   "host-1",
		Settings:  meeting.Settings{meeting.SettingChatEnabled: false},
	})
	if !errors.Is(err, meeting.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}
