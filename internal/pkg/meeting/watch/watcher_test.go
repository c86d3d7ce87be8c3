package watch

import (
	"encoding/json"
	"testing"
	"time"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

func seededWatcher(t *testing.T, notify func(Notification)) *Watcher {
	t.Helper()
	w := NewWatcher(nil, nil, notify)
	w.seed(&meeting.Meeting{
		ID:     "meeting-1",
		Status: meeting.StatusActive,
		Locked: false,
		Settings: meeting.Settings{
			meeting.SettingChatEnabled:        true,
			meeting.SettingScreenShareEnabled: false,
		},
	}, []meeting.Participant{
		{UserID: "host-1", IsMuted: false},
		{UserID: "user-2", IsMuted: true},
	})
	return w
}

func envelope(t *testing.T, name string, payload any) []byte {
	t.Helper()
	evt, err := meeting.NewEvent(name, payload)
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}

func TestApplyLockedChangeNotifiesOnce(t *testing.T) {
	var got []Notification
	w := seededWatcher(t, func(n Notification) { got = append(got, n) })

	raw := envelope(t, meeting.EventMeetingLocked, meeting.MeetingLockedPayload{
		MeetingID: "meeting-1", Locked: true, ChangedBy: "host-1",
	})
	w.Apply(raw)

	if len(got) != 1 {
		t.Fatalf("notifications = %v, want exactly one", got)
	}
	if !w.State().Locked {
		t.Fatalf("state not updated after lock event")
	}

	// The same event delivered again is a no-op.
	w.Apply(raw)
	if len(got) != 1 {
		t.Fatalf("duplicate delivery produced a notification")
	}
}

func TestApplyIdenticalSettingsIsSilent(t *testing.T) {
	var got []Notification
	w := seededWatcher(t, func(n Notification) { got = append(got, n) })

	w.Apply(envelope(t, meeting.EventSettingsUpdated, meeting.SettingsUpdatedPayload{
		MeetingID: "meeting-1",
		Settings: meeting.Settings{
			meeting.SettingChatEnabled:        true,
			meeting.SettingScreenShareEnabled: false,
		},
		UpdatedAt: time.Now(),
	}))

	if len(got) != 0 {
		t.Fatalf("no-op settings delivery notified: %v", got)
	}
}

func TestApplySettingsChangeNotifiesAndReplacesWholesale(t *testing.T) {
	var got []Notification
	w := seededWatcher(t, func(n Notification) { got = append(got, n) })

	incoming := meeting.Settings{meeting.SettingScreenShareEnabled: true}
	w.Apply(envelope(t, meeting.EventSettingsUpdated, meeting.SettingsUpdatedPayload{
		MeetingID: "meeting-1",
		Settings:  incoming,
	}))

	if len(got) != 1 {
		t.Fatalf("notifications = %v, want one", got)
	}
	// Last writer wins: the cached map is replaced, not merged, so the key
	// the incoming event omitted is gone.
	if !w.State().Settings.Equal(incoming) {
		t.Fatalf("state settings = %v, want wholesale replacement %v", w.State().Settings, incoming)
	}
}

func TestApplyOutOfOrderLastWriterWins(t *testing.T) {
	w := seededWatcher(t, nil)

	newer := envelope(t, meeting.EventMeetingLocked, meeting.MeetingLockedPayload{MeetingID: "meeting-1", Locked: true})
	older := envelope(t, meeting.EventMeetingLocked, meeting.MeetingLockedPayload{MeetingID: "meeting-1", Locked: false})

	// No sequence numbers: a logically older event arriving last overwrites.
	w.Apply(newer)
	w.Apply(older)
	if w.State().Locked {
		t.Fatalf("last delivered event did not win")
	}
}

func TestApplyMeetingEnded(t *testing.T) {
	var got []Notification
	w := seededWatcher(t, func(n Notification) { got = append(got, n) })

	raw := envelope(t, meeting.EventMeetingEnded, meeting.MeetingEndedPayload{
		MeetingID: "meeting-1", EndedByHost: true, EndedAt: time.Now(),
	})
	w.Apply(raw)

	if w.State().Status != meeting.StatusEnded {
		t.Fatalf("status = %s after ended event", w.State().Status)
	}
	if len(got) != 1 {
		t.Fatalf("notifications = %v", got)
	}

	w.Apply(raw)
	if len(got) != 1 {
		t.Fatalf("repeated ended event notified again")
	}
}

func TestApplyParticipantLeft(t *testing.T) {
	var got []Notification
	w := seededWatcher(t, func(n Notification) { got = append(got, n) })

	raw := envelope(t, meeting.EventParticipantLeft, meeting.ParticipantLeftPayload{
		MeetingID: "meeting-1", UserID: "user-2", LeftAt: time.Now(),
	})
	w.Apply(raw)

	if _, present := w.State().Participants["user-2"]; present {
		t.Fatalf("departed participant still cached")
	}
	if len(got) != 1 {
		t.Fatalf("notifications = %v", got)
	}

	// Leaving a user we never knew about is silent.
	w.Apply(envelope(t, meeting.EventParticipantLeft, meeting.ParticipantLeftPayload{
		MeetingID: "meeting-1", UserID: "ghost",
	}))
	if len(got) != 1 {
		t.Fatalf("unknown participant's leave notified")
	}
}

func TestApplyParticipantStateChanged(t *testing.T) {
	var got []Notification
	w := seededWatcher(t, func(n Notification) { got = append(got, n) })

	raw := envelope(t, meeting.EventParticipantStateChanged, meeting.ParticipantStateChangedPayload{
		MeetingID: "meeting-1", UserID: "user-2", IsMuted: true, IsVideoOff: false,
	})

	// user-2 is already muted with video on; identical state is silent.
	w.Apply(raw)
	if len(got) != 0 {
		t.Fatalf("no-op state delivery notified: %v", got)
	}

	w.Apply(envelope(t, meeting.EventParticipantStateChanged, meeting.ParticipantStateChangedPayload{
		MeetingID: "meeting-1", UserID: "user-2", IsMuted: false, IsVideoOff: true,
	}))
	if len(got) != 1 {
		t.Fatalf("notifications = %v, want one for a real change", got)
	}
	ps := w.State().Participants["user-2"]
	if ps.IsMuted || !ps.IsVideoOff {
		t.Fatalf("cached participant state = %+v", ps)
	}
}

func TestApplyUnknownEventIgnored(t *testing.T) {
	var got []Notification
	w := seededWatcher(t, func(n Notification) { got = append(got, n) })
	before := w.State()

	w.Apply(envelope(t, "spotlight_set", map[string]string{"user_id": "user-2"}))

	if len(got) != 0 {
		t.Fatalf("unknown event notified: %v", got)
	}
	if w.State().Locked != before.Locked || w.State().Status != before.Status {
		t.Fatalf("unknown event mutated state")
	}
}

func TestStateConcurrentWithApply(t *testing.T) {
	// Run applies events on its own goroutine while callers poll State.
	w := seededWatcher(t, nil)

	events := [][]byte{
		envelope(t, meeting.EventMeetingLocked, meeting.MeetingLockedPayload{MeetingID: "meeting-1", Locked: true}),
		envelope(t, meeting.EventMeetingLocked, meeting.MeetingLockedPayload{MeetingID: "meeting-1", Locked: false}),
		envelope(t, meeting.EventParticipantStateChanged, meeting.ParticipantStateChangedPayload{MeetingID: "meeting-1", UserID: "user-2", IsMuted: true}),
		envelope(t, meeting.EventParticipantStateChanged, meeting.ParticipantStateChangedPayload{MeetingID: "meeting-1", UserID: "user-2", IsMuted: false}),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			w.Apply(events[i%len(events)])
		}
	}()

	for polling := true; polling; {
		select {
		case <-done:
			polling = false
		default:
			s := w.State()
			if s.MeetingID != "meeting-1" {
				t.Fatalf("state lost its meeting id: %+v", s)
			}
		}
	}
}

func TestStateReturnsCopy(t *testing.T) {
	w := seededWatcher(t, nil)

	s := w.State()
	s.Settings[meeting.SettingChatEnabled] = false
	delete(s.Participants, "user-2")

	if !w.State().Settings[meeting.SettingChatEnabled] {
		t.Fatalf("mutating a returned State leaked into the cache")
	}
	if _, present := w.State().Participants["user-2"]; !present {
		t.Fatalf("deleting from a returned State leaked into the cache")
	}
}

func TestNotifyCallbackMayReadState(t *testing.T) {
	var seen []State
	w := NewWatcher(nil, nil, nil)
	w.Notify = func(Notification) { seen = append(seen, w.State()) }
	w.seed(&meeting.Meeting{ID: "meeting-1", Status: meeting.StatusActive}, nil)

	w.Apply(envelope(t, meeting.EventMeetingLocked, meeting.MeetingLockedPayload{
		MeetingID: "meeting-1", Locked: true,
	}))

	if len(seen) != 1 {
		t.Fatalf("callback observed %d states, want 1", len(seen))
	}
	if !seen[0].Locked {
		t.Fatalf("callback saw stale state: %+v", seen[0])
	}
}

func TestApplyMalformedPayload(t *testing.T) {
	w := seededWatcher(t, nil)
	w.Apply([]byte("not json"))
	w.Apply([]byte(`{"event":"meeting_locked","payload":"not an object"}`))
	if w.State().MeetingID != "meeting-1" {
		t.Fatalf("malformed input corrupted state")
	}
}
