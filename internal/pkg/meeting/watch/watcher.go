// Package watch is the subscribe side of the broadcast fan-out: a client that
// resolves a meeting code once, fetches the current state, then applies
// incoming events with last-writer-wins semantics, surfacing one notification
// per field that actually changed.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	psport "go-huddle/internal/infrastructure/pubsub/port"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
)

// State is the locally cached view of a meeting. It is replaced wholesale on
// every applied event; there are no sequence numbers, so an event that arrives
// last wins even if it was logically older.
type State struct {
	MeetingID    string
	Status       meeting.Status
	Locked       bool
	Settings     meeting.Settings
	Participants map[string]ParticipantState // keyed by user id
}

// ParticipantState is the watched view of one participant.
type ParticipantState struct {
	UserID     string
	IsMuted    bool
	IsVideoOff bool
}

// Notification is one user-facing message describing a change.
type Notification struct {
	Event   string
	Message string
}

// Resolver yields the initial snapshot for a meeting code.
type Resolver interface {
	Execute(ctx context.Context, code string) (*meeting.Meeting, []meeting.Participant, error)
}

// Watcher consumes a meeting's broadcast channels and maintains State.
// Notify, when set, receives user-facing notifications; duplicate or no-op
// deliveries produce none.
type Watcher struct {
	PS       psport.PubSub
	Resolver Resolver
	Notify   func(Notification)

	mu    sync.Mutex
	state State
}

func NewWatcher(ps psport.PubSub, resolver Resolver, notify func(Notification)) *Watcher {
	return &Watcher{PS: ps, Resolver: resolver, Notify: notify}
}

// State returns a copy of the current cached view. Safe to call from any
// goroutine while Run is applying events.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.state
	s.Settings = w.state.Settings.Clone()
	if w.state.Participants != nil {
		s.Participants = make(map[string]ParticipantState, len(w.state.Participants))
		for id, p := range w.state.Participants {
			s.Participants[id] = p
		}
	}
	return s
}

// Run resolves the code, seeds local state from the snapshot, subscribes to
// the meeting's topic channels and applies events until ctx is canceled or
// the subscription closes.
func (w *Watcher) Run(ctx context.Context, code string) error {
	m, participants, err := w.Resolver.Execute(ctx, code)
	if err != nil {
		return fmt.Errorf("watch: resolve %q: %w", code, err)
	}
	w.seed(m, participants)

	sub, err := w.PS.Subscribe(ctx,
		meeting.ChannelName(m.ID, meeting.TopicParticipants),
		meeting.ChannelName(m.ID, meeting.TopicSettings),
		meeting.ChannelName(m.ID, meeting.TopicGeneric),
	)
	if err != nil {
		return fmt.Errorf("watch: subscribe: %w", err)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.Messages():
			if !ok {
				return nil
			}
			w.Apply(msg.Payload)
		}
	}
}

func (w *Watcher) seed(m *meeting.Meeting, participants []meeting.Participant) {
	state := State{
		MeetingID:    m.ID,
		Status:       m.Status,
		Locked:       m.Locked,
		Settings:     m.Settings.Clone(),
		Participants: make(map[string]ParticipantState, len(participants)),
	}
	for _, p := range participants {
		state.Participants[p.UserID] = ParticipantState{
			UserID:     p.UserID,
			IsMuted:    p.IsMuted,
			IsVideoOff: p.IsVideoOff,
		}
	}

	w.mu.Lock()
	w.state = state
	w.mu.Unlock()
}

// Apply decodes one event envelope, diffs it against the cached state, emits
// notifications for fields that actually changed and then replaces the cached
// value with the received one.
func (w *Watcher) Apply(raw []byte) {
	var evt meeting.Event
	if err := json.Unmarshal(raw, &evt); err != nil {
		log.Printf("watch: bad envelope: %v", err)
		return
	}

	w.mu.Lock()
	notes := w.applyLocked(evt)
	w.mu.Unlock()

	// Notify fires outside the lock so a callback may read State.
	if w.Notify != nil {
		for _, n := range notes {
			w.Notify(n)
		}
	}
}

func (w *Watcher) applyLocked(evt meeting.Event) []Notification {
	var notes []Notification
	emit := func(message string) {
		notes = append(notes, Notification{Event: evt.Event, Message: message})
	}

	switch evt.Event {
	case meeting.EventMeetingLocked:
		var p meeting.MeetingLockedPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			log.Printf("watch: bad %s payload: %v", evt.Event, err)
			return nil
		}
		if w.state.Locked != p.Locked {
			verb := "unlocked"
			if p.Locked {
				verb = "locked"
			}
			emit("The meeting has been " + verb)
		}
		w.state.Locked = p.Locked

	case meeting.EventSettingsUpdated:
		var p meeting.SettingsUpdatedPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			log.Printf("watch: bad %s payload: %v", evt.Event, err)
			return nil
		}
		if !w.state.Settings.Equal(p.Settings) {
			emit("Meeting settings were updated")
		}
		w.state.Settings = p.Settings.Clone()

	case meeting.EventMeetingEnded:
		var p meeting.MeetingEndedPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			log.Printf("watch: bad %s payload: %v", evt.Event, err)
			return nil
		}
		if w.state.Status != meeting.StatusEnded {
			if p.EndedByHost {
				emit("The host ended the meeting")
			} else {
				emit("The meeting has ended")
			}
		}
		w.state.Status = meeting.StatusEnded

	case meeting.EventParticipantLeft:
		var p meeting.ParticipantLeftPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			log.Printf("watch: bad %s payload: %v", evt.Event, err)
			return nil
		}
		if _, present := w.state.Participants[p.UserID]; present {
			emit("A participant left the meeting")
		}
		delete(w.state.Participants, p.UserID)

	case meeting.EventParticipantStateChanged:
		var p meeting.ParticipantStateChangedPayload
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			log.Printf("watch: bad %s payload: %v", evt.Event, err)
			return nil
		}
		next := ParticipantState{UserID: p.UserID, IsMuted: p.IsMuted, IsVideoOff: p.IsVideoOff}
		if prev, present := w.state.Participants[p.UserID]; !present || prev != next {
			emit("A participant changed their mute or video state")
		}
		if w.state.Participants == nil {
			w.state.Participants = make(map[string]ParticipantState)
		}
		w.state.Participants[p.UserID] = next

	default:
		// Unknown events are ignored; the publisher may be newer than us.
	}

	return notes
}
