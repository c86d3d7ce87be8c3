package usecase

import (
	"context"
	"time"

	"go-huddle/internal/pkg/meeting/application/audit"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"
)

// fakeMeetingRepo is an in-memory MeetingRepository with per-method error
// injection. One meeting and one participant are enough for every use case.
type fakeMeetingRepo struct {
	meeting     *meeting.Meeting
	participant *meeting.Participant
	activeCount int

	getMeetingErr      error
	getParticipantErr  error
	updateLockedErr    error
	updateSettingsErr  error
	updateWhitelistErr error
	updateInviteErr    error
	endMeetingErr      error
	markLeftErr        error
	updateStateErr     error

	lockedSaved     *bool
	settingsSaved   meeting.Settings
	whitelistSaved  []string
	inviteToken     string
	inviteExpiresAt *time.Time
	leftID          string
	leftAt          time.Time
	endCalls        int
	endedAt         time.Time
}

func (f *fakeMeetingRepo) GetMeeting(ctx context.Context, meetingID string) (*meeting.Meeting, error) {
	if f.getMeetingErr != nil {
		return nil, f.getMeetingErr
	}
	if f.meeting == nil || f.meeting.ID != meetingID {
		return nil, repository.ErrNotFound
	}
	return f.meeting, nil
}

func (f *fakeMeetingRepo) GetMeetingByCode(ctx context.Context, code string) (*meeting.Meeting, error) {
	if f.meeting == nil || f.meeting.Code != code {
		return nil, repository.ErrNotFound
	}
	return f.meeting, nil
}

func (f *fakeMeetingRepo) UpdateLocked(ctx context.Context, meetingID string, locked bool) error {
	if f.updateLockedErr != nil {
		return f.updateLockedErr
	}
	f.lockedSaved = &locked
	return nil
}

func (f *fakeMeetingRepo) UpdateSettings(ctx context.Context, meetingID string, settings meeting.Settings) error {
	if f.updateSettingsErr != nil {
		return f.updateSettingsErr
	}
	f.settingsSaved = settings
	return nil
}

func (f *fakeMeetingRepo) UpdateWhitelist(ctx context.Context, meetingID string, whitelist []string) error {
	if f.updateWhitelistErr != nil {
		return f.updateWhitelistErr
	}
	f.whitelistSaved = append([]string(nil), whitelist...)
	return nil
}

func (f *fakeMeetingRepo) UpdateInvite(ctx context.Context, meetingID string, token string, expiresAt *time.Time) error {
	if f.updateInviteErr != nil {
		return f.updateInviteErr
	}
	f.inviteToken = token
	f.inviteExpiresAt = expiresAt
	return nil
}

func (f *fakeMeetingRepo) EndMeeting(ctx context.Context, meetingID string, endedAt time.Time) error {
	f.endCalls++
	if f.endMeetingErr != nil {
		return f.endMeetingErr
	}
	f.endedAt = endedAt
	return nil
}

func (f *fakeMeetingRepo) GetLatestParticipant(ctx context.Context, meetingID string, userID string) (*meeting.Participant, error) {
	if f.getParticipantErr != nil {
		return nil, f.getParticipantErr
	}
	if f.participant == nil || f.participant.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return f.participant, nil
}

func (f *fakeMeetingRepo) ListActiveParticipants(ctx context.Context, meetingID string) ([]meeting.Participant, error) {
	if f.participant == nil || !f.participant.Active() {
		return nil, nil
	}
	return []meeting.Participant{*f.participant}, nil
}

func (f *fakeMeetingRepo) CountActiveParticipants(ctx context.Context, meetingID string) (int, error) {
	return f.activeCount, nil
}

func (f *fakeMeetingRepo) MarkParticipantLeft(ctx context.Context, participantID string, leftAt time.Time) error {
	if f.markLeftErr != nil {
		return f.markLeftErr
	}
	f.leftID = participantID
	f.leftAt = leftAt
	return nil
}

func (f *fakeMeetingRepo) UpdateParticipantState(ctx context.Context, participantID string, isMuted *bool, isVideoOff *bool) (*meeting.Participant, error) {
	if f.updateStateErr != nil {
		return nil, f.updateStateErr
	}
	updated := *f.participant
	if isMuted != nil {
		updated.IsMuted = *isMuted
	}
	if isVideoOff != nil {
		updated.IsVideoOff = *isVideoOff
	}
	return &updated, nil
}

// fakeAuditor records every audit input it receives.
type fakeAuditor struct {
	recorded []audit.Input
}

func (f *fakeAuditor) Record(ctx context.Context, in audit.Input) {
	f.recorded = append(f.recorded, in)
}

func (f *fakeAuditor) actions() []meeting.Action {
	out := make([]meeting.Action, 0, len(f.recorded))
	for _, in := range f.recorded {
		out = append(out, in.Action)
	}
	return out
}

// publishedEvent is one captured broadcast.
type publishedEvent struct {
	meetingID string
	topic     meeting.Topic
	name      string
	payload   any
}

// fakePublisher records every published event.
type fakePublisher struct {
	published []publishedEvent
}

func (f *fakePublisher) Publish(ctx context.Context, meetingID string, topic meeting.Topic, name string, payload any) {
	f.published = append(f.published, publishedEvent{meetingID: meetingID, topic: topic, name: name, payload: payload})
}

// fakeCache is a map-backed cache port for the resolve use case.
type fakeCache struct {
	values map[string]string
	sets   int
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (f *fakeCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) { return 0, nil }
func (f *fakeCache) Ping(ctx context.Context) error                        { return nil }
func (f *fakeCache) Close() error                                          { return nil }

type cacheMissError struct{}

func (cacheMissError) Error() string { return "cache: miss" }

var errCacheMiss = cacheMissError{}

func activeMeeting() *meeting.Meeting {
	return &meeting.Meeting{
		ID:     "meeting-1",
		Code:   "abc-defg-hij",
		HostID: "host-1",
		Status: meeting.StatusActive,
		Settings: meeting.Settings{
			meeting.SettingChatEnabled: true,
		},
	}
}

func hostParticipant() *meeting.Participant {
	return &meeting.Participant{
		ID:        "part-host",
		MeetingID: "meeting-1",
		UserID:    "host-1",
		Role:      meeting.RoleHost,
	}
}

func regularParticipant() *meeting.Participant {
	return &meeting.Participant{
		ID:        "part-2",
		MeetingID: "meeting-1",
		UserID:    "user-2",
		Role:      meeting.RoleParticipant,
	}
}
