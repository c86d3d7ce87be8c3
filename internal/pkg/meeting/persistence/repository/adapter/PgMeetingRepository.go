package adapter

import (
	"context"
	"errors"
	"time"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgMeetingRepository struct {
	pool *pgxpool.Pool
}

func NewPgMeetingRepository(pool *pgxpool.Pool) *PgMeetingRepository {
	return &PgMeetingRepository{pool: pool}
}

var _ repository.MeetingRepository = (*PgMeetingRepository)(nil)

const meetingColumns = `
	id::text, code, host_id::text, status, locked, settings,
	COALESCE(whitelist, '{}'), invite_token, invite_expires_at,
	created_at, started_at, ended_at`

func (r *PgMeetingRepository) GetMeeting(ctx context.Context, meetingID string) (*meeting.Meeting, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings
		WHERE id = $1::uuid
	`, meetingID)
	return scanMeeting(row)
}

func (r *PgMeetingRepository) GetMeetingByCode(ctx context.Context, code string) (*meeting.Meeting, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings
		WHERE code = $1
	`, code)
	return scanMeeting(row)
}

func scanMeeting(row pgx.Row) (*meeting.Meeting, error) {
	var m meeting.Meeting
	err := row.Scan(
		&m.ID, &m.Code, &m.HostID, &m.Status, &m.Locked, &m.Settings,
		&m.Whitelist, &m.InviteToken, &m.InviteExpiresAt,
		&m.CreatedAt, &m.StartedAt, &m.EndedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgMeetingRepository) UpdateLocked(ctx context.Context, meetingID string, locked bool) error {
	return r.execOne(ctx, `
		UPDATE meetings SET locked = $2, updated_at = now()
		WHERE id = $1::uuid
	`, meetingID, locked)
}

func (r *PgMeetingRepository) UpdateSettings(ctx context.Context, meetingID string, settings meeting.Settings) error {
	return r.execOne(ctx, `
		UPDATE meetings SET settings = $2, updated_at = now()
		WHERE id = $1::uuid
	`, meetingID, settings)
}

func (r *PgMeetingRepository) UpdateWhitelist(ctx context.Context, meetingID string, whitelist []string) error {
	return r.execOne(ctx, `
		UPDATE meetings SET whitelist = $2, updated_at = now()
		WHERE id = $1::uuid
	`, meetingID, whitelist)
}

func (r *PgMeetingRepository) UpdateInvite(ctx context.Context, meetingID string, token string, expiresAt *time.Time) error {
	return r.execOne(ctx, `
		UPDATE meetings SET invite_token = $2, invite_expires_at = $3, updated_at = now()
		WHERE id = $1::uuid
	`, meetingID, token, expiresAt)
}

func (r *PgMeetingRepository) EndMeeting(ctx context.Context, meetingID string, endedAt time.Time) error {
	// The status guard keeps the transition monotonic even under concurrent
	// leave requests: only an active meeting row is updated.
	return r.execOne(ctx, `
		UPDATE meetings SET status = 'ended', ended_at = $2, updated_at = now()
		WHERE id = $1::uuid AND status = 'active'
	`, meetingID, endedAt)
}

func (r *PgMeetingRepository) GetLatestParticipant(ctx context.Context, meetingID string, userID string) (*meeting.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, meeting_id::text, user_id::text, role, joined_at, left_at,
		       is_muted, is_video_off, connection_quality
		FROM meeting_participants
		WHERE meeting_id = $1::uuid AND user_id = $2::uuid
		ORDER BY joined_at DESC
		LIMIT 1
	`, meetingID, userID)
	return scanParticipant(row)
}

func scanParticipant(row pgx.Row) (*meeting.Participant, error) {
	var p meeting.Participant
	err := row.Scan(
		&p.ID, &p.MeetingID, &p.UserID, &p.Role, &p.JoinedAt, &p.LeftAt,
		&p.IsMuted, &p.IsVideoOff, &p.Quality,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgMeetingRepository) ListActiveParticipants(ctx context.Context, meetingID string) ([]meeting.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, meeting_id::text, user_id::text, role, joined_at, left_at,
		       is_muted, is_video_off, connection_quality
		FROM meeting_participants
		WHERE meeting_id = $1::uuid AND left_at IS NULL
		ORDER BY joined_at ASC
	`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []meeting.Participant
	for rows.Next() {
		var p meeting.Participant
		if err := rows.Scan(
			&p.ID, &p.MeetingID, &p.UserID, &p.Role, &p.JoinedAt, &p.LeftAt,
			&p.IsMuted, &p.IsVideoOff, &p.Quality,
		); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return participants, nil
}

func (r *PgMeetingRepository) CountActiveParticipants(ctx context.Context, meetingID string) (int, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMeetingRepository: nil pool")
	}
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM meeting_participants
		WHERE meeting_id = $1::uuid AND left_at IS NULL
	`, meetingID).Scan(&count)
	return count, err
}

func (r *PgMeetingRepository) MarkParticipantLeft(ctx context.Context, participantID string, leftAt time.Time) error {
	// left_at IS NULL guard: a left participant cannot un-leave or re-leave.
	return r.execOne(ctx, `
		UPDATE meeting_participants SET left_at = $2
		WHERE id = $1::uuid AND left_at IS NULL
	`, participantID, leftAt)
}

func (r *PgMeetingRepository) UpdateParticipantState(ctx context.Context, participantID string, isMuted *bool, isVideoOff *bool) (*meeting.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE meeting_participants
		SET is_muted = COALESCE($2, is_muted),
		    is_video_off = COALESCE($3, is_video_off)
		WHERE id = $1::uuid AND left_at IS NULL
		RETURNING id::text, meeting_id::text, user_id::text, role, joined_at, left_at,
		          is_muted, is_video_off, connection_quality
	`, participantID, isMuted, isVideoOff)
	return scanParticipant(row)
}

func (r *PgMeetingRepository) execOne(ctx context.Context, sql string, args ...any) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMeetingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
