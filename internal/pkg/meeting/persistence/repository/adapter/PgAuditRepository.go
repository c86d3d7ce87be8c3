package adapter

import (
	"context"
	"errors"

	meeting "go-huddle/internal/pkg/meeting/application/domain"
	repository "go-huddle/internal/pkg/meeting/persistence/repository/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgAuditRepository struct {
	pool *pgxpool.Pool
}

func NewPgAuditRepository(pool *pgxpool.Pool) *PgAuditRepository {
	return &PgAuditRepository{pool: pool}
}

var _ repository.AuditRepository = (*PgAuditRepository)(nil)

func (r *PgAuditRepository) InsertAuditEntry(ctx context.Context, e meeting.AuditEntry) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgAuditRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (
			user_id, meeting_id, action, target_user_id, metadata,
			ip_address, user_agent, created_at
		) VALUES ($1::uuid, $2::uuid, $3, $4::uuid, $5, $6, $7, $8)
		RETURNING id::text
	`, e.UserID, e.MeetingID, e.Action, e.TargetUserID, e.Metadata,
		e.IPAddress, e.UserAgent, e.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgAuditRepository) ListAuditEntries(ctx context.Context, meetingID string, q repository.AuditQuery) ([]meeting.AuditEntry, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgAuditRepository: nil pool")
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id::text, meeting_id::text, action, target_user_id::text,
		       COALESCE(metadata, '{}'), ip_address, user_agent, created_at
		FROM audit_logs
		WHERE meeting_id = $1::uuid
		  AND ($2::text IS NULL OR action = $2)
		  AND ($3::uuid IS NULL OR user_id = $3::uuid)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, meetingID, q.Action, q.UserID, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []meeting.AuditEntry
	for rows.Next() {
		var e meeting.AuditEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.MeetingID, &e.Action, &e.TargetUserID,
			&e.Metadata, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return entries, nil
}
