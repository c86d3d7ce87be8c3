package task

import (
	"context"
	"encoding/json"
	"log"
	"time"

	qport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/pkg/meeting/application/audit"
	repoAdapter "go-huddle/internal/pkg/meeting/persistence/repository/adapter"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordAuditEntryTaskType is the queue task name for persisting an audit entry.
const RecordAuditEntryTaskType = "audit:record"

// auditQueue is the logical queue audit tasks ride on.
const auditQueue = "audit"

// QueueAuditor satisfies the use cases' Auditor by shipping each entry through
// the background queue instead of writing inline. Enqueueing is fire-and-forget:
// a failure is logged and the triggering request proceeds unaffected.
type QueueAuditor struct {
	Q qport.Client
}

func NewQueueAuditor(q qport.Client) *QueueAuditor {
	return &QueueAuditor{Q: q}
}

func (a *QueueAuditor) Record(ctx context.Context, in audit.Input) {
	b, err := json.Marshal(in)
	if err != nil {
		log.Printf("audit: encode task payload: %v", err)
		return
	}
	opts := qport.EnqueueOption{Queue: auditQueue, MaxRetry: 10}
	if _, err := a.Q.Enqueue(ctx, qport.Task{Type: RecordAuditEntryTaskType, Payload: b}, opts); err != nil {
		log.Printf("audit: enqueue %s for meeting %s: %v", in.Action, in.MeetingID, err)
	}
}

// RegisterRecordAuditEntryTask binds the worker-side handler. A returned error
// signals the queue to retry per the adapter's policy, so the handler uses the
// recorder's strict Persist path rather than the swallowing Record.
func RegisterRecordAuditEntryTask(srv qport.Server, pool *pgxpool.Pool) {
	srv.Register(RecordAuditEntryTaskType, func(ctx context.Context, t qport.Task) error {
		var in audit.Input
		if err := json.Unmarshal(t.Payload, &in); err != nil {
			// malformed payload: retrying will not help
			return err
		}

		recorder := audit.NewRecorder(repoAdapter.NewPgAuditRepository(pool))

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return recorder.Persist(ctx, in)
	})
}
