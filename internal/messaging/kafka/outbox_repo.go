package kafka

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"go-hr-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	OutboxStatusDead    = "dead"

	MaxOutboxRetries = 20
	claimLease       = 30 * time.Second
)

// Schema creates the outbox table used by every module that emits events.
const Schema = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id             uuid PRIMARY KEY,
	request_id     varchar(64),
	aggregate_type varchar(50) NOT NULL,
	aggregate_id   uuid NOT NULL,
	event_type     varchar(100) NOT NULL,
	topic          varchar(150) NOT NULL,
	payload        jsonb NOT NULL,
	status         varchar(20) NOT NULL DEFAULT 'pending',
	retry_count    int NOT NULL DEFAULT 0,
	error_message  text,
	next_retry_at  timestamptz,
	processed_at   timestamptz,
	created_at     timestamptz NOT NULL DEFAULT now(),
	updated_at     timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (status, next_retry_at, created_at);
`

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

// NewOutboxEvent builds a pending outbox row carrying payload as JSON and the
// request id found in ctx.
func NewOutboxEvent(ctx context.Context, aggregateType, aggregateID, eventType, topic string, payload any) (OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	event := OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        OutboxStatusPending,
	}
	return event, ValidateOutboxEvent(event)
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	query := `
INSERT INTO outbox_events (
	id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status
) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		event.ID, event.RequestID, event.AggregateType,
		event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

// ListPending claims up to limit due events. Claimed rows get a short lease
// so another worker replica polling at the same time skips them; a crashed
// worker's claims become due again once the lease runs out.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	query := `
UPDATE outbox_events o
SET next_retry_at = NOW() + $3 * INTERVAL '1 second', updated_at = NOW()
FROM (
	SELECT id FROM outbox_events
	WHERE status IN ($1, $2)
		AND (next_retry_at IS NULL OR next_retry_at <= NOW())
	ORDER BY created_at ASC
	LIMIT $4
	FOR UPDATE SKIP LOCKED
) due
WHERE o.id = due.id
RETURNING
	o.id::text, COALESCE(o.request_id, ''), o.aggregate_type, o.aggregate_id::text,
	o.event_type, o.topic, o.payload, o.status, o.retry_count, o.next_retry_at, o.created_at
`
	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, OutboxStatusFailed, int(claimLease.Seconds()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type claimed struct {
		event     OutboxEvent
		createdAt time.Time
	}
	var batch []claimed
	for rows.Next() {
		var c claimed
		e := &c.event
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID,
			&e.EventType, &e.Topic, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt, &c.createdAt,
		); err != nil {
			return nil, err
		}
		batch = append(batch, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// RETURNING carries no order
	slices.SortFunc(batch, func(a, b claimed) int { return a.createdAt.Compare(b.createdAt) })
	events := make([]OutboxEvent, 0, len(batch))
	for _, c := range batch {
		events = append(events, c.event)
	}
	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	query := `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, id, OutboxStatusSent)
	return err
}

// MarkFailed schedules a retry with a linear backoff capped at 150 seconds.
// After MaxOutboxRetries the event is parked as dead and no longer polled.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	query := `
UPDATE outbox_events
SET
	status = CASE WHEN retry_count + 1 >= $4 THEN $5 ELSE $2 END,
	retry_count = retry_count + 1,
	error_message = LEFT($3, 500),
	next_retry_at = NOW() + (LEAST(retry_count + 1, 10) * INTERVAL '15 seconds'),
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, id, OutboxStatusFailed, reason, MaxOutboxRetries, OutboxStatusDead)
	return err
}

func (r *outboxRepository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if event.AggregateID == "" {
		return errors.New("outbox aggregate id is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed, OutboxStatusDead:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
