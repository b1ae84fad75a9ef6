package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-hr-payroll/internal/events"
	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-42")

	event, err := kafka.NewOutboxEvent(ctx, "payroll", "b7b1f0de-6c0e-4c38-9d61-8f1f1b3d0f10",
		events.PayrollLocked, events.PayrollLockedTopic,
		events.PayrollLockedEvent{EventType: events.PayrollLocked, Version: 2},
	)

	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "req-42", event.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)

	var decoded events.PayrollLockedEvent
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, 2, decoded.Version)
}

func TestNewOutboxEvent_RequiresAggregate(t *testing.T) {
	_, err := kafka.NewOutboxEvent(context.Background(), "payroll", "", "x", "topic", map[string]string{})
	assert.Error(t, err)
}

func TestOutboxRepository_CreateUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event, err := kafka.NewOutboxEvent(context.Background(), "attendance", "b7b1f0de-6c0e-4c38-9d61-8f1f1b3d0f10",
		events.AttendanceVerified, events.AttendanceChangedTopic, map[string]string{"k": "v"})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, "", "attendance", event.AggregateID, events.AttendanceVerified,
			events.AttendanceChangedTopic, event.Payload, kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	require.NoError(t, repo.Create(context.Background(), event))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPendingClaimsInCreationOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	older := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	lease := older.Add(time.Minute)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic",
		"payload", "status", "retry_count", "next_retry_at", "created_at",
	}).
		AddRow("e-2", "", "payroll", "p-2", events.PayrollLocked, events.PayrollLockedTopic, []byte(`{}`), kafka.OutboxStatusPending, 0, lease, older.Add(time.Second)).
		AddRow("e-1", "req-1", "payroll", "p-1", events.PayrollLocked, events.PayrollLockedTopic, []byte(`{}`), kafka.OutboxStatusFailed, 2, lease, older)

	mock.ExpectQuery("UPDATE outbox_events o").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 30, 10).
		WillReturnRows(rows)

	claimed, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, "e-1", claimed[0].ID)
	assert.Equal(t, "req-1", claimed[0].RequestID)
	assert.Equal(t, 2, claimed[0].RetryCount)
	assert.Equal(t, "e-2", claimed[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailedParksAfterMaxRetries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("e-1", kafka.OutboxStatusFailed, "broker down", kafka.MaxOutboxRetries, kafka.OutboxStatusDead).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "e-1", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
