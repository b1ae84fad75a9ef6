package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hr-payroll/internal/employee"
	employeeerrors "go-hr-payroll/internal/employee/errors"
	employeeMock "go-hr-payroll/internal/employee/mock"
	"go-hr-payroll/internal/events"
	"go-hr-payroll/internal/messaging/kafka"
	kafkaMock "go-hr-payroll/internal/messaging/kafka/mock"
	"go-hr-payroll/internal/shared/contextutil"
	"go-hr-payroll/internal/shared/counter"
	counterMock "go-hr-payroll/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	counter   *counterMock.MockRepository
	redismock redismock.ClientMock
	outbox    *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   employee.NewService(db, repo, counterRepo, outboxRepo, dbRedis),
		repo:      repo,
		counter:   counterRepo,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

type outboxRequestIDMatcher struct {
	expectedRID  string
	expectedType string
}

func (m outboxRequestIDMatcher) Matches(x any) bool {
	event, ok := x.(kafka.OutboxEvent)
	if !ok {
		return false
	}
	if event.RequestID != m.expectedRID || event.EventType != m.expectedType {
		return false
	}
	if event.Topic != events.EmployeeLifecycleTopic {
		return false
	}

	var payload events.EmployeeCreatedEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return false
	}
	return payload.EventType == m.expectedType && payload.EmployeeID == event.AggregateID
}

func (m outboxRequestIDMatcher) String() string {
	return "matches " + m.expectedType + " outbox event with request_id " + m.expectedRID
}

func MatchOutbox(rid, eventType string) gomock.Matcher {
	return outboxRequestIDMatcher{expectedRID: rid, expectedType: eventType}
}

func TestEmployeeService_Create(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("success - auto generate employee number", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		ctx := contextutil.WithRequestID(context.Background(), "REQ-123-ABC")
		req := employee.CreateEmployeeRequest{
			FullName:  " Rani Putri ",
			Email:     "Rani@Example.com",
			DutyStart: "09:00",
			DutyEnd:   "17:00",
			HireDate:  "2024-01-02",
		}

		expectTx(t, deps.sqlMock, true)
		deps.counter.EXPECT().WithTx(gomock.Any()).Return(deps.counter)
		deps.counter.EXPECT().
			GetNextValue(ctx, companyID, counter.TypeEmployeeNumber).
			Return(int64(123), nil)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, "Rani Putri", e.FullName)
				assert.Equal(t, "rani@example.com", e.Email)
				assert.Equal(t, "EMP-000123", e.EmployeeNumber)
				assert.True(t, e.IsActive)
				require.NotNil(t, e.HireDate)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), MatchOutbox("REQ-123-ABC", events.EmployeeCreated)).
			Return(nil)
		deps.redismock.ExpectDel(employee.GetEmployeeOptionsKey(companyID)).SetVal(1)

		resp, err := deps.service.Create(ctx, companyID, req)

		require.NoError(t, err)
		assert.Equal(t, "EMP-000123", resp.EmployeeNumber)
		assert.Equal(t, "2024-01-02", resp.HireDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("duty window must be increasing", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName:  "Night Shift",
			Email:     "night@example.com",
			DutyStart: "22:00",
			DutyEnd:   "06:00",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDutyWindow)
	})

	t.Run("duplicate number maps to conflict and rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_number"})

		_, err := deps.service.Create(ctx, companyID, employee.CreateEmployeeRequest{
			EmployeeNumber: "EMP-000001",
			FullName:       "Dup",
			Email:          "dup@example.com",
			DutyStart:      "08:00",
			DutyEnd:        "16:00",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNumberAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	key := employee.GetEmployeeOptionsKey(companyID)

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(key).SetVal(`[{"id":"e-1","full_name":"Cached","is_active":true}]`)

		resp, err := deps.service.GetOptions(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "Cached", resp[0].FullName)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		rows := []employee.Employee{{ID: uuid.New(), FullName: "Loaded", IsActive: true}}
		payload, err := json.Marshal([]employee.EmployeeResponse{{
			ID:        rows[0].ID.String(),
			CompanyID: uuid.Nil.String(),
			FullName:  "Loaded",
			IsActive:  true,
		}})
		require.NoError(t, err)

		deps.redismock.ExpectGet(key).RedisNil()
		deps.repo.EXPECT().FindOptionsByCompany(ctx, companyID).Return(rows, nil)
		deps.redismock.ExpectSet(key, payload, time.Hour).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, "Loaded", resp[0].FullName)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, companyID, "nope")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		id := uuid.New().String()

		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, companyID, id)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	id := uuid.New()

	deps := setupServiceTest(t)
	defer deps.db.Close()

	inactive := false
	existing := &employee.Employee{ID: id, CompanyID: uuid.MustParse(companyID), EmployeeNumber: "EMP-000007", IsActive: true}

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id.String()).Return(existing, nil)
	deps.repo.EXPECT().Update(ctx, existing).Return(nil)
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(gomock.Any(), MatchOutbox("", events.EmployeeUpdated)).Return(nil)
	deps.redismock.ExpectDel(employee.GetEmployeeOptionsKey(companyID)).SetVal(1)

	resp, err := deps.service.Update(ctx, companyID, id.String(), employee.UpdateEmployeeRequest{
		FullName:  "Renamed",
		Email:     "renamed@example.com",
		DutyStart: "07:30",
		DutyEnd:   "15:30",
		IsActive:  &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.FullName)
	assert.Equal(t, "07:30", resp.DutyStart)
	assert.False(t, resp.IsActive)
	assert.Equal(t, "EMP-000007", resp.EmployeeNumber)
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, companyID, id).Return(nil)
		deps.redismock.ExpectDel(employee.GetEmployeeOptionsKey(companyID)).SetVal(1)

		assert.NoError(t, deps.service.Delete(ctx, companyID, id))
	})

	t.Run("repo error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, companyID, id).Return(errors.New("db down"))

		assert.EqualError(t, deps.service.Delete(ctx, companyID, id), "db down")
	})
}
