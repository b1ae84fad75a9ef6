package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	attendanceerrors "go-hr-payroll/internal/attendance/errors"
	"go-hr-payroll/internal/events"
	"go-hr-payroll/internal/leavemaster"
	"go-hr-payroll/internal/messaging/kafka"
	kafkaMock "go-hr-payroll/internal/messaging/kafka/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows        map[string]*Attendance
	employees   map[string]*EmployeeRef
	created     int
	updated     int
	createErr   error
	employeeErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rows:      map[string]*Attendance{},
		employees: map[string]*EmployeeRef{},
	}
}

func repoKey(employeeID string, date time.Time) string {
	return employeeID + "/" + date.Format("2006-01-02")
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *a
	f.rows[repoKey(a.EmployeeID.String(), a.AttendanceDate)] = &cp
	f.created++
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, companyID, id string) (*Attendance, error) {
	for _, a := range f.rows {
		if a.ID.String() == id && a.CompanyID.String() == companyID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	a, ok := f.rows[repoKey(employeeID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) FindByEmployeeInRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Attendance, error) {
	var out []Attendance
	for _, a := range f.rows {
		if a.EmployeeID.String() != employeeID {
			continue
		}
		if a.AttendanceDate.Before(from) || a.AttendanceDate.After(to) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error {
	cp := *a
	f.rows[repoKey(a.EmployeeID.String(), a.AttendanceDate)] = &cp
	f.updated++
	return nil
}

func (f *fakeRepo) FindEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error) {
	if f.employeeErr != nil {
		return nil, f.employeeErr
	}
	e, ok := f.employees[employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

type fakeLeaves struct {
	masters []leavemaster.LeaveMaster
}

func (f fakeLeaves) ListActive(ctx context.Context, companyID string) ([]leavemaster.LeaveMaster, error) {
	return f.masters, nil
}

type attendanceFixture struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	repo       *fakeRepo
	outbox     *kafkaMock.MockOutboxRepository
	svc        *service
	companyID  string
	employeeID string
	casual     leavemaster.LeaveMaster
	holiday    leavemaster.LeaveMaster
}

func newAttendanceFixture(t *testing.T, now time.Time) *attendanceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	companyID := uuid.New()
	employeeID := uuid.New()
	casual := leavemaster.LeaveMaster{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Name:            "Casual",
		Category:        leavemaster.CategoryCasual,
		PaymentStatus:   leavemaster.PaymentPaid,
		AnnualAllowance: 12,
		IsActive:        true,
	}
	holiday := leavemaster.LeaveMaster{
		ID:            uuid.New(),
		CompanyID:     companyID,
		Name:          "Founders Day",
		Category:      leavemaster.CategoryMandatoryHoliday,
		PaymentStatus: leavemaster.PaymentPaid,
		IsActive:      true,
	}

	repo := newFakeRepo()
	repo.employees[employeeID.String()] = &EmployeeRef{
		ID:        employeeID,
		CompanyID: companyID,
		FullName:  "Rani Putri",
		DutyStart: "09:00",
		DutyEnd:   "17:00",
		IsActive:  true,
	}
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := NewService(db, repo, fakeLeaves{masters: []leavemaster.LeaveMaster{casual, holiday}}, outbox, Config{
		Location: time.UTC,
		Policy:   Policy{CountOpenShiftAsPresent: true},
	}).(*service)
	svc.now = func() time.Time { return now }

	return &attendanceFixture{
		db:         db,
		sqlMock:    sqlMock,
		repo:       repo,
		outbox:     outbox,
		svc:        svc,
		companyID:  companyID.String(),
		employeeID: employeeID.String(),
		casual:     casual,
		holiday:    holiday,
	}
}

// expectEvents captures n outbox writes.
func (f *attendanceFixture) expectEvents(n int) *[]kafka.OutboxEvent {
	var captured []kafka.OutboxEvent
	f.outbox.EXPECT().WithTx(gomock.Any()).Return(f.outbox).Times(n)
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e kafka.OutboxEvent) error {
			captured = append(captured, e)
			return nil
		},
	).Times(n)
	return &captured
}

func (f *attendanceFixture) seed(date string, mutate func(a *Attendance)) *Attendance {
	a := &Attendance{
		ID:             uuid.New(),
		CompanyID:      uuid.MustParse(f.companyID),
		EmployeeID:     uuid.MustParse(f.employeeID),
		AttendanceDate: day(date),
		Status:         RawPresent,
		Source:         SourceWeb,
		Verification:   VerificationUnverified,
	}
	if mutate != nil {
		mutate(a)
	}
	f.repo.rows[repoKey(f.employeeID, a.AttendanceDate)] = a
	return a
}

func TestService_PunchInAndOut(t *testing.T) {
	ctx := context.Background()

	t.Run("short shift becomes half day", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-04", "09:00"))
		captured := f.expectEvents(2)

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		in, err := f.svc.PunchIn(ctx, f.companyID, f.employeeID, PunchInRequest{Source: "wfh"})
		require.NoError(t, err)
		assert.Equal(t, "2025-03-04", in.AttendanceDate)
		assert.Equal(t, SourceWFH, in.Source)
		assert.Equal(t, string(DayPunchInOnly), in.ResolvedStatus)

		f.svc.now = func() time.Time { return *at("2025-03-04", "12:00") }
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		out, err := f.svc.PunchOut(ctx, f.companyID, f.employeeID, PunchOutRequest{})
		require.NoError(t, err)
		assert.Equal(t, string(RawHalf), out.Status)
		assert.Equal(t, string(DayHalf), out.ResolvedStatus)
		require.NotNil(t, out.PunchOut)

		require.Len(t, *captured, 2)
		assert.Equal(t, events.AttendancePunchedIn, (*captured)[0].EventType)
		assert.Equal(t, events.AttendanceChangedTopic, (*captured)[0].Topic)
		assert.Equal(t, events.AttendancePunchedOut, (*captured)[1].EventType)

		var payload events.AttendanceChangedEvent
		require.NoError(t, json.Unmarshal((*captured)[1].Payload, &payload))
		assert.Equal(t, f.employeeID, payload.EmployeeID)
		assert.Equal(t, "half", payload.Status)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("full shift", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-04", "16:30"))
		f.expectEvents(1)
		f.seed("2025-03-04", func(a *Attendance) { a.PunchIn = at("2025-03-04", "09:05") })

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		out, err := f.svc.PunchOut(ctx, f.companyID, f.employeeID, PunchOutRequest{})
		require.NoError(t, err)
		assert.Equal(t, string(RawFull), out.Status)
		assert.Equal(t, string(DayFull), out.ResolvedStatus)
	})

	t.Run("second punch in is a conflict", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-04", "10:00"))
		f.seed("2025-03-04", func(a *Attendance) { a.PunchIn = at("2025-03-04", "09:00") })

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		_, err := f.svc.PunchIn(ctx, f.companyID, f.employeeID, PunchInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyPunchedIn)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("concurrent punch in losing the unique index is a conflict", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-04", "09:00"))
		f.repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_employee_date"}

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		_, err := f.svc.PunchIn(ctx, f.companyID, f.employeeID, PunchInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyPunchedIn)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("punch out without punch in", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-04", "17:00"))

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		_, err := f.svc.PunchOut(ctx, f.companyID, f.employeeID, PunchOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrPunchInNotFound)
	})

	t.Run("second punch out is a conflict", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-04", "18:00"))
		f.seed("2025-03-04", func(a *Attendance) {
			a.PunchIn = at("2025-03-04", "09:00")
			a.PunchOut = at("2025-03-04", "17:00")
		})

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		_, err := f.svc.PunchOut(ctx, f.companyID, f.employeeID, PunchOutRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyPunchedOut)
	})

	t.Run("unknown employee", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-04", "09:00"))

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		_, err := f.svc.PunchIn(ctx, f.companyID, uuid.NewString(), PunchInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrEmployeeNotFound)
	})

	t.Run("invalid ids fail before the transaction", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-04", "09:00"))

		_, err := f.svc.PunchIn(ctx, "bad", f.employeeID, PunchInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidCompanyID)
		_, err = f.svc.PunchIn(ctx, f.companyID, "bad", PunchInRequest{})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidEmployeeID)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})
}

func TestService_Verify(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()

	t.Run("note is required", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		row := f.seed("2025-03-04", nil)

		_, err := f.svc.Verify(ctx, f.companyID, actorID, row.ID.String(), VerifyRequest{Note: "  "})
		assert.ErrorIs(t, err, attendanceerrors.ErrVerificationNoteRequired)
	})

	t.Run("verify is one way", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		f.expectEvents(1)
		row := f.seed("2025-03-04", func(a *Attendance) {
			a.Status = RawFull
			a.PunchIn = at("2025-03-04", "09:00")
			a.PunchOut = at("2025-03-04", "17:00")
		})

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		resp, err := f.svc.Verify(ctx, f.companyID, actorID, row.ID.String(), VerifyRequest{Note: "checked with supervisor"})
		require.NoError(t, err)
		assert.Equal(t, VerificationVerified, resp.Verification)
		assert.Equal(t, string(DayVerified), resp.ResolvedStatus)
		require.NotNil(t, resp.VerifiedBy)
		assert.Equal(t, actorID, *resp.VerifiedBy)

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		_, err = f.svc.Verify(ctx, f.companyID, actorID, row.ID.String(), VerifyRequest{Note: "again"})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyVerified)

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		_, err = f.svc.UpdateStatus(ctx, f.companyID, actorID, row.ID.String(), UpdateStatusRequest{Status: "absent"})
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyVerified)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("resolved status uses the leave master", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		f.expectEvents(1)
		row := f.seed("2025-03-04", func(a *Attendance) {
			a.Status = RawAbsent
			a.LeaveMasterID = &f.holiday.ID
		})

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		resp, err := f.svc.Verify(ctx, f.companyID, actorID, row.ID.String(), VerifyRequest{Note: "office closed"})
		require.NoError(t, err)
		assert.Equal(t, string(DayMandatoryLeave), resp.ResolvedStatus)

		cal, err := f.svc.GetCalendar(ctx, f.companyID, f.employeeID, "2025-03")
		require.NoError(t, err)
		assert.Equal(t, DayMandatoryLeave, cal.Days[3].Status)
	})

	t.Run("missing record", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		_, err := f.svc.Verify(ctx, f.companyID, actorID, uuid.NewString(), VerifyRequest{Note: "ok"})
		assert.ErrorIs(t, err, attendanceerrors.ErrAttendanceNotFound)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()

	t.Run("leave with active master", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		captured := f.expectEvents(1)
		row := f.seed("2025-03-04", nil)
		masterID := f.casual.ID.String()

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		resp, err := f.svc.UpdateStatus(ctx, f.companyID, actorID, row.ID.String(), UpdateStatusRequest{
			Status:        "On Leave",
			LeaveMasterID: &masterID,
		})
		require.NoError(t, err)
		assert.Equal(t, string(RawLeave), resp.Status)
		require.NotNil(t, resp.LeaveMasterID)
		assert.Equal(t, masterID, *resp.LeaveMasterID)
		assert.Equal(t, events.AttendanceStatusChanged, (*captured)[0].EventType)
	})

	t.Run("absent with a mandatory holiday master", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		f.expectEvents(1)
		row := f.seed("2025-03-04", nil)
		masterID := f.holiday.ID.String()

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		resp, err := f.svc.UpdateStatus(ctx, f.companyID, actorID, row.ID.String(), UpdateStatusRequest{
			Status:        "absent",
			LeaveMasterID: &masterID,
		})
		require.NoError(t, err)
		assert.Equal(t, string(RawAbsent), resp.Status)
		assert.Equal(t, string(DayMandatoryLeave), resp.ResolvedStatus)
	})

	t.Run("punch clocks are placed on the record date", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		f.expectEvents(1)
		row := f.seed("2025-03-04", nil)

		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		resp, err := f.svc.UpdateStatus(ctx, f.companyID, actorID, row.ID.String(), UpdateStatusRequest{
			Status:   "half",
			PunchIn:  "09:00",
			PunchOut: "13:00",
		})
		require.NoError(t, err)
		require.NotNil(t, resp.PunchIn)
		assert.Equal(t, "2025-03-04T09:00:00Z", *resp.PunchIn)
		assert.Equal(t, "2025-03-04T13:00:00Z", *resp.PunchOut)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		_, err := f.svc.UpdateStatus(ctx, f.companyID, actorID, uuid.NewString(), UpdateStatusRequest{Status: "teleported"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStatus)
	})

	t.Run("inactive or unknown leave master", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		other := uuid.NewString()
		_, err := f.svc.UpdateStatus(ctx, f.companyID, actorID, uuid.NewString(), UpdateStatusRequest{
			Status:        "leave",
			LeaveMasterID: &other,
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrLeaveMasterNotFound)
	})

	t.Run("actor is required", func(t *testing.T) {
		f := newAttendanceFixture(t, *at("2025-03-05", "10:00"))
		_, err := f.svc.UpdateStatus(ctx, f.companyID, "", uuid.NewString(), UpdateStatusRequest{Status: "full"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidActorID)
	})
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()
	f := newAttendanceFixture(t, *at("2025-03-10", "08:00"))

	existing := f.seed("2025-03-03", func(a *Attendance) { a.Status = RawAbsent })
	locked := f.seed("2025-03-04", func(a *Attendance) {
		a.Status = RawFull
		a.Verification = VerificationVerified
	})

	captured := f.expectEvents(3)
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()

	result, err := f.svc.Import(ctx, f.companyID, actorID, ImportRequest{Rows: []map[string]any{
		{"emp_id": f.employeeID, "attendance_date": "2025-03-03", "day_status": "full day", "check_in": "09:00", "check_out": "17:00"},
		{"employee_id": f.employeeID, "date": "2025-03-04", "status": "absent"},
		{"employee_id": f.employeeID, "date": "2025-03-05", "status": "leave", "leave_master_id": f.casual.ID.String()},
		{"employee_id": f.employeeID, "date": "2025-03-06", "status": "full", "verified": true, "work_mode": "wfh"},
		{"employee_id": f.employeeID, "date": "06/03/2025", "status": "full"},
		{"employee_id": uuid.NewString(), "date": "2025-03-06", "status": "full"},
		{"employee_id": f.employeeID, "date": "2025-03-07", "status": "moonwalk"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Skipped, 4)
	assert.Equal(t, 2, result.Skipped[0].Row)
	assert.Equal(t, "attendance is already verified", result.Skipped[0].Reason)
	assert.Equal(t, 5, result.Skipped[1].Row)
	assert.Equal(t, "employee not found or inactive", result.Skipped[2].Reason)
	assert.Equal(t, 7, result.Skipped[3].Row)

	updated := f.repo.rows[repoKey(f.employeeID, existing.AttendanceDate)]
	assert.Equal(t, RawFull, updated.Status)
	assert.Equal(t, "2025-03-03T17:00:00Z", updated.PunchOut.Format(time.RFC3339))
	assert.Equal(t, RawFull, f.repo.rows[repoKey(f.employeeID, locked.AttendanceDate)].Status)

	wfh := f.repo.rows[repoKey(f.employeeID, day("2025-03-06"))]
	assert.True(t, wfh.IsVerified())
	assert.Equal(t, SourceWFH, wfh.Source)

	require.Len(t, *captured, 3)
	for _, e := range *captured {
		assert.Equal(t, events.AttendanceImported, e.EventType)
	}
	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestService_CalendarAndSummary(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, *at("2025-03-31", "08:00"))

	f.seed("2025-01-15", func(a *Attendance) {
		a.Status = RawLeave
		a.LeaveMasterID = &f.casual.ID
	})
	f.seed("2025-03-03", func(a *Attendance) {
		a.Status = RawFull
		a.PunchIn = at("2025-03-03", "09:00")
		a.PunchOut = at("2025-03-03", "17:00")
	})
	f.seed("2025-03-04", func(a *Attendance) { a.PunchIn = at("2025-03-04", "09:00") })
	f.seed("2025-03-05", func(a *Attendance) {
		a.Status = RawLeave
		a.LeaveMasterID = &f.casual.ID
	})

	t.Run("calendar", func(t *testing.T) {
		cal, err := f.svc.GetCalendar(ctx, f.companyID, f.employeeID, "2025-03")
		require.NoError(t, err)
		require.Len(t, cal.Days, 31)
		assert.Equal(t, "2025-03", cal.Period)
		assert.Equal(t, DayHoliday, cal.Days[1].Status)
		assert.Equal(t, DayFull, cal.Days[2].Status)
		assert.NotEmpty(t, cal.Days[2].AttendanceID)
		assert.Equal(t, DayPunchInOnly, cal.Days[3].Status)
		assert.Equal(t, DayLeave, cal.Days[4].Status)
		assert.Equal(t, "casual", cal.Days[4].LeaveCategory)
		assert.Equal(t, DayNotMarked, cal.Days[5].Status)
	})

	t.Run("summary", func(t *testing.T) {
		b, err := f.svc.GetSummary(ctx, f.companyID, f.employeeID, "2025-03")
		require.NoError(t, err)
		assert.Equal(t, 2, b.FullDaysWorked)
		assert.Equal(t, 1, b.OpenShiftDays)
		assert.Equal(t, 1, b.CasualLeave.TakenThisMonth)
		assert.Equal(t, 2, b.CasualLeave.UsedThisYear)
		assert.Equal(t, 10, b.CasualLeave.RemainingBalance)
		assert.Equal(t, 3.0, b.EffectivePaidDays)
	})

	t.Run("bad period", func(t *testing.T) {
		_, err := f.svc.GetSummary(ctx, f.companyID, f.employeeID, "2025-13")
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidPeriod)
		_, err = f.svc.Summarize(ctx, f.companyID, f.employeeID, 2025, 0)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidPeriod)
	})
}

func TestService_Import_EmployeeLookupFailure(t *testing.T) {
	f := newAttendanceFixture(t, *at("2025-03-10", "08:00"))
	f.repo.employeeErr = errors.New("connection reset by peer")

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
	_, err := f.svc.Import(context.Background(), f.companyID, uuid.NewString(), ImportRequest{Rows: []map[string]any{
		{"employee_id": f.employeeID, "date": "2025-03-03", "status": "full"},
	}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, attendanceerrors.ErrEmployeeNotFound)
	assert.Equal(t, 0, f.repo.created)
	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestService_FixedDateHolidays(t *testing.T) {
	ctx := context.Background()
	f := newAttendanceFixture(t, *at("2025-03-31", "08:00"))

	fixed := func(name, date string) leavemaster.LeaveMaster {
		d := day(date)
		return leavemaster.LeaveMaster{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(f.companyID),
			Name:          name,
			Category:      leavemaster.CategoryMandatoryHoliday,
			PaymentStatus: leavemaster.PaymentPaid,
			FixedDate:     &d,
			IsActive:      true,
		}
	}
	f.svc.leaves = fakeLeaves{masters: []leavemaster.LeaveMaster{
		f.casual,
		fixed("Day of Silence", "2025-03-12"),
		fixed("Labour Day", "2025-03-13"),
	}}
	f.seed("2025-03-13", func(a *Attendance) {
		a.Status = RawFull
		a.PunchIn = at("2025-03-13", "09:00")
		a.PunchOut = at("2025-03-13", "17:00")
	})

	cal, err := f.svc.GetCalendar(ctx, f.companyID, f.employeeID, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, DayMandatoryLeave, cal.Days[11].Status)
	assert.Equal(t, "Day of Silence", cal.Days[11].HolidayName)
	assert.Empty(t, cal.Days[11].AttendanceID)
	assert.Equal(t, DayFull, cal.Days[12].Status)

	b, err := f.svc.GetSummary(ctx, f.companyID, f.employeeID, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Holidays.Mandatory)
	assert.Equal(t, 1, b.FullDaysWorked)
	assert.Equal(t, DayMandatoryLeave, b.Days[11].Status)
	assert.Equal(t, SourceCalendar, b.Days[11].Source)
}
