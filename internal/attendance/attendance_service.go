package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	attendanceerrors "go-hr-payroll/internal/attendance/errors"
	"go-hr-payroll/internal/events"
	"go-hr-payroll/internal/leavemaster"
	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/shared/apperror"
	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaveMasterSource supplies the active leave masters of a company.
type LeaveMasterSource interface {
	ListActive(ctx context.Context, companyID string) ([]leavemaster.LeaveMaster, error)
}

type Config struct {
	// Location decides which calendar date a punch belongs to.
	Location *time.Location
	Policy   Policy
}

type Service interface {
	PunchIn(ctx context.Context, companyID, employeeID string, req PunchInRequest) (AttendanceResponse, error)
	PunchOut(ctx context.Context, companyID, employeeID string, req PunchOutRequest) (AttendanceResponse, error)
	UpdateStatus(ctx context.Context, companyID, actorID, id string, req UpdateStatusRequest) (AttendanceResponse, error)
	Verify(ctx context.Context, companyID, actorID, id string, req VerifyRequest) (AttendanceResponse, error)
	Import(ctx context.Context, companyID, actorID string, req ImportRequest) (ImportResult, error)
	GetCalendar(ctx context.Context, companyID, employeeID, period string) (CalendarResponse, error)
	GetSummary(ctx context.Context, companyID, employeeID, period string) (MonthlyBreakdown, error)
	// Summarize aggregates one month for payroll.
	Summarize(ctx context.Context, companyID, employeeID string, year, month int) (MonthlyBreakdown, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	leaves LeaveMasterSource
	outbox kafka.OutboxRepository
	cfg    Config
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, leaves LeaveMasterSource, outbox kafka.OutboxRepository, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &service{
		db:     db,
		repo:   repo,
		leaves: leaves,
		outbox: outbox,
		cfg:    cfg,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) PunchIn(ctx context.Context, companyID, employeeID string, req PunchInRequest) (AttendanceResponse, error) {
	companyUUID, employeeUUID, err := parseIDs(companyID, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("punch in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := s.activeEmployee(ctx, qtx, companyID, employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	now := s.now().UTC()
	today := workday.Date(now, s.cfg.Location)

	_, err = qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyPunchedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("punch in lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	source := strings.ToUpper(strings.TrimSpace(req.Source))
	if source == "" {
		source = SourceManual
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		AttendanceDate: today,
		Status:         RawPresent,
		PunchIn:        &now,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Source:         source,
		Verification:   VerificationUnverified,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		if isDuplicateDay(err) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyPunchedIn
		}
		s.logger.Error("punch in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := s.enqueueChanged(ctx, tx, events.AttendancePunchedIn, *row, employeeID); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("punch in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("punch in success",
		zap.String("attendance_id", row.ID.String()),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*row, nil), nil
}

// PunchOut closes today's shift. A shift shorter than half of the employee's
// duty window is recorded as a half day.
func (s *service) PunchOut(ctx context.Context, companyID, employeeID string, req PunchOutRequest) (AttendanceResponse, error) {
	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("punch out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	emp, err := s.activeEmployee(ctx, qtx, companyID, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	now := s.now().UTC()
	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, workday.Date(now, s.cfg.Location))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrPunchInNotFound
		}
		s.logger.Error("punch out lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if row.PunchIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrPunchInNotFound
	}
	if row.PunchOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyPunchedOut
	}

	row.PunchOut = &now
	row.Status = shiftStatus(*row.PunchIn, now, *emp)
	if req.Latitude != nil {
		row.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		row.Longitude = req.Longitude
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("punch out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := s.enqueueChanged(ctx, tx, events.AttendancePunchedOut, *row, employeeID); err != nil {
		return AttendanceResponse{}, err
	}
	leave, err := s.leaveMaster(ctx, companyID, row.LeaveMasterID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("punch out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("punch out success",
		zap.String("attendance_id", row.ID.String()),
		zap.String("status", string(row.Status)),
	)
	return mapToResponse(*row, leave), nil
}

func (s *service) UpdateStatus(ctx context.Context, companyID, actorID, id string, req UpdateStatusRequest) (AttendanceResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	status := NormalizeStatus(req.Status)
	if !status.Known() {
		return AttendanceResponse{}, apperror.WithDetail(attendanceerrors.ErrInvalidStatus, "status %q", req.Status)
	}

	leave, err := s.resolveLeaveMaster(ctx, companyID, req.LeaveMasterID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update attendance status begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, companyID, id)
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if row.IsVerified() {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyVerified
	}

	row.Status = status
	row.LeaveMasterID = nil
	if leave != nil {
		row.LeaveMasterID = &leave.ID
	}
	if req.PunchIn != "" {
		row.PunchIn = s.onDate(row.AttendanceDate, req.PunchIn)
	}
	if req.PunchOut != "" {
		row.PunchOut = s.onDate(row.AttendanceDate, req.PunchOut)
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("update attendance status persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := s.enqueueChanged(ctx, tx, events.AttendanceStatusChanged, *row, actorID); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update attendance status commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("update attendance status success",
		zap.String("attendance_id", id),
		zap.String("status", string(status)),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*row, leave), nil
}

// Verify marks a record verified. It cannot be undone.
func (s *service) Verify(ctx context.Context, companyID, actorID, id string, req VerifyRequest) (AttendanceResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	note := strings.TrimSpace(req.Note)
	if note == "" {
		return AttendanceResponse{}, attendanceerrors.ErrVerificationNoteRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("verify attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, companyID, id)
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if row.IsVerified() {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyVerified
	}

	now := s.now().UTC()
	row.Verification = VerificationVerified
	row.VerificationNote = &note
	row.VerifiedBy = &actorUUID
	row.VerifiedAt = &now

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("verify attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := s.enqueueChanged(ctx, tx, events.AttendanceVerified, *row, actorID); err != nil {
		return AttendanceResponse{}, err
	}
	leave, err := s.leaveMaster(ctx, companyID, row.LeaveMasterID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("verify attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("verify attendance success",
		zap.String("attendance_id", id),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*row, leave), nil
}

// Import upserts loosely shaped rows. Rows that cannot be applied are reported
// and skipped; verified records are never overwritten.
func (s *service) Import(ctx context.Context, companyID, actorID string, req ImportRequest) (ImportResult, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ImportResult{}, attendanceerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ImportResult{}, attendanceerrors.ErrInvalidActorID
	}

	masters, err := s.leaves.ListActive(ctx, companyID)
	if err != nil {
		return ImportResult{}, err
	}
	catalog := leavemaster.NewCatalog(masters)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("import attendance begin tx failed", zap.Error(err))
		return ImportResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	known := map[uuid.UUID]bool{}
	var result ImportResult

	skip := func(i int, reason string) {
		result.Skipped = append(result.Skipped, ImportError{Row: i + 1, Reason: reason})
	}

	for i, raw := range req.Rows {
		rec, err := NormalizeRow(raw, s.cfg.Location)
		if err != nil {
			skip(i, err.Error())
			continue
		}
		if !rec.Status.Known() {
			skip(i, "unknown status "+string(rec.Status))
			continue
		}
		if rec.LeaveMasterID != nil && catalog.Get(rec.LeaveMasterID) == nil {
			skip(i, "leave master not found or inactive")
			continue
		}

		ok, seen := known[rec.EmployeeID]
		if !seen {
			_, err := s.activeEmployee(ctx, qtx, companyID, rec.EmployeeID.String())
			if err != nil && !errors.Is(err, attendanceerrors.ErrEmployeeNotFound) {
				s.logger.Error("import attendance employee lookup failed", zap.Int("row", i+1), zap.Error(err))
				return ImportResult{}, err
			}
			ok = err == nil
			known[rec.EmployeeID] = ok
		}
		if !ok {
			skip(i, "employee not found or inactive")
			continue
		}

		row, err := qtx.FindByEmployeeAndDate(ctx, companyID, rec.EmployeeID.String(), rec.Date)
		created := false
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = &Attendance{
				ID:             uuid.New(),
				CompanyID:      companyUUID,
				EmployeeID:     rec.EmployeeID,
				AttendanceDate: rec.Date,
				Verification:   VerificationUnverified,
			}
			created = true
		case err != nil:
			s.logger.Error("import attendance lookup failed", zap.Int("row", i+1), zap.Error(err))
			return ImportResult{}, err
		case row.IsVerified():
			skip(i, "attendance is already verified")
			continue
		}

		s.applyRecord(row, rec, actorUUID)
		if created {
			err = qtx.Create(ctx, row)
			if isDuplicateDay(err) {
				err = apperror.WithDetail(attendanceerrors.ErrDuplicateRecord, "row %d", i+1)
			}
			result.Created++
		} else {
			err = qtx.Update(ctx, row)
			result.Updated++
		}
		if err != nil {
			s.logger.Error("import attendance persist failed", zap.Int("row", i+1), zap.Error(err))
			return ImportResult{}, err
		}
		if err := s.enqueueChanged(ctx, tx, events.AttendanceImported, *row, actorID); err != nil {
			return ImportResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("import attendance commit failed", zap.Error(err))
		return ImportResult{}, err
	}

	s.logger.Info("import attendance success",
		zap.String("company_id", companyID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *service) applyRecord(row *Attendance, rec Record, actor uuid.UUID) {
	row.Status = rec.Status
	row.PunchIn = rec.PunchIn
	row.PunchOut = rec.PunchOut
	row.LeaveMasterID = rec.LeaveMasterID
	row.Source = rec.Source
	if row.Source == "" {
		row.Source = SourceManual
	}
	if rec.Verified {
		now := s.now().UTC()
		note := "imported as verified"
		row.Verification = VerificationVerified
		row.VerificationNote = &note
		row.VerifiedBy = &actor
		row.VerifiedAt = &now
	}
}

func (s *service) GetCalendar(ctx context.Context, companyID, employeeID, period string) (CalendarResponse, error) {
	year, month, err := parsePeriod(period)
	if err != nil {
		return CalendarResponse{}, err
	}
	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return CalendarResponse{}, err
	}

	from, to := workday.MonthBounds(year, month)
	rows, err := s.repo.FindByEmployeeInRange(ctx, companyID, employeeID, from, to)
	if err != nil {
		s.logger.Error("calendar attendance lookup failed", zap.Error(err))
		return CalendarResponse{}, err
	}
	masters, err := s.leaves.ListActive(ctx, companyID)
	if err != nil {
		return CalendarResponse{}, err
	}
	catalog := leavemaster.NewCatalog(masters)

	employeeUUID := uuid.MustParse(employeeID)
	byDate, err := indexByDate(withFixedHolidays(ToRecords(rows), catalog, employeeUUID, year, month), employeeUUID)
	if err != nil {
		return CalendarResponse{}, err
	}
	rowsByDate := make(map[string]Attendance, len(rows))
	for _, r := range rows {
		rowsByDate[r.AttendanceDate.Format(workday.DateLayout)] = r
	}
	holidays := catalog.FixedHolidaysIn(year, month)

	resp := CalendarResponse{
		EmployeeID: employeeID,
		Period:     workday.FormatPeriod(year, month),
	}
	for _, day := range ResolveMonth(byDate, catalog, year, month) {
		entry := CalendarDay{ResolvedDay: day}
		if r, ok := rowsByDate[day.Date]; ok {
			entry.AttendanceID = r.ID.String()
			entry.PunchIn = formatTime(r.PunchIn)
			entry.PunchOut = formatTime(r.PunchOut)
		}
		if h, ok := holidays[day.Date]; ok {
			entry.HolidayName = h.Name
		}
		resp.Days = append(resp.Days, entry)
	}
	return resp, nil
}

func (s *service) GetSummary(ctx context.Context, companyID, employeeID, period string) (MonthlyBreakdown, error) {
	year, month, err := parsePeriod(period)
	if err != nil {
		return MonthlyBreakdown{}, err
	}
	return s.Summarize(ctx, companyID, employeeID, year, month)
}

func (s *service) Summarize(ctx context.Context, companyID, employeeID string, year, month int) (MonthlyBreakdown, error) {
	_, employeeUUID, err := parseIDs(companyID, employeeID)
	if err != nil {
		return MonthlyBreakdown{}, err
	}
	if !workday.ValidPeriod(year, month) {
		return MonthlyBreakdown{}, apperror.WithDetail(attendanceerrors.ErrInvalidPeriod, "year %d month %d", year, month)
	}

	from, to := workday.YearToMonthEnd(year, month)
	rows, err := s.repo.FindByEmployeeInRange(ctx, companyID, employeeID, from, to)
	if err != nil {
		s.logger.Error("summary attendance lookup failed", zap.Error(err))
		return MonthlyBreakdown{}, err
	}
	masters, err := s.leaves.ListActive(ctx, companyID)
	if err != nil {
		return MonthlyBreakdown{}, err
	}

	catalog := leavemaster.NewCatalog(masters)
	records := withFixedHolidays(ToRecords(rows), catalog, employeeUUID, year, month)
	return Aggregate(records, catalog, year, month, employeeUUID, s.cfg.Policy)
}

func (s *service) activeEmployee(ctx context.Context, repo Repository, companyID, employeeID string) (*EmployeeRef, error) {
	emp, err := repo.FindEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	if !emp.IsActive {
		return nil, attendanceerrors.ErrEmployeeNotFound
	}
	return emp, nil
}

// resolveLeaveMaster checks an optional leave master id against the active catalog.
func (s *service) resolveLeaveMaster(ctx context.Context, companyID string, raw *string) (*leavemaster.LeaveMaster, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, attendanceerrors.ErrLeaveMasterNotFound
	}
	lm, err := s.leaveMaster(ctx, companyID, &id)
	if err != nil {
		return nil, err
	}
	if lm == nil {
		return nil, attendanceerrors.ErrLeaveMasterNotFound
	}
	return lm, nil
}

// leaveMaster looks up an active master. Inactive or unknown ids yield nil,
// the same as the calendar and summary see them.
func (s *service) leaveMaster(ctx context.Context, companyID string, id *uuid.UUID) (*leavemaster.LeaveMaster, error) {
	if id == nil {
		return nil, nil
	}
	masters, err := s.leaves.ListActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return leavemaster.NewCatalog(masters).Get(id), nil
}

// withFixedHolidays adds a mandatory holiday record for every fixed-date
// holiday up to the given month that the employee has no row for.
func withFixedHolidays(records []Record, catalog *leavemaster.Catalog, employeeID uuid.UUID, year, month int) []Record {
	taken := make(map[string]bool, len(records))
	for _, r := range records {
		if r.EmployeeID == employeeID {
			taken[r.Date.Format(workday.DateLayout)] = true
		}
	}
	for m := 1; m <= month; m++ {
		for date, lm := range catalog.FixedHolidaysIn(year, m) {
			if taken[date] {
				continue
			}
			id := lm.ID
			records = append(records, Record{
				EmployeeID:    employeeID,
				Date:          workday.Truncate(*lm.FixedDate),
				Status:        RawMandatoryHoliday,
				LeaveMasterID: &id,
				Source:        SourceCalendar,
			})
		}
	}
	return records
}

func (s *service) onDate(date time.Time, clock string) *time.Time {
	offset, err := workday.ParseClock(clock)
	if err != nil {
		return nil
	}
	t := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.cfg.Location).Add(offset).UTC()
	return &t
}

func (s *service) enqueueChanged(ctx context.Context, tx *sql.Tx, eventType string, a Attendance, actorID string) error {
	if s.outbox == nil {
		return nil
	}

	event, err := kafka.NewOutboxEvent(ctx, "attendance", a.ID.String(), eventType, events.AttendanceChangedTopic,
		events.AttendanceChangedEvent{
			EventType:    eventType,
			CompanyID:    a.CompanyID.String(),
			EmployeeID:   a.EmployeeID.String(),
			AttendanceID: a.ID.String(),
			Date:         a.AttendanceDate.Format(workday.DateLayout),
			Status:       string(a.Status),
			ActorID:      actorID,
			OccurredAt:   s.now().UTC(),
		},
	)
	if err != nil {
		s.logger.Error("build attendance outbox event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("persist attendance outbox event failed", zap.String("event_type", eventType), zap.Error(err))
		return err
	}
	return nil
}

// shiftStatus grades a closed shift against the duty window.
func shiftStatus(in, out time.Time, emp EmployeeRef) RawStatus {
	span, ok := emp.DutySpan()
	if !ok {
		return RawFull
	}
	if out.Sub(in) < span/2 {
		return RawHalf
	}
	return RawFull
}

func parseIDs(companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidEmployeeID
	}
	return companyUUID, employeeUUID, nil
}

func parsePeriod(period string) (int, int, error) {
	year, month, err := workday.ParsePeriod(period)
	if err != nil || !workday.ValidPeriod(year, month) {
		return 0, 0, apperror.WithDetail(attendanceerrors.ErrInvalidPeriod, "period %q", period)
	}
	return year, month, nil
}

func isDuplicateDay(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_employee_date"
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrAttendanceNotFound
	}
	return err
}

func formatTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func mapToResponse(a Attendance, leave *leavemaster.LeaveMaster) AttendanceResponse {
	resp := AttendanceResponse{
		ID:               a.ID.String(),
		CompanyID:        a.CompanyID.String(),
		EmployeeID:       a.EmployeeID.String(),
		AttendanceDate:   a.AttendanceDate.Format(workday.DateLayout),
		Status:           string(a.Status),
		PunchIn:          formatTime(a.PunchIn),
		PunchOut:         formatTime(a.PunchOut),
		Latitude:         a.Latitude,
		Longitude:        a.Longitude,
		Source:           a.Source,
		Verification:     a.Verification,
		VerificationNote: a.VerificationNote,
		VerifiedAt:       formatTime(a.VerifiedAt),
		Notes:            a.Notes,
	}

	rec := a.ToRecord()
	resp.ResolvedStatus = string(Resolve(&rec, rec.Date, leave))

	if a.VerifiedBy != nil {
		v := a.VerifiedBy.String()
		resp.VerifiedBy = &v
	}
	if a.LeaveMasterID != nil {
		v := a.LeaveMasterID.String()
		resp.LeaveMasterID = &v
	}
	return resp
}
