package payroll

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hr-payroll/internal/attendance"
	"go-hr-payroll/internal/employeesalary"
	employeesalaryerrors "go-hr-payroll/internal/employeesalary/errors"
	"go-hr-payroll/internal/events"
	"go-hr-payroll/internal/messaging/kafka"
	payrollerrors "go-hr-payroll/internal/payroll/errors"
	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// AttendanceSource aggregates a month of attendance for one employee.
type AttendanceSource interface {
	Summarize(ctx context.Context, companyID, employeeID string, year, month int) (attendance.MonthlyBreakdown, error)
}

// SalarySource resolves the salary profile in force on a date.
type SalarySource interface {
	GetEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (*employeesalary.EmployeeSalary, error)
}

type Config struct {
	Policy Policy
	// OpenShiftAsPresent mirrors the attendance policy so cached previews are
	// keyed by it too.
	OpenShiftAsPresent bool
	SaveLockTTL        time.Duration
}

type Service interface {
	Preview(ctx context.Context, companyID string, req PreviewRequest) (PayrollResponse, error)
	Save(ctx context.Context, companyID, actorID string, req SaveRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, companyID string, query ListQuery) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	GetPayslip(ctx context.Context, companyID, id string) (*Payslip, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	attendance AttendanceSource
	salaries   SalarySource
	cache      *PreviewCache
	outbox     kafka.OutboxRepository
	engine     *Engine
	cfg        Config
	sf         *singleflight.Group
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	attendance AttendanceSource,
	salaries SalarySource,
	cache *PreviewCache,
	outbox kafka.OutboxRepository,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if cfg.SaveLockTTL <= 0 {
		cfg.SaveLockTTL = 30 * time.Second
	}
	return &service{
		db:         db,
		repo:       repo,
		attendance: attendance,
		salaries:   salaries,
		cache:      cache,
		outbox:     outbox,
		engine:     NewEngine(cfg.Policy),
		cfg:        cfg,
		sf:         &singleflight.Group{},
		now:        time.Now,
		logger:     l,
	}
}

type accrualInput struct {
	companyID   uuid.UUID
	employeeID  uuid.UUID
	year, month int
	period      string
	allowances  []LineItem
	deductions  []LineItem
}

func (s *service) Preview(ctx context.Context, companyID string, req PreviewRequest) (PayrollResponse, error) {
	in, err := parseRequest(companyID, req)
	if err != nil {
		return PayrollResponse{}, err
	}
	if _, err := s.activeEmployee(ctx, companyID, req.EmployeeID); err != nil {
		return PayrollResponse{}, err
	}

	if !req.Recompute {
		latest, err := s.latest(ctx, companyID, in)
		if err != nil {
			return PayrollResponse{}, err
		}
		if latest != nil {
			return mapToResponse(latest, false), nil
		}
	}

	key := ""
	if cgen, egen, err := s.cache.Generation(ctx, companyID, req.EmployeeID); err != nil {
		s.logger.Warn("read payroll preview generation failed", zap.Error(err))
	} else {
		key = PreviewKey(companyID, req.EmployeeID, in.period, cgen, egen,
			InputsHash(in.allowances, in.deductions, s.cfg.Policy, s.cfg.OpenShiftAsPresent))
		if cached, ok := s.cache.Get(ctx, key); ok {
			return mapToResponse(cached, false), nil
		}
	}

	sfKey := key
	if sfKey == "" {
		sfKey = uuid.NewString()
	}
	// coalesced callers share this run, so it must not die with the first one
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(sfKey, func() (any, error) {
		snap, err := s.compute(shared, in)
		if err != nil {
			return nil, err
		}
		if key != "" {
			s.cache.Set(shared, key, snap)
		}
		return snap, nil
	})
	if err != nil {
		s.logger.Error("compute payroll preview failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.String("period", in.period),
			zap.Error(err),
		)
		return PayrollResponse{}, err
	}

	return mapToResponse(v.(*Snapshot), true), nil
}

func (s *service) Save(ctx context.Context, companyID, actorID string, req SaveRequest) (PayrollResponse, error) {
	s.logger.Debug("save payroll requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period", req.Period),
		zap.Bool("supersede", req.Supersede),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}
	in, err := parseRequest(companyID, req.PreviewRequest)
	if err != nil {
		return PayrollResponse{}, err
	}
	if _, err := s.activeEmployee(ctx, companyID, req.EmployeeID); err != nil {
		return PayrollResponse{}, err
	}

	release, err := s.cache.AcquireSaveLock(ctx, companyID, req.EmployeeID, in.period, s.cfg.SaveLockTTL)
	if err != nil {
		s.logger.Warn("acquire payroll save lock failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PayrollResponse{}, err
	}
	defer release()

	latest, err := s.latest(ctx, companyID, in)
	if err != nil {
		return PayrollResponse{}, err
	}

	if latest != nil {
		if !req.Supersede {
			return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyLocked
		}
		if req.SupersedesID != latest.ID.String() {
			return PayrollResponse{}, payrollerrors.ErrSupersedeMismatch
		}
	}

	snap, err := s.compute(ctx, in)
	if err != nil {
		return PayrollResponse{}, err
	}
	snap.ID = uuid.New()
	if latest != nil {
		snap.Version = latest.Version + 1
		snap.SupersedesID = &latest.ID
	}
	if err := snap.Lock(actorUUID, s.now()); err != nil {
		return PayrollResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("save payroll begin tx failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, toEntity(in.companyID, snap)); err != nil {
		s.logger.Warn("save payroll persist failed", zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueLocked(ctx, tx, in.companyID.String(), snap); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("save payroll commit failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	if err := s.cache.BumpEmployee(ctx, companyID, req.EmployeeID); err != nil {
		s.logger.Warn("bump payroll preview generation failed", zap.Error(err))
	}
	s.logger.Info("payroll locked",
		zap.String("payroll_id", snap.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period", in.period),
		zap.Int("version", snap.Version),
		zap.String("net_pay", snap.NetPay.StringFixed(2)),
	)
	return mapToResponse(snap, true), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, query ListQuery) ([]PayrollResponse, error) {
	filter := ListFilter{EmployeeID: query.EmployeeID}
	if query.Period != "" {
		year, month, err := workday.ParsePeriod(query.Period)
		if err != nil {
			return nil, payrollerrors.ErrInvalidPeriodFormat
		}
		filter.Year, filter.Month = year, month
	}

	payrolls, err := s.repo.FindAll(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list payrolls failed", zap.Error(err))
		return nil, err
	}

	out := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		out = append(out, mapToResponse(toSnapshot(p), false))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	p, err := s.find(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(toSnapshot(*p), false), nil
}

func (s *service) GetPayslip(ctx context.Context, companyID, id string) (*Payslip, error) {
	p, err := s.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	emp, err := s.repo.FindEmployee(ctx, companyID, p.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return NewPayslip(toSnapshot(*p), emp.Display())
}

func (s *service) find(ctx context.Context, companyID, id string) (*Payroll, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrPayrollNotFound
	}
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return p, nil
}

func (s *service) compute(ctx context.Context, in accrualInput) (*Snapshot, error) {
	companyID, employeeID := in.companyID.String(), in.employeeID.String()

	breakdown, err := s.attendance.Summarize(ctx, companyID, employeeID, in.year, in.month)
	if err != nil {
		return nil, err
	}

	_, monthEnd := workday.MonthBounds(in.year, in.month)
	emp := Employee{ID: in.employeeID}
	var allowances []LineItem

	profile, err := s.salaries.GetEffective(ctx, companyID, employeeID, monthEnd)
	switch {
	case errors.Is(err, employeesalaryerrors.ErrSalaryNotFound):
		emp.SalaryMissing = true
	case err != nil:
		return nil, err
	default:
		emp.BasicSalary = profile.BaseSalary
		for _, a := range profile.Allowances {
			allowances = append(allowances, LineItem{Name: a.Name, Amount: a.Amount})
		}
	}
	allowances = append(allowances, in.allowances...)

	return s.engine.Accrue(emp, breakdown, allowances, in.deductions, nil), nil
}

func (s *service) latest(ctx context.Context, companyID string, in accrualInput) (*Snapshot, error) {
	p, err := s.repo.FindLatest(ctx, companyID, in.employeeID.String(), in.year, in.month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toSnapshot(*p), nil
}

func (s *service) activeEmployee(ctx context.Context, companyID, employeeID string) (*EmployeeRef, error) {
	emp, err := s.repo.FindEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	if emp.DeletedAt.Valid {
		return nil, payrollerrors.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *service) enqueueLocked(ctx context.Context, tx *sql.Tx, companyID string, snap *Snapshot) error {
	if s.outbox == nil {
		return nil
	}

	payload := events.PayrollLockedEvent{
		EventType:  events.PayrollLocked,
		CompanyID:  companyID,
		PayrollID:  snap.ID.String(),
		EmployeeID: snap.EmployeeID.String(),
		Period:     snap.Period(),
		Version:    snap.Version,
		NetPay:     snap.NetPay.StringFixed(2),
		LockedBy:   snap.LockedBy.String(),
		OccurredAt: snap.LockedAt.UTC(),
	}
	if snap.SupersedesID != nil {
		payload.SupersedesID = snap.SupersedesID.String()
	}

	event, err := kafka.NewOutboxEvent(ctx, "payroll", snap.ID.String(), events.PayrollLocked, events.PayrollLockedTopic, payload)
	if err != nil {
		s.logger.Error("build payroll outbox event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("persist payroll outbox event failed", zap.Error(err))
		return err
	}
	return nil
}

func parseRequest(companyID string, req PreviewRequest) (accrualInput, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return accrualInput{}, payrollerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return accrualInput{}, payrollerrors.ErrInvalidEmployeeID
	}
	year, month, err := workday.ParsePeriod(req.Period)
	if err != nil {
		return accrualInput{}, payrollerrors.ErrInvalidPeriodFormat
	}
	return accrualInput{
		companyID:  companyUUID,
		employeeID: employeeUUID,
		year:       year,
		month:      month,
		period:     workday.FormatPeriod(year, month),
		allowances: toItems(req.Allowances),
		deductions: toItems(req.Deductions),
	}, nil
}

func toItems(inputs []LineItemInput) []LineItem {
	out := make([]LineItem, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, LineItem{Name: strings.TrimSpace(in.Name), Amount: in.Amount})
	}
	return out
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueVersionConstraint {
		return payrollerrors.ErrPayrollAlreadyLocked
	}
	return err
}

func mapItems(items []LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{Name: it.Name, Amount: it.Amount.StringFixed(2)})
	}
	return out
}

func mapToResponse(snap *Snapshot, fresh bool) PayrollResponse {
	flags := make([]string, 0, len(snap.Flags))
	for _, f := range snap.Flags {
		flags = append(flags, string(f))
	}

	resp := PayrollResponse{
		EmployeeID:      snap.EmployeeID.String(),
		Period:          snap.Period(),
		State:           string(snap.State),
		Version:         snap.Version,
		BasicSalary:     snap.BasicSalary.StringFixed(2),
		ProratedBasic:   snap.ProratedBasic.StringFixed(2),
		Allowances:      mapItems(snap.Allowances),
		Deductions:      mapItems(snap.Deductions),
		TotalAllowances: snap.TotalAllowances.StringFixed(2),
		TotalDeductions: snap.TotalDeductions.StringFixed(2),
		NetPay:          snap.NetPay.StringFixed(2),
		Breakdown:       snap.Breakdown,
		Flags:           flags,
		Fresh:           fresh,
	}
	if snap.ID != uuid.Nil {
		resp.ID = snap.ID.String()
	}
	if snap.SupersedesID != nil {
		resp.SupersedesID = snap.SupersedesID.String()
	}
	if snap.LockedBy != nil {
		resp.LockedBy = snap.LockedBy.String()
	}
	if snap.LockedAt != nil {
		resp.LockedAt = snap.LockedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
