package employeesalary

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	employeesalaryerrors "go-hr-payroll/internal/employeesalary/errors"
	"go-hr-payroll/internal/events"
	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeSalaryRequest) (EmployeeSalaryResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeSalaryResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeSalaryResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeSalaryRequest) (EmployeeSalaryResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	// GetEffective returns the profile in force on asOf.
	GetEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalary, error)
	// EnsureDefault gives a new employee a zero profile so payroll can run before
	// HR fills in real figures. It reports whether a profile was created.
	EnsureDefault(ctx context.Context, companyID, employeeID string, effective time.Time) (bool, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employeesalary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeesalary.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeSalaryRequest,
) (EmployeeSalaryResponse, error) {
	s.logger.Debug("create employee salary requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidCompanyID
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidEmployeeID
	}
	effectiveDate, err := workday.ParseDate(req.EffectiveDate)
	if err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidEffectiveDate
	}

	salary := &EmployeeSalary{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeID,
		BaseSalary:    req.BaseSalary.Round(2),
		EffectiveDate: effectiveDate,
	}
	if salary.Allowances, err = buildAllowances(salary.ID, req.Allowances); err != nil {
		return EmployeeSalaryResponse{}, err
	}
	if salary.BaseSalary.IsNegative() {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrNegativeAmount
	}

	created, err := s.persist(ctx, companyID, salary, events.SalaryProfileCreated)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	return mapToResponse(*created), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]EmployeeSalaryResponse, error) {
	salaries, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employee salaries failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(salaries), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeSalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrSalaryNotFound
	}
	salary, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*salary), nil
}

// Update never rewrites the addressed profile. The next profile starts on the
// requested effective date so locked payrolls keep pointing at the figures they used.
func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeSalaryRequest,
) (EmployeeSalaryResponse, error) {
	s.logger.Debug("update employee salary requested",
		zap.String("company_id", companyID),
		zap.String("salary_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrSalaryNotFound
	}
	current, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}
	effectiveDate, err := workday.ParseDate(req.EffectiveDate)
	if err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidEffectiveDate
	}
	if req.BaseSalary.IsNegative() {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrNegativeAmount
	}

	next := &EmployeeSalary{
		ID:            uuid.New(),
		CompanyID:     current.CompanyID,
		EmployeeID:    current.EmployeeID,
		BaseSalary:    req.BaseSalary.Round(2),
		EffectiveDate: effectiveDate,
	}
	inputs := carryOver(current.Allowances)
	if req.Allowances != nil {
		inputs = *req.Allowances
	}
	if next.Allowances, err = buildAllowances(next.ID, inputs); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	created, err := s.persist(ctx, companyID, next, events.SalaryProfileUpdated)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	return mapToResponse(*created), nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeesalaryerrors.ErrSalaryNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee salary begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	salary, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employee salary failed", zap.String("salary_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := s.enqueueChanged(ctx, tx, events.SalaryProfileDeleted, *salary); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee salary commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete employee salary success", zap.String("salary_id", id))
	return nil
}

func (s *service) GetEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalary, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeesalaryerrors.ErrInvalidEmployeeID
	}
	salary, err := s.repo.FindEffective(ctx, companyID, employeeID, asOf)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return salary, nil
}

func (s *service) EnsureDefault(ctx context.Context, companyID, employeeID string, effective time.Time) (bool, error) {
	count, err := s.repo.CountByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	_, err = s.Create(ctx, companyID, CreateEmployeeSalaryRequest{
		EmployeeID:    employeeID,
		BaseSalary:    decimal.Zero,
		EffectiveDate: effective.Format(workday.DateLayout),
	})
	if err != nil {
		if errors.Is(err, employeesalaryerrors.ErrSalaryEffectiveDateAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) persist(ctx context.Context, companyID string, salary *EmployeeSalary, eventType string) (*EmployeeSalary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("employee salary begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, companyID, salary.EmployeeID.String())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, employeesalaryerrors.ErrEmployeeNotFound
	}

	if err := qtx.Create(ctx, salary); err != nil {
		s.logger.Warn("employee salary persist failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	created, err := qtx.FindByIDAndCompany(ctx, companyID, salary.ID.String())
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.enqueueChanged(ctx, tx, eventType, *created); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("employee salary commit failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("employee salary saved",
		zap.String("event_type", eventType),
		zap.String("salary_id", created.ID.String()),
		zap.String("employee_id", created.EmployeeID.String()),
	)
	return created, nil
}

func (s *service) enqueueChanged(ctx context.Context, tx *sql.Tx, eventType string, salary EmployeeSalary) error {
	if s.outbox == nil {
		return nil
	}

	event, err := kafka.NewOutboxEvent(ctx, "salary_profile", salary.ID.String(), eventType, events.SalaryProfileChangedTopic,
		events.SalaryProfileChangedEvent{
			EventType:       eventType,
			CompanyID:       salary.CompanyID.String(),
			EmployeeID:      salary.EmployeeID.String(),
			SalaryProfileID: salary.ID.String(),
			OccurredAt:      time.Now().UTC(),
		},
	)
	if err != nil {
		s.logger.Error("build salary profile outbox event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("persist salary profile outbox event failed", zap.String("event_type", eventType), zap.Error(err))
		return err
	}
	return nil
}

func buildAllowances(salaryID uuid.UUID, inputs []AllowanceInput) ([]SalaryAllowance, error) {
	out := make([]SalaryAllowance, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, employeesalaryerrors.ErrDuplicateAllowance
		}
		seen[key] = struct{}{}
		if in.Amount.IsNegative() {
			return nil, employeesalaryerrors.ErrNegativeAmount
		}
		out = append(out, SalaryAllowance{
			ID:       uuid.New(),
			SalaryID: salaryID,
			Name:     name,
			Amount:   in.Amount.Round(2),
		})
	}
	return out, nil
}

func carryOver(allowances []SalaryAllowance) []AllowanceInput {
	out := make([]AllowanceInput, 0, len(allowances))
	for _, a := range allowances {
		out = append(out, AllowanceInput{Name: a.Name, Amount: a.Amount})
	}
	return out
}

func mapToResponse(salary EmployeeSalary) EmployeeSalaryResponse {
	allowances := make([]AllowanceResponse, 0, len(salary.Allowances))
	for _, a := range salary.Allowances {
		allowances = append(allowances, AllowanceResponse{Name: a.Name, Amount: a.Amount.StringFixed(2)})
	}
	return EmployeeSalaryResponse{
		ID:              salary.ID.String(),
		EmployeeID:      salary.EmployeeID.String(),
		EmployeeName:    salary.EmployeeName,
		BaseSalary:      salary.BaseSalary.StringFixed(2),
		Allowances:      allowances,
		TotalAllowances: salary.TotalAllowances().StringFixed(2),
		EffectiveDate:   salary.EffectiveDate.Format(workday.DateLayout),
	}
}

func mapToListResponse(salaries []EmployeeSalary) []EmployeeSalaryResponse {
	res := make([]EmployeeSalaryResponse, len(salaries))
	for i, salary := range salaries {
		res[i] = mapToResponse(salary)
	}
	return res
}
