package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	employeeerrors "go-hr-payroll/internal/employee/errors"
	"go-hr-payroll/internal/events"
	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/shared/contextutil"
	"go-hr-payroll/internal/shared/counter"
	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeOptionsKeyPrefix = "employees:options:"
	optionsCacheTTL          = time.Hour
)

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}
	hireDate, err := validateProfile(req.DutyStart, req.DutyEnd, req.HireDate)
	if err != nil {
		s.logger.Warn("create employee validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	number := strings.TrimSpace(req.EmployeeNumber)
	if number == "" {
		nextVal, err := s.counter.WithTx(tx).GetNextValue(ctx, companyID, counter.TypeEmployeeNumber)
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		number = fmt.Sprintf("EMP-%06d", nextVal)
	}

	empl := &Employee{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeNumber: number,
		FullName:       strings.TrimSpace(req.FullName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		DutyStart:      req.DutyStart,
		DutyEnd:        req.DutyEnd,
		HireDate:       hireDate,
		IsActive:       true,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueLifecycle(ctx, tx, events.EmployeeCreated, *empl); err != nil {
		return EmployeeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	empls, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// pickers open in bursts, one query per company is enough
	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		empls, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(empls)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	hireDate, err := validateProfile(req.DutyStart, req.DutyEnd, req.HireDate)
	if err != nil {
		s.logger.Warn("update employee validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.FullName = strings.TrimSpace(req.FullName)
	empl.Email = strings.ToLower(strings.TrimSpace(req.Email))
	empl.DutyStart = req.DutyStart
	empl.DutyEnd = req.DutyEnd
	if hireDate != nil {
		empl.HireDate = hireDate
	}
	if req.IsActive != nil {
		empl.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueLifecycle(ctx, tx, events.EmployeeUpdated, *empl); err != nil {
		return EmployeeResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	s.logger.Debug("delete employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) enqueueLifecycle(ctx context.Context, tx *sql.Tx, eventType string, empl Employee) error {
	if s.outbox == nil {
		return nil
	}

	event, err := kafka.NewOutboxEvent(ctx, "employee", empl.ID.String(), eventType, events.EmployeeLifecycleTopic,
		events.EmployeeCreatedEvent{
			EventType:      eventType,
			EmployeeID:     empl.ID.String(),
			CompanyID:      empl.CompanyID.String(),
			EmployeeNumber: empl.EmployeeNumber,
			FullName:       empl.FullName,
			OccurredAt:     time.Now().UTC(),
		},
	)
	if err != nil {
		s.logger.Error("build employee outbox event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("employee outbox persist failed",
			zap.String("employee_id", empl.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// validateProfile checks the duty window and parses an optional hire date.
func validateProfile(dutyStart, dutyEnd, hireDate string) (*time.Time, error) {
	start, err := workday.ParseClock(dutyStart)
	if err != nil {
		return nil, employeeerrors.ErrInvalidDutyWindow
	}
	end, err := workday.ParseClock(dutyEnd)
	if err != nil || end <= start {
		return nil, employeeerrors.ErrInvalidDutyWindow
	}

	if strings.TrimSpace(hireDate) == "" {
		return nil, nil
	}
	d, err := workday.ParseDate(hireDate)
	if err != nil {
		return nil, employeeerrors.ErrInvalidHireDate
	}
	return &d, nil
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             empl.ID.String(),
		CompanyID:      empl.CompanyID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		FullName:       empl.FullName,
		Email:          empl.Email,
		DutyStart:      empl.DutyStart,
		DutyEnd:        empl.DutyEnd,
		IsActive:       empl.IsActive,
	}
	if empl.HireDate != nil {
		resp.HireDate = empl.HireDate.Format(workday.DateLayout)
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
