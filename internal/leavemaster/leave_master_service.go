package leavemaster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-hr-payroll/internal/events"
	leavemastererrors "go-hr-payroll/internal/leavemaster/errors"
	"go-hr-payroll/internal/messaging/kafka"
	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	ActiveLeaveMastersKeyPrefix = "leave_masters:active:"
	activeCacheTTL              = 30 * time.Minute
	uniqueNameConstraint        = "uq_leave_master_company_name"
)

func ActiveLeaveMastersKey(companyID string) string {
	return ActiveLeaveMastersKeyPrefix + companyID
}

type Service interface {
	Create(ctx context.Context, companyID string, req CreateLeaveMasterRequest) (LeaveMasterResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveMasterResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveMasterResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeaveMasterRequest) (LeaveMasterResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	// ListActive returns the active masters of a company, served from cache when possible.
	ListActive(ctx context.Context, companyID string) ([]LeaveMaster, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavemaster.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavemaster.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateLeaveMasterRequest) (LeaveMasterResponse, error) {
	s.logger.Debug("create leave master requested",
		zap.String("company_id", companyID),
		zap.String("name", req.Name),
		zap.String("category", req.Category),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveMasterResponse{}, leavemastererrors.ErrInvalidCompanyID
	}
	fields, err := validateFields(req.Category, req.PaymentStatus, req.FixedDate, req.AnnualAllowance)
	if err != nil {
		s.logger.Warn("create leave master validation failed", zap.Error(err))
		return LeaveMasterResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave master begin tx failed", zap.Error(err))
		return LeaveMasterResponse{}, err
	}
	defer tx.Rollback()

	lm := &LeaveMaster{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		Name:            strings.TrimSpace(req.Name),
		Category:        fields.category,
		PaymentStatus:   fields.payment,
		AnnualAllowance: req.AnnualAllowance,
		FixedDate:       fields.fixedDate,
		IsActive:        true,
	}

	if err := s.repo.WithTx(tx).Create(ctx, lm); err != nil {
		s.logger.Error("create leave master persist failed", zap.Error(err))
		return LeaveMasterResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueChanged(ctx, tx, events.LeaveMasterCreated, *lm); err != nil {
		return LeaveMasterResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave master commit failed", zap.Error(err))
		return LeaveMasterResponse{}, err
	}

	s.invalidateActive(ctx, companyID)
	s.logger.Info("create leave master success",
		zap.String("leave_master_id", lm.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*lm), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveMasterResponse, error) {
	masters, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all leave masters failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(masters), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveMasterResponse, error) {
	lm, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveMasterResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lm), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeaveMasterRequest) (LeaveMasterResponse, error) {
	s.logger.Debug("update leave master requested",
		zap.String("company_id", companyID),
		zap.String("leave_master_id", id),
	)

	fields, err := validateFields(req.Category, req.PaymentStatus, req.FixedDate, req.AnnualAllowance)
	if err != nil {
		s.logger.Warn("update leave master validation failed", zap.Error(err))
		return LeaveMasterResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave master begin tx failed", zap.Error(err))
		return LeaveMasterResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lm, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveMasterResponse{}, mapRepositoryError(err)
	}

	lm.Name = strings.TrimSpace(req.Name)
	lm.Category = fields.category
	lm.PaymentStatus = fields.payment
	lm.AnnualAllowance = req.AnnualAllowance
	lm.FixedDate = fields.fixedDate
	if req.IsActive != nil {
		lm.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, lm); err != nil {
		s.logger.Error("update leave master persist failed", zap.Error(err))
		return LeaveMasterResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueChanged(ctx, tx, events.LeaveMasterUpdated, *lm); err != nil {
		return LeaveMasterResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave master commit failed", zap.Error(err))
		return LeaveMasterResponse{}, err
	}

	s.invalidateActive(ctx, companyID)
	s.logger.Info("update leave master success", zap.String("leave_master_id", id))
	return mapToResponse(*lm), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave master begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lm, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete leave master failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := s.enqueueChanged(ctx, tx, events.LeaveMasterDeleted, *lm); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave master commit failed", zap.Error(err))
		return err
	}

	s.invalidateActive(ctx, companyID)
	s.logger.Info("delete leave master success", zap.String("leave_master_id", id))
	return nil
}

func (s *service) ListActive(ctx context.Context, companyID string) ([]LeaveMaster, error) {
	cacheKey := ActiveLeaveMastersKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var masters []LeaveMaster
			if json.Unmarshal([]byte(cached), &masters) == nil {
				return masters, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		masters, err := s.repo.FindActiveByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(masters); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, activeCacheTTL).Err(); err != nil {
					s.logger.Warn("cache active leave masters failed", zap.Error(err))
				}
			}
		}
		return masters, nil
	})
	if err != nil {
		s.logger.Error("list active leave masters failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	return v.([]LeaveMaster), nil
}

func (s *service) invalidateActive(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ActiveLeaveMastersKey(companyID)).Err(); err != nil {
		s.logger.Warn("invalidate active leave masters failed", zap.String("company_id", companyID), zap.Error(err))
	}
}

func (s *service) enqueueChanged(ctx context.Context, tx *sql.Tx, eventType string, lm LeaveMaster) error {
	if s.outbox == nil {
		return nil
	}

	event, err := kafka.NewOutboxEvent(ctx, "leave_master", lm.ID.String(), eventType, events.LeaveMasterChangedTopic,
		events.LeaveMasterChangedEvent{
			EventType:     eventType,
			CompanyID:     lm.CompanyID.String(),
			LeaveMasterID: lm.ID.String(),
			Category:      string(lm.Category),
			OccurredAt:    time.Now().UTC(),
		},
	)
	if err != nil {
		s.logger.Error("build leave master outbox event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("persist leave master outbox event failed", zap.String("event_type", eventType), zap.Error(err))
		return err
	}
	return nil
}

type validatedFields struct {
	category  Category
	payment   PaymentStatus
	fixedDate *time.Time
}

func validateFields(category, payment, fixedDate string, allowance int) (validatedFields, error) {
	out := validatedFields{
		category: Category(strings.ToLower(strings.TrimSpace(category))),
		payment:  PaymentStatus(strings.ToLower(strings.TrimSpace(payment))),
	}
	if !out.category.Valid() {
		return out, leavemastererrors.ErrInvalidCategory
	}
	if !out.payment.Valid() {
		return out, leavemastererrors.ErrInvalidPaymentStatus
	}
	if allowance < 0 {
		return out, leavemastererrors.ErrNegativeAllowance
	}
	if strings.TrimSpace(fixedDate) != "" {
		if out.category != CategoryMandatoryHoliday {
			return out, leavemastererrors.ErrFixedDateNotAllowed
		}
		d, err := workday.ParseDate(fixedDate)
		if err != nil {
			return out, leavemastererrors.ErrInvalidFixedDate
		}
		out.fixedDate = &d
	}
	return out, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavemastererrors.ErrLeaveMasterNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueNameConstraint {
		return leavemastererrors.ErrLeaveMasterNameExists
	}
	return err
}

func mapToResponse(lm LeaveMaster) LeaveMasterResponse {
	resp := LeaveMasterResponse{
		ID:              lm.ID.String(),
		CompanyID:       lm.CompanyID.String(),
		Name:            lm.Name,
		Category:        string(lm.Category),
		PaymentStatus:   string(lm.PaymentStatus),
		IsPaid:          lm.IsPaid(),
		AnnualAllowance: lm.AnnualAllowance,
		IsActive:        lm.IsActive,
	}
	if lm.FixedDate != nil {
		resp.FixedDate = lm.FixedDate.Format(workday.DateLayout)
	}
	return resp
}

func mapToListResponse(masters []LeaveMaster) []LeaveMasterResponse {
	out := make([]LeaveMasterResponse, 0, len(masters))
	for _, lm := range masters {
		out = append(out, mapToResponse(lm))
	}
	return out
}
