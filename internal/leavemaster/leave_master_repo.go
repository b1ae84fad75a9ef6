package leavemaster

import (
	"context"
	"database/sql"

	"go-hr-payroll/internal/shared/connection"
	"go-hr-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_master_repo.go -destination=mock/leave_master_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lm *LeaveMaster) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveMaster, error)
	FindActiveByCompany(ctx context.Context, companyID string) ([]LeaveMaster, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveMaster, error)
	Update(ctx context.Context, lm *LeaveMaster) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, lm *LeaveMaster) error {
	return r.conn(ctx).Create(lm).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveMaster, error) {
	var masters []LeaveMaster
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&masters).Error
	return masters, err
}

func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) ([]LeaveMaster, error) {
	var masters []LeaveMaster
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&masters).Error
	return masters, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveMaster, error) {
	var lm LeaveMaster
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&lm, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lm, nil
}

func (r *repository) Update(ctx context.Context, lm *LeaveMaster) error {
	return r.conn(ctx).Save(lm).Error
}

// Delete deactivates the master and soft deletes it; attendance rows keep their reference.
func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if err := db.Model(&LeaveMaster{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		return err
	}
	res := r.conn(ctx).Scopes(tenant.Scope(companyID)).Delete(&LeaveMaster{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
