package leavemaster

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryCasual           Category = "casual"
	CategorySick             Category = "sick"
	CategorySpecial          Category = "special"
	CategoryMandatoryHoliday Category = "mandatory_holiday"
	CategoryUnpaid           Category = "unpaid"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCasual, CategorySick, CategorySpecial, CategoryMandatoryHoliday, CategoryUnpaid:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPaid || p == PaymentUnpaid
}

// LeaveMaster is a company-defined leave or holiday type.
type LeaveMaster struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_leave_master_company_name,where:deleted_at IS NULL" json:"company_id"`
	Name            string         `gorm:"type:varchar(120);not null;uniqueIndex:uq_leave_master_company_name,where:deleted_at IS NULL" json:"name"`
	Category        Category       `gorm:"type:varchar(30);not null" json:"category"`
	PaymentStatus   PaymentStatus  `gorm:"type:varchar(10);not null" json:"payment_status"`
	AnnualAllowance int            `gorm:"not null" json:"annual_allowance"`
	FixedDate       *time.Time     `gorm:"type:date" json:"fixed_date,omitempty"`
	IsActive        bool           `gorm:"not null;index" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LeaveMaster) TableName() string {
	return "leave_masters"
}

// IsPaid reports whether a day of this leave is paid. Unpaid category wins
// over the payment flag.
func (lm LeaveMaster) IsPaid() bool {
	return lm.Category != CategoryUnpaid && lm.PaymentStatus == PaymentPaid
}
