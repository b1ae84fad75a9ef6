package attendance

import (
	"time"

	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RawStatus is the status code stored on an attendance row.
type RawStatus string

const (
	RawFull             RawStatus = "full"
	RawPresent          RawStatus = "present"
	RawHalf             RawStatus = "half"
	RawLeave            RawStatus = "leave"
	RawHoliday          RawStatus = "holiday"
	RawMandatoryHoliday RawStatus = "mandatory_holiday"
	RawSpecialLeave     RawStatus = "special_leave"
	RawAbsent           RawStatus = "absent"
)

var knownRawStatuses = map[RawStatus]struct{}{
	RawFull: {}, RawPresent: {}, RawHalf: {}, RawLeave: {}, RawHoliday: {},
	RawMandatoryHoliday: {}, RawSpecialLeave: {}, RawAbsent: {},
}

func (s RawStatus) Known() bool {
	_, ok := knownRawStatuses[s]
	return ok
}

const (
	VerificationUnverified = "unverified"
	VerificationVerified   = "verified"
)

const (
	SourceManual = "MANUAL"
	SourceWeb    = "WEB"
	SourceMobile = "MOBILE"
	SourceWFH    = "WFH"

	// SourceCalendar marks records filled in from fixed-date holidays.
	SourceCalendar = "CALENDAR"
)

type Attendance struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID      `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	EmployeeID       uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate   time.Time      `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status           RawStatus      `gorm:"column:status;type:varchar(30);not null"`
	PunchIn          *time.Time     `gorm:"column:punch_in;type:timestamptz"`
	PunchOut         *time.Time     `gorm:"column:punch_out;type:timestamptz"`
	Latitude         *float64       `gorm:"column:latitude"`
	Longitude        *float64       `gorm:"column:longitude"`
	Source           string         `gorm:"column:source;type:varchar(30);not null"`
	Verification     string         `gorm:"column:verification;type:varchar(20);not null"`
	VerificationNote *string        `gorm:"column:verification_note;type:text"`
	VerifiedBy       *uuid.UUID     `gorm:"column:verified_by;type:uuid"`
	VerifiedAt       *time.Time     `gorm:"column:verified_at;type:timestamptz"`
	LeaveMasterID    *uuid.UUID     `gorm:"column:leave_master_id;type:uuid;index"`
	Notes            *string        `gorm:"column:notes;type:text"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Attendance) TableName() string {
	return "attendances"
}

func (a Attendance) IsVerified() bool {
	return a.Verification == VerificationVerified
}

// EmployeeRef is the slice of the roster attendance needs.
type EmployeeRef struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID      `gorm:"column:company_id;type:uuid"`
	FullName  string         `gorm:"column:full_name"`
	DutyStart string         `gorm:"column:duty_start"`
	DutyEnd   string         `gorm:"column:duty_end"`
	IsActive  bool           `gorm:"column:is_active"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

// DutySpan returns the scheduled working time, or false when the duty window
// is missing or not increasing.
func (e EmployeeRef) DutySpan() (time.Duration, bool) {
	start, err := workday.ParseClock(e.DutyStart)
	if err != nil {
		return 0, false
	}
	end, err := workday.ParseClock(e.DutyEnd)
	if err != nil || end <= start {
		return 0, false
	}
	return end - start, true
}

func (EmployeeRef) TableName() string {
	return "employees"
}
