package attendance

import (
	"math"
	"time"

	attendanceerrors "go-hr-payroll/internal/attendance/errors"
	"go-hr-payroll/internal/leavemaster"
	"go-hr-payroll/internal/shared/apperror"
	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
)

// Policy holds the aggregation choices that are business decisions rather than facts.
type Policy struct {
	// CountOpenShiftAsPresent counts a punch-in without punch-out as a full day worked.
	CountOpenShiftAsPresent bool
}

type LeaveCounter struct {
	TakenThisMonth   int `json:"taken_this_month"`
	UsedThisYear     int `json:"used_this_year"`
	AnnualAllowance  int `json:"annual_allowance"`
	RemainingBalance int `json:"remaining_balance"`
}

type HolidayCounts struct {
	Mandatory int `json:"mandatory"`
	Special   int `json:"special"`
	// Company counts weekday holidays marked on the record; they are paid working days.
	Company int `json:"company"`
}

type UnpaidLeave struct {
	ThisMonth int `json:"this_month"`
	ThisYear  int `json:"this_year"`
}

type MonthlyBreakdown struct {
	EmployeeID           uuid.UUID     `json:"employee_id"`
	Year                 int           `json:"year"`
	Month                int           `json:"month"`
	DaysInMonth          int           `json:"days_in_month"`
	Sundays              int           `json:"sundays"`
	Holidays             HolidayCounts `json:"holidays"`
	FullDaysWorked       int           `json:"full_days_worked"`
	HalfDaysWorked       float64       `json:"half_days_worked"`
	WFHDays              int           `json:"wfh_days"`
	OpenShiftDays        int           `json:"open_shift_days"`
	CasualLeave          LeaveCounter  `json:"casual_leave"`
	SickLeave            LeaveCounter  `json:"sick_leave"`
	SpecialLeave         LeaveCounter  `json:"special_leave"`
	UnpaidLeave          UnpaidLeave   `json:"unpaid_leave"`
	PaidLeaveDays        int           `json:"paid_leave_days"`
	NotMarkedDays        int           `json:"not_marked_days"`
	TotalWorkingDays     int           `json:"total_working_days"`
	EffectivePaidDays    float64       `json:"effective_paid_days"`
	DaysToDeduct         float64       `json:"days_to_deduct"`
	AttendancePercentage float64       `json:"attendance_percentage"`
	Days                 []ResolvedDay `json:"days,omitempty"`
}

// Aggregate folds the resolved days of one month into a breakdown. records may
// span Jan 1 through the month end; earlier days only feed year-to-date leave
// usage. Records of other employees are ignored.
func Aggregate(records []Record, catalog *leavemaster.Catalog, year, month int, employeeID uuid.UUID, policy Policy) (MonthlyBreakdown, error) {
	if !workday.ValidPeriod(year, month) {
		return MonthlyBreakdown{}, apperror.WithDetail(attendanceerrors.ErrInvalidPeriod, "year %d month %d", year, month)
	}

	byDate, err := indexByDate(records, employeeID)
	if err != nil {
		return MonthlyBreakdown{}, err
	}

	b := MonthlyBreakdown{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       month,
		DaysInMonth: workday.DaysIn(year, month),
	}

	paidLeave := 0
	for m := 1; m <= month; m++ {
		current := m == month
		for _, e := range resolveMonth(byDate, catalog, year, m) {
			if current {
				if b.countDay(e.day, e.leave, policy) {
					paidLeave++
				}
				b.Days = append(b.Days, e.day)
			}
			b.countYearToDate(e.day, e.leave)
		}
	}

	b.CasualLeave.setAllowance(catalog.AnnualAllowance(leavemaster.CategoryCasual))
	b.SickLeave.setAllowance(catalog.AnnualAllowance(leavemaster.CategorySick))
	b.SpecialLeave.setAllowance(catalog.AnnualAllowance(leavemaster.CategorySpecial))

	b.PaidLeaveDays = paidLeave
	b.TotalWorkingDays = b.DaysInMonth - b.Sundays - (b.Holidays.Mandatory + b.Holidays.Special)
	b.EffectivePaidDays = float64(b.FullDaysWorked) + b.HalfDaysWorked + float64(paidLeave) + float64(b.Holidays.Company)
	b.DaysToDeduct = math.Max(0, float64(b.TotalWorkingDays)-b.EffectivePaidDays)
	if b.TotalWorkingDays > 0 {
		b.AttendancePercentage = math.Round(b.EffectivePaidDays/float64(b.TotalWorkingDays)*1000) / 10
	}

	return b, nil
}

// countDay applies one day of the target month and reports whether it was paid leave.
func (b *MonthlyBreakdown) countDay(day ResolvedDay, lm *leavemaster.LeaveMaster, policy Policy) bool {
	switch day.Status {
	case DayHoliday:
		if day.Weekday == time.Sunday.String() {
			b.Sundays++
		} else {
			b.Holidays.Company++
		}
	case DayMandatoryLeave:
		b.Holidays.Mandatory++
	case DaySpecialLeave:
		b.Holidays.Special++
		b.SpecialLeave.TakenThisMonth++
	case DayFull, DayVerified:
		b.FullDaysWorked++
		b.countWFH(day)
	case DayHalf, DayVerifiedHalf:
		b.HalfDaysWorked += 0.5
		b.countWFH(day)
	case DayPunchInOnly:
		b.OpenShiftDays++
		if policy.CountOpenShiftAsPresent {
			b.FullDaysWorked++
			b.countWFH(day)
		}
	case DayLeave:
		return b.countLeave(lm)
	case DayNotMarked:
		b.NotMarkedDays++
	}
	return false
}

func (b *MonthlyBreakdown) countWFH(day ResolvedDay) {
	if day.Source == SourceWFH {
		b.WFHDays++
	}
}

func (b *MonthlyBreakdown) countLeave(lm *leavemaster.LeaveMaster) bool {
	if lm == nil {
		b.UnpaidLeave.ThisMonth++
		return false
	}

	switch lm.Category {
	case leavemaster.CategoryCasual:
		b.CasualLeave.TakenThisMonth++
	case leavemaster.CategorySick:
		b.SickLeave.TakenThisMonth++
	case leavemaster.CategorySpecial:
		b.SpecialLeave.TakenThisMonth++
	}

	if lm.IsPaid() {
		return true
	}
	b.UnpaidLeave.ThisMonth++
	return false
}

func (b *MonthlyBreakdown) countYearToDate(day ResolvedDay, lm *leavemaster.LeaveMaster) {
	switch day.Status {
	case DaySpecialLeave:
		b.SpecialLeave.UsedThisYear++
	case DayLeave:
		if lm == nil {
			b.UnpaidLeave.ThisYear++
			return
		}
		switch lm.Category {
		case leavemaster.CategoryCasual:
			b.CasualLeave.UsedThisYear++
		case leavemaster.CategorySick:
			b.SickLeave.UsedThisYear++
		case leavemaster.CategorySpecial:
			b.SpecialLeave.UsedThisYear++
		}
		if !lm.IsPaid() {
			b.UnpaidLeave.ThisYear++
		}
	}
}

// setAllowance fills the balance. A negative remainder is kept so overuse is visible.
func (c *LeaveCounter) setAllowance(allowance int) {
	c.AnnualAllowance = allowance
	c.RemainingBalance = allowance - c.UsedThisYear
}

// indexByDate keeps the employee's records and rejects two records on one date.
func indexByDate(records []Record, employeeID uuid.UUID) (map[string]*Record, error) {
	byDate := make(map[string]*Record, len(records))
	for i := range records {
		rec := records[i]
		if rec.EmployeeID != employeeID {
			continue
		}
		key := rec.Date.Format(workday.DateLayout)
		if _, exists := byDate[key]; exists {
			return nil, apperror.WithDetail(attendanceerrors.ErrDuplicateRecord, "date %s", key)
		}
		byDate[key] = &rec
	}
	return byDate, nil
}
