package attendance

import (
	"testing"

	attendanceerrors "go-hr-payroll/internal/attendance/errors"
	"go-hr-payroll/internal/leavemaster"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summaryFixture struct {
	employeeID uuid.UUID
	catalog    *leavemaster.Catalog
	records    []Record
}

func newSummaryFixture() summaryFixture {
	employeeID := uuid.New()
	casual := leavemaster.LeaveMaster{ID: uuid.New(), Name: "Casual", Category: leavemaster.CategoryCasual, PaymentStatus: leavemaster.PaymentPaid, AnnualAllowance: 12, IsActive: true}
	unpaid := leavemaster.LeaveMaster{ID: uuid.New(), Name: "Unpaid", Category: leavemaster.CategoryUnpaid, PaymentStatus: leavemaster.PaymentUnpaid, IsActive: true}
	sick := leavemaster.LeaveMaster{ID: uuid.New(), Name: "Sick", Category: leavemaster.CategorySick, PaymentStatus: leavemaster.PaymentPaid, AnnualAllowance: 6, IsActive: true}

	rec := func(date string, status RawStatus) Record {
		return Record{EmployeeID: employeeID, Date: day(date), Status: status}
	}

	full := rec("2025-03-03", RawFull)
	verified := rec("2025-03-04", RawFull)
	verified.Verified = true
	half := rec("2025-03-05", RawHalf)
	half.PunchIn, half.PunchOut, half.Verified = at("2025-03-05", "09:00"), at("2025-03-05", "13:00"), true
	casualLeave := rec("2025-03-07", RawLeave)
	casualLeave.LeaveMasterID = &casual.ID
	unpaidLeave := rec("2025-03-08", RawLeave)
	unpaidLeave.LeaveMasterID = &unpaid.ID
	openShift := rec("2025-03-10", RawFull)
	openShift.PunchIn = at("2025-03-10", "09:00")
	wfh := rec("2025-03-13", RawFull)
	wfh.Source = SourceWFH
	sundayWork := rec("2025-03-02", RawFull)
	sundayWork.PunchIn, sundayWork.PunchOut = at("2025-03-02", "09:00"), at("2025-03-02", "18:00")
	febCasual := rec("2025-02-10", RawLeave)
	febCasual.LeaveMasterID = &casual.ID

	other := Record{EmployeeID: uuid.New(), Date: day("2025-03-14"), Status: RawFull}

	return summaryFixture{
		employeeID: employeeID,
		catalog:    leavemaster.NewCatalog([]leavemaster.LeaveMaster{casual, unpaid, sick}),
		records: []Record{
			full, verified, half,
			rec("2025-03-06", RawMandatoryHoliday),
			casualLeave, unpaidLeave, openShift,
			rec("2025-03-11", RawHoliday),
			rec("2025-03-12", RawSpecialLeave),
			wfh, sundayWork, febCasual, other,
		},
	}
}

func TestAggregate_March(t *testing.T) {
	f := newSummaryFixture()

	b, err := Aggregate(f.records, f.catalog, 2025, 3, f.employeeID, Policy{CountOpenShiftAsPresent: true})

	require.NoError(t, err)
	assert.Equal(t, 31, b.DaysInMonth)
	assert.Equal(t, 5, b.Sundays)
	assert.Equal(t, HolidayCounts{Mandatory: 1, Special: 1, Company: 1}, b.Holidays)
	assert.Equal(t, 4, b.FullDaysWorked)
	assert.Equal(t, 0.5, b.HalfDaysWorked)
	assert.Equal(t, 1, b.WFHDays)
	assert.Equal(t, 1, b.OpenShiftDays)
	assert.Equal(t, LeaveCounter{TakenThisMonth: 1, UsedThisYear: 2, AnnualAllowance: 12, RemainingBalance: 10}, b.CasualLeave)
	assert.Equal(t, LeaveCounter{AnnualAllowance: 6, RemainingBalance: 6}, b.SickLeave)
	assert.Equal(t, 1, b.SpecialLeave.TakenThisMonth)
	assert.Equal(t, UnpaidLeave{ThisMonth: 1, ThisYear: 1}, b.UnpaidLeave)
	assert.Equal(t, 1, b.PaidLeaveDays)
	assert.Equal(t, 16, b.NotMarkedDays)
	assert.Equal(t, 24, b.TotalWorkingDays)
	assert.Equal(t, 6.5, b.EffectivePaidDays)
	assert.Equal(t, 17.5, b.DaysToDeduct)
	assert.Equal(t, 27.1, b.AttendancePercentage)
	assert.Len(t, b.Days, 31)
}

func TestAggregate_OpenShiftPolicy(t *testing.T) {
	f := newSummaryFixture()

	b, err := Aggregate(f.records, f.catalog, 2025, 3, f.employeeID, Policy{CountOpenShiftAsPresent: false})

	require.NoError(t, err)
	assert.Equal(t, 3, b.FullDaysWorked)
	assert.Equal(t, 1, b.OpenShiftDays)
	assert.Equal(t, 5.5, b.EffectivePaidDays)
}

func TestAggregate_WorkingDaysInvariant(t *testing.T) {
	f := newSummaryFixture()

	for month := 1; month <= 12; month++ {
		b, err := Aggregate(f.records, f.catalog, 2025, month, f.employeeID, Policy{CountOpenShiftAsPresent: true})
		require.NoError(t, err)

		assert.Equal(t, b.DaysInMonth-b.Sundays-(b.Holidays.Mandatory+b.Holidays.Special), b.TotalWorkingDays, "month %d", month)
		assert.GreaterOrEqual(t, b.DaysToDeduct, 0.0, "month %d", month)
		assert.LessOrEqual(t, b.EffectivePaidDays, float64(b.TotalWorkingDays), "month %d", month)
	}
}

func TestAggregate_ZeroWorkingDays(t *testing.T) {
	employeeID := uuid.New()
	var records []Record
	for d := day("2025-02-01"); d.Month() == 2; d = d.AddDate(0, 0, 1) {
		records = append(records, Record{EmployeeID: employeeID, Date: d, Status: RawMandatoryHoliday})
	}

	b, err := Aggregate(records, nil, 2025, 2, employeeID, Policy{})

	require.NoError(t, err)
	assert.Equal(t, 0, b.TotalWorkingDays)
	assert.Equal(t, 0.0, b.AttendancePercentage)
	assert.Equal(t, 0.0, b.DaysToDeduct)
}

func TestAggregate_InputContract(t *testing.T) {
	employeeID := uuid.New()

	t.Run("invalid month", func(t *testing.T) {
		_, err := Aggregate(nil, nil, 2025, 13, employeeID, Policy{})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidPeriod)
	})

	t.Run("zero month", func(t *testing.T) {
		_, err := Aggregate(nil, nil, 2025, 0, employeeID, Policy{})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidPeriod)
	})

	t.Run("duplicate date", func(t *testing.T) {
		records := []Record{
			{EmployeeID: employeeID, Date: day("2025-03-03"), Status: RawFull},
			{EmployeeID: employeeID, Date: day("2025-03-03"), Status: RawHalf},
		}
		_, err := Aggregate(records, nil, 2025, 3, employeeID, Policy{})
		assert.ErrorIs(t, err, attendanceerrors.ErrDuplicateRecord)
	})

	t.Run("same date for another employee is not a duplicate", func(t *testing.T) {
		records := []Record{
			{EmployeeID: employeeID, Date: day("2025-03-03"), Status: RawFull},
			{EmployeeID: uuid.New(), Date: day("2025-03-03"), Status: RawHalf},
		}
		b, err := Aggregate(records, nil, 2025, 3, employeeID, Policy{})
		require.NoError(t, err)
		assert.Equal(t, 1, b.FullDaysWorked)
		assert.Zero(t, b.HalfDaysWorked)
	})
}

func TestAggregate_LeaveWithoutMasterIsUnpaid(t *testing.T) {
	employeeID := uuid.New()
	unknown := uuid.New()
	records := []Record{
		{EmployeeID: employeeID, Date: day("2025-03-03"), Status: RawLeave},
		{EmployeeID: employeeID, Date: day("2025-03-04"), Status: RawLeave, LeaveMasterID: &unknown},
	}

	b, err := Aggregate(records, leavemaster.NewCatalog(nil), 2025, 3, employeeID, Policy{})

	require.NoError(t, err)
	assert.Equal(t, 2, b.UnpaidLeave.ThisMonth)
	assert.Zero(t, b.PaidLeaveDays)
	assert.Zero(t, b.EffectivePaidDays)
}
