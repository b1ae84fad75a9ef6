package attendance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]RawStatus{
		"FULL":              RawFull,
		" Present ":         RawPresent,
		"Half Day":          RawHalf,
		"mandatory-holiday": RawMandatoryHoliday,
		"Special Leave":     RawSpecialLeave,
		"special":           RawSpecialLeave,
		"something_else":    RawStatus("something_else"),
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeStatus(in), in)
	}
}

func TestNormalizeRow_FieldAliases(t *testing.T) {
	employeeID := uuid.New()
	leaveID := uuid.New()

	rec, err := NormalizeRow(map[string]any{
		"employee":            employeeID.String(),
		"attendance_date":     "2025-03-04",
		"attendance_status":   "Half Day",
		"check_in":            "09:15",
		"clock_out":           "2025-03-04 13:00:00",
		"verification_status": "verified",
		"leave_type_id":       leaveID.String(),
		"work_mode":           "wfh",
	}, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, employeeID, rec.EmployeeID)
	assert.Equal(t, "2025-03-04", rec.Date.Format("2006-01-02"))
	assert.Equal(t, RawHalf, rec.Status)
	require.NotNil(t, rec.PunchIn)
	assert.Equal(t, 9, rec.PunchIn.Hour())
	assert.Equal(t, 15, rec.PunchIn.Minute())
	require.NotNil(t, rec.PunchOut)
	assert.Equal(t, 13, rec.PunchOut.Hour())
	assert.True(t, rec.Verified)
	assert.Equal(t, &leaveID, rec.LeaveMasterID)
	assert.Equal(t, SourceWFH, rec.Source)
}

func TestNormalizeRow_PrimaryFieldWins(t *testing.T) {
	rec, err := NormalizeRow(map[string]any{
		"employee_id":       uuid.NewString(),
		"date":              "2025-03-04",
		"status":            "full",
		"attendance_status": "half",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, RawFull, rec.Status)
}

func TestNormalizeRow_MalformedPunchIsAbsent(t *testing.T) {
	rec, err := NormalizeRow(map[string]any{
		"employee_id": uuid.NewString(),
		"date":        "2025-03-04",
		"status":      "full",
		"punch_in":    "not-a-time",
		"punch_out":   "   ",
		"verified":    true,
	}, time.UTC)

	require.NoError(t, err)
	assert.Nil(t, rec.PunchIn)
	assert.Nil(t, rec.PunchOut)
	assert.True(t, rec.Verified)
	assert.Equal(t, DayVerified, Resolve(&rec, rec.Date, nil))
}

func TestNormalizeRow_RequiresEmployeeAndDate(t *testing.T) {
	_, err := NormalizeRow(map[string]any{"date": "2025-03-04"}, time.UTC)
	assert.Error(t, err)

	_, err = NormalizeRow(map[string]any{"employee_id": uuid.NewString(), "date": "04/03/2025"}, time.UTC)
	assert.Error(t, err)
}

func TestAttendance_ToRecord(t *testing.T) {
	in := time.Date(2025, 3, 4, 2, 0, 0, 0, time.UTC)
	row := Attendance{
		EmployeeID:     uuid.New(),
		AttendanceDate: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:         "Present",
		PunchIn:        &in,
		Verification:   VerificationVerified,
		Source:         "mobile",
	}

	rec := row.ToRecord()

	assert.Equal(t, RawPresent, rec.Status)
	assert.True(t, rec.Verified)
	assert.True(t, rec.HasPunchIn())
	assert.False(t, rec.HasPunchOut())
	assert.Equal(t, SourceMobile, rec.Source)
}
