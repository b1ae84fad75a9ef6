package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-hr-payroll/internal/shared/workday"

	"github.com/google/uuid"
)

// Record is the single shape the resolver and aggregator read. Every source of
// attendance data is normalized into it before any classification happens.
type Record struct {
	EmployeeID    uuid.UUID
	Date          time.Time
	Status        RawStatus
	PunchIn       *time.Time
	PunchOut      *time.Time
	Verified      bool
	LeaveMasterID *uuid.UUID
	Source        string
}

func (r Record) HasPunchIn() bool {
	return r.PunchIn != nil && !r.PunchIn.IsZero()
}

func (r Record) HasPunchOut() bool {
	return r.PunchOut != nil && !r.PunchOut.IsZero()
}

// ToRecord normalizes a stored row.
func (a Attendance) ToRecord() Record {
	return Record{
		EmployeeID:    a.EmployeeID,
		Date:          workday.Truncate(a.AttendanceDate),
		Status:        NormalizeStatus(string(a.Status)),
		PunchIn:       a.PunchIn,
		PunchOut:      a.PunchOut,
		Verified:      a.IsVerified(),
		LeaveMasterID: a.LeaveMasterID,
		Source:        strings.ToUpper(strings.TrimSpace(a.Source)),
	}
}

func ToRecords(rows []Attendance) []Record {
	out := make([]Record, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.ToRecord())
	}
	return out
}

var statusAliases = map[string]RawStatus{
	"full_day":        RawFull,
	"fullday":         RawFull,
	"half_day":        RawHalf,
	"halfday":         RawHalf,
	"on_leave":        RawLeave,
	"mandatory":       RawMandatoryHoliday,
	"mandatory_leave": RawMandatoryHoliday,
	"special":         RawSpecialLeave,
	"special_holiday": RawSpecialLeave,
}

// NormalizeStatus lowercases a status code and folds spaces, hyphens and known
// aliases. Unknown codes are kept so the resolver can classify them as not marked.
func NormalizeStatus(s string) RawStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if alias, ok := statusAliases[s]; ok {
		return alias
	}
	return RawStatus(s)
}

// Row field aliases accepted from legacy clients and imports, in lookup order.
var (
	employeeKeys     = []string{"employee_id", "employee", "emp_id"}
	dateKeys         = []string{"date", "attendance_date", "day"}
	statusKeys       = []string{"status", "attendance_status", "day_status"}
	punchInKeys      = []string{"punch_in", "punch_in_time", "check_in", "clock_in"}
	punchOutKeys     = []string{"punch_out", "punch_out_time", "check_out", "clock_out"}
	verificationKeys = []string{"verification", "verification_status", "verified", "is_verified"}
	leaveMasterKeys  = []string{"leave_master_id", "leave_master", "leave_type_id"}
	sourceKeys       = []string{"source", "work_mode"}
)

// NormalizeRow converts a loosely typed row into a Record. Missing or invalid
// employee id and date are input errors; malformed punch values become absent.
func NormalizeRow(row map[string]any, loc *time.Location) (Record, error) {
	var rec Record

	employeeID, err := uuid.Parse(firstString(row, employeeKeys))
	if err != nil {
		return rec, fmt.Errorf("employee id: %w", err)
	}
	rec.EmployeeID = employeeID

	date, err := workday.ParseDate(firstString(row, dateKeys))
	if err != nil {
		return rec, fmt.Errorf("date: %w", err)
	}
	rec.Date = date

	rec.Status = NormalizeStatus(firstString(row, statusKeys))
	rec.PunchIn = parsePunch(date, firstString(row, punchInKeys), loc)
	rec.PunchOut = parsePunch(date, firstString(row, punchOutKeys), loc)
	rec.Verified = parseVerified(first(row, verificationKeys))
	rec.Source = strings.ToUpper(firstString(row, sourceKeys))

	if id, err := uuid.Parse(firstString(row, leaveMasterKeys)); err == nil {
		rec.LeaveMasterID = &id
	}

	return rec, nil
}

func first(row map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
				continue
			}
			return v
		}
	}
	return nil
}

func firstString(row map[string]any, keys []string) string {
	switch v := first(row, keys).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func parseVerified(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == VerificationVerified {
			return true
		}
		b, err := strconv.ParseBool(s)
		return err == nil && b
	case float64:
		return t != 0
	}
	return false
}

var punchLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

var clockLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM"}

// parsePunch accepts full timestamps or a wall clock on date. Anything else is absent.
func parsePunch(date time.Time, s string, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range punchLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			t := time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc)
			return &t
		}
	}
	return nil
}
