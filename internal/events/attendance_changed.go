package events

import "time"

const (
	AttendanceChangedTopic = "hr.attendance.changed.v1"

	AttendancePunchedIn     = "attendance.punched_in"
	AttendancePunchedOut    = "attendance.punched_out"
	AttendanceStatusChanged = "attendance.status_changed"
	AttendanceVerified      = "attendance.verified"
	AttendanceImported      = "attendance.imported"
)

// AttendanceChangedEvent is emitted for every write to an attendance record.
// Payroll previews for the employee are stale once it is seen.
type AttendanceChangedEvent struct {
	EventType    string    `json:"event_type"`
	CompanyID    string    `json:"company_id"`
	EmployeeID   string    `json:"employee_id"`
	AttendanceID string    `json:"attendance_id"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	ActorID      string    `json:"actor_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
