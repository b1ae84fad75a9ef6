package events

import "time"

const (
	PayrollLockedTopic = "hr.payroll.locked.v1"

	PayrollLocked = "payroll.locked"
)

type PayrollLockedEvent struct {
	EventType    string    `json:"event_type"`
	CompanyID    string    `json:"company_id"`
	PayrollID    string    `json:"payroll_id"`
	EmployeeID   string    `json:"employee_id"`
	Period       string    `json:"period"`
	Version      int       `json:"version"`
	SupersedesID string    `json:"supersedes_id,omitempty"`
	NetPay       string    `json:"net_pay"`
	LockedBy     string    `json:"locked_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
