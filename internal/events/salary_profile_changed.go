package events

import "time"

const (
	SalaryProfileChangedTopic = "hr.salary_profile.changed.v1"

	SalaryProfileCreated = "salary_profile.created"
	SalaryProfileUpdated = "salary_profile.updated"
	SalaryProfileDeleted = "salary_profile.deleted"
)

type SalaryProfileChangedEvent struct {
	EventType       string    `json:"event_type"`
	CompanyID       string    `json:"company_id"`
	EmployeeID      string    `json:"employee_id"`
	SalaryProfileID string    `json:"salary_profile_id"`
	OccurredAt      time.Time `json:"occurred_at"`
}
