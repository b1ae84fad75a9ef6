package events

import "time"

const (
	LeaveMasterChangedTopic = "hr.leave_master.changed.v1"

	LeaveMasterCreated = "leave_master.created"
	LeaveMasterUpdated = "leave_master.updated"
	LeaveMasterDeleted = "leave_master.deleted"
)

type LeaveMasterChangedEvent struct {
	EventType     string    `json:"event_type"`
	CompanyID     string    `json:"company_id"`
	LeaveMasterID string    `json:"leave_master_id"`
	Category      string    `json:"category"`
	OccurredAt    time.Time `json:"occurred_at"`
}
