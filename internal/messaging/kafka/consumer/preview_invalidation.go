package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-hr-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PreviewInvalidator moves the generation counters payroll preview cache keys
// are built from.
type PreviewInvalidator interface {
	BumpEmployee(ctx context.Context, companyID, employeeID string) error
	BumpCompany(ctx context.Context, companyID string) error
}

// PreviewInvalidationTopics lists every topic whose events make cached
// previews stale.
var PreviewInvalidationTopics = []string{
	events.AttendanceChangedTopic,
	events.SalaryProfileChangedTopic,
	events.LeaveMasterChangedTopic,
}

type scopedEvent struct {
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
}

// PreviewInvalidation drops cached previews touched by an event. Attendance
// and salary changes affect one employee; a leave master change can reclassify
// days for the whole company.
func PreviewInvalidation(cache PreviewInvalidator, logger *zap.Logger) HandlerFunc {
	log := logger.Named("kafka.consumer.preview_invalidation")

	return func(ctx context.Context, msg kafkago.Message) error {
		var event scopedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("decode %s event: %w: %v", msg.Topic, ErrSkip, err)
		}
		if event.CompanyID == "" {
			return fmt.Errorf("%s event without company: %w", msg.Topic, ErrSkip)
		}

		switch msg.Topic {
		case events.AttendanceChangedTopic, events.SalaryProfileChangedTopic:
			if event.EmployeeID == "" {
				return fmt.Errorf("%s event without employee: %w", msg.Topic, ErrSkip)
			}
			if err := cache.BumpEmployee(ctx, event.CompanyID, event.EmployeeID); err != nil {
				return err
			}
			log.Debug("employee previews invalidated",
				zap.String("topic", msg.Topic),
				zap.String("company_id", event.CompanyID),
				zap.String("employee_id", event.EmployeeID),
			)
		case events.LeaveMasterChangedTopic:
			if err := cache.BumpCompany(ctx, event.CompanyID); err != nil {
				return err
			}
			log.Debug("company previews invalidated", zap.String("company_id", event.CompanyID))
		default:
			return fmt.Errorf("unexpected topic %q: %w", msg.Topic, ErrSkip)
		}
		return nil
	}
}
