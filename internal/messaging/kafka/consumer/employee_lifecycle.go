package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-hr-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type SalaryDefaulter interface {
	EnsureDefault(ctx context.Context, companyID, employeeID string, effective time.Time) (bool, error)
}

// EmployeeLifecycle gives every newly created employee a zero salary profile
// effective from the day the event is handled, so payroll previews flag the
// missing basic instead of failing.
func EmployeeLifecycle(salaries SalaryDefaulter, logger *zap.Logger) HandlerFunc {
	log := logger.Named("kafka.consumer.employee_lifecycle")

	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("decode employee lifecycle event: %w: %v", ErrSkip, err)
		}
		if event.EventType != events.EmployeeCreated {
			return nil
		}

		today := time.Now().UTC().Truncate(24 * time.Hour)
		created, err := salaries.EnsureDefault(ctx, event.CompanyID, event.EmployeeID, today)
		if err != nil {
			return err
		}

		if created {
			log.Info("default salary profile created",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
			)
		} else {
			log.Debug("salary profile already present, skipping",
				zap.String("employee_id", event.EmployeeID),
			)
		}
		return nil
	}
}
