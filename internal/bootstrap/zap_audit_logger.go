package bootstrap

import (
	"context"
	"time"

	"go-hr-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ZapAuditLogger writes audit entries as structured log lines.
type ZapAuditLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewZapAuditLogger(logger *zap.Logger) *ZapAuditLogger {
	if logger == nil {
		logger = zap.L()
	}
	return &ZapAuditLogger{logger: logger.Named("audit"), now: time.Now}
}

func (l *ZapAuditLogger) Log(ctx context.Context, entry AuditLog) {
	meta := contextutil.ExtractMetadata(ctx)
	fields := []zap.Field{
		zap.Time("at", l.now().UTC()),
		zap.String("action", entry.Action),
		zap.Any("meta", entry.Meta),
	}
	if meta.RequestID != "" {
		fields = append(fields, zap.String("request_id", meta.RequestID))
	}
	if meta.ActorID != "" {
		fields = append(fields, zap.String("actor_id", meta.ActorID))
	}
	l.logger.Info(entry.Message, fields...)
}
