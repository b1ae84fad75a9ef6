package contextutil

import (
	"context"

	"go.uber.org/zap"
)

// private key type so values never collide with other packages
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	companyIDKey contextKey = "company_id"
	actorIDKey   contextKey = "actor_id"
	loggerKey    contextKey = "logger"
)

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

func WithCompanyID(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyIDKey, companyID)
}

func GetCompanyID(ctx context.Context) string {
	if cid, ok := ctx.Value(companyIDKey).(string); ok {
		return cid
	}
	return ""
}

// WithActorID stores the id of the person performing the request (admin or employee).
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

func GetActorID(ctx context.Context) string {
	if aid, ok := ctx.Value(actorIDKey).(string); ok {
		return aid
	}
	return ""
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request scoped logger, falling back to defaultLogger
// and finally to a no-op logger so callers never get nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}

type Metadata struct {
	RequestID string
	CompanyID string
	ActorID   string
}

func ExtractMetadata(ctx context.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(ctx),
		CompanyID: GetCompanyID(ctx),
		ActorID:   GetActorID(ctx),
	}
}
