package consumer

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrSkip marks a message that can never be processed. It is committed so
// the group moves past it.
var ErrSkip = errors.New("skip message")

// MessageReader is the part of *kafkago.Reader a consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

// Run fetches messages until ctx is done. A message is committed after handle
// succeeds or returns ErrSkip; any other error leaves it uncommitted so it is
// redelivered after a rebalance or restart.
func Run(ctx context.Context, name string, reader MessageReader, handle HandlerFunc, logger *zap.Logger) {
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handle(ctx, msg); err != nil {
			if !errors.Is(err, ErrSkip) {
				log.Error("handle message failed",
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
				continue
			}
			log.Warn("message skipped",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}
