package service

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/totegamma/rdmc-registry/internal/domain"
)

const IngestChannel = "rdmc:ingest"

// ErrSignalDisabled is returned by Subscribe when no redis client is configured.
var ErrSignalDisabled = errors.New("signal service is disabled")

type SignalService struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewSignalService returns a service publishing on redis. A nil client
// makes every publish a no-op.
func NewSignalService(redisClient *redis.Client, logger *zap.Logger) *SignalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignalService{
		rdb:    redisClient,
		logger: logger,
	}
}

func (s *SignalService) Enabled() bool {
	return s != nil && s.rdb != nil
}

func (s *SignalService) PublishIngest(ctx context.Context, event domain.IngestEvent) error {
	if !s.Enabled() {
		return nil
	}

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, IngestChannel, jsonstr).Err()
	if err != nil {
		return errors.Wrap(err, "publish ingest event")
	}

	return nil
}

// Subscribe forwards raw ingest event payloads to handle until ctx is done
// or handle returns an error.
func (s *SignalService) Subscribe(ctx context.Context, handle func(payload []byte) error) error {
	if !s.Enabled() {
		return ErrSignalDisabled
	}

	pubsub := s.rdb.Subscribe(ctx, IngestChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return errors.Wrap(err, "subscribe ingest channel")
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := handle([]byte(msg.Payload)); err != nil {
				s.logger.Debug("ingest subscriber stopped", zap.Error(err))
				return nil
			}
		}
	}
}
