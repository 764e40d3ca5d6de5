package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/usecase"
)

// redisPublisher fans domain events out over redis pub/sub channels.
type redisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPublisher creates a new redis-backed publisher
func NewPublisher(client *redis.Client, logger *zap.Logger) usecase.Publisher {
	return &redisPublisher{
		client: client,
		logger: logger,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	if err := p.client.Publish(ctx, topic, encoded).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.Debug("event published", zap.String("topic", topic))
	return nil
}
