package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes deletion events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher for the given channel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

var _ Publisher = (*RedisPublisher)(nil)

// PublishDeleted broadcasts the deletion event as JSON.
func (p *RedisPublisher) PublishDeleted(ctx context.Context, ev DocumentDeletedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode deletion event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish deletion event: %w", err)
	}
	return nil
}

// NopPublisher drops every event. Used when asynchronous purge is disabled
// or no event bus is configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) PublishDeleted(context.Context, DocumentDeletedEvent) error {
	return nil
}
