package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out to a Redis pub/sub channel as JSON.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
	timeout time.Duration
}

// NewRedisPublisher returns a publisher for channel. A positive timeout bounds
// each publish independently of the caller's deadline.
func NewRedisPublisher(client redis.UniversalClient, channel string, timeout time.Duration) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, timeout: timeout}
}

// Handle is an EventHandler that publishes the event.
func (p *RedisPublisher) Handle(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	return nil
}

// Channel returns the target channel name.
func (p *RedisPublisher) Channel() string {
	return p.channel
}
