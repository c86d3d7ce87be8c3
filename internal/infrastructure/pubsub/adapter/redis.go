package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"

	"go-huddle/internal/infrastructure/pubsub/port"
)

// RedisPubSub satisfies the port.PubSub interface using Redis Pub/Sub.
// Channels are plain Redis channels; fan-out to N subscribers is handled by
// the server, delivery is fire-and-forget.
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSubFromEnv constructs the adapter from the REDIS_URL environment
// variable and verifies connectivity with a ping.
func NewRedisPubSubFromEnv() (*RedisPubSub, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, errors.New("pubsub: REDIS_URL environment variable is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("pubsub: parse url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("pubsub: ping: %w", err)
	}
	return &RedisPubSub{client: c}, nil
}

var _ port.PubSub = (*RedisPubSub)(nil)

func (r *RedisPubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	return r.client.Publish(ctx, channel, payload).Err()
}

func (r *RedisPubSub) Subscribe(ctx context.Context, channels ...string) (port.Subscription, error) {
	if len(channels) == 0 {
		return nil, errors.New("pubsub: at least one channel is required")
	}
	ps := r.client.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("pubsub: subscribe: %w", err)
	}
	return newRedisSubscription(ps), nil
}

func (r *RedisPubSub) PSubscribe(ctx context.Context, patterns ...string) (port.Subscription, error) {
	if len(patterns) == 0 {
		return nil, errors.New("pubsub: at least one pattern is required")
	}
	ps := r.client.PSubscribe(ctx, patterns...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("pubsub: psubscribe: %w", err)
	}
	return newRedisSubscription(ps), nil
}

func (r *RedisPubSub) Close() error {
	return r.client.Close()
}

type redisSubscription struct {
	ps       *redis.PubSub
	messages chan port.Message
	done     chan struct{}
}

func newRedisSubscription(ps *redis.PubSub) *redisSubscription {
	s := &redisSubscription{
		ps:       ps,
		messages: make(chan port.Message, 64),
		done:     make(chan struct{}),
	}
	go s.pump()
	return s
}

func (s *redisSubscription) pump() {
	defer close(s.messages)
	ch := s.ps.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			select {
			case s.messages <- port.Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
			case <-s.done:
				return
			}
		}
	}
}

func (s *redisSubscription) Messages() <-chan port.Message {
	return s.messages
}

func (s *redisSubscription) Close() error {
	close(s.done)
	return s.ps.Close()
}
