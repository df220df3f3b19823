// Package redisbus carries the tutor's notifications over Redis pub/sub,
// so a practice session in one process can observe content reloads and
// lesson events produced by a service in another.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/sensei/pkg/ports"
)

const (
	// channelContentChanged carries catalog reload signals. The payload is
	// irrelevant; the message is a level.
	channelContentChanged = "sensei:content-changed"
	// channelSatisfied carries JSON TaskRefs for satisfied lesson events.
	channelSatisfied = "sensei:lesson-events"
	// channelNotified carries side-effect event names to whoever listens.
	channelNotified = "sensei:notified-events"
)

// Bus implements ports.ContentWatcher, ports.EventSource and
// ports.EventSink over Redis pub/sub.
type Bus struct {
	client *backend.Client
}

// New creates a bus with its own Redis client.
func New(address, password string, db int) *Bus {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return &Bus{client: rdb}
}

// NewFromClient creates a bus from an existing client.
func NewFromClient(client *backend.Client) *Bus {
	return &Bus{client: client}
}

// Watch subscribes to content-changed signals. The channel closes when
// ctx is done; a slow reader coalesces signals instead of blocking the
// subscription.
func (b *Bus) Watch(ctx context.Context) (<-chan struct{}, error) {
	sub := b.client.Subscribe(ctx, channelContentChanged)
	// Force the SUBSCRIBE round trip so failures surface here, not later.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, ports.NewServiceError("watch content", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Channel():
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

// SatisfiedEvents subscribes to lesson-event notifications. Messages that
// do not decode as a TaskRef are dropped.
func (b *Bus) SatisfiedEvents(ctx context.Context) (<-chan ports.TaskRef, error) {
	sub := b.client.Subscribe(ctx, channelSatisfied)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, ports.NewServiceError("watch lesson events", err)
	}

	out := make(chan ports.TaskRef, 4)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var ref ports.TaskRef
				if err := json.Unmarshal([]byte(msg.Payload), &ref); err != nil {
					continue
				}
				select {
				case out <- ref:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// NotifyEvent publishes a side-effect event. Zero subscribers means
// nobody cares about this event right now, which is the sink's
// "not interested" answer rather than a failure.
func (b *Bus) NotifyEvent(ctx context.Context, name string) error {
	receivers, err := b.client.Publish(ctx, channelNotified, name).Result()
	if err != nil {
		return ports.NewServiceError("notify event", err)
	}
	if receivers == 0 {
		return ports.ErrNotInterested
	}
	return nil
}

// PublishContentChanged signals all watchers that the catalog changed.
func (b *Bus) PublishContentChanged(ctx context.Context) error {
	if err := b.client.Publish(ctx, channelContentChanged, "changed").Err(); err != nil {
		return ports.NewServiceError("publish content changed", err)
	}
	return nil
}

// PublishSatisfied signals that a task's external event fired.
func (b *Bus) PublishSatisfied(ctx context.Context, ref ports.TaskRef) error {
	payload, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("marshal task ref: %w", err)
	}
	if err := b.client.Publish(ctx, channelSatisfied, payload).Err(); err != nil {
		return ports.NewServiceError("publish satisfied event", err)
	}
	return nil
}

// Close closes the underlying client.
func (b *Bus) Close() error {
	return b.client.Close()
}
