package notify

// Package notify carries new-message notices between the message service and
// live subscribers over Redis pub/sub. Channels are per-user so a subscriber
// only sees its own traffic.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/solenne/boutique/internal/domain/model"
)

const channelPrefix = "notify:messages:"

// RedisNotifier implements core.NoticePublisher and core.NoticeSubscriber
// over Redis pub/sub.
type RedisNotifier struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewRedisNotifier constructs a notifier on the given client.
func NewRedisNotifier(client redis.UniversalClient, logger *slog.Logger) *RedisNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisNotifier{client: client, logger: logger}
}

// Publish sends the notice to the recipient's channel.
func (n *RedisNotifier) Publish(ctx context.Context, notice model.MessageNotice) error {
	if notice.UserID == "" {
		return errors.New("notice user ID is required")
	}
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	return n.client.Publish(ctx, channelPrefix+notice.UserID, data).Err()
}

// SubscribeAll delivers every user's notices until ctx is cancelled. Used by
// the notifier worker for the delivery audit stream.
func (n *RedisNotifier) SubscribeAll(ctx context.Context) (<-chan model.MessageNotice, error) {
	sub := n.client.PSubscribe(ctx, channelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		if closeErr := sub.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close subscription: %w", closeErr))
		}
		return nil, fmt.Errorf("psubscribe: %w", err)
	}

	out := make(chan model.MessageNotice)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				n.logger.Warn("closing notification firehose failed", "error", err)
			}
		}()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var notice model.MessageNotice
				if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
					n.logger.Warn("dropping malformed notice", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- notice:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Subscribe delivers notices for userID until ctx is cancelled. The Redis
// subscription and the returned channel are both closed on cancellation so
// nothing leaks across navigations.
func (n *RedisNotifier) Subscribe(ctx context.Context, userID string) (<-chan model.MessageNotice, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	sub := n.client.Subscribe(ctx, channelPrefix+userID)
	// Force the subscription to establish before we report success.
	if _, err := sub.Receive(ctx); err != nil {
		if closeErr := sub.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close subscription: %w", closeErr))
		}
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan model.MessageNotice)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				n.logger.Warn("closing notification subscription failed", "user_id", userID, "error", err)
			}
		}()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var notice model.MessageNotice
				if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
					n.logger.Warn("dropping malformed notice", "user_id", userID, "error", err)
					continue
				}
				select {
				case out <- notice:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
