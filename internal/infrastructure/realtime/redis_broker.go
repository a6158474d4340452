package realtime

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

const channelPrefix = "collabswipe:rt:"

type RedisBroker struct {
	client *goredis.Client
}

func NewRedisBroker(client *goredis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	return b.client.Publish(ctx, channelPrefix+topic, payload).Err()
}

func (b *RedisBroker) Listen(ctx context.Context, deliver func(topic string, payload []byte)) error {
	ps := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe realtime channel: %w", err)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			deliver(strings.TrimPrefix(msg.Channel, channelPrefix), []byte(msg.Payload))
		}
	}
}
