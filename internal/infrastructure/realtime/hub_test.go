package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHubInProcessDelivery(t *testing.T) {
	hub := NewHub(nil, 4, zap.NewNop())
	ctx := context.Background()
	topic := UserTopic(uuid.New())

	sub, err := hub.Subscribe(ctx, topic)
	require.NoError(t, err)
	defer sub.Close()

	other, err := hub.Subscribe(ctx, "conversation:other")
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, hub.Publish(ctx, topic, Event{Type: EventMatchCreated, Data: map[string]any{"match_id": "m1"}}))

	evt := receive(t, sub)
	assert.Equal(t, EventMatchCreated, evt.Type)
	assert.Equal(t, topic, evt.Topic)
	assert.NotZero(t, evt.Timestamp)
	assert.Equal(t, "m1", evt.Data["match_id"])

	select {
	case evt := <-other.Events():
		t.Fatalf("unexpected event on other topic: %+v", evt)
	default:
	}
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	hub := NewHub(nil, 1, nil)
	sub, err := hub.Subscribe(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, hub.subscriberCount("a"))

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.subscriberCount("a"))
	assert.Equal(t, 0, hub.subscriberCount("b"))
	_, ok := <-sub.Events()
	assert.False(t, ok)

	require.NoError(t, hub.Publish(context.Background(), "a", Event{Type: "x"}))
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	hub := NewHub(nil, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := hub.Subscribe(ctx, "a")
	require.NoError(t, err)

	cancel()

	require.Eventually(t, func() bool { return hub.subscriberCount("a") == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-sub.Events()
	assert.False(t, ok)
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	hub := NewHub(nil, 1, nil)
	ctx := context.Background()
	sub, err := hub.Subscribe(ctx, "a")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, hub.Publish(ctx, "a", Event{Type: "first"}))
	require.NoError(t, hub.Publish(ctx, "a", Event{Type: "second"}))

	assert.Equal(t, "first", receive(t, sub).Type)
	select {
	case evt := <-sub.Events():
		t.Fatalf("expected drop, got %+v", evt)
	default:
	}
}

func TestSubscribeRequiresTopic(t *testing.T) {
	_, err := NewHub(nil, 1, nil).Subscribe(context.Background())
	assert.Error(t, err)
}

func TestHubOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	publisher := NewHub(NewRedisBroker(client), 8, zap.NewNop())
	receiver := NewHub(NewRedisBroker(client), 8, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = receiver.Run(ctx) }()

	sub, err := receiver.Subscribe(ctx, "task:42")
	require.NoError(t, err)
	defer sub.Close()

	var got Event
	require.Eventually(t, func() bool {
		_ = publisher.Publish(ctx, "task:42", Event{Type: EventCommentCreated})
		select {
		case got = <-sub.Events():
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 50*time.Millisecond)

	assert.Equal(t, EventCommentCreated, got.Type)
	assert.Equal(t, "task:42", got.Topic)
}
