package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Broker carries encoded events between service instances.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Listen blocks until ctx is done, handing every received event to deliver.
	Listen(ctx context.Context, deliver func(topic string, payload []byte)) error
}

// Hub fans events out to local subscribers. With a nil broker it works
// in-process only.
type Hub struct {
	broker Broker
	buffer int
	log    *zap.Logger

	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
}

func NewHub(broker Broker, buffer int, log *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		broker: broker,
		buffer: buffer,
		log:    log,
		topics: make(map[string]map[*Subscription]struct{}),
	}
}

// Run pumps broker traffic into local subscribers until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	if h.broker == nil {
		<-ctx.Done()
		return nil
	}
	return h.broker.Listen(ctx, h.deliver)
}

func (h *Hub) Publish(ctx context.Context, topic string, evt Event) error {
	evt.Topic = topic
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UnixMilli()
	}

	if h.broker == nil {
		h.dispatch(evt)
		return nil
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := h.broker.Publish(ctx, topic, payload); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers for the given topics. The subscription ends on Close
// or when ctx is done.
func (h *Hub) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("subscribe: no topics")
	}

	sub := &Subscription{
		hub:    h,
		topics: topics,
		ch:     make(chan Event, h.buffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	for _, topic := range topics {
		subs, ok := h.topics[topic]
		if !ok {
			subs = make(map[*Subscription]struct{})
			h.topics[topic] = subs
		}
		subs[sub] = struct{}{}
	}
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

func (h *Hub) deliver(topic string, payload []byte) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		h.log.Warn("drop malformed realtime event", zap.String("topic", topic), zap.Error(err))
		return
	}
	evt.Topic = topic
	h.dispatch(evt)
}

func (h *Hub) dispatch(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.topics[evt.Topic] {
		select {
		case sub.ch <- evt:
		default:
			h.log.Debug("realtime subscriber is slow, event dropped",
				zap.String("topic", evt.Topic), zap.String("type", evt.Type))
		}
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range sub.topics {
		subs := h.topics[topic]
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// subscriberCount is used by tests.
func (h *Hub) subscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

type Subscription struct {
	hub    *Hub
	topics []string
	ch     chan Event
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Topics() []string {
	return s.topics
}

// Close unsubscribes and closes the event channel. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
		close(s.ch)
	})
}
