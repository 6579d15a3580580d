package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"inventario-go/core/event"
)

// subscription represents a single registration on one topic.
type subscription struct {
	id      SubscriptionID
	topic   event.Topic
	handler Handler
	active  atomic.Bool
}

// syncEventBus is the synchronous, ordered implementation of EventBus.
type syncEventBus struct {
	mu     sync.Mutex
	topics   map[event.Topic][]*subscription
	byID     map[SubscriptionID]*subscription
	nextID   atomic.Uint64
	failures atomic.Uint64
	closed   atomic.Bool
	logger   *slog.Logger
}

// New creates a new EventBus. Handler failures are reported through logger;
// pass nil to use slog.Default().
func New(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &syncEventBus{
		topics: make(map[event.Topic][]*subscription),
		byID:   make(map[SubscriptionID]*subscription),
		logger: logger,
	}
}

func (b *syncEventBus) Subscribe(topic event.Topic, handler Handler) SubscriptionID {
	if b.closed.Load() || handler == nil {
		return ""
	}

	sub := &subscription{
		id:      SubscriptionID(fmt.Sprintf("sub-%d", b.nextID.Add(1))),
		topic:   topic,
		handler: handler,
	}
	sub.active.Store(true)

	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], sub)
	b.byID[sub.id] = sub
	b.mu.Unlock()

	return sub.id
}

func (b *syncEventBus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.byID[id]
	if !ok {
		return
	}
	b.remove(sub)
}

// remove deactivates sub and drops it from both indexes. Callers hold b.mu.
func (b *syncEventBus) remove(sub *subscription) {
	sub.active.Store(false)
	delete(b.byID, sub.id)

	subs := b.topics[sub.topic]
	for i, s := range subs {
		if s.id == sub.id {
			b.topics[sub.topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.topics[sub.topic]) == 0 {
		delete(b.topics, sub.topic)
	}
}

func (b *syncEventBus) Publish(e event.Event) {
	if b.closed.Load() || e == nil {
		return
	}

	topic := e.EventTopic()

	// Snapshot the subscriber list so handlers may subscribe or unsubscribe
	// while dispatch is in flight. The active flag is re-checked before each
	// invocation: a subscription removed mid-publish is not called afterwards.
	b.mu.Lock()
	subs := make([]*subscription, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.Unlock()

	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		b.invoke(sub, e)
	}
}

// invoke calls the handler, converting a panic into a logged
// SubscriberInvocationError so delivery continues.
func (b *syncEventBus) invoke(sub *subscription, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			invErr := &SubscriberInvocationError{
				Topic:        e.EventTopic(),
				Subscription: sub.id,
				Panic:        r,
			}
			b.logger.Error("Event handler failed",
				"error", invErr, "total_failures", b.failures.Add(1))
		}
	}()
	sub.handler(e)
}

func (b *syncEventBus) Clear(topics ...event.Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(topics) == 0 {
		for _, subs := range b.topics {
			for _, sub := range subs {
				sub.active.Store(false)
			}
		}
		b.topics = make(map[event.Topic][]*subscription)
		b.byID = make(map[SubscriptionID]*subscription)
		return
	}

	for _, topic := range topics {
		for _, sub := range b.topics[topic] {
			sub.active.Store(false)
			delete(b.byID, sub.id)
		}
		delete(b.topics, topic)
	}
}

func (b *syncEventBus) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.Clear()
}
